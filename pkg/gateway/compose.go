/*
Copyright 2025 The AlaudaDevops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package gateway validates the docker-compose deployment of the gateway
package gateway

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Compose is the subset of a compose file that is checked
type Compose struct {
	Services map[string]*Service `yaml:"services"`
}

// Service is a compose service definition
type Service struct {
	Command     Command     `yaml:"command"`
	Environment Environment `yaml:"environment"`
	User        Scalar      `yaml:"user"`
	Tmpfs       StringList  `yaml:"tmpfs"`
	Volumes     Volumes     `yaml:"volumes"`
	Ports       Ports       `yaml:"ports"`
	ReadOnly    bool        `yaml:"read_only"`
	CapDrop     StringList  `yaml:"cap_drop"`
}

// LoadCompose reads and parses a compose file
func LoadCompose(path string) (*Compose, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", err)
	}

	var compose Compose
	if err := yaml.Unmarshal(data, &compose); err != nil {
		return nil, fmt.Errorf("failed to parse compose file %s: %w", path, err)
	}
	return &compose, nil
}

// Service returns the named service or an error listing the defined ones
func (c *Compose) Service(name string) (*Service, error) {
	if svc, ok := c.Services[name]; ok && svc != nil {
		return svc, nil
	}
	names := make([]string, 0, len(c.Services))
	for n := range c.Services {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("service %s not found in compose file (services: %s)", name, strings.Join(names, ", "))
}

// Scalar accepts any YAML scalar, e.g. `user: 501` or `user: "501:20"`
type Scalar string

// UnmarshalYAML implements yaml.Unmarshaler
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	*s = Scalar(node.Value)
	return nil
}

// StringList accepts a single string or a list of strings
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	items, err := decodeList(node, nil)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// Command is a compose command; the string form is split like a shell would
type Command []string

// UnmarshalYAML implements yaml.Unmarshaler
func (c *Command) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		args, err := shlex.Split(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: invalid command: %w", node.Line, err)
		}
		*c = args
		return nil
	}
	items, err := decodeList(node, nil)
	if err != nil {
		return err
	}
	*c = items
	return nil
}

// Index returns the position of arg, or -1
func (c Command) Index(arg string) int {
	for i, a := range c {
		if a == arg {
			return i
		}
	}
	return -1
}

// Value returns the argument following flag, accepting "--flag value" and "--flag=value"
func (c Command) Value(flag string) (string, bool) {
	for i, a := range c {
		if a == flag && i+1 < len(c) {
			return c[i+1], true
		}
		if value, ok := strings.CutPrefix(a, flag+"="); ok {
			return value, true
		}
	}
	return "", false
}

// Environment is a list of KEY=VALUE entries; the mapping form is converted
type Environment []string

// UnmarshalYAML implements yaml.Unmarshaler
func (e *Environment) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var entries []string
		for i := 0; i+1 < len(node.Content); i += 2 {
			entries = append(entries, node.Content[i].Value+"="+node.Content[i+1].Value)
		}
		*e = entries
		return nil
	}
	items, err := decodeList(node, nil)
	if err != nil {
		return err
	}
	*e = items
	return nil
}

// Volumes are rendered in the short "source:target[:mode]" syntax
type Volumes []string

// UnmarshalYAML implements yaml.Unmarshaler
func (v *Volumes) UnmarshalYAML(node *yaml.Node) error {
	items, err := decodeList(node, func(m map[string]string) string {
		return joinNonEmpty(":", m["source"], m["target"])
	})
	if err != nil {
		return err
	}
	*v = items
	return nil
}

// Ports are rendered in the short "[host_ip:]published:target" syntax
type Ports []string

// UnmarshalYAML implements yaml.Unmarshaler
func (p *Ports) UnmarshalYAML(node *yaml.Node) error {
	items, err := decodeList(node, func(m map[string]string) string {
		return joinNonEmpty(":", m["host_ip"], m["published"], m["target"])
	})
	if err != nil {
		return err
	}
	*p = items
	return nil
}

// decodeList decodes a scalar or a sequence of scalars.
// Mapping items are rendered with long, and rejected when long is nil.
func decodeList(node *yaml.Node, long func(map[string]string) string) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			switch {
			case item.Kind == yaml.ScalarNode:
				items = append(items, item.Value)
			case item.Kind == yaml.MappingNode && long != nil:
				var m map[string]string
				if err := item.Decode(&m); err != nil {
					return nil, fmt.Errorf("line %d: %w", item.Line, err)
				}
				items = append(items, long(m))
			default:
				return nil, fmt.Errorf("line %d: unexpected list item", item.Line)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("line %d: expected a string or a list", node.Line)
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
