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

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/gateway"
)

// WriteGatewayResults writes one line per check and a summary
func WriteGatewayResults(w io.Writer, composeFile string, results []gateway.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n🛡️  Gateway configuration: %s\n\n%s\n", composeFile, Rule)
	for _, r := range results {
		if r.Passed {
			fmt.Fprintf(&b, "   ✅ %s\n", r.Name)
			continue
		}
		fmt.Fprintf(&b, "   ❌ %s\n", r.Name)
		if r.Message != "" {
			fmt.Fprintf(&b, "   └─ %s\n", r.Message)
		}
	}

	failed := gateway.Failed(results)
	fmt.Fprintf(&b, "\n%s\n", Rule)
	fmt.Fprintf(&b, "%d/%d checks passed\n", len(results)-failed, len(results))

	_, err := io.WriteString(w, b.String())
	return err
}
