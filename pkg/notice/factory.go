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

// Package notice sends the triage summary to chat webhooks
package notice

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/config"
	"github.com/AlaudaDevops/toolbox/devinfra/pkg/triage"
)

// Summary is the content of a triage notification
type Summary struct {
	// Repo is the "owner/name" of the triaged repository
	Repo string
	// Result is the classified pull requests
	Result triage.Result
}

// Notifier delivers a triage summary
type Notifier interface {
	Notify(ctx context.Context, summary Summary) error
}

// NewNotifier creates a new notifier based on the configuration
func NewNotifier(noticeConfig config.NoticeConfig) (Notifier, error) {
	switch noticeConfig.Type {
	case "wecom", "wechat":
		webhookURL, ok := noticeConfig.Params["webhook_url"].(string)
		if !ok || webhookURL == "" {
			return nil, fmt.Errorf("webhook_url is required for WeChat Work notifier")
		}
		logrus.Debug("Creating WeChat Work notifier")
		return NewWeComNotifier(webhookURL), nil
	case "slack":
		webhookURL, ok := noticeConfig.Params["webhook_url"].(string)
		if !ok || webhookURL == "" {
			return nil, fmt.Errorf("webhook_url is required for Slack notifier")
		}
		channel, _ := noticeConfig.Params["channel"].(string)
		logrus.Debug("Creating Slack notifier")
		return NewSlackNotifier(webhookURL, channel), nil
	case "":
		// No notification configured
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported notification type: %s", noticeConfig.Type)
	}
}

// IsNotificationEnabled checks if notification is enabled in the configuration
func IsNotificationEnabled(noticeConfig config.NoticeConfig) bool {
	return noticeConfig.Type != ""
}
