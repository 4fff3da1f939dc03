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

package notice

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

// SlackNotifier posts the summary to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
	// channel overrides the webhook's default channel when set
	channel    string
	httpClient *http.Client
}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Notify implements Notifier
func (s *SlackNotifier) Notify(ctx context.Context, summary Summary) error {
	msg := &slack.WebhookMessage{
		Channel: s.channel,
		Text:    s.buildMessage(summary),
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.httpClient, msg); err != nil {
		return fmt.Errorf("failed to send Slack notification: %w", err)
	}
	logrus.Infof("Slack notification sent successfully for %s", summary.Repo)
	return nil
}

// buildMessage renders the summary in Slack mrkdwn
func (s *SlackNotifier) buildMessage(summary Summary) string {
	var b strings.Builder
	result := summary.Result

	fmt.Fprintf(&b, ":package: *Dependabot Triage: %s*\n", summary.Repo)
	if result.Total() == 0 {
		b.WriteString(":white_check_mark: No Dependabot PRs pending\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d major, %d failing, %d auto-merging\n",
		len(result.Majors), len(result.Failing), len(result.AutoMerging))
	if len(result.Majors) > 0 {
		b.WriteString("\n:red_circle: *Major Updates (manual review required)*\n")
		writeSlackList(&b, result.Majors)
	}
	if len(result.Failing) > 0 {
		b.WriteString("\n:large_yellow_circle: *Failing CI (fix required)*\n")
		writeSlackList(&b, result.Failing)
	}
	return b.String()
}

func writeSlackList(b *strings.Builder, prs []types.PullRequest) {
	for i, pr := range prs {
		if i >= maxListed {
			fmt.Fprintf(b, "• ... and %d more\n", len(prs)-i)
			return
		}
		fmt.Fprintf(b, "• <%s|#%d> %s\n", pr.URL, pr.Number, pr.Title)
	}
}
