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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/types"
)

// maxListed is the number of pull requests listed per bucket
const maxListed = 10

// WeComNotifier implements Notifier interface for WeChat Work (Enterprise WeChat)
type WeComNotifier struct {
	// webhookURL is the WeChat Work webhook URL
	webhookURL string
	// httpClient is the HTTP client for making requests
	httpClient *http.Client
}

// WeComMessageCard represents a WeChat Work message card
type WeComMessageCard struct {
	MsgType  string        `json:"msgtype"`
	Markdown WeComMarkdown `json:"markdown"`
}

// WeComMarkdown represents the markdown content for WeChat Work
type WeComMarkdown struct {
	Content string `json:"content"`
}

// NewWeComNotifier creates a new WeChat Work notifier
func NewWeComNotifier(webhookURL string) *WeComNotifier {
	return &WeComNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Notify sends a notification to WeChat Work
func (w *WeComNotifier) Notify(ctx context.Context, summary Summary) error {
	logrus.Debugf("Sending WeChat Work notification for %s", summary.Repo)

	messageCard := WeComMessageCard{
		MsgType: "markdown",
		Markdown: WeComMarkdown{
			Content: w.buildMessage(summary),
		},
	}

	jsonData, err := json.Marshal(messageCard)
	if err != nil {
		return fmt.Errorf("failed to marshal WeChat Work message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send WeChat Work notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("WeChat Work notification failed with status: %d", resp.StatusCode)
	}

	logrus.Infof("WeChat Work notification sent successfully for %s", summary.Repo)
	return nil
}

// buildMessage builds the markdown message for WeChat Work
func (w *WeComNotifier) buildMessage(summary Summary) string {
	var msg bytes.Buffer
	result := summary.Result

	// Header
	msg.WriteString(fmt.Sprintf("# 📦 %s Dependabot 待处理 PR\n\n", summary.Repo))

	// Summary
	msg.WriteString("\n**📊 摘要：**\n")
	msg.WriteString(fmt.Sprintf("大版本更新：（%d） CI 失败：（%d） 自动合并中：（%d）\n",
		len(result.Majors), len(result.Failing), len(result.AutoMerging)))
	msg.WriteString("\n")

	if len(result.Majors) > 0 {
		msg.WriteString("\n**🔴 大版本更新（需人工审核）：**\n")
		writeWeComList(&msg, result.Majors)
	}

	if len(result.Failing) > 0 {
		msg.WriteString("**🟡 CI 失败（需要修复）：**\n")
		writeWeComList(&msg, result.Failing)
	}

	if result.Total() == 0 {
		msg.WriteString("✅ 没有待处理的 Dependabot PR\n")
	}
	return msg.String()
}

func writeWeComList(msg *bytes.Buffer, prs []types.PullRequest) {
	for i, pr := range prs {
		if i >= maxListed { // 限制显示数量
			msg.WriteString(fmt.Sprintf(" - 还有 %d 个 PR...\n", len(prs)-i))
			break
		}
		msg.WriteString(fmt.Sprintf(" - [#%d](%s) %s\n", pr.Number, pr.URL, pr.Title))
	}
	msg.WriteString("\n")
}
