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

	"github.com/AlaudaDevops/toolbox/devinfra/pkg/upstream"
)

// WriteUpstream writes the result of reviewing an upstream checkout
func WriteUpstream(w io.Writer, review *upstream.Review) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n🔄 Syncing %s...\n\n", review.Name)
	b.WriteString("Recent commits:\n")
	for _, commit := range review.Commits {
		fmt.Fprintf(&b, "%s\n", commit)
	}

	fmt.Fprintf(&b, "\n📁 Watched paths: %s\n", strings.Join(review.Repo.Watch, ", "))
	fmt.Fprintf(&b, "📂 Sync to: %s\n", review.Repo.SyncTo)

	switch {
	case review.UpToDate():
		fmt.Fprintf(&b, "\n✨ No new commits since the last review\n")
	case review.Previous != "" && len(review.ChangedFiles) == 0:
		fmt.Fprintf(&b, "\n📝 No watched files changed since %s\n", review.PreviousShortHash())
	case len(review.ChangedFiles) > 0:
		fmt.Fprintf(&b, "\n📝 Watched files changed since %s:\n", review.PreviousShortHash())
		for _, file := range review.ChangedFiles {
			fmt.Fprintf(&b, "   %s\n", file)
		}
	}

	b.WriteString("\nReview changes and manually sync if needed.\n")
	b.WriteString("(Auto-sync not implemented - requires manual review for safety)\n")
	fmt.Fprintf(&b, "\n✅ Marked %s as reviewed at %s\n", review.Name, review.ShortHash())

	_, err := io.WriteString(w, b.String())
	return err
}
