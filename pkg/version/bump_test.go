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

package version

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseBump", func() {
	Context("when the title contains a version bump", func() {
		It("should parse a dependabot title", func() {
			bump, ok := ParseBump("Bump express from 4.18.0 to 5.0.0")
			Expect(ok).To(BeTrue())
			Expect(bump.Dependency).To(Equal("express"))
			Expect(bump.From).To(Equal(Triple{Major: "4", Minor: "18", Patch: "0"}))
			Expect(bump.To).To(Equal(Triple{Major: "5", Minor: "0", Patch: "0"}))
			Expect(bump.IsMajor()).To(BeTrue())
			Expect(bump.String()).To(Equal("express 4.18.0 -> 5.0.0"))
		})

		It("should not flag a same-major bump", func() {
			bump, ok := ParseBump("Bump lodash from 4.17.20 to 4.17.21")
			Expect(ok).To(BeTrue())
			Expect(bump.IsMajor()).To(BeFalse())
		})

		It("should find the pattern anywhere in the title", func() {
			bump, ok := ParseBump("chore(deps): bump golang.org/x/net from 0.17.0 to 0.23.0 in /tools")
			Expect(ok).To(BeTrue())
			Expect(bump.Dependency).To(Equal("golang.org/x/net"))
			Expect(bump.To.String()).To(Equal("0.23.0"))
		})

		It("should skip a leading 'from' that is not followed by a version", func() {
			bump, ok := ParseBump("Move away from lib, bump x from 1.0.0 to 2.0.0")
			Expect(ok).To(BeTrue())
			Expect(bump.Dependency).To(Equal("x"))
			Expect(bump.IsMajor()).To(BeTrue())
		})

		It("should accept trailing text after the target version", func() {
			bump, ok := ParseBump("Bump foo from 1.2.3 to 2.0.0-rc.1")
			Expect(ok).To(BeTrue())
			Expect(bump.To).To(Equal(Triple{Major: "2", Minor: "0", Patch: "0"}))
		})

		It("should compare majors as text", func() {
			bump, ok := ParseBump("Bump foo from 01.0.0 to 1.0.0")
			Expect(ok).To(BeTrue())
			Expect(bump.IsMajor()).To(BeTrue())
		})

		It("should leave the dependency empty when there is none", func() {
			bump, ok := ParseBump("Bump from 1.0.0 to 1.0.1")
			Expect(ok).To(BeTrue())
			Expect(bump.Dependency).To(BeEmpty())
			Expect(bump.String()).To(Equal("1.0.0 -> 1.0.1"))
		})
	})

	Context("when the title has no parseable bump", func() {
		DescribeTable("should report no match",
			func(title string) {
				_, ok := ParseBump(title)
				Expect(ok).To(BeFalse())
			},
			Entry("no version at all", "Bump foo"),
			Entry("empty title", ""),
			Entry("two component versions", "Bump foo from 1.2 to 1.3"),
			Entry("four component source version", "Bump foo from 1.2.3.4 to 2.0.0"),
			Entry("pre-release source version", "Bump foo from 1.2.3-beta to 2.0.0"),
			Entry("missing target", "Bump foo from 1.2.3"),
			Entry("capitalised keyword", "Bump foo From 1.2.3 To 2.0.0"),
			Entry("v prefixed versions", "Bump foo from v1.2.3 to v2.0.0"),
		)
	})
})

var _ = Describe("Bump.UpdateType", func() {
	DescribeTable("classifying bumps",
		func(title string, want UpdateType) {
			bump, ok := ParseBump(title)
			Expect(ok).To(BeTrue())
			Expect(bump.UpdateType()).To(Equal(want))
		},
		Entry("major", "Bump a from 4.18.0 to 5.0.0", UpdateMajor),
		Entry("minor", "Bump a from 1.2.3 to 1.3.0", UpdateMinor),
		Entry("patch", "Bump a from 4.17.20 to 4.17.21", UpdatePatch),
		Entry("downgrade", "Bump a from 2.0.0 to 1.9.9", UpdateDowngrade),
		Entry("major downgrade", "Bump a from 3.0.0 to 2.5.0", UpdateDowngrade),
		Entry("same version", "Bump a from 1.0.0 to 1.0.0", UpdateNone),
	)
})
