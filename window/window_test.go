// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package window_test

import (
	"time"

	"github.com/featurekit/featurekit/window"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Window", func() {
	Describe("When parsing a window spec", func() {
		Context("with an integer", func() {
			It("should build a count window", func() {
				w, err := window.Parse(7)
				Expect(err).To(BeNil())
				Expect(w.TimeBased()).To(BeFalse())
				Expect(w.Size()).To(Equal(7))
				Expect(w.Label()).To(Equal("7"))
			})
		})

		Context("with an offset string", func() {
			It("should accept hour offsets and preserve the spelling", func() {
				w, err := window.Parse("24H")
				Expect(err).To(BeNil())
				Expect(w.TimeBased()).To(BeTrue())
				Expect(w.Period()).To(Equal(24 * time.Hour))
				Expect(w.Label()).To(Equal("24H"))
			})

			It("should accept day and week offsets", func() {
				w, err := window.Parse("7d")
				Expect(err).To(BeNil())
				Expect(w.Period()).To(Equal(7 * 24 * time.Hour))

				w, err = window.Parse("2W")
				Expect(err).To(BeNil())
				Expect(w.Period()).To(Equal(14 * 24 * time.Hour))
			})

			It("should accept compound durations", func() {
				w, err := window.Parse("1h30m")
				Expect(err).To(BeNil())
				Expect(w.Period()).To(Equal(90 * time.Minute))
			})

			It("should reject malformed specs", func() {
				_, err := window.Parse("bogus")
				Expect(err).To(MatchError(window.ErrInvalidWindow))
			})
		})

		Context("with a duration", func() {
			It("should build a time window with the canonical label", func() {
				w, err := window.Parse(2 * time.Hour)
				Expect(err).To(BeNil())
				Expect(w.Label()).To(Equal("2h0m0s"))
			})
		})

		Context("with an unsupported type", func() {
			It("should report a configuration error", func() {
				_, err := window.Parse(3.5)
				Expect(err).To(MatchError(window.ErrInvalidWindow))
			})
		})
	})

	Describe("When validating", func() {
		It("should reject a non-positive row count", func() {
			Expect(window.Rows(0).Validate()).To(MatchError(window.ErrInvalidWindow))
			Expect(window.Rows(-3).Validate()).To(MatchError(window.ErrInvalidWindow))
		})

		It("should reject a negative duration", func() {
			Expect(window.Duration(-time.Hour, "").Validate()).To(MatchError(window.ErrInvalidWindow))
		})

		It("should accept positive windows", func() {
			Expect(window.Rows(1).Validate()).To(BeNil())
			Expect(window.Duration(time.Minute, "").Validate()).To(BeNil())
		})
	})

	Describe("When resolving count-window bounds", func() {
		Context("with trailing alignment", func() {
			It("should cover [i-n+1, i] clipped at zero", func() {
				w := window.Rows(3)

				lo, hi := w.Bounds(0, 10, false)
				Expect(lo).To(Equal(0))
				Expect(hi).To(Equal(0))

				lo, hi = w.Bounds(5, 10, false)
				Expect(lo).To(Equal(3))
				Expect(hi).To(Equal(5))
			})
		})

		Context("with center alignment", func() {
			It("should center an odd window on the row", func() {
				w := window.Rows(3)
				lo, hi := w.Bounds(5, 10, true)
				Expect(lo).To(Equal(4))
				Expect(hi).To(Equal(6))
			})

			It("should round the extra row of an even window to the trailing side", func() {
				w := window.Rows(4)
				lo, hi := w.Bounds(5, 10, true)
				Expect(lo).To(Equal(3))
				Expect(hi).To(Equal(6))
			})

			It("should clip at both edges", func() {
				w := window.Rows(3)

				lo, hi := w.Bounds(0, 10, true)
				Expect(lo).To(Equal(0))
				Expect(hi).To(Equal(1))

				lo, hi = w.Bounds(9, 10, true)
				Expect(lo).To(Equal(8))
				Expect(hi).To(Equal(9))
			})
		})
	})

	Describe("When resolving time-window bounds", func() {
		It("should exclude the open lower boundary", func() {
			t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
			times := []time.Time{t0, t0.Add(time.Hour), t0.Add(2 * time.Hour)}

			w, err := window.Parse("2H")
			Expect(err).To(BeNil())

			// the row exactly 2h earlier sits on the open boundary
			Expect(w.TimeBounds(2, times)).To(Equal(1))
			Expect(w.TimeBounds(1, times)).To(Equal(0))
			Expect(w.TimeBounds(0, times)).To(Equal(0))
		})

		It("should include every row within the duration", func() {
			t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
			times := []time.Time{t0, t0.Add(30 * time.Minute), t0.Add(90 * time.Minute)}

			w, err := window.Parse("2H")
			Expect(err).To(BeNil())
			Expect(w.TimeBounds(2, times)).To(Equal(0))
		})
	})

	Describe("When defaulting minimum periods", func() {
		It("should use the row count for count windows", func() {
			Expect(window.Rows(5).DefaultMinPeriods()).To(Equal(5))
		})

		It("should use one observation for time windows", func() {
			Expect(window.Duration(time.Hour, "").DefaultMinPeriods()).To(Equal(1))
		})
	})
})
