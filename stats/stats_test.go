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

package stats_test

import (
	"math"

	"github.com/featurekit/featurekit/stats"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// eval resolves a single statistic against the grouped registry and applies
// it to vals
func eval(st stats.Statistic, vals []float64) float64 {
	fns, err := stats.ResolveGrouped([]stats.Statistic{st})
	Expect(err).To(BeNil())
	return fns[0](vals)
}

var _ = Describe("Stats", func() {
	Describe("When computing statistics", func() {
		Context("with complete observations", func() {
			It("should compute the arithmetic mean", func() {
				Expect(eval(stats.Mean, []float64{1, 2, 3})).To(BeNumerically("~", 2.0, 1e-9))
			})

			It("should compute the population standard deviation", func() {
				// population variance of [1,2,3,4] is 1.25
				Expect(eval(stats.Std, []float64{1, 2, 3, 4})).To(BeNumerically("~", math.Sqrt(1.25), 1e-9))
			})

			It("should compute min, max and sum", func() {
				Expect(eval(stats.Min, []float64{3, 1, 2})).To(Equal(1.0))
				Expect(eval(stats.Max, []float64{3, 1, 2})).To(Equal(3.0))
				Expect(eval(stats.Sum, []float64{3, 1, 2})).To(Equal(6.0))
			})

			It("should interpolate the median for an even observation count", func() {
				Expect(eval(stats.Median, []float64{4, 1, 3, 2})).To(BeNumerically("~", 2.5, 1e-9))
				Expect(eval(stats.Median, []float64{3, 1, 2})).To(Equal(2.0))
			})
		})

		Context("with missing observations", func() {
			It("should exclude NaN from count", func() {
				Expect(eval(stats.Count, []float64{1, math.NaN(), 3})).To(Equal(2.0))
			})

			It("should skip NaN in numeric statistics", func() {
				Expect(eval(stats.Mean, []float64{1, math.NaN(), 3})).To(Equal(2.0))
				Expect(eval(stats.Sum, []float64{1, math.NaN(), 3})).To(Equal(4.0))
			})

			It("should return NaN when every observation is missing", func() {
				Expect(math.IsNaN(eval(stats.Mean, []float64{math.NaN(), math.NaN()}))).To(BeTrue())
			})
		})

		Context("with order-sensitive statistics", func() {
			It("should take first and last positionally", func() {
				Expect(eval(stats.First, []float64{5, 2, 9})).To(Equal(5.0))
				Expect(eval(stats.Last, []float64{5, 2, 9})).To(Equal(9.0))
			})

			It("should preserve a missing leading value in first", func() {
				Expect(math.IsNaN(eval(stats.First, []float64{math.NaN(), 2}))).To(BeTrue())
			})

			It("should count distinct non-missing values in nunique", func() {
				Expect(eval(stats.NUnique, []float64{1, 1, 2, math.NaN()})).To(Equal(2.0))
			})
		})
	})

	Describe("When resolving statistic names", func() {
		Context("against the rolling registry", func() {
			It("should report every invalid name in one error", func() {
				_, err := stats.ResolveRolling(stats.ParseList([]string{"mean", "bogus", "junk"}))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("bogus"))
				Expect(err.Error()).To(ContainSubstring("junk"))
				Expect(err).To(MatchError(stats.ErrInvalidStatistic))
			})

			It("should reject grouped-only statistics", func() {
				_, err := stats.ResolveRolling([]stats.Statistic{stats.First})
				Expect(err).To(MatchError(stats.ErrInvalidStatistic))
			})
		})

		Context("against the grouped registry", func() {
			It("should accept the order-sensitive statistics", func() {
				fns, err := stats.ResolveGrouped([]stats.Statistic{stats.First, stats.Last, stats.NUnique})
				Expect(err).To(BeNil())
				Expect(fns).To(HaveLen(3))
			})
		})

		Context("from raw strings", func() {
			It("should normalize case and whitespace", func() {
				parsed := stats.ParseList([]string{" Mean ", "STD"})
				Expect(parsed).To(Equal([]stats.Statistic{stats.Mean, stats.Std}))
			})
		})
	})
})
