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

package transform_test

import (
	"context"
	"math"

	"github.com/featurekit/featurekit/frame"
	"github.com/featurekit/featurekit/stats"
	"github.com/featurekit/featurekit/transform"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

var _ = Describe("GroupedStats", func() {
	var (
		ctx context.Context
		df  *dataframe.DataFrame
		nan = math.NaN()
	)

	BeforeEach(func() {
		ctx = context.Background()
		cat := dataframe.NewSeriesString("category", &dataframe.SeriesInit{Capacity: 4}, []string{"A", "A", "B", "B"})
		vals := dataframe.NewSeriesFloat64("value", &dataframe.SeriesInit{Capacity: 4}, []float64{1, 2, 3, 4})
		df = dataframe.NewDataFrame(cat, vals)
	})

	It("should broadcast each group's aggregate to its member rows", func() {
		out, err := transform.GroupedStats(ctx, df, "value", "category", &transform.GroupedOptions{
			Stats: []stats.Statistic{stats.Mean},
		})
		Expect(err).To(BeNil())
		matchFloats(column(out, "value_mean"), []float64{1.5, 1.5, 3.5, 3.5})
	})

	It("should return only the result columns, row-aligned with the input", func() {
		out, err := transform.GroupedStats(ctx, df, "value", "category", &transform.GroupedOptions{
			Stats: []stats.Statistic{stats.Mean, stats.Max},
		})
		Expect(err).To(BeNil())
		Expect(out.Series).To(HaveLen(2))
		Expect(out.NRows()).To(Equal(df.NRows()))
		matchFloats(column(out, "value_max"), []float64{2, 2, 4, 4})
	})

	It("should leave the input frame untouched", func() {
		before := len(df.Series)
		_, err := transform.GroupedStats(ctx, df, "value", "category", nil)
		Expect(err).To(BeNil())
		Expect(df.Series).To(HaveLen(before))
	})

	It("should apply the prefix and suffix to result names", func() {
		out, err := transform.GroupedStats(ctx, df, "value", "category", &transform.GroupedOptions{
			Stats:  []stats.Statistic{stats.Mean},
			Prefix: "g_",
			Suffix: "_all",
		})
		Expect(err).To(BeNil())
		matchFloats(column(out, "g_value_mean_all"), []float64{1.5, 1.5, 3.5, 3.5})
	})

	It("should group by multiple keys", func() {
		region := dataframe.NewSeriesString("region", &dataframe.SeriesInit{Capacity: 4}, []string{"x", "y", "x", "x"})
		frame.Upsert(df, region)

		out, err := transform.GroupedStats(ctx, df, "value", []string{"category", "region"}, &transform.GroupedOptions{
			Stats: []stats.Statistic{stats.Sum},
		})
		Expect(err).To(BeNil())
		// groups: (A,x)={1}, (A,y)={2}, (B,x)={3,4}
		matchFloats(column(out, "value_sum"), []float64{1, 2, 7, 7})
	})

	Describe("When using order-sensitive statistics", func() {
		It("should take first and last by row position", func() {
			s := dataframe.NewSeriesFloat64("value", &dataframe.SeriesInit{Capacity: 4}, []float64{nan, 2, 3, 4})
			cat := dataframe.NewSeriesString("category", &dataframe.SeriesInit{Capacity: 4}, []string{"A", "A", "B", "B"})
			df2 := dataframe.NewDataFrame(cat, s)

			out, err := transform.GroupedStats(ctx, df2, "value", "category", &transform.GroupedOptions{
				Stats: []stats.Statistic{stats.First, stats.Last},
			})
			Expect(err).To(BeNil())
			// first is positional and keeps the missing value
			matchFloats(column(out, "value_first"), []float64{nan, nan, 3, 3})
			matchFloats(column(out, "value_last"), []float64{2, 2, 4, 4})
		})

		It("should count distinct non-missing values", func() {
			s := dataframe.NewSeriesFloat64("value", &dataframe.SeriesInit{Capacity: 5}, []float64{1, 1, nan, 3, 4})
			cat := dataframe.NewSeriesString("category", &dataframe.SeriesInit{Capacity: 5}, []string{"A", "A", "A", "B", "B"})
			df2 := dataframe.NewDataFrame(cat, s)

			out, err := transform.GroupedStats(ctx, df2, "value", "category", &transform.GroupedOptions{
				Stats: []stats.Statistic{stats.NUnique},
			})
			Expect(err).To(BeNil())
			matchFloats(column(out, "value_nunique"), []float64{1, 1, 1, 2, 2})
		})
	})

	Describe("When the request is invalid", func() {
		It("should reject an unknown statistic", func() {
			_, err := transform.GroupedStats(ctx, df, "value", "category", &transform.GroupedOptions{
				Stats: []stats.Statistic{"bogus"},
			})
			Expect(err).To(MatchError(stats.ErrInvalidStatistic))
		})

		It("should reject a missing value column", func() {
			_, err := transform.GroupedStats(ctx, df, "nope", "category", nil)
			Expect(err).To(MatchError(frame.ErrColumnNotFound))
		})

		It("should reject a missing group column", func() {
			_, err := transform.GroupedStats(ctx, df, "value", "nope", nil)
			Expect(err).To(MatchError(frame.ErrColumnNotFound))
		})
	})
})
