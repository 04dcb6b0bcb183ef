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

package frame_test

import (
	"context"
	"math"
	"time"

	"github.com/featurekit/featurekit/frame"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

var _ = Describe("Frame", func() {
	var df *dataframe.DataFrame

	BeforeEach(func() {
		valSeries := dataframe.NewSeriesFloat64("value", &dataframe.SeriesInit{Capacity: 3}, []float64{1.0, 2.0, 3.0})
		catSeries := dataframe.NewSeriesString("category", &dataframe.SeriesInit{Capacity: 3}, []string{"A", "B", "A"})
		df = dataframe.NewDataFrame(valSeries, catSeries)
	})

	Describe("When normalizing column arguments", func() {
		It("should wrap a single name in a slice", func() {
			cols, err := frame.Columns("value")
			Expect(err).To(BeNil())
			Expect(cols).To(Equal([]string{"value"}))
		})

		It("should pass a slice through unchanged", func() {
			cols, err := frame.Columns([]string{"a", "b"})
			Expect(err).To(BeNil())
			Expect(cols).To(Equal([]string{"a", "b"}))
		})

		It("should reject any other type", func() {
			_, err := frame.Columns(42)
			Expect(err).To(MatchError(frame.ErrInvalidColumns))
		})
	})

	Describe("When extracting float values", func() {
		It("should copy a float column", func() {
			vals, err := frame.FloatValues(df, "value")
			Expect(err).To(BeNil())
			Expect(vals).To(Equal([]float64{1.0, 2.0, 3.0}))
		})

		It("should widen an integer column", func() {
			intSeries := dataframe.NewSeriesInt64("n", &dataframe.SeriesInit{Capacity: 2}, []int64{4, 5})
			df2 := dataframe.NewDataFrame(intSeries)
			vals, err := frame.FloatValues(df2, "n")
			Expect(err).To(BeNil())
			Expect(vals).To(Equal([]float64{4.0, 5.0}))
		})

		It("should convert missing values to NaN", func() {
			s := dataframe.NewSeriesInt64("n", &dataframe.SeriesInit{Capacity: 2}, int64(4), nil)
			df2 := dataframe.NewDataFrame(s)
			vals, err := frame.FloatValues(df2, "n")
			Expect(err).To(BeNil())
			Expect(vals[0]).To(Equal(4.0))
			Expect(math.IsNaN(vals[1])).To(BeTrue())
		})

		It("should reject a non-numeric column", func() {
			_, err := frame.FloatValues(df, "category")
			Expect(err).To(MatchError(frame.ErrNotNumeric))
		})

		It("should report a missing column", func() {
			_, err := frame.FloatValues(df, "nope")
			Expect(err).To(MatchError(frame.ErrColumnNotFound))
		})
	})

	Describe("When extracting time values", func() {
		It("should read a time column", func() {
			t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
			s := dataframe.NewSeriesTime("ts", &dataframe.SeriesInit{Capacity: 2}, []time.Time{t0, t0.Add(time.Hour)})
			df2 := dataframe.NewDataFrame(s)

			times, err := frame.TimeValues(df2, "ts")
			Expect(err).To(BeNil())
			Expect(times).To(Equal([]time.Time{t0, t0.Add(time.Hour)}))
		})

		It("should coerce a string column", func() {
			s := dataframe.NewSeriesString("ts", &dataframe.SeriesInit{Capacity: 2}, []string{"2024-01-01", "2024-01-02"})
			df2 := dataframe.NewDataFrame(s)

			times, err := frame.TimeValues(df2, "ts")
			Expect(err).To(BeNil())
			Expect(times[1].Sub(times[0])).To(Equal(24 * time.Hour))
		})

		It("should reject a numeric column", func() {
			_, err := frame.TimeValues(df, "value")
			Expect(err).To(MatchError(frame.ErrNotTime))
		})

		It("should reject an uncoercible string column", func() {
			s := dataframe.NewSeriesString("ts", &dataframe.SeriesInit{Capacity: 1}, []string{"not a date"})
			df2 := dataframe.NewDataFrame(s)
			_, err := frame.TimeValues(df2, "ts")
			Expect(err).To(MatchError(frame.ErrNotTime))
		})
	})

	Describe("When upserting a result column", func() {
		It("should silently replace an existing column", func() {
			before := len(df.Series)
			frame.Upsert(df, frame.NewFloatSeries("value", []float64{9, 9, 9}))
			Expect(df.Series).To(HaveLen(before))

			vals, err := frame.FloatValues(df, "value")
			Expect(err).To(BeNil())
			Expect(vals).To(Equal([]float64{9.0, 9.0, 9.0}))
		})

		It("should append a new column", func() {
			before := len(df.Series)
			frame.Upsert(df, frame.NewFloatSeries("extra", []float64{1, 2, 3}))
			Expect(df.Series).To(HaveLen(before + 1))
		})

		It("should append a new column while the frame's lock is held", func() {
			df.Lock()
			defer df.Unlock()

			before := len(df.Series)
			frame.Upsert(df, frame.NewFloatSeries("extra", []float64{1, 2, 3}))
			Expect(df.Series).To(HaveLen(before + 1))
		})
	})

	Describe("When sorting by a time axis", func() {
		It("should stably sort rows ascending", func() {
			t0 := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
			ts := dataframe.NewSeriesTime("ts", &dataframe.SeriesInit{Capacity: 3}, []time.Time{
				t0.Add(2 * time.Hour), t0, t0.Add(time.Hour),
			})
			vals := dataframe.NewSeriesFloat64("v", &dataframe.SeriesInit{Capacity: 3}, []float64{3, 1, 2})
			df2 := dataframe.NewDataFrame(ts, vals)

			times, err := frame.SortByTime(context.Background(), df2, "ts")
			Expect(err).To(BeNil())
			Expect(times).To(Equal([]time.Time{t0, t0.Add(time.Hour), t0.Add(2 * time.Hour)}))

			sorted, err := frame.FloatValues(df2, "v")
			Expect(err).To(BeNil())
			Expect(sorted).To(Equal([]float64{1.0, 2.0, 3.0}))
		})

		It("should rewrite a coerced string axis as timestamps", func() {
			ts := dataframe.NewSeriesString("ts", &dataframe.SeriesInit{Capacity: 2}, []string{"2024-01-02", "2024-01-01"})
			vals := dataframe.NewSeriesFloat64("v", &dataframe.SeriesInit{Capacity: 2}, []float64{2, 1})
			df2 := dataframe.NewDataFrame(ts, vals)

			_, err := frame.SortByTime(context.Background(), df2, "ts")
			Expect(err).To(BeNil())

			idx, err := df2.NameToColumn("ts")
			Expect(err).To(BeNil())
			Expect(df2.Series[idx].Type()).To(Equal("time"))
		})
	})
})
