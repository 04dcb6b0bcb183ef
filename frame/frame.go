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

package frame

import (
	"context"
	"fmt"
	"math"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// Collection of helpers shared by all featurekit transforms. Everything here
// operates on *dataframe.DataFrame and treats NaN (for float series) or nil
// (for typed series) as a missing value.

var dontLock = dataframe.Options{DontLock: true}

// timeLayouts are tried in order when coercing string columns to timestamps
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Columns normalizes a single column name or a list of column names to a
// []string. nil is rejected so callers that allow an optional column list
// must check before calling.
func Columns(columns interface{}) ([]string, error) {
	switch cols := columns.(type) {
	case string:
		return []string{cols}, nil
	case []string:
		return cols, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidColumns, columns)
	}
}

// ColumnIndex resolves a column name to its position in df
func ColumnIndex(df *dataframe.DataFrame, name string) (int, error) {
	idx, err := df.NameToColumn(name, dontLock)
	if err != nil {
		return -1, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return idx, nil
}

// Working returns the frame all column writes should target: the caller's
// frame when inPlace is set, otherwise a private copy
func Working(df *dataframe.DataFrame, inPlace bool) *dataframe.DataFrame {
	if inPlace {
		return df
	}
	return df.Copy()
}

// Upsert adds the series to df, replacing any existing series with the same
// name. Replacement is silent; result columns are documented to overwrite.
// Callers either hold df's lock already or own a private copy, so no locking
// happens here.
func Upsert(df *dataframe.DataFrame, s dataframe.Series) {
	if idx, err := df.NameToColumn(s.Name(dontLock), dontLock); err == nil {
		df.Series[idx] = s
		return
	}
	if err := df.AddSeries(s, nil, dontLock); err != nil {
		// row counts always match because s is built from df's own columns
		panic(err)
	}
}

// NewFloatSeries builds a float64 series from a value slice
func NewFloatSeries(name string, vals []float64) dataframe.Series {
	return dataframe.NewSeriesFloat64(name, &dataframe.SeriesInit{Capacity: len(vals)}, vals)
}

// FloatValues extracts the named column as a []float64 with NaN for missing
// values. Integer columns are widened; any other type is ErrNotNumeric.
func FloatValues(df *dataframe.DataFrame, name string) ([]float64, error) {
	idx, err := ColumnIndex(df, name)
	if err != nil {
		return nil, err
	}

	s := df.Series[idx]
	nRows := s.NRows(dontLock)
	vals := make([]float64, nRows)

	for row := 0; row < nRows; row++ {
		switch v := s.Value(row, dontLock).(type) {
		case nil:
			vals[row] = math.NaN()
		case float64:
			vals[row] = v
		case int64:
			vals[row] = float64(v)
		case int:
			vals[row] = float64(v)
		default:
			return nil, fmt.Errorf("%w: %s (type %s)", ErrNotNumeric, name, s.Type())
		}
	}

	return vals, nil
}

// TimeValues extracts the named column as a []time.Time. String columns are
// coerced with the supported layouts; coercion failure and missing values are
// reported, never silently dropped.
func TimeValues(df *dataframe.DataFrame, name string) ([]time.Time, error) {
	idx, err := ColumnIndex(df, name)
	if err != nil {
		return nil, err
	}

	s := df.Series[idx]
	nRows := s.NRows(dontLock)
	vals := make([]time.Time, nRows)

	for row := 0; row < nRows; row++ {
		switch v := s.Value(row, dontLock).(type) {
		case nil:
			return nil, fmt.Errorf("%w: %s row %d", ErrMissingTime, name, row)
		case time.Time:
			vals[row] = v
		case string:
			t, err := ParseTime(v)
			if err != nil {
				return nil, fmt.Errorf("%w: %s row %d: %s", ErrNotTime, name, row, v)
			}
			vals[row] = t
		default:
			return nil, fmt.Errorf("%w: %s (type %s)", ErrNotTime, name, s.Type())
		}
	}

	return vals, nil
}

// ParseTime coerces a string to a timestamp, trying each supported layout
func ParseTime(v string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrNotTime, v)
}

// KeyStrings renders the named column as group-key strings using the series'
// own string representation; nil values render as a distinct sentinel
func KeyStrings(df *dataframe.DataFrame, name string) ([]string, error) {
	idx, err := ColumnIndex(df, name)
	if err != nil {
		return nil, err
	}

	s := df.Series[idx]
	nRows := s.NRows(dontLock)
	keys := make([]string, nRows)

	for row := 0; row < nRows; row++ {
		if s.Value(row, dontLock) == nil {
			keys[row] = "\x00<nil>"
			continue
		}
		keys[row] = s.ValueString(row, dontLock)
	}

	return keys, nil
}

// SortByTime stably sorts df ascending by the named time axis. The axis is
// validated (and coerced) with TimeValues first so a bad axis never leaves df
// partially re-ordered; a coerced axis is rewritten as a time series, the way
// the string column would have been reindexed. Returns the post-sort times.
func SortByTime(ctx context.Context, df *dataframe.DataFrame, name string) ([]time.Time, error) {
	times, err := TimeValues(df, name)
	if err != nil {
		return nil, err
	}

	idx, err := ColumnIndex(df, name)
	if err != nil {
		return nil, err
	}
	if df.Series[idx].Type() != "time" {
		df.Series[idx] = dataframe.NewSeriesTime(name, &dataframe.SeriesInit{Capacity: len(times)}, times)
	}

	sorted := true
	for i := 1; i < len(times); i++ {
		if times[i].Before(times[i-1]) {
			sorted = false
			break
		}
	}
	if sorted {
		return times, nil
	}

	df.Sort(ctx, []dataframe.SortKey{{Key: name, Desc: false}}, dataframe.SortOptions{Stable: true, DontLock: true})
	return TimeValues(df, name)
}
