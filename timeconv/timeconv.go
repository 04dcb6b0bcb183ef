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

// Package timeconv converts timestamp columns to integer epoch encodings.
// A converted column becomes an int64 column; converting it a second time is
// a type error because the timestamp type is consumed by the conversion.
package timeconv

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/featurekit/featurekit/frame"
	"github.com/featurekit/featurekit/observability/opentelemetry"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"go.opentelemetry.io/otel"
)

// Unit selects the epoch encoding granularity
type Unit string

const (
	Microseconds Unit = "us"
	Milliseconds Unit = "ms"
	Seconds      Unit = "s"
)

// ErrorPolicy selects how missing columns and non-coercible values are
// handled
type ErrorPolicy string

const (
	// Raise propagates the first error
	Raise ErrorPolicy = "raise"
	// Ignore leaves the offending column untouched
	Ignore ErrorPolicy = "ignore"
	// Coerce replaces offending values with missing values
	Coerce ErrorPolicy = "coerce"
)

var (
	ErrInvalidUnit   = errors.New("invalid unit")
	ErrInvalidPolicy = errors.New("invalid error policy")
)

var dontLock = dataframe.Options{DontLock: true}

// ToEpochMicroseconds converts the named timestamp columns to integer
// microseconds since epoch. Every named column must be a timestamp column;
// anything else is a type error.
func ToEpochMicroseconds(ctx context.Context, df *dataframe.DataFrame, columns interface{}, inPlace bool) (*dataframe.DataFrame, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "ToEpochMicroseconds")
	defer span.End()

	cols, err := frame.Columns(columns)
	if err != nil {
		return nil, err
	}

	df.Lock()
	defer df.Unlock()

	// strict mode: validate all columns up front
	for _, col := range cols {
		idx, err := frame.ColumnIndex(df, col)
		if err != nil {
			return nil, err
		}
		if df.Series[idx].Type() != "time" {
			return nil, fmt.Errorf("%w: %s must be a timestamp column", frame.ErrNotTime, col)
		}
	}

	out := frame.Working(df, inPlace)
	for _, col := range cols {
		idx, err := frame.ColumnIndex(out, col)
		if err != nil {
			return nil, err
		}
		out.Series[idx] = epochSeries(out.Series[idx], col, Microseconds)
	}

	return out, nil
}

// ToEpoch converts the named columns to integer epoch encodings in the
// requested unit. String columns are coerced to timestamps first. The policy
// modulates missing-column and type errors: Raise propagates, Ignore skips
// the offending column, Coerce writes missing values instead.
func ToEpoch(ctx context.Context, df *dataframe.DataFrame, columns interface{}, unit Unit, inPlace bool, policy ErrorPolicy) (*dataframe.DataFrame, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "ToEpoch")
	defer span.End()

	switch unit {
	case Microseconds, Milliseconds, Seconds:
	default:
		return nil, fmt.Errorf("%w: %q (must be one of us, ms, s)", ErrInvalidUnit, unit)
	}
	if policy == "" {
		policy = Raise
	}
	switch policy {
	case Raise, Ignore, Coerce:
	default:
		return nil, fmt.Errorf("%w: %q (must be one of raise, ignore, coerce)", ErrInvalidPolicy, policy)
	}

	cols, err := frame.Columns(columns)
	if err != nil {
		return nil, err
	}

	df.Lock()
	defer df.Unlock()

	out := frame.Working(df, inPlace)

	for _, col := range cols {
		idx, err := frame.ColumnIndex(out, col)
		if err != nil {
			if policy == Raise {
				return nil, err
			}
			continue
		}

		s := out.Series[idx]
		switch s.Type() {
		case "time":
			out.Series[idx] = epochSeries(s, col, unit)
		case "string":
			converted, err := coerceStrings(s, col, unit, policy)
			if err != nil {
				return nil, err
			}
			if converted != nil {
				out.Series[idx] = converted
			}
		default:
			switch policy {
			case Raise:
				return nil, fmt.Errorf("%w: %s must be a timestamp column (got %s)", frame.ErrNotTime, col, s.Type())
			case Coerce:
				out.Series[idx] = missingSeries(col, s.NRows(dontLock))
			}
			// Ignore leaves the column untouched
		}
	}

	return out, nil
}

// epochSeries converts a timestamp series to int64 epoch values, preserving
// missing entries
func epochSeries(s dataframe.Series, name string, unit Unit) dataframe.Series {
	nRows := s.NRows(dontLock)
	vals := make([]interface{}, nRows)

	for row := 0; row < nRows; row++ {
		v := s.Value(row, dontLock)
		if v == nil {
			vals[row] = nil
			continue
		}
		vals[row] = epoch(v.(time.Time), unit)
	}

	return dataframe.NewSeriesInt64(name, &dataframe.SeriesInit{Capacity: nRows}, vals...)
}

// coerceStrings parses a string series to timestamps and converts it. A nil
// series return with nil error means the column should be left untouched
// (Ignore policy after a parse failure).
func coerceStrings(s dataframe.Series, name string, unit Unit, policy ErrorPolicy) (dataframe.Series, error) {
	nRows := s.NRows(dontLock)
	vals := make([]interface{}, nRows)

	for row := 0; row < nRows; row++ {
		v := s.Value(row, dontLock)
		if v == nil {
			vals[row] = nil
			continue
		}

		t, err := frame.ParseTime(v.(string))
		if err != nil {
			switch policy {
			case Raise:
				return nil, fmt.Errorf("%w: could not coerce column %s row %d: %q", frame.ErrNotTime, name, row, v)
			case Ignore:
				return nil, nil
			case Coerce:
				vals[row] = nil
				continue
			}
		}
		vals[row] = epoch(t, unit)
	}

	return dataframe.NewSeriesInt64(name, &dataframe.SeriesInit{Capacity: nRows}, vals...), nil
}

func epoch(t time.Time, unit Unit) int64 {
	switch unit {
	case Milliseconds:
		return t.UnixMilli()
	case Seconds:
		return t.Unix()
	default:
		return t.UnixMicro()
	}
}

// missingSeries is the all-missing replacement column the Coerce policy
// writes over a non-coercible column
func missingSeries(name string, nRows int) dataframe.Series {
	vals := make([]float64, nRows)
	for i := range vals {
		vals[i] = math.NaN()
	}
	return frame.NewFloatSeries(name, vals)
}
