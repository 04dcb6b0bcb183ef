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

package transform

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/featurekit/featurekit/frame"
	"github.com/featurekit/featurekit/observability/opentelemetry"
	"github.com/featurekit/featurekit/stats"
	"github.com/featurekit/featurekit/window"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// RollingOptions control RollingStats. Zero values select the defaults:
// mean/std/min/max, min periods equal to the window size (1 for time
// windows), trailing alignment, a fresh output frame, and no suffix.
type RollingOptions struct {
	Stats      []stats.Statistic
	MinPeriods int
	Center     bool
	TimeAxis   string
	InPlace    bool
	Suffix     string
}

// RollingStats computes rolling statistics over the requested columns and
// writes one `{col}_{stat}_{window}{suffix}` column per column/statistic
// pair. The window spec may be an int (row count), a time.Duration, or an
// offset string like "24H"; time-based windows require the TimeAxis option
// and leave the result sorted ascending by that axis. Existing columns with
// a result name are silently overwritten.
func RollingStats(ctx context.Context, df *dataframe.DataFrame, columns interface{}, windowSpec interface{}, opts *RollingOptions) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "RollingStats")
	defer span.End()

	if opts == nil {
		opts = &RollingOptions{}
	}

	cols, err := frame.Columns(columns)
	if err != nil {
		return nil, err
	}

	w, err := window.Parse(windowSpec)
	if err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if w.TimeBased() && opts.TimeAxis == "" {
		return nil, window.ErrMissingTimeAxis
	}
	if w.TimeBased() && opts.Center {
		return nil, fmt.Errorf("%w: center is not supported for time-based windows", window.ErrInvalidWindow)
	}

	requested := opts.Stats
	if len(requested) == 0 {
		requested = stats.DefaultStats()
	}
	fns, err := stats.ResolveRolling(requested)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "statistic validation failed")
		return nil, err
	}

	df.Lock()
	defer df.Unlock()

	// validate every referenced column before any write so failures leave
	// the caller's frame untouched
	if w.TimeBased() {
		if _, err := frame.TimeValues(df, opts.TimeAxis); err != nil {
			return nil, err
		}
	}
	for _, col := range cols {
		if _, err := frame.FloatValues(df, col); err != nil {
			return nil, err
		}
	}

	out := frame.Working(df, opts.InPlace)

	var times []time.Time
	if w.TimeBased() {
		if times, err = frame.SortByTime(ctx, out, opts.TimeAxis); err != nil {
			return nil, err
		}
	}

	minPeriods := opts.MinPeriods
	if minPeriods <= 0 {
		minPeriods = w.DefaultMinPeriods()
	}

	subLog := log.With().Strs("Columns", cols).Str("Window", w.Label()).Logger()
	subLog.Debug().Msg("computing rolling statistics")

	for _, col := range cols {
		vals, err := frame.FloatValues(out, col)
		if err != nil {
			return nil, err
		}

		for si, st := range requested {
			result := rollingColumn(vals, times, w, fns[si], minPeriods, opts.Center)
			name := fmt.Sprintf("%s_%s_%s%s", col, st, w.Label(), opts.Suffix)
			frame.Upsert(out, frame.NewFloatSeries(name, result))
		}
	}

	return out, nil
}

// rollingColumn evaluates one statistic over every row's window. times is
// only consulted for time-based windows and must be ascending and aligned
// with vals.
func rollingColumn(vals []float64, times []time.Time, w window.Window, fn stats.Fn, minPeriods int, center bool) []float64 {
	result := make([]float64, len(vals))

	for i := range vals {
		var lo, hi int
		if w.TimeBased() {
			lo, hi = w.TimeBounds(i, times), i
		} else {
			lo, hi = w.Bounds(i, len(vals), center)
		}

		win := vals[lo : hi+1]
		if stats.Observations(win) < minPeriods {
			result[i] = math.NaN()
			continue
		}
		result[i] = fn(win)
	}

	return result
}
