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

	"github.com/featurekit/featurekit/frame"
	"github.com/featurekit/featurekit/observability/opentelemetry"
	"github.com/featurekit/featurekit/stats"
	"github.com/featurekit/featurekit/window"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// AggOptions control RollingAggs; zero values select mean with per-window
// default min periods
type AggOptions struct {
	Aggs       []stats.Statistic
	MinPeriods int
}

// RollingAggs is the convenience form of RollingStats for a single value
// column over several window sizes anchored on one time column. Each window
// spec may be an int (row count over the time-sorted frame) or a duration
// string. The result is always a new frame sorted ascending by timeCol, with
// one `{valueCol}_{agg}_{window}` column per window/agg pair.
func RollingAggs(ctx context.Context, df *dataframe.DataFrame, valueCol, timeCol string, windows []interface{}, opts *AggOptions) (*dataframe.DataFrame, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "RollingAggs")
	defer span.End()

	if opts == nil {
		opts = &AggOptions{}
	}

	requested := opts.Aggs
	if len(requested) == 0 {
		requested = []stats.Statistic{stats.Mean}
	}
	fns, err := stats.ResolveRolling(requested)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "statistic validation failed")
		return nil, err
	}

	specs := make([]window.Window, len(windows))
	for i, ws := range windows {
		w, err := window.Parse(ws)
		if err != nil {
			return nil, err
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		specs[i] = w
	}

	df.Lock()
	defer df.Unlock()

	if _, err := frame.TimeValues(df, timeCol); err != nil {
		return nil, err
	}
	if _, err := frame.FloatValues(df, valueCol); err != nil {
		return nil, err
	}

	out := df.Copy()
	times, err := frame.SortByTime(ctx, out, timeCol)
	if err != nil {
		return nil, err
	}
	vals, err := frame.FloatValues(out, valueCol)
	if err != nil {
		return nil, err
	}

	for _, w := range specs {
		minPeriods := opts.MinPeriods
		if minPeriods <= 0 {
			minPeriods = w.DefaultMinPeriods()
		}

		for si, agg := range requested {
			result := rollingColumn(vals, times, w, fns[si], minPeriods, false)
			name := fmt.Sprintf("%s_%s_%s", valueCol, agg, w.Label())
			frame.Upsert(out, frame.NewFloatSeries(name, result))
		}
	}

	return out, nil
}
