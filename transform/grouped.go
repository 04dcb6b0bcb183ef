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
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// GroupedOptions control GroupedStats; zero values select mean/std/min/max
// with no prefix or suffix
type GroupedOptions struct {
	Stats  []stats.Statistic
	Prefix string
	Suffix string
}

// GroupedStats computes per-group statistics for the requested columns and
// broadcasts each group's aggregate to every member row. The result is a new
// frame holding only the `{prefix}{col}_{stat}{suffix}` columns, row-aligned
// with df. Unlike rolling statistics the grouped registry also accepts the
// order-sensitive first/last/nunique statistics, which use each group's
// original row order.
func GroupedStats(ctx context.Context, df *dataframe.DataFrame, columns interface{}, by interface{}, opts *GroupedOptions) (*dataframe.DataFrame, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "GroupedStats")
	defer span.End()

	if opts == nil {
		opts = &GroupedOptions{}
	}

	cols, err := frame.Columns(columns)
	if err != nil {
		return nil, err
	}
	byCols, err := frame.Columns(by)
	if err != nil {
		return nil, err
	}

	requested := opts.Stats
	if len(requested) == 0 {
		requested = stats.DefaultStats()
	}
	fns, err := stats.ResolveGrouped(requested)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "statistic validation failed")
		return nil, err
	}

	df.Lock()
	defer df.Unlock()

	for _, col := range cols {
		if _, err := frame.FloatValues(df, col); err != nil {
			return nil, err
		}
	}

	groups, err := partition(df, byCols)
	if err != nil {
		return nil, err
	}

	series := make([]dataframe.Series, 0, len(cols)*len(requested))
	nRows := df.NRows(dataframe.Options{DontLock: true})

	for _, col := range cols {
		vals, err := frame.FloatValues(df, col)
		if err != nil {
			return nil, err
		}

		for si, st := range requested {
			result := make([]float64, nRows)
			for _, rows := range groups {
				groupVals := make([]float64, len(rows))
				for i, row := range rows {
					groupVals[i] = vals[row]
				}
				agg := fns[si](groupVals)
				for _, row := range rows {
					result[row] = agg
				}
			}

			name := fmt.Sprintf("%s%s_%s%s", opts.Prefix, col, st, opts.Suffix)
			series = append(series, frame.NewFloatSeries(name, result))
		}
	}

	return dataframe.NewDataFrame(series...), nil
}
