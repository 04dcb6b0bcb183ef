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

	"github.com/featurekit/featurekit/frame"
	"github.com/featurekit/featurekit/observability/opentelemetry"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"go.opentelemetry.io/otel"
)

// LagOptions control LagFeatures; GroupBy may be a string, a []string, or
// nil for ungrouped lags
type LagOptions struct {
	GroupBy interface{}
}

// LagFeatures adds one `{col}_lag_{k}` column per column/lag pair: the value
// of the k-th preceding row within the row's group (or globally when no
// groups are given), using group row order as it appears in df. Rows with
// fewer than k predecessors receive a missing value. Always returns a new
// frame.
func LagFeatures(ctx context.Context, df *dataframe.DataFrame, columns interface{}, lags []int, opts *LagOptions) (*dataframe.DataFrame, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "LagFeatures")
	defer span.End()

	if opts == nil {
		opts = &LagOptions{}
	}

	cols, err := frame.Columns(columns)
	if err != nil {
		return nil, err
	}

	df.Lock()
	defer df.Unlock()

	for _, col := range cols {
		if _, err := frame.FloatValues(df, col); err != nil {
			return nil, err
		}
	}

	groups, err := resolveGroups(df, opts.GroupBy)
	if err != nil {
		return nil, err
	}

	out := df.Copy()
	nRows := df.NRows(dataframe.Options{DontLock: true})

	for _, col := range cols {
		vals, err := frame.FloatValues(df, col)
		if err != nil {
			return nil, err
		}

		for _, lag := range lags {
			result := make([]float64, nRows)
			for _, rows := range groups {
				for j, row := range rows {
					if j-lag < 0 || j-lag >= len(rows) {
						result[row] = math.NaN()
						continue
					}
					result[row] = vals[rows[j-lag]]
				}
			}

			name := fmt.Sprintf("%s_lag_%d", col, lag)
			frame.Upsert(out, frame.NewFloatSeries(name, result))
		}
	}

	return out, nil
}

// resolveGroups partitions df by the optional group keys, or returns the
// single whole-table group when none are given
func resolveGroups(df *dataframe.DataFrame, groupBy interface{}) ([][]int, error) {
	if groupBy == nil {
		return wholeTable(df.NRows(dataframe.Options{DontLock: true})), nil
	}

	byCols, err := frame.Columns(groupBy)
	if err != nil {
		return nil, err
	}
	return partition(df, byCols)
}
