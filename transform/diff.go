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

// DiffOptions control DiffFeatures. Pct switches from absolute differences
// to percentage change; GroupBy may be a string, a []string, or nil.
type DiffOptions struct {
	Pct     bool
	GroupBy interface{}
}

// DiffFeatures adds one difference column per column/period pair:
// `{col}_diff_{p}` holds value[i] - value[i-p] within the row's group, and
// with Pct set `{col}_pct_{p}` holds (value[i] - value[i-p]) / value[i-p]
// following IEEE division (a zero base yields ±Inf, a missing operand NaN).
// periods defaults to [1]. Always returns a new frame.
func DiffFeatures(ctx context.Context, df *dataframe.DataFrame, columns interface{}, periods []int, opts *DiffOptions) (*dataframe.DataFrame, error) {
	_, span := otel.Tracer(opentelemetry.Name).Start(ctx, "DiffFeatures")
	defer span.End()

	if opts == nil {
		opts = &DiffOptions{}
	}
	if len(periods) == 0 {
		periods = []int{1}
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

	kind := "diff"
	if opts.Pct {
		kind = "pct"
	}

	for _, col := range cols {
		vals, err := frame.FloatValues(df, col)
		if err != nil {
			return nil, err
		}

		for _, period := range periods {
			result := make([]float64, nRows)
			for _, rows := range groups {
				for j, row := range rows {
					if j-period < 0 || j-period >= len(rows) {
						result[row] = math.NaN()
						continue
					}
					base := vals[rows[j-period]]
					if opts.Pct {
						result[row] = (vals[row] - base) / base
					} else {
						result[row] = vals[row] - base
					}
				}
			}

			name := fmt.Sprintf("%s_%s_%d", col, kind, period)
			frame.Upsert(out, frame.NewFloatSeries(name, result))
		}
	}

	return out, nil
}
