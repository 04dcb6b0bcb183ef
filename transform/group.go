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
	"strings"

	"github.com/featurekit/featurekit/frame"
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// partition assigns every row to exactly one group keyed on the rendered
// tuple of the key columns. Groups are returned in order of first
// appearance and each group's row list preserves original row order, so
// order-sensitive statistics and lag/diff are deterministic.
func partition(df *dataframe.DataFrame, by []string) ([][]int, error) {
	keyCols := make([][]string, len(by))
	for i, name := range by {
		keys, err := frame.KeyStrings(df, name)
		if err != nil {
			return nil, err
		}
		keyCols[i] = keys
	}

	nRows := df.NRows(dataframe.Options{DontLock: true})
	groupIdx := make(map[string]int, 16)
	groups := make([][]int, 0, 16)
	parts := make([]string, len(by))

	for row := 0; row < nRows; row++ {
		for i := range keyCols {
			parts[i] = keyCols[i][row]
		}
		key := strings.Join(parts, "\x1f")

		g, ok := groupIdx[key]
		if !ok {
			g = len(groups)
			groupIdx[key] = g
			groups = append(groups, nil)
		}
		groups[g] = append(groups[g], row)
	}

	return groups, nil
}

// wholeTable is the degenerate partition used when no group keys are given
func wholeTable(nRows int) [][]int {
	rows := make([]int, nRows)
	for i := range rows {
		rows[i] = i
	}
	return [][]int{rows}
}
