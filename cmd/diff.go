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

package cmd

import (
	"context"

	"github.com/featurekit/featurekit/transform"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	diffInput   string
	diffOutput  string
	diffFormat  string
	diffColumns []string
	diffPeriods []int
	diffPct     bool
	diffGroupBy []string
)

func init() {
	diffCmd.Flags().StringVarP(&diffInput, "input", "i", "", "Input CSV file")
	diffCmd.MarkFlagRequired("input")
	diffCmd.Flags().StringVarP(&diffOutput, "output", "o", "-", "Output file (- for stdout)")
	diffCmd.Flags().StringVar(&diffFormat, "format", "csv", "Output format: csv, json, or table")
	diffCmd.Flags().StringSliceVarP(&diffColumns, "columns", "c", nil, "Column(s) to create diffs for")
	diffCmd.MarkFlagRequired("columns")
	diffCmd.Flags().IntSliceVarP(&diffPeriods, "periods", "p", []int{1}, "Periods to diff over")
	diffCmd.Flags().BoolVar(&diffPct, "pct", false, "Compute percentage change instead of absolute diff")
	diffCmd.Flags().StringSliceVarP(&diffGroupBy, "group-by", "g", nil, "Optional column(s) to group by")
	rootCmd.AddCommand(diffCmd)
}

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Add difference or percentage-change feature columns",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		df, err := loadFrame(ctx, diffInput)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load input")
		}

		res, err := transform.DiffFeatures(ctx, df, diffColumns, diffPeriods, &transform.DiffOptions{
			Pct:     diffPct,
			GroupBy: optionalGroups(diffGroupBy),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("diff features failed")
		}

		if err := writeFrame(ctx, res, diffOutput, diffFormat); err != nil {
			log.Fatal().Err(err).Msg("could not write output")
		}
	},
}
