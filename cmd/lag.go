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
	lagInput   string
	lagOutput  string
	lagFormat  string
	lagColumns []string
	lagLags    []int
	lagGroupBy []string
)

func init() {
	lagCmd.Flags().StringVarP(&lagInput, "input", "i", "", "Input CSV file")
	lagCmd.MarkFlagRequired("input")
	lagCmd.Flags().StringVarP(&lagOutput, "output", "o", "-", "Output file (- for stdout)")
	lagCmd.Flags().StringVar(&lagFormat, "format", "csv", "Output format: csv, json, or table")
	lagCmd.Flags().StringSliceVarP(&lagColumns, "columns", "c", nil, "Column(s) to create lags for")
	lagCmd.MarkFlagRequired("columns")
	lagCmd.Flags().IntSliceVarP(&lagLags, "lags", "l", []int{1}, "Lag periods")
	lagCmd.Flags().StringSliceVarP(&lagGroupBy, "group-by", "g", nil, "Optional column(s) to group by")
	rootCmd.AddCommand(lagCmd)
}

// optionalGroups converts an empty flag slice to the nil "no grouping" form
func optionalGroups(groupBy []string) interface{} {
	if len(groupBy) == 0 {
		return nil
	}
	return groupBy
}

var lagCmd = &cobra.Command{
	Use:   "lag",
	Short: "Add lag feature columns",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		df, err := loadFrame(ctx, lagInput)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load input")
		}

		res, err := transform.LagFeatures(ctx, df, lagColumns, lagLags, &transform.LagOptions{
			GroupBy: optionalGroups(lagGroupBy),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("lag features failed")
		}

		if err := writeFrame(ctx, res, lagOutput, lagFormat); err != nil {
			log.Fatal().Err(err).Msg("could not write output")
		}
	},
}
