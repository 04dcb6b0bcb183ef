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
	"strconv"

	"github.com/featurekit/featurekit/stats"
	"github.com/featurekit/featurekit/transform"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	rollInput      string
	rollOutput     string
	rollFormat     string
	rollColumns    []string
	rollWindow     string
	rollStats      []string
	rollMinPeriods int
	rollCenter     bool
	rollTimeAxis   string
	rollSuffix     string
)

func init() {
	rollCmd.Flags().StringVarP(&rollInput, "input", "i", "", "Input CSV file")
	rollCmd.MarkFlagRequired("input")
	rollCmd.Flags().StringVarP(&rollOutput, "output", "o", "-", "Output file (- for stdout)")
	rollCmd.Flags().StringVar(&rollFormat, "format", "csv", "Output format: csv, json, or table")
	rollCmd.Flags().StringSliceVarP(&rollColumns, "columns", "c", nil, "Column(s) to compute statistics for")
	rollCmd.MarkFlagRequired("columns")
	rollCmd.Flags().StringVarP(&rollWindow, "window", "w", "", "Window size: a row count (7) or a duration (24H, 7d)")
	rollCmd.MarkFlagRequired("window")
	rollCmd.Flags().StringSliceVar(&rollStats, "stats", nil, "Statistics to compute (default mean,std,min,max)")
	rollCmd.Flags().IntVar(&rollMinPeriods, "min-periods", 0, "Minimum observations required per window")
	rollCmd.Flags().BoolVar(&rollCenter, "center", false, "Center the window on each row (count windows only)")
	rollCmd.Flags().StringVar(&rollTimeAxis, "time-axis", "", "Timestamp column for duration windows")
	rollCmd.Flags().StringVar(&rollSuffix, "suffix", "", "Suffix appended to result column names")
	rootCmd.AddCommand(rollCmd)
}

// windowSpec converts the flag value to an int row count when possible,
// otherwise leaves it as an offset string
func windowSpec(s string) interface{} {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return s
}

var rollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Add rolling statistics columns",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		df, err := loadFrame(ctx, rollInput)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load input")
		}

		res, err := transform.RollingStats(ctx, df, rollColumns, windowSpec(rollWindow), &transform.RollingOptions{
			Stats:      stats.ParseList(rollStats),
			MinPeriods: rollMinPeriods,
			Center:     rollCenter,
			TimeAxis:   rollTimeAxis,
			Suffix:     rollSuffix,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("rolling statistics failed")
		}

		if err := writeFrame(ctx, res, rollOutput, rollFormat); err != nil {
			log.Fatal().Err(err).Msg("could not write output")
		}
	},
}
