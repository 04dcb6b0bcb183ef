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

	"github.com/featurekit/featurekit/frame"
	"github.com/featurekit/featurekit/stats"
	"github.com/featurekit/featurekit/transform"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	groupInput   string
	groupOutput  string
	groupFormat  string
	groupColumns []string
	groupBy      []string
	groupStats   []string
	groupPrefix  string
	groupSuffix  string
)

func init() {
	groupCmd.Flags().StringVarP(&groupInput, "input", "i", "", "Input CSV file")
	groupCmd.MarkFlagRequired("input")
	groupCmd.Flags().StringVarP(&groupOutput, "output", "o", "-", "Output file (- for stdout)")
	groupCmd.Flags().StringVar(&groupFormat, "format", "csv", "Output format: csv, json, or table")
	groupCmd.Flags().StringSliceVarP(&groupColumns, "columns", "c", nil, "Column(s) to compute statistics for")
	groupCmd.MarkFlagRequired("columns")
	groupCmd.Flags().StringSliceVarP(&groupBy, "by", "b", nil, "Column(s) to group by")
	groupCmd.MarkFlagRequired("by")
	groupCmd.Flags().StringSliceVar(&groupStats, "stats", nil, "Statistics to compute (default mean,std,min,max)")
	groupCmd.Flags().StringVar(&groupPrefix, "prefix", "", "Prefix prepended to result column names")
	groupCmd.Flags().StringVar(&groupSuffix, "suffix", "", "Suffix appended to result column names")
	rootCmd.AddCommand(groupCmd)
}

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Add grouped statistics columns broadcast over each group",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		df, err := loadFrame(ctx, groupInput)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load input")
		}

		res, err := transform.GroupedStats(ctx, df, groupColumns, groupBy, &transform.GroupedOptions{
			Stats:  stats.ParseList(groupStats),
			Prefix: groupPrefix,
			Suffix: groupSuffix,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("grouped statistics failed")
		}

		// attach the broadcast columns to the input table for output
		out := df.Copy()
		for _, s := range res.Series {
			frame.Upsert(out, s)
		}

		if err := writeFrame(ctx, out, groupOutput, groupFormat); err != nil {
			log.Fatal().Err(err).Msg("could not write output")
		}
	},
}
