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

	"github.com/featurekit/featurekit/timeconv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	epochInput   string
	epochOutput  string
	epochFormat  string
	epochColumns []string
	epochUnit    string
	epochErrors  string
)

func init() {
	epochCmd.Flags().StringVarP(&epochInput, "input", "i", "", "Input CSV file")
	epochCmd.MarkFlagRequired("input")
	epochCmd.Flags().StringVarP(&epochOutput, "output", "o", "-", "Output file (- for stdout)")
	epochCmd.Flags().StringVar(&epochFormat, "format", "csv", "Output format: csv, json, or table")
	epochCmd.Flags().StringSliceVarP(&epochColumns, "columns", "c", nil, "Timestamp column(s) to convert")
	epochCmd.MarkFlagRequired("columns")
	epochCmd.Flags().StringVarP(&epochUnit, "unit", "u", "us", "Epoch unit: us, ms, or s")
	epochCmd.Flags().StringVar(&epochErrors, "errors", "raise", "Error policy: raise, ignore, or coerce")
	rootCmd.AddCommand(epochCmd)
}

var epochCmd = &cobra.Command{
	Use:   "epoch",
	Short: "Convert timestamp columns to integer epoch values",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		df, err := loadFrame(ctx, epochInput)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load input")
		}

		res, err := timeconv.ToEpoch(ctx, df, epochColumns, timeconv.Unit(epochUnit), false, timeconv.ErrorPolicy(epochErrors))
		if err != nil {
			log.Fatal().Err(err).Msg("epoch conversion failed")
		}

		if err := writeFrame(ctx, res, epochOutput, epochFormat); err != nil {
			log.Fatal().Err(err).Msg("could not write output")
		}
	},
}
