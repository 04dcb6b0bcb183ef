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
	"fmt"
	"os"

	"github.com/featurekit/featurekit/common"
	"github.com/featurekit/featurekit/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var otelShutdown func(context.Context) error

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "FK_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "FK_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "FK_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Pretty print log output")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Tracing configuration
	viper.BindEnv("otlp.enabled", "FK_OTLP_ENABLED")
	rootCmd.PersistentFlags().Bool("otlp", false, "Export OpenTelemetry traces")
	viper.BindPFlag("otlp.enabled", rootCmd.PersistentFlags().Lookup("otlp"))

	viper.BindEnv("otlp.endpoint", "FK_OTLP_ENDPOINT")
	rootCmd.PersistentFlags().String("otlp-endpoint", "localhost:4317", "OTLP collector endpoint")
	viper.BindPFlag("otlp.endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))

	viper.BindEnv("otlp.http", "FK_OTLP_HTTP")
	rootCmd.PersistentFlags().Bool("otlp-http", false, "Use HTTP(s) instead of gRPC for the OTLP connection")
	viper.BindPFlag("otlp.http", rootCmd.PersistentFlags().Lookup("otlp-http"))
}

var rootCmd = &cobra.Command{
	Use:     "featurekit",
	Version: common.CurrentVersion.String(),
	Short:   "featurekit computes windowed and grouped features over tabular data",
	Long: `featurekit is a feature-engineering toolkit for tabular data. It reads
CSV tables and adds rolling statistics, grouped statistics, lag features,
diff features, and epoch-converted datetime columns.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		if viper.GetBool("otlp.enabled") {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Error().Err(err).Msg("could not configure tracing")
				return
			}
			otelShutdown = shutdown
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if otelShutdown != nil {
			if err := otelShutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("could not flush traces")
			}
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
