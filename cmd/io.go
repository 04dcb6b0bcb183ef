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
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/exports"
	"github.com/rocketlaunchr/dataframe-go/imports"
)

var dontLock = dataframe.Options{DontLock: true}

// loadFrame reads a CSV table, inferring column types
func loadFrame(ctx context.Context, path string) (*dataframe.DataFrame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open input: %w", err)
	}
	defer fh.Close()

	df, err := imports.LoadFromCSV(ctx, fh, imports.CSVLoadOptions{
		InferDataTypes:   true,
		TrimLeadingSpace: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not parse csv: %w", err)
	}
	return df, nil
}

// writeFrame writes df to path ("-" for stdout) in the requested format:
// csv, json (array of records), or table (ASCII preview)
func writeFrame(ctx context.Context, df *dataframe.DataFrame, path, format string) error {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		fh, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("could not create output: %w", err)
		}
		defer fh.Close()
		w = fh
	}

	switch format {
	case "", "csv":
		return exports.ExportToCSV(ctx, w, df)
	case "json":
		return writeJSON(w, df)
	case "table":
		return writeTable(w, df)
	default:
		return fmt.Errorf("unknown output format %q (must be csv, json, or table)", format)
	}
}

func writeJSON(w io.Writer, df *dataframe.DataFrame) error {
	nRows := df.NRows(dontLock)
	records := make([]map[string]interface{}, nRows)

	for row := 0; row < nRows; row++ {
		rec := make(map[string]interface{}, len(df.Series))
		for _, s := range df.Series {
			rec[s.Name(dontLock)] = s.Value(row, dontLock)
		}
		records[row] = rec
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeTable(w io.Writer, df *dataframe.DataFrame) error {
	cols := make([]string, len(df.Series))
	for i, s := range df.Series {
		cols[i] = s.Name(dontLock)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(cols)
	footer := make([]string, len(cols))
	footer[0] = fmt.Sprintf("%d rows", df.NRows(dontLock))
	table.SetFooter(footer)
	table.SetBorder(false)

	nRows := df.NRows(dontLock)
	for row := 0; row < nRows; row++ {
		rowVals := make([]string, len(df.Series))
		for i, s := range df.Series {
			rowVals[i] = s.ValueString(row, dontLock)
		}
		table.Append(rowVals)
	}

	table.Render()
	return nil
}
