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

// Package stats defines the fixed registry of statistics the featurekit
// transforms may compute. Statistics are resolved against the registry
// before any computation runs so bad requests fail atomically.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic identifies one reduction from a sequence of values to a scalar
type Statistic string

const (
	Mean   Statistic = "mean"
	Std    Statistic = "std"
	Min    Statistic = "min"
	Max    Statistic = "max"
	Sum    Statistic = "sum"
	Count  Statistic = "count"
	Median Statistic = "median"
	Kurt   Statistic = "kurt"
	Skew   Statistic = "skew"

	// order-sensitive statistics, only available for grouped aggregation
	First   Statistic = "first"
	Last    Statistic = "last"
	NUnique Statistic = "nunique"
)

var ErrInvalidStatistic = errors.New("invalid statistic")

// Fn reduces a window of values to a scalar. vals arrive in row order and may
// contain NaN; every Fn except First and Last skips NaN observations.
type Fn func(vals []float64) float64

var rolling = map[Statistic]Fn{
	Mean:   mean,
	Std:    std,
	Min:    minimum,
	Max:    maximum,
	Sum:    sum,
	Count:  count,
	Median: median,
	Kurt:   kurtosis,
	Skew:   skewness,
}

var grouped = map[Statistic]Fn{
	Mean:    mean,
	Std:     std,
	Min:     minimum,
	Max:     maximum,
	Sum:     sum,
	Count:   count,
	Median:  median,
	Kurt:    kurtosis,
	Skew:    skewness,
	First:   first,
	Last:    last,
	NUnique: nunique,
}

// DefaultStats is the statistic list used when a caller requests none
func DefaultStats() []Statistic {
	return []Statistic{Mean, Std, Min, Max}
}

// ResolveRolling validates the requested statistics against the rolling
// registry and returns their functions in request order. Every invalid name
// is reported in a single error.
func ResolveRolling(requested []Statistic) ([]Fn, error) {
	return resolve(requested, rolling)
}

// ResolveGrouped is ResolveRolling for the grouped registry, which adds the
// order-sensitive first/last/nunique statistics.
func ResolveGrouped(requested []Statistic) ([]Fn, error) {
	return resolve(requested, grouped)
}

func resolve(requested []Statistic, registry map[Statistic]Fn) ([]Fn, error) {
	fns := make([]Fn, 0, len(requested))
	var invalid []string

	for _, s := range requested {
		fn, ok := registry[s]
		if !ok {
			invalid = append(invalid, string(s))
			continue
		}
		fns = append(fns, fn)
	}

	if len(invalid) > 0 {
		valid := make([]string, 0, len(registry))
		for s := range registry {
			valid = append(valid, string(s))
		}
		sort.Strings(valid)
		return nil, fmt.Errorf("%w: [%s]; valid options are [%s]", ErrInvalidStatistic,
			strings.Join(invalid, ", "), strings.Join(valid, ", "))
	}

	return fns, nil
}

// ParseList converts statistic names to Statistic values; validation happens
// at resolve time
func ParseList(names []string) []Statistic {
	out := make([]Statistic, len(names))
	for i, n := range names {
		out[i] = Statistic(strings.ToLower(strings.TrimSpace(n)))
	}
	return out
}

// observations strips NaN values, preserving order
func observations(vals []float64) []float64 {
	obs := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			obs = append(obs, v)
		}
	}
	return obs
}

// Observations reports the number of non-missing values in the window; used
// by callers to enforce min_periods
func Observations(vals []float64) int {
	n := 0
	for _, v := range vals {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

func mean(vals []float64) float64 {
	obs := observations(vals)
	if len(obs) == 0 {
		return math.NaN()
	}
	return stat.Mean(obs, nil)
}

// std is the population standard deviation (ddof=0)
func std(vals []float64) float64 {
	obs := observations(vals)
	if len(obs) == 0 {
		return math.NaN()
	}
	return stat.PopStdDev(obs, nil)
}

func minimum(vals []float64) float64 {
	obs := observations(vals)
	if len(obs) == 0 {
		return math.NaN()
	}
	return floats.Min(obs)
}

func maximum(vals []float64) float64 {
	obs := observations(vals)
	if len(obs) == 0 {
		return math.NaN()
	}
	return floats.Max(obs)
}

func sum(vals []float64) float64 {
	return floats.Sum(observations(vals))
}

func count(vals []float64) float64 {
	return float64(Observations(vals))
}

func median(vals []float64) float64 {
	obs := observations(vals)
	if len(obs) == 0 {
		return math.NaN()
	}
	sort.Float64s(obs)
	mid := len(obs) / 2
	if len(obs)%2 == 1 {
		return obs[mid]
	}
	return (obs[mid-1] + obs[mid]) / 2
}

// kurtosis is the bias-corrected sample excess kurtosis; it requires at
// least 4 observations
func kurtosis(vals []float64) float64 {
	obs := observations(vals)
	if len(obs) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(obs, nil)
}

// skewness is the bias-corrected sample skewness; it requires at least 3
// observations
func skewness(vals []float64) float64 {
	obs := observations(vals)
	if len(obs) < 3 {
		return math.NaN()
	}
	return stat.Skew(obs, nil)
}

// first and last are positional: a missing leading or trailing value is
// returned as-is rather than skipped
func first(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[0]
}

func last(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return vals[len(vals)-1]
}

func nunique(vals []float64) float64 {
	seen := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		seen[v] = struct{}{}
	}
	return float64(len(seen))
}
