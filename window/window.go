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

// Package window interprets window specifications and resolves the rows that
// belong to each row's window. Count windows anchor on row position; time
// windows anchor on an ascending timestamp axis with a half-open
// (t-D, t] interval.
package window

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidWindow   = errors.New("invalid window")
	ErrMissingTimeAxis = errors.New("time-based window requires a time axis column")
)

// Window is either a count of rows or a time duration. The label is what
// result-column names embed, preserving the caller's spelling for string
// specs like "24H".
type Window struct {
	rows   int
	period time.Duration
	label  string
}

// durationSpec matches simple offset strings such as "90s", "30m", "24H",
// "7d", "2W"
var durationSpec = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?)\s*([smhdwSMHDW])$`)

var unitDurations = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

// Rows builds a count-based window of n rows
func Rows(n int) Window {
	return Window{rows: n, label: strconv.Itoa(n)}
}

// Duration builds a time-based window; an empty label defaults to the
// duration's canonical string
func Duration(d time.Duration, label string) Window {
	if label == "" {
		label = d.String()
	}
	return Window{period: d, label: label}
}

// Parse accepts an int (row count), a time.Duration, or an offset string
// like "24H" or "7d" and returns the corresponding window
func Parse(spec interface{}) (Window, error) {
	switch v := spec.(type) {
	case Window:
		return v, nil
	case int:
		return Rows(v), nil
	case int64:
		return Rows(int(v)), nil
	case time.Duration:
		return Duration(v, ""), nil
	case string:
		d, err := parseOffset(v)
		if err != nil {
			return Window{}, err
		}
		return Duration(d, v), nil
	default:
		return Window{}, fmt.Errorf("%w: unsupported window spec %T", ErrInvalidWindow, spec)
	}
}

func parseOffset(s string) (time.Duration, error) {
	if m := durationSpec.FindStringSubmatch(s); m != nil {
		qty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
		}
		unit := unitDurations[strings.ToLower(m[2])]
		return time.Duration(qty * float64(unit)), nil
	}

	// fall back to compound specs like "1h30m"
	if d, err := time.ParseDuration(strings.ToLower(s)); err == nil {
		return d, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
}

// TimeBased reports whether the window anchors on a timestamp axis
func (w Window) TimeBased() bool {
	return w.period > 0
}

// Label returns the window's name fragment for result columns
func (w Window) Label() string {
	return w.label
}

// Period returns the window duration; zero for count windows
func (w Window) Period() time.Duration {
	return w.period
}

// Size returns the row count; zero for time windows
func (w Window) Size() int {
	return w.rows
}

// Validate rejects non-positive windows
func (w Window) Validate() error {
	if w.period < 0 {
		return fmt.Errorf("%w: duration must be > 0, got %s", ErrInvalidWindow, w.period)
	}
	if w.TimeBased() {
		return nil
	}
	if w.rows <= 0 {
		return fmt.Errorf("%w: size must be > 0, got %d", ErrInvalidWindow, w.rows)
	}
	return nil
}

// DefaultMinPeriods is the minimum-observation count used when the caller
// does not specify one: the full window for count windows, a single
// observation for time windows.
func (w Window) DefaultMinPeriods() int {
	if w.TimeBased() {
		return 1
	}
	return w.rows
}

// Bounds returns the inclusive [lo, hi] row range of row i's count window.
// Trailing windows cover [i-n+1, i]; centered windows hold n total rows
// centered on i with the extra row on the trailing side when n is even.
func (w Window) Bounds(i, nRows int, center bool) (int, int) {
	lead := 0
	if center {
		lead = (w.rows - 1) / 2
	}
	trail := w.rows - 1 - lead

	lo := i - trail
	hi := i + lead
	if lo < 0 {
		lo = 0
	}
	if hi > nRows-1 {
		hi = nRows - 1
	}
	return lo, hi
}

// TimeBounds returns the inclusive [lo, i] row range of row i's time window
// over the ascending axis times: every row j with times[j] in
// (times[i]-D, times[i]]. The lower bound is exclusive; a row exactly D
// before row i falls outside the window.
func (w Window) TimeBounds(i int, times []time.Time) int {
	cutoff := times[i].Add(-w.period)
	return sort.Search(i+1, func(j int) bool {
		return times[j].After(cutoff)
	})
}
