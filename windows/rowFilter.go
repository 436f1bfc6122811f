// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"fmt"
	"strconv"
	"strings"
)

// compareOp is the operator of one filter condition.
type compareOp int

const (
	opEqual compareOp = iota
	opNotEqual
	opGreater
	opLess
	opGreaterEqual
	opLessEqual
	opContains
)

// Longer symbols first so ">=" is not read as ">".
var compareSymbols = []struct {
	op     compareOp
	symbol string
}{
	{opGreaterEqual, ">="},
	{opLessEqual, "<="},
	{opNotEqual, "!="},
	{opEqual, "="},
	{opGreater, ">"},
	{opLess, "<"},
	{opContains, "~"},
}

// condition compares one column with a value. col is -1 for a free text
// search across all columns.
type condition struct {
	col   int
	op    compareOp
	value string
}

// rowFilter narrows the hydrology table view, for example
// "station = S1 or level >= 2,5". Conditions are joined left to right by
// "and"/"or" without precedence.
type rowFilter struct {
	conds []condition
	ors   []bool // ors[i] joins conds[i] and conds[i+1]
}

// compileRowFilter parses text against the given column names, which match
// case-insensitively. Empty text gives a nil filter that matches every row.
func compileRowFilter(columns []string, text string) (*rowFilter, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}

	f := &rowFilter{}
	var clause []string
	flush := func() error {
		if len(clause) == 0 {
			return fmt.Errorf("filter: missing condition")
		}
		c, err := parseCondition(index, strings.Join(clause, " "))
		if err != nil {
			return err
		}
		f.conds = append(f.conds, c)
		clause = clause[:0]
		return nil
	}
	for _, w := range words {
		switch strings.ToLower(w) {
		case "and", "or":
			if err := flush(); err != nil {
				return nil, err
			}
			f.ors = append(f.ors, strings.EqualFold(w, "or"))
		default:
			clause = append(clause, w)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseCondition(index map[string]int, text string) (condition, error) {
	for _, s := range compareSymbols {
		i := strings.Index(text, s.symbol)
		if i <= 0 {
			continue
		}
		name := strings.TrimSpace(text[:i])
		col, ok := index[strings.ToLower(name)]
		if !ok {
			return condition{}, fmt.Errorf("filter: unknown column %q", name)
		}
		value := strings.Trim(strings.TrimSpace(text[i+len(s.symbol):]), `"'`)
		return condition{col: col, op: s.op, value: value}, nil
	}
	return condition{col: -1, op: opContains, value: strings.Trim(text, `"'`)}, nil
}

// match reports whether row passes the filter.
func (f *rowFilter) match(row []string) bool {
	if f == nil || len(f.conds) == 0 {
		return true
	}
	ok := f.conds[0].match(row)
	for i, or := range f.ors {
		next := f.conds[i+1].match(row)
		if or {
			ok = ok || next
		} else {
			ok = ok && next
		}
	}
	return ok
}

// rows returns the indexes of the matching rows.
func (f *rowFilter) rows(all [][]string) []int {
	out := make([]int, 0, len(all))
	for i, r := range all {
		if f.match(r) {
			out = append(out, i)
		}
	}
	return out
}

func (c condition) match(row []string) bool {
	if c.col < 0 {
		needle := strings.ToLower(c.value)
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), needle) {
				return true
			}
		}
		return false
	}
	if c.col >= len(row) {
		return false
	}
	cell := row[c.col]

	switch c.op {
	case opEqual:
		return strings.EqualFold(cell, c.value)
	case opNotEqual:
		return !strings.EqualFold(cell, c.value)
	case opContains:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(c.value))
	}

	cmp, ok := compareNumbers(cell, c.value)
	if !ok {
		cmp = strings.Compare(strings.ToLower(cell), strings.ToLower(c.value))
	}
	switch c.op {
	case opGreater:
		return cmp > 0
	case opLess:
		return cmp < 0
	case opGreaterEqual:
		return cmp >= 0
	case opLessEqual:
		return cmp <= 0
	}
	return false
}

// compareNumbers compares a and b as numbers, accepting a decimal comma as
// written by many hydrology exports.
func compareNumbers(a, b string) (int, bool) {
	x, errA := parseDecimal(a)
	y, errB := parseDecimal(b)
	if errA != nil || errB != nil {
		return 0, false
	}
	switch {
	case x < y:
		return -1, true
	case x > y:
		return 1, true
	}
	return 0, true
}

func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return strconv.ParseFloat(s, 64)
}
