// Copyright 2026 Dolthub, Inc.
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

package suite

import "strings"

// RowSeparator separates the columns of an expected row. There is no escaping, so a value can never contain one.
const RowSeparator = ","

// TestCase is a single query paired with the rows it is expected to return, in order.
type TestCase struct {
	// Query is the full query line, unmodified.
	Query string
	// ExpectedRows holds the expected rows, row-major. An empty slice means the query must return no rows.
	ExpectedRows [][]string
	// LineNum is the 1-based line number of the query in the test file.
	LineNum int
}

// ExpectedColumns returns the column count of the first expected row, which is authoritative for the whole case.
func (tc TestCase) ExpectedColumns() int {
	if len(tc.ExpectedRows) == 0 {
		return 0
	}
	return len(tc.ExpectedRows[0])
}

// TestSuite is the ordered list of test cases read from one file. Cases run in file order.
type TestSuite struct {
	Path  string
	Cases []TestCase
}

func (ts *TestSuite) Len() int {
	return len(ts.Cases)
}

// FormatRow renders a row the way it would be written in a test file.
func FormatRow(row []string) string {
	return strings.Join(row, RowSeparator)
}

func splitRow(line string) []string {
	return strings.Split(line, RowSeparator)
}
