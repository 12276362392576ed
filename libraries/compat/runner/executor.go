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

package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/dolt/compattest/libraries/compat/dbconn"
	"github.com/dolthub/dolt/compattest/libraries/compat/suite"
)

// Executor runs test cases against a connection and reports progress. Progress lines go to |Out|, failure details
// to |Err|.
type Executor struct {
	Out io.Writer
	Err io.Writer

	// Verbose adds a character diff of the first mismatching value to failure output.
	Verbose bool
}

func NewExecutor(out, errOut io.Writer) *Executor {
	return &Executor{Out: out, Err: errOut}
}

// RunSuite runs every case in |ts| in order on |conn|, and stops at the first one that fails. It returns the number
// of cases that passed and, if one failed, a *TestFailure.
func (e *Executor) RunSuite(ctx context.Context, conn dbconn.Conn, ts *suite.TestSuite) (int, error) {
	passed := 0
	for i, tc := range ts.Cases {
		if err := ctx.Err(); err != nil {
			return passed, err
		}

		start := time.Now()
		err := e.RunTest(ctx, conn, tc)

		entry := logrus.WithField("line", tc.LineNum).WithField("elapsed", time.Since(start))
		if err != nil {
			entry.WithError(err).Debug("test failed")
			return passed, &TestFailure{Path: ts.Path, Index: i, Case: tc, Err: err}
		}

		entry.Debug("test passed")
		passed++
	}

	return passed, nil
}

// RunTest runs a single test case. It returns nil when the rows returned by the query match the expected rows.
func (e *Executor) RunTest(ctx context.Context, conn dbconn.Conn, tc suite.TestCase) error {
	e.println("Running test: %s", tc.Query)

	rows, err := conn.Query(ctx, tc.Query)
	if err != nil {
		e.errorln("%v", err)
		return ErrQueryFailed.Wrap(err, tc.Query)
	}

	return e.compare(tc, rows)
}

func (e *Executor) compare(tc suite.TestCase, rows []dbconn.Row) error {
	expected := tc.ExpectedRows

	if len(rows) == 0 {
		if len(expected) == 0 {
			e.println("Returns 0 rows")
			return nil
		}
		e.errorln("Expected %d rows, got 0", len(expected))
		return ErrRowCount.New(len(expected), 0)
	}

	if len(expected) == 0 {
		e.errorln("Expected 0 rows, got %d", len(rows))
		return ErrRowCount.New(0, len(rows))
	}

	if rows[0].Len() != tc.ExpectedColumns() {
		e.errorln("Expected %d columns, got %d", tc.ExpectedColumns(), rows[0].Len())
		return ErrColumnCount.New(tc.ExpectedColumns(), rows[0].Len())
	}

	for i := 0; i < len(rows) && i < len(expected); i++ {
		for j, exp := range expected[i] {
			actual, err := rows[i].Text(j)
			if err != nil {
				actual = ""
			}

			if exp != actual {
				e.reportMismatch(exp, actual, rows[i+1:])
				return ErrValueMismatch.New(i+1, j+1, exp, actual)
			}
		}
	}

	e.println("Returns %d rows", len(rows))
	if len(rows) != len(expected) {
		e.errorln("Expected %d rows", len(expected))
		return ErrRowCount.New(len(expected), len(rows))
	}

	return nil
}

func (e *Executor) reportMismatch(expected, actual string, rest []dbconn.Row) {
	e.errorln("Expected:\n'%s'", expected)
	e.errorln("Result:\n'%s'", actual)

	if e.Verbose {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(expected, actual, false)
		e.errorln("Diff:\n%s", dmp.DiffPrettyText(diffs))
	}

	e.errorln("Rest of the results:")
	for _, r := range rest {
		e.errorln("%s", dbconn.FormatRow(r))
	}
}

func (e *Executor) println(format string, args ...interface{}) {
	fmt.Fprintf(e.Out, format+"\n", args...)
}

func (e *Executor) errorln(format string, args ...interface{}) {
	fmt.Fprintf(e.Err, format+"\n", args...)
}
