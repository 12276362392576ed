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

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrReadTestFile is returned when a test file can't be opened or read.
var ErrReadTestFile = goerrors.NewKind("unable to read test file %s")

const maxLineSize = 16 * 1024 * 1024

// lineScanner wraps a bufio.Scanner and keeps track of the current line number.
type lineScanner struct {
	*bufio.Scanner
	lineNum int
}

func newLineScanner(r io.Reader) *lineScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &lineScanner{Scanner: s}
}

func (ls *lineScanner) Scan() bool {
	ok := ls.Scanner.Scan()
	if ok {
		ls.lineNum++
	}
	return ok
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// ParseFile reads the test file at |path| and returns its test cases in file order.
func ParseFile(path string) (*TestSuite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadTestFile.Wrap(err, path)
	}
	defer f.Close()

	return Parse(path, f)
}

// Parse reads test cases from |r|. Each case is a query line followed by zero or more comma separated expected rows,
// terminated by a blank line or the end of the input. Blank lines between cases are skipped.
func Parse(name string, r io.Reader) (*TestSuite, error) {
	ts := &TestSuite{Path: name}
	scanner := newLineScanner(r)

	for {
		tc, err := parseTestCase(scanner)
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, ErrReadTestFile.Wrap(errors.Wrapf(err, "after line %d", scanner.lineNum), name)
		}
		ts.Cases = append(ts.Cases, tc)
	}

	return ts, nil
}

func parseTestCase(scanner *lineScanner) (TestCase, error) {
	var tc TestCase

	found := false
	for scanner.Scan() {
		line := scanner.Text()
		if isBlank(line) {
			continue
		}
		tc.Query = line
		tc.LineNum = scanner.lineNum
		found = true
		break
	}

	if !found {
		if err := scanner.Err(); err != nil {
			return tc, err
		}
		return tc, io.EOF
	}

	tc.ExpectedRows = [][]string{}
	for scanner.Scan() {
		line := scanner.Text()
		if isBlank(line) {
			break
		}
		tc.ExpectedRows = append(tc.ExpectedRows, splitRow(line))
	}

	return tc, scanner.Err()
}
