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
	"fmt"

	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/dolt/compattest/libraries/compat/suite"
)

var ErrQueryFailed = goerrors.NewKind("query failed: %s")
var ErrRowCount = goerrors.NewKind("expected %d rows, got %d")
var ErrColumnCount = goerrors.NewKind("expected %d columns, got %d")
var ErrValueMismatch = goerrors.NewKind("row %d, column %d: expected '%s', got '%s'")

// TestFailure is returned by RunSuite for the test case that stopped the run.
type TestFailure struct {
	Path  string
	Index int
	Case  suite.TestCase
	Err   error
}

func (tf *TestFailure) Error() string {
	return fmt.Sprintf("%s:%d: test %d failed: %v", tf.Path, tf.Case.LineNum, tf.Index+1, tf.Err)
}

func (tf *TestFailure) Unwrap() error {
	return tf.Err
}

func (tf *TestFailure) Cause() error {
	return tf.Err
}

// IsMismatch returns whether |err| is a result assertion failure, as opposed to a failure to run the query.
func IsMismatch(err error) bool {
	return ErrRowCount.Is(err) || ErrColumnCount.Is(err) || ErrValueMismatch.Is(err)
}
