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

package dbconn

import (
	"database/sql"
	"fmt"
	"strings"
)

// ValueRow is a row of driver values, as produced by database/sql scanning into interface{} destinations.
type ValueRow []any

var _ Row = ValueRow{}

func (r ValueRow) Len() int {
	return len(r)
}

// Text converts a column the same way database/sql assigns a value into a sql.NullString, except that NULL becomes
// the empty string.
func (r ValueRow) Text(i int) (string, error) {
	if i < 0 || i >= len(r) {
		return "", fmt.Errorf("column index %d out of range for row with %d columns", i, len(r))
	}

	var ns sql.NullString
	if err := ns.Scan(r[i]); err != nil {
		return "", err
	}

	if !ns.Valid {
		return "", nil
	}

	return ns.String, nil
}

// TextRow is a row whose columns are already text. Useful for servers and fakes that only speak strings.
type TextRow []string

var _ Row = TextRow{}

func (r TextRow) Len() int {
	return len(r)
}

func (r TextRow) Text(i int) (string, error) {
	if i < 0 || i >= len(r) {
		return "", fmt.Errorf("column index %d out of range for row with %d columns", i, len(r))
	}
	return r[i], nil
}

// RowStrings returns the text of every column in |r|. Columns that can't be read are rendered as empty strings.
func RowStrings(r Row) []string {
	strs := make([]string, r.Len())
	for i := range strs {
		s, err := r.Text(i)
		if err == nil {
			strs[i] = s
		}
	}
	return strs
}

// FormatRow renders |r| as a single comma separated line.
func FormatRow(r Row) string {
	return strings.Join(RowStrings(r), ",")
}
