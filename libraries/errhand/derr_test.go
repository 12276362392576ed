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

package errhand

import (
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDError(t *testing.T) {
	color.NoColor = true

	cause := errors.New("dial tcp 127.0.0.1:3306: connection refused")
	verr := BuildDError("Failed to connect to %s", "127.0.0.1:3306").
		AddDetails("driver: %s", "mysql").
		AddDetails("is the server running?").
		AddCause(cause).
		Build()

	require.NotNil(t, verr)
	assert.Equal(t, "Failed to connect to 127.0.0.1:3306", verr.Error())
	assert.Equal(t, "Failed to connect to 127.0.0.1:3306\ndriver: mysql\nis the server running?\ncause:\n\t\tdial tcp 127.0.0.1:3306: connection refused", verr.Verbose())
	assert.True(t, errors.Is(verr, cause))
}

func TestDErrorNestedCause(t *testing.T) {
	color.NoColor = true

	inner := BuildDError("inner").AddDetails("line one\nline two").Build()
	outer := BuildDError("outer").AddCause(inner).Build()

	assert.Equal(t, "outer\ncause:\n\t\tinner\n\t\tline one\n\t\tline two", outer.Verbose())
}

func TestDErrorNoCause(t *testing.T) {
	color.NoColor = true

	verr := BuildDError("Failed to read test file").AddDetails("test file: %s", "cases.test").Build()
	assert.Equal(t, "Failed to read test file\ntest file: cases.test", verr.Verbose())

	// a percent sign with no args is left alone
	assert.Equal(t, "100% done", BuildDError("100% done").Build().Error())
}

func TestBuildCopiesDetails(t *testing.T) {
	color.NoColor = true

	builder := BuildDError("msg").AddDetails("first")
	first := builder.Build()
	builder.AddDetails("second")

	assert.Equal(t, []string{"first"}, first.(*DError).Details)
}
