// Copyright 2019 Dolthub, Inc.
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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const causeIndent = "\t\t"

// VerboseError is an error with a one line message for the user and a longer form that adds the context it
// happened in and its cause.
type VerboseError interface {
	error
	Verbose() string
}

// DErrorBuilder accumulates the parts of a DError. Details are kept one per line, in the order they were added.
type DErrorBuilder struct {
	dispMsg string
	details []string
	cause   error
}

func BuildDError(dispFmt string, args ...interface{}) *DErrorBuilder {
	return &DErrorBuilder{dispMsg: sprintf(dispFmt, args)}
}

// AddDetails adds a line of context, such as the server address or the file being read. Multi-line details are
// split so each line is indented the same way.
func (builder *DErrorBuilder) AddDetails(detailsFmt string, args ...interface{}) *DErrorBuilder {
	builder.details = append(builder.details, strings.Split(sprintf(detailsFmt, args), "\n")...)
	return builder
}

func (builder *DErrorBuilder) AddCause(cause error) *DErrorBuilder {
	builder.cause = cause
	return builder
}

func (builder *DErrorBuilder) Build() VerboseError {
	details := make([]string, len(builder.details))
	copy(details, builder.details)
	return &DError{DisplayMsg: builder.dispMsg, Details: details, cause: builder.cause}
}

type DError struct {
	DisplayMsg string
	Details    []string
	cause      error
}

func (derr *DError) Error() string {
	return color.RedString(derr.DisplayMsg)
}

func (derr *DError) Unwrap() error {
	return derr.cause
}

// Verbose renders the message, then each detail, then the cause indented beneath a "cause:" line. A cause that is
// itself a VerboseError is rendered in its verbose form.
func (derr *DError) Verbose() string {
	lines := append([]string{derr.Error()}, derr.Details...)

	if derr.cause != nil {
		causeStr := derr.cause.Error()
		if vCause, ok := derr.cause.(VerboseError); ok {
			causeStr = vCause.Verbose()
		}

		lines = append(lines, "cause:")
		for _, l := range strings.Split(causeStr, "\n") {
			lines = append(lines, causeIndent+l)
		}
	}

	return strings.Join(lines, "\n")
}

func sprintf(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
