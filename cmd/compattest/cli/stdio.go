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

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/dolthub/dolt/compattest/libraries/compat/config"
)

var CliOut io.Writer = color.Output
var CliErr io.Writer = color.Error

// SetIOStreams redirects all cli output. Used by tests to capture what would be printed.
func SetIOStreams(out, errOut io.Writer) {
	CliOut = out
	CliErr = errOut
}

// InitColor enables or disables colored output. In auto mode color is used only when stdout is a terminal.
func InitColor(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	default:
		fd := os.Stdout.Fd()
		color.NoColor = os.Getenv("TERM") == "dumb" || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
	}
}

// InitLogging sends logrus output to the cli error stream at |level|.
func InitLogging(level logrus.Level) {
	logrus.SetOutput(CliErr)
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableColors:    color.NoColor,
		DisableTimestamp: false,
		FullTimestamp:    false,
	})
}

func Println(a ...interface{}) {
	fmt.Fprintln(CliOut, a...)
}

func Printf(format string, a ...interface{}) {
	fmt.Fprintf(CliOut, format, a...)
}

func PrintErrln(a ...interface{}) {
	fmt.Fprintln(CliErr, a...)
}

func PrintErrf(format string, a ...interface{}) {
	fmt.Fprintf(CliErr, format, a...)
}
