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

package argparser

import (
	"errors"
	"fmt"
	"strings"
)

const (
	optNameValDelimChars = " =:"
	whitespaceChars      = " \r\n\t"

	helpFlag       = "help"
	helpFlagAbbrev = "h"
)

var ErrHelp = errors.New("Help")

// UnknownArgumentParam is returned when an option that was never registered is found on the command line.
type UnknownArgumentParam struct {
	name string
}

func (unkn UnknownArgumentParam) Error() string {
	return "error: unknown option `" + unkn.name + "'"
}

type ArgParser struct {
	Name              string
	MaxArgs           int
	Supported         []*Option
	nameOrAbbrevToOpt map[string]*Option
	// ArgListHelp describes each positional argument, in order, as a (name, description) pair.
	ArgListHelp [][2]string
	// OptionsFirst ends option parsing at the first positional argument. Everything from there on is positional,
	// even words starting with "-".
	OptionsFirst bool
}

// NewArgParserWithMaxArgs creates a new ArgParser for a named command that limits how many positional arguments it
// will accept. A |maxArgs| of -1 means any number.
func NewArgParserWithMaxArgs(name string, maxArgs int) *ArgParser {
	return &ArgParser{
		Name:              name,
		MaxArgs:           maxArgs,
		nameOrAbbrevToOpt: make(map[string]*Option),
	}
}

// SupportOption adds support for a new argument with the option given. Options must have a unique name and abbreviated name.
func (ap *ArgParser) SupportOption(opt *Option) {
	name := opt.Name
	abbrev := opt.Abbrev

	_, nameExist := ap.nameOrAbbrevToOpt[name]
	_, abbrevExist := ap.nameOrAbbrevToOpt[abbrev]

	if name == "" {
		panic("Name is required")
	} else if name == helpFlag || abbrev == helpFlag || name == helpFlagAbbrev || abbrev == helpFlagAbbrev {
		panic(`"help" and "h" are both reserved`)
	} else if nameExist || (abbrev != "" && abbrevExist) {
		panic("There is a bug.  Two supported arguments have the same name or abbreviation")
	} else if name[0] == '-' || (len(abbrev) > 0 && abbrev[0] == '-') {
		panic("There is a bug. Option names, and abbreviations should not start with -")
	} else if strings.IndexAny(name, optNameValDelimChars) != -1 || strings.IndexAny(name, whitespaceChars) != -1 {
		panic("There is a bug.  Option name contains an invalid character")
	}

	ap.Supported = append(ap.Supported, opt)
	ap.nameOrAbbrevToOpt[name] = opt

	if abbrev != "" {
		ap.nameOrAbbrevToOpt[abbrev] = opt
	}
}

// SupportsFlag adds support for a new flag (argument with no value).
func (ap *ArgParser) SupportsFlag(name, abbrev, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, OptType: OptionalFlag, Desc: desc})
	return ap
}

// SupportsString adds support for a new string argument with the description given.
func (ap *ArgParser) SupportsString(name, abbrev, valDesc, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: OptionalValue, Desc: desc})
	return ap
}

// SupportsValidatedString adds support for a new string argument with the description given and defined validation function.
func (ap *ArgParser) SupportsValidatedString(name, abbrev, valDesc, desc string, validator ValidationFunc) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: OptionalValue, Desc: desc, Validator: validator})
	return ap
}

// Parse parses the string args given using the configuration previously specified with calls to the various Supports*
// methods. Any unrecognized arguments or incorrect types will result in an appropriate error being returned. If the
// universal --help or -h flag is found, an ErrHelp error is returned.
func (ap *ArgParser) Parse(args []string) (*ArgParseResults, error) {
	positionalArgs := make([]string, 0, 16)
	namedArgs := make(map[string]string)
	onlyPositionalArgsLeft := false

	for index := 0; index < len(args); index++ {
		arg := args[index]

		if ap.OptionsFirst && len(positionalArgs) > 0 {
			onlyPositionalArgsLeft = true
		}

		// empty strings and a lone "-" get passed through like other naked words
		if len(arg) <= 1 || arg[0] != '-' || onlyPositionalArgsLeft {
			positionalArgs = append(positionalArgs, arg)
			continue
		}

		if arg == "--" {
			onlyPositionalArgsLeft = true
			continue
		}

		var err error
		index, err = ap.parseToken(args, index, namedArgs)
		if err != nil {
			return nil, err
		}
	}

	if ap.MaxArgs != -1 && len(positionalArgs) > ap.MaxArgs {
		return nil, fmt.Errorf("error: %s has too many positional arguments. Expected at most %d, found %d: %s",
			ap.Name, ap.MaxArgs, len(positionalArgs), strings.Join(positionalArgs, ", "))
	}

	return &ArgParseResults{options: namedArgs, args: positionalArgs}, nil
}

func (ap *ArgParser) parseToken(args []string, index int, namedArgs map[string]string) (int, error) {
	arg := strings.TrimLeft(args[index], "-")

	if arg == helpFlag || arg == helpFlagAbbrev {
		return 0, ErrHelp
	}

	name := arg
	var value *string
	if i := strings.IndexAny(arg, "=:"); i != -1 {
		name = arg[:i]
		v := arg[i+1:]
		value = &v
	}

	opt, ok := ap.nameOrAbbrevToOpt[name]
	if !ok {
		return 0, UnknownArgumentParam{name: name}
	}

	if _, exists := namedArgs[opt.Name]; exists {
		return 0, errors.New("error: multiple values provided for `" + opt.Name + "'")
	}

	if opt.OptType == OptionalFlag {
		if value != nil {
			return 0, errors.New("error: option `" + opt.Name + "' does not take a value")
		}
		namedArgs[opt.Name] = ""
		return index, nil
	}

	if value == nil {
		next := index + 1
		if next >= len(args) {
			return 0, errors.New("error: no value for option `" + opt.Name + "'")
		}
		value = &args[next]
		index = next
	}

	if opt.Validator != nil {
		if err := opt.Validator(*value); err != nil {
			return 0, err
		}
	}

	namedArgs[opt.Name] = *value
	return index, nil
}

// OptionsUsage returns one help line per supported option, in the order the options were added.
func (ap *ArgParser) OptionsUsage() string {
	sb := strings.Builder{}
	for _, opt := range ap.Supported {
		names := "--" + opt.Name
		if opt.Abbrev != "" {
			names = "-" + opt.Abbrev + ", " + names
		}
		if opt.OptType == OptionalValue {
			names += " <" + opt.ValDesc + ">"
		}
		sb.WriteString(fmt.Sprintf("  %-28s %s\n", names, opt.Desc))
	}
	return sb.String()
}

// ArgsUsage returns one help line per positional argument described in ArgListHelp.
func (ap *ArgParser) ArgsUsage() string {
	sb := strings.Builder{}
	for _, a := range ap.ArgListHelp {
		sb.WriteString(fmt.Sprintf("  %-28s %s\n", "<"+a[0]+">", a[1]))
	}
	return sb.String()
}
