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

type ArgParseResults struct {
	options map[string]string
	args    []string
}

// Contains returns whether the option or flag |name| was given.
func (res *ArgParseResults) Contains(name string) bool {
	_, ok := res.options[name]
	return ok
}

func (res *ArgParseResults) GetValue(name string) (string, bool) {
	val, ok := res.options[name]
	return val, ok
}

func (res *ArgParseResults) GetValueOrDefault(name, defVal string) string {
	if val, ok := res.options[name]; ok {
		return val
	}
	return defVal
}

func (res *ArgParseResults) Args() []string {
	return res.args
}

func (res *ArgParseResults) NArg() int {
	return len(res.args)
}

func (res *ArgParseResults) Arg(idx int) string {
	return res.args[idx]
}
