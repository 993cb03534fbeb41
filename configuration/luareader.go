// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"strings"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/bitmark-inc/recordd/fault"
)

// ParseConfigurationFile - read and execute a Lua files and assign
// the results to a configuration structure
//
// the file must end with a return of a single table
func ParseConfigurationFile(fileName string, config interface{}, variables map[string]string) error {
	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()

	// create the global "arg" table
	// arg[0] = config file
	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	L.SetGlobal("arg", arg)

	for name, value := range variables {
		L.SetGlobal(name, lua.LString(value))
	}

	// execute configuration
	if err := L.DoFile(fileName); err != nil {
		return err
	}

	table, ok := L.Get(L.GetTop()).(*lua.LTable)
	if !ok {
		return fmt.Errorf("%w: %q did not return a table", fault.ErrConfigurationInvalid, fileName)
	}

	mapperOption := gluamapper.Option{
		NameFunc: func(s string) string {
			return s
		},
		TagName: "gluamapper",
	}
	mapper := gluamapper.Mapper{Option: mapperOption}
	return mapper.Map(table, config)
}

// ParseVariable - split a "name=value" definition
func ParseVariable(definition string) (string, string, error) {
	s := strings.SplitN(definition, "=", 2)
	if 2 != len(s) {
		return "", "", fmt.Errorf("%w: definition: %q is not name=value", fault.ErrConfigurationInvalid, definition)
	}
	name := strings.TrimSpace(s[0])
	if !isIdentifier(name) {
		return "", "", fmt.Errorf("%w: variable: %q is not a Lua identifier", fault.ErrConfigurationInvalid, name)
	}
	return name, s[1], nil
}

// [A-Za-z_][A-Za-z0-9_]*
func isIdentifier(s string) bool {
	if "" == s {
		return false
	}
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '_' == c:
		case i > 0 && '0' <= c && c <= '9':
		default:
			return false
		}
	}
	return true
}
