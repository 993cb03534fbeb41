// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - common setup for tests
package fixtures

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/record"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// Records - a small roster in ascending identifier order
var Records = []record.Record{
	{Identifier: 3, Name: "Ada", Score: 88, Category: "B"},
	{Identifier: 9, Name: "Grace", Score: 97, Category: "A"},
	{Identifier: 10, Name: "Linus", Score: 64, Category: "C"},
	{Identifier: 27, Name: "Barbara", Score: 91, Category: "A"},
}

// SetupTestLogger - start a file logger that only records critical items
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove the log files
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
