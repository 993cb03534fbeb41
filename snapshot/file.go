// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package snapshot

import (
	"io/ioutil"
	"os"
	"sync"

	"github.com/bitmark-inc/recordd/record"
)

const (
	indent   = "    "
	fileMode = 0600
)

// File - JSON snapshot file
type File struct {
	sync.Mutex
	fileName string
}

// NewFile - snapshot persister for the named file
//
// the file need not exist yet
func NewFile(fileName string) *File {
	return &File{
		fileName: fileName,
	}
}

// FileName - path of the snapshot
func (f *File) FileName() string {
	return f.fileName
}

// LoadAll - read every record from the file
//
// a missing file is an empty store
func (f *File) LoadAll() ([]record.Record, error) {
	f.Lock()
	defer f.Unlock()

	b, err := ioutil.ReadFile(f.fileName)
	if os.IsNotExist(err) {
		return []record.Record{}, nil
	}
	if nil != err {
		return nil, err
	}

	return record.DecodeMapping(b)
}

// Save - truncate the file and write all of the records
func (f *File) Save(records []record.Record) error {
	b, err := record.EncodeMapping(records, indent)
	if nil != err {
		return err
	}
	b = append(b, '\n')

	f.Lock()
	defer f.Unlock()

	return ioutil.WriteFile(f.fileName, b, fileMode)
}
