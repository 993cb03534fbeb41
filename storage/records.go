// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/recordd/fault"
	"github.com/bitmark-inc/recordd/record"
)

const (
	recordPrefix = 'R'
	keyLength    = 9
)

// range covering every record key
var recordRange = &ldb_util.Range{
	Start: []byte{recordPrefix},
	Limit: []byte{recordPrefix + 1},
}

// the sign bit is flipped so negative identifiers sort first
func recordKey(identifier int) []byte {
	key := make([]byte, keyLength)
	key[0] = recordPrefix
	binary.BigEndian.PutUint64(key[1:], uint64(identifier)^(1<<63))
	return key
}

func identifierFromKey(key []byte) (int, error) {
	if keyLength != len(key) || recordPrefix != key[0] {
		return 0, fmt.Errorf("%w: key: %x", fault.ErrSnapshotCorrupt, key)
	}
	n := int64(binary.BigEndian.Uint64(key[1:]) ^ (1 << 63))
	return int(n), nil
}

// LoadAll - read every record in ascending identifier order
func (d *Database) LoadAll() ([]record.Record, error) {
	d.RLock()
	defer d.RUnlock()

	if nil == d.db {
		return nil, fault.ErrNotInitialised
	}

	records := make([]record.Record, 0)

	iter := d.db.NewIterator(recordRange, nil)
	defer iter.Release()

	for iter.Next() {
		identifier, err := identifierFromKey(iter.Key())
		if nil != err {
			return nil, err
		}

		r := record.Record{}
		err = json.Unmarshal(iter.Value(), &r)
		if nil != err {
			return nil, fmt.Errorf("%w: key: %d  error: %s", fault.ErrSnapshotCorrupt, identifier, err)
		}
		if identifier != r.Identifier {
			return nil, fmt.Errorf("%w: key: %d  roll_no: %d", fault.ErrSnapshotKeyMismatch, identifier, r.Identifier)
		}
		records = append(records, r)
	}

	return records, iter.Error()
}

// Save - replace the whole contents with the given records
//
// all of the deletes and puts are written as one batch
func (d *Database) Save(records []record.Record) error {
	d.Lock()
	defer d.Unlock()

	if nil == d.db {
		return fault.ErrNotInitialised
	}

	batch := new(leveldb.Batch)

	iter := d.db.NewIterator(recordRange, nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return err
	}

	for _, r := range records {
		value, err := json.Marshal(r)
		if nil != err {
			return err
		}
		batch.Put(recordKey(r.Identifier), value)
	}

	return d.db.Write(batch, nil)
}
