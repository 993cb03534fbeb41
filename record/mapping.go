// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bitmark-inc/recordd/fault"
)

// EncodeMapping - encode records as a JSON object keyed by identifier
//
// keys are written in the order of the records given, which is
// ascending identifier order when the records come from a snapshot;
// encoding/json would sort the keys lexically ("10" before "9") so
// the object is composed here
func EncodeMapping(records []Record, indent string) ([]byte, error) {
	buffer := bytes.Buffer{}
	buffer.WriteByte('{')
	for i, r := range records {
		if i > 0 {
			buffer.WriteByte(',')
		}
		if "" != indent {
			buffer.WriteByte('\n')
			buffer.WriteString(indent)
		}

		key, err := json.Marshal(r.Key())
		if nil != err {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		if "" != indent {
			buffer.WriteByte(' ')
		}

		value, err := json.Marshal(r)
		if nil != err {
			return nil, err
		}
		if "" != indent {
			nested := bytes.Buffer{}
			if err := json.Indent(&nested, value, indent, indent); nil != err {
				return nil, err
			}
			value = nested.Bytes()
		}
		buffer.Write(value)
	}
	if "" != indent && len(records) > 0 {
		buffer.WriteByte('\n')
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// DecodeMapping - decode a JSON object keyed by identifier
//
// each key must match the roll_no of its value; the result is in
// ascending identifier order
func DecodeMapping(b []byte) ([]Record, error) {
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &raw); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.ErrSnapshotCorrupt, err)
	}

	records := make([]Record, 0, len(raw))
	for key, value := range raw {
		r := Record{}
		if err := json.Unmarshal(value, &r); nil != err {
			return nil, fmt.Errorf("%w: key: %q  error: %s", fault.ErrSnapshotCorrupt, key, err)
		}
		if key != r.Key() {
			return nil, fmt.Errorf("%w: key: %q  roll_no: %d", fault.ErrSnapshotKeyMismatch, key, r.Identifier)
		}
		records = append(records, r)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Identifier < records[j].Identifier
	})
	return records, nil
}
