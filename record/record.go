// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bitmark-inc/recordd/fault"
)

// Record - one entry in the store
type Record struct {
	Identifier int
	Name       string
	Score      int
	Category   string
}

// the JSON encoding of a record
type wire struct {
	Name   string `json:"name"`
	RollNo *int   `json:"roll_no"`
	Marks  *int   `json:"marks"`
	Grade  string `json:"grade"`
}

// Key - the stringified identifier used as a snapshot mapping key
func (r Record) Key() string {
	return strconv.Itoa(r.Identifier)
}

// Validate - check that all fields are present and sensible
func (r Record) Validate() error {
	if r.Identifier < 0 {
		return fault.ErrInvalidIdentifier
	}
	if "" == strings.TrimSpace(r.Name) {
		return fault.ErrInvalidName
	}
	if "" == strings.TrimSpace(r.Category) {
		return fault.ErrInvalidCategory
	}
	return nil
}

// MarshalJSON - convert a record to its JSON object form
func (r Record) MarshalJSON() ([]byte, error) {
	id := r.Identifier
	score := r.Score
	return json.Marshal(wire{
		Name:   r.Name,
		RollNo: &id,
		Marks:  &score,
		Grade:  r.Category,
	})
}

// UnmarshalJSON - convert the JSON object form to a record
//
// roll_no and marks must be present
func (r *Record) UnmarshalJSON(b []byte) error {
	w := wire{}
	if err := json.Unmarshal(b, &w); nil != err {
		return fault.ErrInvalidJSON
	}
	if nil == w.RollNo {
		return fault.ErrInvalidIdentifier
	}
	if nil == w.Marks {
		return fault.ErrInvalidJSON
	}
	r.Identifier = *w.RollNo
	r.Name = w.Name
	r.Score = *w.Marks
	r.Category = w.Grade
	return nil
}

// ParseIdentifier - convert a decimal string to an identifier
//
// only plain digits are accepted i.e. no sign or spaces
func ParseIdentifier(s string) (int, error) {
	if "" == s {
		return 0, fault.ErrInvalidIdentifier
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fault.ErrInvalidIdentifier
		}
	}
	n, err := strconv.Atoi(s)
	if nil != err {
		return 0, fault.ErrInvalidIdentifier
	}
	return n, nil
}
