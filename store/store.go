// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package store

import (
	"io"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/avl"
	"github.com/bitmark-inc/recordd/fault"
	"github.com/bitmark-inc/recordd/record"
)

// Persister - durable storage for snapshots
type Persister interface {
	LoadAll() ([]record.Record, error)
	Save([]record.Record) error
}

// Store - handle to the in-memory records
type Store struct {
	lock sync.RWMutex

	log        *logger.L
	persister  Persister
	tree       *avl.Tree
	loaded     bool
	generation uint64
}

// New - create an empty store
func New(log *logger.L, persister Persister) *Store {
	return &Store{
		log:       log,
		persister: persister,
		tree:      avl.New(),
	}
}

// Load - fill the tree from the persister
//
// only allowed once; records that fail validation are skipped
func (s *Store) Load() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.loaded {
		return fault.ErrAlreadyInitialised
	}

	records, err := s.persister.LoadAll()
	if nil != err {
		s.log.Errorf("load error: %s", err)
		return err
	}

	skipped := 0
	for _, r := range records {
		if err := r.Validate(); nil != err {
			s.log.Warnf("skip record: %d  error: %s", r.Identifier, err)
			skipped += 1
			continue
		}
		if !s.tree.Insert(r) {
			s.log.Warnf("skip duplicate record: %d", r.Identifier)
			skipped += 1
		}
	}
	s.loaded = true

	s.log.Infof("loaded: %d records  skipped: %d  height: %d", s.tree.Count(), skipped, s.tree.Height())
	return nil
}

// Add - insert a new record
//
// returns false if the identifier is already in use, the existing
// record is not changed
func (s *Store) Add(r record.Record) (bool, error) {
	if err := r.Validate(); nil != err {
		return false, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.tree.Insert(r) {
		s.log.Debugf("add: %d already present", r.Identifier)
		return false, nil
	}
	s.log.Debugf("add: %d", r.Identifier)
	return true, s.changed()
}

// Get - fetch a record
func (s *Store) Get(identifier int) (record.Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	r, found := s.tree.Search(identifier)
	if !found {
		return record.Record{}, fault.ErrRecordNotFound
	}
	return r, nil
}

// Update - replace a record by deleting it and inserting the new one
//
// an absent identifier is reported before the replacement is
// validated; the replacement may carry a different identifier, but not
// one that belongs to another record
func (s *Store) Update(identifier int, r record.Record) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	old, found := s.tree.Search(identifier)
	if !found {
		return fault.ErrRecordNotFound
	}
	if err := r.Validate(); nil != err {
		return err
	}
	if identifier != r.Identifier {
		if _, taken := s.tree.Search(r.Identifier); taken {
			return fault.ErrRecordExists
		}
	}

	s.tree.Delete(identifier)
	if !s.tree.Insert(r) {
		// cannot happen after the check above, restore the original
		s.tree.Insert(old)
		fault.Criticalf("update: %d → %d  insert failed", identifier, r.Identifier)
		return fault.ErrRecordExists
	}
	s.log.Debugf("update: %d → %d", identifier, r.Identifier)
	return s.changed()
}

// Remove - delete a record
func (s *Store) Remove(identifier int) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.tree.Delete(identifier) {
		return fault.ErrRecordNotFound
	}
	s.log.Debugf("remove: %d", identifier)
	return s.changed()
}

// List - all records in ascending identifier order
func (s *Store) List() []record.Record {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tree.Snapshot()
}

// Count - number of records
func (s *Store) Count() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tree.Count()
}

// Height - current height of the tree
func (s *Store) Height() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tree.Height()
}

// Generation - number of successful changes since start
func (s *Store) Generation() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.generation
}

// Save - write the current snapshot again
func (s *Store) Save() error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.save()
}

// Check - verify the tree invariants
func (s *Store) Check() error {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tree.Check()
}

// Print - draw the tree, returns its depth
func (s *Store) Print(w io.Writer, printData bool) int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.tree.Print(w, printData)
}

// called with the write lock held after a successful change
//
// the in-memory change stands even if the save fails
func (s *Store) changed() error {
	s.generation += 1
	return s.save()
}

// requires at least the read lock
func (s *Store) save() error {
	err := s.persister.Save(s.tree.Snapshot())
	if nil != err {
		s.log.Errorf("save error: %s", err)
	}
	return err
}
