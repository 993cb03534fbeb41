// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RecordError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised   = ExistsError("already initialised")
	ErrCertificateExists    = ExistsError("certificate file already exists")
	ErrCertificateMissing   = InvalidError("certificate and private key must both be set")
	ErrConfigurationInvalid = InvalidError("configuration is invalid")
	ErrInvalidBackend       = InvalidError("invalid persistence backend")
	ErrInvalidCategory      = InvalidError("invalid category")
	ErrInvalidIdentifier    = InvalidError("invalid identifier")
	ErrInvalidJSON          = InvalidError("invalid JSON")
	ErrInvalidLoggerChannel = InvalidError("invalid logger channel")
	ErrInvalidName          = InvalidError("invalid name")
	ErrInvalidRateLimit     = InvalidError("invalid rate limit")
	ErrKeyFileExists        = ExistsError("private key file already exists")
	ErrMissingListeners     = InvalidError("no listen addresses")
	ErrNotInitialised       = NotFoundError("not initialised")
	ErrRateLimiting         = ProcessError("rate limiting")
	ErrRecordExists         = ExistsError("record already exists")
	ErrRecordNotFound       = NotFoundError("record not found")
	ErrRemoteFailed         = ProcessError("remote request failed")
	ErrSnapshotCorrupt      = RecordError("snapshot is corrupt")
	ErrSnapshotKeyMismatch  = RecordError("snapshot key does not match roll_no")
	ErrTreeBalance          = RecordError("tree balance invariant violated")
	ErrTreeCount            = RecordError("tree count does not match nodes")
	ErrTreeHeight           = RecordError("tree height invariant violated")
	ErrTreeOrder            = RecordError("tree ordering invariant violated")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RecordError) Error() string   { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrExists(e error) bool   { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool  { var x InvalidError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool  { var x ProcessError; return errors.As(e, &x) }
func IsErrRecord(e error) bool   { var x RecordError; return errors.As(e, &x) }
