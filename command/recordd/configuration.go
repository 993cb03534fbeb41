// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/configuration"
	"github.com/bitmark-inc/recordd/fault"
	"github.com/bitmark-inc/recordd/rpc"
	"github.com/bitmark-inc/recordd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultBackend          = backendJSON
	defaultSnapshotFile     = "records.json"
	defaultLevelDBDirectory = "records.leveldb"

	defaultKeyFile         = "recordd.key"
	defaultCertificateFile = "recordd.crt"

	defaultLogDirectory = "log"
	defaultLogFile      = "recordd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRateLimit    = 100
	defaultRateBurst    = 200
	defaultCacheSeconds = 10
)

// persistence backends
const (
	backendJSON    = "json"
	backendLevelDB = "leveldb"
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// a fresh map each time as the configuration file is decoded into it
func defaultLogLevels() LoglevelMap {
	return LoglevelMap{
		logger.DefaultTag: "critical",
	}
}

// PersistenceType - where the records are kept between runs
type PersistenceType struct {
	Backend   string `gluamapper:"backend" json:"backend"`
	File      string `gluamapper:"file" json:"file"`
	Directory string `gluamapper:"directory" json:"directory"`
	Watch     bool   `gluamapper:"watch" json:"watch"`
}

// Configuration - the decoded configuration file
type Configuration struct {
	DataDirectory string                `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string                `gluamapper:"pidfile" json:"pidfile"`
	Persistence   PersistenceType       `gluamapper:"persistence" json:"persistence"`
	HTTP          rpc.HTTPConfiguration `gluamapper:"http" json:"http"`
	Logging       logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Persistence: PersistenceType{
			Backend:   defaultBackend,
			File:      defaultSnapshotFile,
			Directory: defaultLevelDBDirectory,
			Watch:     false,
		},

		HTTP: rpc.HTTPConfiguration{
			RateLimit:    defaultRateLimit,
			RateBurst:    defaultRateBurst,
			CacheSeconds: defaultCacheSeconds,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels(),
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	options.Persistence.Backend = strings.ToLower(options.Persistence.Backend)
	switch options.Persistence.Backend {
	case backendJSON:
	case backendLevelDB:
		if options.Persistence.Watch {
			return nil, fmt.Errorf("%w: watch is only available for the %q backend", fault.ErrConfigurationInvalid, backendJSON)
		}
	default:
		return nil, fmt.Errorf("%w: %q", fault.ErrInvalidBackend, options.Persistence.Backend)
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("%w: path: %q is not a valid directory", fault.ErrConfigurationInvalid, options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = util.EnsureAbsolute(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("%w: path: %q is not a directory", fault.ErrConfigurationInvalid, options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Persistence.File,
		&options.Persistence.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
		&options.HTTP.Certificate,
		&options.HTTP.PrivateKey,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// the log file is a plain name inside the log directory
	if !util.IsPlainName(options.Logging.File) {
		return nil, fmt.Errorf("%w: file: %q is not plain name", fault.ErrConfigurationInvalid, options.Logging.File)
	}

	// create directories if they do not already exist
	if err := util.EnsureDirectory(options.Logging.Directory); nil != err {
		return nil, err
	}

	// done
	return options, nil
}
