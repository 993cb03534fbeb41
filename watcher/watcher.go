// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package watcher - restore the snapshot file if it disappears
package watcher

import (
	"path/filepath"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

const (
	LoggerPrefix = "watcher"
)

// RestoreFunc - rewrite the snapshot from memory
type RestoreFunc func() error

// Watcher - monitor the directory holding a snapshot file
type Watcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	restore  RestoreFunc
}

// New - start watching the directory of fileName
//
// the returned value is a background process; the file itself need
// not exist yet
func New(log *logger.L, fileName string, restore RestoreFunc) (*Watcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		log.Errorf("parse file %s error: %s", fileName, err)
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher with error: %s", err)
		return nil, err
	}

	err = watcher.Add(filepath.Dir(filePath))
	if nil != err {
		log.Errorf("watcher add error: %s", err)
		watcher.Close()
		return nil, err
	}

	return &Watcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
		restore:  restore,
	}, nil
}

// Run - background process to handle file events
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	log.Infof("watching: %s", w.filePath)

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.filePath {
				continue loop
			}
			log.Debugf("file event: %s", event)

			if fileGone(event) {
				log.Warnf("file: %s  removed, restoring", w.filePath)
				if err := w.restore(); nil != err {
					log.Errorf("restore error: %s", err)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)
		}
	}

	w.watcher.Close()
	log.Info("stopped")
}

func fileGone(event fsnotify.Event) bool {
	return event.Op&fsnotify.Remove == fsnotify.Remove ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}
