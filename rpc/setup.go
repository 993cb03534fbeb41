// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"crypto/tls"
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/fault"
	"github.com/bitmark-inc/recordd/rpc/certificate"
	"github.com/bitmark-inc/recordd/rpc/handler"
	"github.com/bitmark-inc/recordd/rpc/listeners"
	"github.com/bitmark-inc/recordd/rpc/ratelimit"
)

const (
	serverName      = "http_rpc"
	shutdownTimeout = 5 * time.Second
)

// HTTPConfiguration - configuration file data for the HTTP server
type HTTPConfiguration struct {
	Listen       []string `gluamapper:"listen" json:"listen"`
	Certificate  string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey   string   `gluamapper:"private_key" json:"private_key"`
	RateLimit    float64  `gluamapper:"rate_limit" json:"rate_limit"`
	RateBurst    int      `gluamapper:"rate_burst" json:"rate_burst"`
	CacheSeconds int      `gluamapper:"cache_seconds" json:"cache_seconds"`
}

// globals
type rpcData struct {
	sync.RWMutex // to allow locking

	log *logger.L // logger

	listener *listeners.Listener

	// set once during initialise
	initialised bool
}

// global data
var globalData rpcData

// Initialise - start the HTTP servers
func Initialise(configuration *HTTPConfiguration, store handler.Store, version string) error {

	globalData.Lock()
	defer globalData.Unlock()

	// no need to start if already started
	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("rpc")
	globalData.log = log
	log.Info("starting…")

	var tlsConfig *tls.Config
	if "" != configuration.Certificate || "" != configuration.PrivateKey {
		c, fingerprint, err := certificate.Load(log, serverName, configuration.Certificate, configuration.PrivateKey)
		if nil != err {
			return err
		}
		log.Infof("%s: SHA3-256 fingerprint: %x", serverName, fingerprint)
		tlsConfig = c
	}

	limiter, err := ratelimit.New(configuration.RateLimit, configuration.RateBurst)
	if nil != err {
		log.Errorf("rate limit: %f  burst: %d  error: %s", configuration.RateLimit, configuration.RateBurst, err)
		return err
	}

	cacheTTL := time.Duration(configuration.CacheSeconds) * time.Second
	h := handler.New(log, store, version, limiter, cacheTTL)

	listener, err := listeners.New(log, serverName, configuration.Listen, tlsConfig, h)
	if nil != err {
		return err
	}
	err = listener.Serve()
	if nil != err {
		shutdown(listener)
		return err
	}
	globalData.listener = listener

	// all data initialised
	globalData.initialised = true

	return nil
}

// Addresses - where the servers are listening
func Addresses() []net.Addr {
	globalData.RLock()
	defer globalData.RUnlock()

	if nil == globalData.listener {
		return nil
	}
	return globalData.listener.Addresses()
}

// Finalise - stop the servers, waiting briefly for active requests
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("shutting down…")
	globalData.log.Flush()

	err := shutdown(globalData.listener)
	if nil != err {
		globalData.log.Errorf("shutdown error: %s", err)
	}

	// finally...
	globalData.listener = nil
	globalData.initialised = false

	globalData.log.Info("finished")
	globalData.log.Flush()

	return err
}

func shutdown(listener *listeners.Listener) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return listener.Shutdown(ctx)
}
