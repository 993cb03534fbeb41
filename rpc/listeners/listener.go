// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package listeners

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/fault"
)

const (
	readWriteTimeout = 10 * time.Second
	keepAlivePeriod  = 3 * time.Minute
)

// Listener - a set of HTTP servers sharing one handler
type Listener struct {
	sync.Mutex
	log       *logger.L
	name      string
	tlsConfig *tls.Config
	handler   http.Handler
	servers   []*http.Server
	addresses []net.Addr
	done      sync.WaitGroup
}

// New - create servers for each listen address
//
// a nil tlsConfig serves plain HTTP
func New(log *logger.L, name string, listen []string, tlsConfig *tls.Config, handler http.Handler) (*Listener, error) {
	if 0 == len(listen) {
		log.Errorf("%s: %s", name, fault.ErrMissingListeners)
		return nil, fault.ErrMissingListeners
	}

	l := &Listener{
		log:       log,
		name:      name,
		tlsConfig: tlsConfig,
		handler:   handler,
	}

	for _, address := range listen {
		l.servers = append(l.servers, &http.Server{
			Addr:           canonical(address),
			Handler:        handler,
			ReadTimeout:    readWriteTimeout,
			WriteTimeout:   readWriteTimeout,
			MaxHeaderBytes: 1 << 20,
		})
	}
	return l, nil
}

// change "*:PORT" to "[::]:PORT"
// on the assumption that this will listen on tcp4 and tcp6
func canonical(listen string) string {
	if strings.HasPrefix(listen, "*:") {
		return "[::]" + listen[1:]
	}
	return listen
}

// Serve - bind every address and start serving in the background
//
// binding errors are returned immediately
func (l *Listener) Serve() error {
	l.Lock()
	defer l.Unlock()

	for _, s := range l.servers {
		ln, err := net.Listen("tcp", s.Addr)
		if nil != err {
			l.log.Errorf("%s: listen on: %q  error: %s", l.name, s.Addr, err)
			return err
		}
		ln = tcpKeepAliveListener{ln.(*net.TCPListener)}
		if nil != l.tlsConfig {
			ln = tls.NewListener(ln, l.tlsConfig)
		}

		l.addresses = append(l.addresses, ln.Addr())
		l.log.Infof("starting server: %s on: %s  tls: %t", l.name, ln.Addr(), nil != l.tlsConfig)

		l.done.Add(1)
		go func(s *http.Server, ln net.Listener) {
			defer l.done.Done()
			err := s.Serve(ln)
			if nil != err && http.ErrServerClosed != err {
				l.log.Errorf("%s: serve: %s  error: %s", l.name, ln.Addr(), err)
			}
		}(s, ln)
	}
	return nil
}

// Addresses - actual bound addresses, useful when a port of zero was given
func (l *Listener) Addresses() []net.Addr {
	l.Lock()
	defer l.Unlock()

	return append([]net.Addr(nil), l.addresses...)
}

// Shutdown - stop accepting and wait for active requests
func (l *Listener) Shutdown(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	var firstErr error
	for _, s := range l.servers {
		if err := s.Shutdown(ctx); nil != err && nil == firstErr {
			firstErr = err
		}
	}
	l.done.Wait()
	return firstErr
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (net.Conn, error) {
	tc, err := ln.AcceptTCP()
	if nil != err {
		return nil, err
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(keepAlivePeriod)
	return tc, nil
}
