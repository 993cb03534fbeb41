// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/fault"
	"github.com/bitmark-inc/recordd/record"
	"github.com/bitmark-inc/recordd/rpc/ratelimit"
)

const (
	studentsPath    = "/students"
	maximumBodySize = 1 << 16
	maximumDelay    = 2 * time.Second
)

// Store - the record operations needed to serve requests
type Store interface {
	Add(record.Record) (bool, error)
	Get(int) (record.Record, error)
	Update(int, record.Record) error
	Remove(int) error
	List() []record.Record
	Count() int
	Height() int
	Generation() uint64
}

// Handler - HTTP access to a record store
type Handler struct {
	log         *logger.L
	store       Store
	version     string
	start       time.Time
	limiter     *rate.Limiter
	cache       *cache.Cache
	cacheTTL    time.Duration
	connections int64
	metrics     *metrics
	mux         *http.ServeMux
}

// New - create the handler
//
// a nil limiter disables rate limiting and a zero cacheTTL disables
// response caching
func New(log *logger.L, store Store, version string, limiter *rate.Limiter, cacheTTL time.Duration) *Handler {
	h := &Handler{
		log:      log,
		store:    store,
		version:  version,
		start:    time.Now(),
		limiter:  limiter,
		cacheTTL: cacheTTL,
	}
	if cacheTTL > 0 {
		h.cache = cache.New(cacheTTL, 2*cacheTTL)
	}

	h.metrics = newMetrics(store)

	h.mux = http.NewServeMux()
	h.mux.HandleFunc(studentsPath, h.students)
	h.mux.HandleFunc(studentsPath+"/", h.student)
	h.mux.HandleFunc("/details", h.details)
	h.mux.Handle("/metrics", promhttp.HandlerFor(h.metrics.registry, promhttp.HandlerOpts{}))
	h.mux.HandleFunc("/", h.root)

	return h
}

// Connections - number of requests currently being served
func (h *Handler) Connections() int64 {
	return atomic.LoadInt64(&h.connections)
}

// ServeHTTP - common processing for every request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&h.connections, 1)
	defer atomic.AddInt64(&h.connections, -1)

	sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
	defer h.metrics.observe(r.Method, sw)

	defer func() {
		if e := recover(); nil != e {
			fault.Criticalf("panic: %s %s  error: %v", r.Method, r.URL.Path, e)
			sendInternalServerError(sw)
		}
	}()

	header := sw.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")

	if http.MethodOptions == r.Method {
		sw.WriteHeader(http.StatusNoContent)
		return
	}

	if nil != h.limiter {
		if err := ratelimit.Limit(r.Context(), h.limiter, maximumDelay); nil != err {
			h.log.Warnf("%s %s from: %s  error: %s", r.Method, r.URL.Path, r.RemoteAddr, err)
			if nil != r.Context().Err() {
				return
			}
			sendError(sw, err.Error(), http.StatusTooManyRequests)
			return
		}
	}

	h.log.Debugf("%s %s from: %s", r.Method, r.URL.Path, r.RemoteAddr)
	h.mux.ServeHTTP(sw, r)
}

// this matches anything not matched and returns error
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// GET: the whole mapping  POST: add one record
func (h *Handler) students(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w)
	case http.MethodPost:
		h.add(w, r)
	default:
		sendMethodNotAllowed(w)
	}
}

// GET, PUT, DELETE on a single record
func (h *Handler) student(w http.ResponseWriter, r *http.Request) {
	identifier, err := record.ParseIdentifier(strings.TrimPrefix(r.URL.Path, studentsPath+"/"))
	if nil != err {
		sendNotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := h.store.Get(identifier)
		if nil != err {
			sendFault(w, err)
			return
		}
		sendReply(w, rec)

	case http.MethodPut:
		rec, err := readRecord(w, r)
		if nil != err {
			// a missing record is not found whatever the body holds
			if _, e := h.store.Get(identifier); nil != e {
				err = e
			}
			sendFault(w, err)
			return
		}
		err = h.store.Update(identifier, rec)
		if nil != err {
			sendFault(w, err)
			return
		}
		sendMessage(w, "record updated")

	case http.MethodDelete:
		err := h.store.Remove(identifier)
		if nil != err {
			sendFault(w, err)
			return
		}
		sendMessage(w, "record deleted")

	default:
		sendMethodNotAllowed(w)
	}
}

func (h *Handler) list(w http.ResponseWriter) {
	generation := h.store.Generation()
	key := fmt.Sprintf("students:%d", generation)

	if nil != h.cache {
		if body, ok := h.cache.Get(key); ok {
			h.metrics.cacheHits.Inc()
			sendJSON(w, body.([]byte), http.StatusOK)
			return
		}
	}

	body, err := record.EncodeMapping(h.store.List(), "")
	if nil != err {
		h.log.Errorf("encode mapping error: %s", err)
		sendInternalServerError(w)
		return
	}

	if nil != h.cache {
		h.cache.Set(key, body, h.cacheTTL)
	}
	sendJSON(w, body, http.StatusOK)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	rec, err := readRecord(w, r)
	if nil != err {
		sendFault(w, err)
		return
	}

	added, err := h.store.Add(rec)
	if nil != err {
		sendFault(w, err)
		return
	}
	if !added {
		sendFault(w, fault.ErrRecordExists)
		return
	}
	sendMessage(w, "record added")
}

// server status
func (h *Handler) details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	type theReply struct {
		Version     string `json:"version"`
		Uptime      string `json:"uptime"`
		Records     int    `json:"records"`
		Height      int    `json:"height"`
		Generation  uint64 `json:"generation"`
		Connections int64  `json:"connections"`
	}

	reply := theReply{
		Version:     h.version,
		Uptime:      time.Since(h.start).Round(time.Second).String(),
		Records:     h.store.Count(),
		Height:      h.store.Height(),
		Generation:  h.store.Generation(),
		Connections: h.Connections(),
	}

	sendReply(w, reply)
}

// decode a request body into a record
func readRecord(w http.ResponseWriter, r *http.Request) (record.Record, error) {
	rec := record.Record{}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maximumBodySize))
	if nil != err {
		return rec, fault.ErrInvalidJSON
	}
	err = json.Unmarshal(body, &rec)
	if nil != err {
		if fault.IsErrInvalid(err) {
			return rec, err
		}
		return rec, fault.ErrInvalidJSON
	}
	return rec, nil
}

// statusWriter - remember the status code for metrics
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}
