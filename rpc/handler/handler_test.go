// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package handler_test

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/recordd/fixtures"
	"github.com/bitmark-inc/recordd/record"
	"github.com/bitmark-inc/recordd/rpc/handler"
	"github.com/bitmark-inc/recordd/store"
	"github.com/bitmark-inc/recordd/store/mocks"
)

const (
	version = "v0.1-test"
)

func setupHandler(t *testing.T, initial []record.Record, limiter *rate.Limiter) (*gomock.Controller, *mocks.MockPersister, *store.Store, *handler.Handler) {
	ctl := gomock.NewController(t)
	p := mocks.NewMockPersister(ctl)
	p.EXPECT().LoadAll().Return(initial, nil).Times(1)

	log := logger.New(fixtures.LogCategory)
	s := store.New(log, p)
	require.Nil(t, s.Load(), "load error")

	return ctl, p, s, handler.New(log, s, version, limiter, time.Minute)
}

func do(h http.Handler, method string, path string, body string) (*http.Response, string) {
	var req *http.Request
	if "" == body {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	b, _ := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(b)
}

func TestOptions(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, _, _, h := setupHandler(t, nil, nil)
	defer ctl.Finish()

	for _, path := range []string{"/students", "/students/3", "/anything"} {
		resp, body := do(h, http.MethodOptions, path, "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode, "%s: wrong status", path)
		assert.Equal(t, "", body, "%s: unexpected body", path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), "%s: wrong origin", path)
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"), "%s: wrong methods", path)
		assert.Equal(t, "Content-Type", resp.Header.Get("Access-Control-Allow-Headers"), "%s: wrong headers", path)
	}
}

func TestListOrder(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, p, _, h := setupHandler(t, nil, nil)
	defer ctl.Finish()

	resp, body := do(h, http.MethodGet, "/students", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Equal(t, "{}", body, "wrong empty list")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"), "wrong content type")
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), "missing CORS")

	p.EXPECT().Save(gomock.Any()).Return(nil).Times(2)

	resp, body = do(h, http.MethodPost, "/students", `{"name":"Linus","roll_no":10,"marks":64,"grade":"C"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Equal(t, `{"message":"record added"}`, body, "wrong add reply")

	resp, _ = do(h, http.MethodPost, "/students", `{"name":"Grace","roll_no":9,"marks":97,"grade":"A"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")

	expected := `{"9":{"name":"Grace","roll_no":9,"marks":97,"grade":"A"},` +
		`"10":{"name":"Linus","roll_no":10,"marks":64,"grade":"C"}}`
	resp, body = do(h, http.MethodGet, "/students", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Equal(t, expected, body, "wrong list")
}

func TestAddErrors(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, _, s, h := setupHandler(t, fixtures.Records, nil)
	defer ctl.Finish()

	items := []struct {
		body string
		code int
	}{
		{`{"name":"Ada Again","roll_no":3,"marks":1,"grade":"F"}`, http.StatusConflict},
		{`{"name":"x","roll_no":`, http.StatusBadRequest},
		{`{"name":"","roll_no":4,"marks":1,"grade":"F"}`, http.StatusBadRequest},
		{`{"name":"x","marks":1,"grade":"F"}`, http.StatusBadRequest},
		{`{"name":"x","roll_no":-4,"marks":1,"grade":"F"}`, http.StatusBadRequest},
		{`[1,2,3]`, http.StatusBadRequest},
	}

	for i, item := range items {
		resp, body := do(h, http.MethodPost, "/students", item.body)
		assert.Equal(t, item.code, resp.StatusCode, "%d: wrong status", i)
		assert.Contains(t, body, `"code":`, "%d: not an error body: %s", i, body)
	}

	r, err := s.Get(3)
	assert.Nil(t, err, "get error")
	assert.Equal(t, fixtures.Records[0], r, "duplicate add changed record")
	assert.Equal(t, len(fixtures.Records), s.Count(), "wrong count")
}

func TestGetOne(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, _, _, h := setupHandler(t, fixtures.Records, nil)
	defer ctl.Finish()

	resp, body := do(h, http.MethodGet, "/students/9", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Equal(t, `{"name":"Grace","roll_no":9,"marks":97,"grade":"A"}`, body, "wrong record")

	resp, body = do(h, http.MethodGet, "/students/99", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "wrong status")
	assert.Equal(t, `{"code":404,"error":"record not found"}`, body, "wrong error")

	for _, path := range []string{"/students/abc", "/students/", "/students/-1", "/students/9/x"} {
		resp, _ = do(h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s: wrong status", path)
	}
}

func TestUpdate(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, p, s, h := setupHandler(t, fixtures.Records, nil)
	defer ctl.Finish()

	p.EXPECT().Save(gomock.Any()).Return(nil).Times(1)

	resp, body := do(h, http.MethodPut, "/students/9", `{"name":"Grace Hopper","roll_no":9,"marks":100,"grade":"A+"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Equal(t, `{"message":"record updated"}`, body, "wrong reply")

	r, _ := s.Get(9)
	assert.Equal(t, "Grace Hopper", r.Name, "not updated")

	resp, _ = do(h, http.MethodPut, "/students/4", `{"name":"x","roll_no":4,"marks":1,"grade":"F"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "absent record updated")

	resp, _ = do(h, http.MethodPut, "/students/9", `{"name":"x"`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "bad body accepted")

	resp, _ = do(h, http.MethodPut, "/students/9", `{"name":"x","roll_no":10,"marks":1,"grade":"F"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "clashing identifier accepted")
}

func TestUpdateAbsentWithBadBody(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, _, s, h := setupHandler(t, fixtures.Records, nil)
	defer ctl.Finish()

	items := []string{
		`{"name":"","roll_no":999,"marks":1,"grade":"F"}`,
		`{"name":"x","roll_no":999,"marks":1,"grade":""}`,
		`not json`,
		`{"name":"x"`,
	}
	for i, body := range items {
		resp, reply := do(h, http.MethodPut, "/students/999", body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%d: wrong status", i)
		assert.Equal(t, `{"code":404,"error":"record not found"}`, reply, "%d: wrong reply", i)
	}

	// a present record still reports the body error
	resp, _ := do(h, http.MethodPut, "/students/9", `{"name":"","roll_no":9,"marks":1,"grade":"F"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "invalid body accepted")

	assert.Equal(t, uint64(0), s.Generation(), "store changed")
}

func TestDelete(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, p, s, h := setupHandler(t, fixtures.Records, nil)
	defer ctl.Finish()

	p.EXPECT().Save(gomock.Any()).Return(nil).Times(1)

	resp, body := do(h, http.MethodDelete, "/students/27", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Equal(t, `{"message":"record deleted"}`, body, "wrong reply")

	resp, _ = do(h, http.MethodDelete, "/students/27", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "second delete allowed")

	assert.Equal(t, len(fixtures.Records)-1, s.Count(), "wrong count")
}

func TestSaveFailure(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, p, s, h := setupHandler(t, nil, nil)
	defer ctl.Finish()

	p.EXPECT().Save(gomock.Any()).Return(errors.New("disk full")).Times(1)

	resp, _ := do(h, http.MethodPost, "/students", `{"name":"Ada","roll_no":3,"marks":88,"grade":"B"}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode, "wrong status")
	assert.Equal(t, 1, s.Count(), "change was lost")
}

func TestBadRoutes(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, _, _, h := setupHandler(t, nil, nil)
	defer ctl.Finish()

	items := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodPatch, "/students", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/students", http.StatusMethodNotAllowed},
		{http.MethodPost, "/students/3", http.StatusMethodNotAllowed},
		{http.MethodPost, "/details", http.StatusMethodNotAllowed},
		{http.MethodGet, "/", http.StatusNotFound},
		{http.MethodGet, "/courses", http.StatusNotFound},
	}

	for i, item := range items {
		resp, _ := do(h, item.method, item.path, "")
		assert.Equal(t, item.code, resp.StatusCode, "%d: %s %s wrong status", i, item.method, item.path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), "%d: missing CORS", i)
	}
}

func TestDetails(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, _, s, h := setupHandler(t, fixtures.Records, nil)
	defer ctl.Finish()

	resp, body := do(h, http.MethodGet, "/details", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Contains(t, body, `"version":"`+version+`"`, "missing version")
	assert.Contains(t, body, `"records":4`, "wrong record count")
	assert.Contains(t, body, `"height":3`, "wrong height")
	assert.Contains(t, body, `"generation":0`, "wrong generation")
	assert.Contains(t, body, `"connections":1`, "wrong connection count")
	assert.Equal(t, 3, s.Height(), "fixture tree height changed")
	assert.Equal(t, int64(0), h.Connections(), "connection not released")
}

func TestMetricsAndCache(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl, p, _, h := setupHandler(t, fixtures.Records, nil)
	defer ctl.Finish()

	_, first := do(h, http.MethodGet, "/students", "")
	_, second := do(h, http.MethodGet, "/students", "")
	assert.Equal(t, first, second, "cached list differs")

	// a change must not be hidden by the cache
	p.EXPECT().Save(gomock.Any()).Return(nil).Times(1)
	do(h, http.MethodDelete, "/students/3", "")
	_, third := do(h, http.MethodGet, "/students", "")
	assert.NotContains(t, third, `"3":`, "stale list served")

	resp, body := do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "wrong status")
	assert.Contains(t, body, "recordd_records 3", "missing record gauge")
	assert.Contains(t, body, "recordd_tree_height 2", "missing height gauge")
	assert.Contains(t, body, "recordd_changes_total 1", "missing change counter")
	assert.Contains(t, body, "recordd_list_cache_hits_total 1", "missing cache hits")
	assert.Contains(t, body, `recordd_requests_total{code="200",method="GET"} 3`, "wrong request count")
}

func TestRateLimit(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	ctl, _, _, h := setupHandler(t, nil, limiter)
	defer ctl.Finish()

	resp, _ := do(h, http.MethodGet, "/students", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "first request limited")

	resp, body := do(h, http.MethodGet, "/students", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "second request allowed")
	assert.Equal(t, `{"code":429,"error":"rate limiting"}`, body, "wrong error")

	// preflight is never limited
	resp, _ = do(h, http.MethodOptions, "/students", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode, "preflight limited")
}

func TestRateLimitClientGone(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	limiter := rate.NewLimiter(rate.Every(time.Second), 1)
	ctl, _, _, h := setupHandler(t, nil, limiter)
	defer ctl.Finish()

	resp, _ := do(h, http.MethodGet, "/students", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "first request limited")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/students", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	start := time.Now()
	h.ServeHTTP(w, req)
	assert.True(t, time.Since(start) < 500*time.Millisecond, "waited for a departed client")
	assert.Equal(t, "", w.Body.String(), "reply sent to a departed client")
}
