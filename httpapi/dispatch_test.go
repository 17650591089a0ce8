/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nasa-jpl/gogds/dict"
	"github.com/nasa-jpl/gogds/dispatch"
	"github.com/nasa-jpl/gogds/httpapi"
)

type fakeUplinker struct{ submitted [][]byte }

func (f *fakeUplinker) Submit(payload []byte) { f.submitted = append(f.submitted, payload) }

func TestDispatchHandlerRejectsUnknownCommand(t *testing.T) {
	d := dict.NewDictionary()
	up := &fakeUplinker{}
	handler := httpapi.NewDispatchHandler(dispatch.New(d, up))

	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(`{"name":"NOPE","args":[]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, up.submitted)
}

func TestDispatchHandlerSubmitsKnownCommand(t *testing.T) {
	d := dict.NewDictionary()
	d.AddCommand(&dict.Command{Opcode: 1, Name: "CMD_PING", Args: nil})
	up := &fakeUplinker{}
	handler := httpapi.NewDispatchHandler(dispatch.New(d, up))

	req := httptest.NewRequest(http.MethodPost, "/command", strings.NewReader(`{"name":"CMD_PING","args":[]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, up.submitted, 1)
}

func TestDispatchHandlerRejectsNonPost(t *testing.T) {
	d := dict.NewDictionary()
	up := &fakeUplinker{}
	handler := httpapi.NewDispatchHandler(dispatch.New(d, up))

	req := httptest.NewRequest(http.MethodGet, "/command", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
