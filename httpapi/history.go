// Package httpapi implements the external history-polling contract (spec
// §6): GET /history/{events,channels,commands}?session=...&limit=... ->
// {history, validation, errors}, one HistoryHandler instance mounted per
// record type (spec §3/§4.8: one append-only list per record type). Built
// on stdlib net/http: no retrieved example exercises a web framework
// for a single narrow polling endpoint (the teacher's valyala/fasthttp
// dependency appears in go.mod unexercised by any retrieved file), so the
// stdlib handler is used and justified in DESIGN.md.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package httpapi

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/nasa-jpl/gogds/cmn/nlog"
	"github.com/nasa-jpl/gogds/history"
)

const defaultLimit = 2000

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type historyResponse struct {
	History    []any    `json:"history"`
	Validation int      `json:"validation"`
	Errors     []string `json:"errors"`
}

// HistoryHandler serves one History's poll contract.
type HistoryHandler struct {
	H *history.History
}

func NewHistoryHandler(h *history.History) *HistoryHandler { return &HistoryHandler{H: h} }

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := r.URL.Query().Get("session")
	if session == "" {
		writeError(w, http.StatusBadRequest, "session parameter is required")
		return
	}
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		// n==0 passes straight through to Retrieve, which treats it as the
		// spec-mandated no-op (empty result, cursor untouched) rather than
		// "unlimited" - callers asking for zero records get zero records.
		limit = n
	}

	res := h.H.Retrieve(session, limit)
	resp := historyResponse{History: res.Records, Validation: res.Validation, Errors: nil}
	if resp.History == nil {
		resp.History = []any{}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		nlog.Errorf("httpapi: encode response failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := historyResponse{History: []any{}, Validation: 0, Errors: []string{msg}}
	_ = json.NewEncoder(w).Encode(resp)
}
