// DispatchHandler exposes the command dispatch contract (spec §6) over
// HTTP: POST /command {name, args:[...]} -> 200 {} or 400 {errors:[...]}.
/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package httpapi

import (
	"net/http"

	"github.com/nasa-jpl/gogds/dispatch"
)

type commandRequest struct {
	Name string   `json:"name"`
	Args []string `json:"args"`
}

// DispatchHandler wraps a dispatch.Dispatcher as an HTTP endpoint.
type DispatchHandler struct {
	Dispatcher *dispatch.Dispatcher
}

func NewDispatchHandler(d *dispatch.Dispatcher) *DispatchHandler {
	return &DispatchHandler{Dispatcher: d}
}

func (h *DispatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := h.Dispatcher.Dispatch(req.Name, req.Args); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(struct {
		Dispatched bool `json:"dispatched"`
	}{Dispatched: true})
}
