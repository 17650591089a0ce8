/*
 * Copyright (c) 2018-2026, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Load reads a JSON-encoded Config from path, starting from Default() so
// an omitted field keeps its documented default rather than zeroing out.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: read %q", path)
	}
	cfg := Default()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %q", path)
	}
	return cfg, nil
}
