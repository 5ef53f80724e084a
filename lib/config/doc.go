// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the task
// tracker.
//
// The configuration file is located, in order, by the --config flag
// (via [Resolve] or [LoadFile]) or the TASKTRACKER_CONFIG environment
// variable (via [Load]). With neither set, the built-in [Default]
// configuration is used: a task list must work on first run without
// any setup. There is no ~/.config discovery.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production defaults are stricter:
// sample tasks are not seeded into an empty list.
//
// Variable expansion is performed on path fields after loading:
// ${HOME}, ${XDG_DATA_HOME}, ${TASKTRACKER_DATA}, and ${VAR:-default}
// patterns are expanded. No other environment variables override
// config values.
//
// Key exports:
//
//   - [Config] -- master struct with Storage, UI, Logging, Export
//   - [Default] -- returns a Config with development defaults
//   - [Resolve], [Load] and [LoadFile] -- the entry points for loading
//
// This package depends on no other tracker packages.
package config
