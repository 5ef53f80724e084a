// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the tasktracker
// binary: a tree of [Command] values dispatched by name, pflag flag
// sets bound from struct tags, categorized [ToolError] values, and the
// stderr logger every command receives.
//
// A leaf command declares its flags as a tagged params struct:
//
//	var params addParams
//	command := &cli.Command{
//	    Name:   "add",
//	    Params: func() any { return &params },
//	    Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
//	        // params is populated here
//	    },
//	}
//
// Typos in command and flag names get a "did you mean" suggestion
// based on edit distance.
package cli
