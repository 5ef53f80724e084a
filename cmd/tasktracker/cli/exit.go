// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "strconv"

// ExitError sets the process status without printing anything. A
// command returns it after it has already written its output, such as
// "list --exit-status" finding nothing.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return "exit status " + strconv.Itoa(e.Code) }

// ExitCode implements the interface main checks before printing.
func (e *ExitError) ExitCode() int { return e.Code }
