// SPDX-License-Identifier: MIT

// Command lvsolve solves linear systems A·X = B read from YAML files with a
// chosen decomposition (lu, qr or svd), and can save or reload the
// factorization as a snapshot.
//
// Usage:
//
//	lvsolve solve --file system.yaml [--algorithm lu|qr|svd] [--threshold t]
//	              [--save-snapshot out.yaml] [--snapshot in.yaml]
//	lvsolve version
//
// Environment (overridden by flags):
//
//	LVSOLVE_ALGORITHM  default algorithm (lu)
//	LVSOLVE_THRESHOLD  absolute singularity threshold (0 = relative policy)
//	LVSOLVE_LOG_LEVEL  debug, info, warn or error (info)
//	LVSOLVE_NO_COLOR   disable colored log output
package main

import (
	"os"
)

// Exit codes.
const (
	exitSuccess = 0
	exitError   = 1
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(exitError)
	}
	os.Exit(exitSuccess)
}
