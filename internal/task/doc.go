// SPDX-License-Identifier: MPL-2.0

// Package task defines the two-phase task contract and the fail-fast
// pipeline that runs tasks in dependency order.
//
// Prepare validates and creates every filesystem prerequisite and resolves
// the task's configuration. Run performs the generation and is only invoked
// after a successful Prepare. The first failing Prepare or Run stops the
// pipeline; artifacts written by earlier tasks are left on disk.
package task
