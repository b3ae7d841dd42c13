// Package queue persists presentation compile jobs in SQLite and owns the
// status lifecycle the workflow manager drives: pending, enhancing,
// enhanced, compiling, completed, failed.
package queue
