// Package services holds shared plumbing for the external collaborators:
// context annotations for job-scoped logging and the error classification
// the workflow manager uses to decide a failed job's fate.
package services
