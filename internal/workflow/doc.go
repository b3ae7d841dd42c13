// Package workflow drives queued jobs through the enhancement and
// compile stages. A single worker processes one job at a time; compiles
// are CPU-bound and short, so there is no benefit to overlapping them.
package workflow
