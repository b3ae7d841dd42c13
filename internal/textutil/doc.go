// Package textutil provides text processing utilities for filename
// sanitization and slug generation.
//
// Artifact file names derive from deck titles, so every caller that
// turns a title into a path goes through Slugify to get consistent,
// filesystem-safe output.
package textutil
