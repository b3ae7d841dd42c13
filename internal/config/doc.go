// Package config loads, normalizes, and validates the TOML configuration
// shared by the podium CLI and daemon. Load applies defaults first, then
// file values, then environment fallbacks for secrets.
package config
