// Command podium is the CLI for the presentation compiler: one-shot
// generation, queue management, chart previews, and the foreground
// daemon.
package main
