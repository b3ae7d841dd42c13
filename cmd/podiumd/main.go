// Command podiumd runs the compile daemon as a standalone process.
package main

import (
	"context"
	"flag"
	"log"

	"podium/internal/config"
	"podium/internal/daemon"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemon.Run(context.Background(), cfg); err != nil {
		log.Fatalf("daemon: %v", err)
	}
}
