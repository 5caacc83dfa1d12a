package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/threepoint/internal/platform/config"
	"github.com/louisbranch/threepoint/internal/tools/estimate"
)

func main() {
	cfg, err := estimate.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := estimate.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("estimate: %v", err)
	}
}
