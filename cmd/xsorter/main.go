package main

import (
	"os"

	"github.com/alexballas/xsorter/cli"
	"github.com/alexballas/xsorter/ui"
)

// version is set at build time with -ldflags "-X main.version=v1.2.3".
var version string

func main() {
	if version != "" {
		cli.Version = version
	}
	if err := cli.Execute(ui.Run); err != nil {
		os.Exit(1)
	}
}
