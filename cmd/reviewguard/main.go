package main

import (
	"fmt"
	"os"
	"reviewguard/internal/di"
	"reviewguard/internal/structures"

	flag "github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "configs/reviewguard.yaml", "path to the YAML config file")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "also log to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "reviewguard: %s\n", err)
		os.Exit(1)
	}
}
