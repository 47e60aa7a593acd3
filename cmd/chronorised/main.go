package main

import (
	"flag"
	"fmt"
	"os"

	"chronorise/internal/di"
	"chronorise/internal/structures"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; GEMINI_API_KEY may live there.
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "chronorised: %v\n", err)
		os.Exit(1)
	}
}
