package main

import (
	"FlowTagger/internal/config"
	"FlowTagger/internal/engine/manager"
	"FlowTagger/internal/errors"
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	// --- Command-Line Flag Parsing ---
	configPath := flag.String("config", "", "Path to a YAML config file (optional).")
	rulesPath := flag.String("rules", "", "Lookup table CSV with dstport,protocol,tag columns.")
	logPath := flag.String("log", "", "Flow log CSV with dstport and protocol columns.")
	outPath := flag.String("out", "", "Write the report to this file instead of stdout.")
	permissive := flag.Bool("permissive", false, "Count unknown protocol numbers as untagged instead of aborting.")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [mapping.csv network_traffic.csv]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// 1. Load configuration
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %s", errors.Describe(err))
		}
		log.Println("Configuration loaded successfully.")
	}

	// 2. Apply command-line overrides
	switch flag.NArg() {
	case 0:
	case 2:
		cfg.Input.RulesPath, cfg.Input.LogPath = flag.Arg(0), flag.Arg(1)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if *rulesPath != "" {
		cfg.Input.RulesPath = *rulesPath
	}
	if *logPath != "" {
		cfg.Input.LogPath = *logPath
	}
	if *outPath != "" {
		cfg.Output.Path = *outPath
	}
	if *permissive {
		cfg.Classifier.UnknownProtocol = config.UnknownProtocolPermissive
	}

	// 3. Initialize and run
	mgr, err := manager.NewManager(cfg)
	if err != nil {
		log.Fatalf("Failed to create manager: %s", errors.Describe(err))
	}

	if _, err := mgr.Run(); err != nil {
		log.Fatalf("Run failed (%s): %s", errors.GetKind(err), errors.Describe(err))
	}
	log.Println("Run complete.")
}
