/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gts-io/gts/filestore"
	"github.com/gts-io/gts/gts"
)

var (
	flagVerbose int
	flagConfig  string
	flagPaths   []string
)

var rootCmd = &cobra.Command{
	Use:   "gts",
	Short: "Global Type System command-line helpers",
	Long:  "gts validates, parses, matches, casts and queries Global Type System identifiers and the entities they name.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose == 0 {
			log.SetOutput(os.Stderr)
			log.SetFlags(0)
		} else {
			log.SetOutput(os.Stderr)
			log.SetFlags(log.LstdFlags)
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&flagVerbose, "verbose", "v", "increase verbosity (repeatable)")
	flags.StringVar(&flagConfig, "config", "", "path to a GTS config JSON overriding defaults")
	flags.StringSliceVar(&flagPaths, "path", nil, "file or directory to load entities from (repeatable)")
	pflag.CommandLine = flags
}

// loadConfig reads the optional --config JSON into a gts.Config, falling
// back to defaults for anything unset (spec §6 "Configuration").
func loadConfig() (*gts.Config, error) {
	cfg := gts.DefaultConfig()
	if flagConfig == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// loadStore builds a Store from every path in --path, using the filestore
// package as the Reader implementation (spec §6 "Reader").
func loadStore() (*gts.Store, error) {
	if len(flagPaths) == 0 {
		return nil, fmt.Errorf("at least one --path is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	reader := filestore.NewReader(flagPaths...)
	store := gts.Load(reader, cfg)
	return store, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
