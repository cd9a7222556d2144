/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gts-io/gts/gts"
)

func init() {
	rootCmd.AddCommand(validateIDCmd, parseIDCmd, matchPatternCmd, uuidCmd)
}

var validateIDCmd = &cobra.Command{
	Use:   "validate-id <id>",
	Short: "Validate a GTS identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := gts.Parse(args[0])
		if err != nil {
			printJSON(map[string]any{"valid": false, "error": err.Error()})
			return nil
		}
		printJSON(map[string]any{
			"valid":     true,
			"is_schema": id.IsSchema(),
			"uuid":      id.ToUUID().String(),
		})
		return nil
	},
}

var parseIDCmd = &cobra.Command{
	Use:   "parse-id <id>",
	Short: "Parse a GTS identifier into its components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := gts.Parse(args[0])
		if err != nil {
			return err
		}
		printJSON(id)
		return nil
	},
}

var matchPatternCmd = &cobra.Command{
	Use:   "match-pattern <candidate> <pattern>",
	Short: "Match a GTS identifier against a wildcard pattern",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := gts.WildcardMatch(args[0], args[1])
		if err != nil {
			printJSON(map[string]any{"match": false, "error": err.Error()})
			return nil
		}
		printJSON(map[string]any{"match": ok})
		return nil
	},
}

var uuidCmd = &cobra.Command{
	Use:   "uuid <id>",
	Short: "Derive the deterministic UUID of a GTS identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := gts.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Println(id.ToUUID().String())
		return nil
	},
}
