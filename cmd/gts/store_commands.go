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

var flagLimit int
var flagToSchema string
var flagInstance string

func init() {
	validateInstanceCmd.Flags().StringVar(&flagInstance, "instance", "", "instance id to validate (required)")
	_ = validateInstanceCmd.MarkFlagRequired("instance")

	castCmd.Flags().StringVar(&flagInstance, "instance", "", "instance id to cast (required)")
	castCmd.Flags().StringVar(&flagToSchema, "to", "", "target schema id (required)")
	_ = castCmd.MarkFlagRequired("instance")
	_ = castCmd.MarkFlagRequired("to")

	queryCmd.Flags().IntVar(&flagLimit, "limit", 100, "maximum number of results")
	listCmd.Flags().IntVar(&flagLimit, "limit", 100, "maximum number of results")

	rootCmd.AddCommand(validateInstanceCmd, graphCmd, compatibilityCmd, castCmd, queryCmd, attrCmd, listCmd)
}

var validateInstanceCmd = &cobra.Command{
	Use:   "validate-instance",
	Short: "Validate an instance against its schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		validator := gts.JSONSchemaValidator(store)
		if err := store.ValidateInstance(flagInstance, validator); err != nil {
			printJSON(map[string]any{"ok": false, "error": err.Error()})
			return nil
		}
		printJSON(map[string]any{"ok": true})
		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <schema-id>",
	Short: "Build the schema-reference dependency graph rooted at a schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		graph, err := store.BuildSchemaGraph(args[0])
		if err != nil {
			return err
		}
		printJSON(graph)
		return nil
	},
}

var compatibilityCmd = &cobra.Command{
	Use:   "compatibility <from-schema-id> <to-schema-id>",
	Short: "Check backward/forward compatibility between two schema versions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		report, err := store.CheckCompatibility(args[0], args[1])
		if err != nil {
			printJSON(map[string]any{"error": err.Error()})
			return nil
		}
		printJSON(report)
		return nil
	},
}

var castCmd = &cobra.Command{
	Use:   "cast",
	Short: "Cast an instance to a target minor/patch schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		result, err := store.Cast(flagInstance, flagToSchema)
		if err != nil {
			printJSON(map[string]any{"error": err.Error()})
			return nil
		}
		printJSON(result)
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <expr>",
	Short: "Query loaded entities with a pattern and optional predicates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		matches, err := store.Query(args[0], flagLimit)
		if err != nil {
			return err
		}
		docs := make([]map[string]any, 0, len(matches))
		for _, e := range matches {
			docs = append(docs, e.Document)
		}
		printJSON(map[string]any{"count": len(docs), "results": docs})
		return nil
	},
}

var attrCmd = &cobra.Command{
	Use:   "attr <id> <path>",
	Short: "Resolve an attribute path against an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		entity := store.Get(args[0])
		if entity == nil {
			return fmt.Errorf("no such entity: %s", args[0])
		}
		res := entity.ResolvePath(args[1])
		if res.Err != nil {
			printJSON(map[string]any{"resolved": false, "error": res.Err.Error()})
			return nil
		}
		printJSON(map[string]any{"resolved": res.Resolved, "value": res.Value})
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded entities",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		all := store.SortedIDs()
		if len(all) > flagLimit {
			all = all[:flagLimit]
		}
		printJSON(map[string]any{"count": len(all), "ids": all})
		return nil
	},
}
