/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"github.com/spf13/cobra"

	"github.com/gts-io/gts/gts"
	"github.com/gts-io/gts/server"
)

var flagHost string
var flagPort int

func init() {
	serveCmd.Flags().StringVar(&flagHost, "host", "127.0.0.1", "address to bind")
	serveCmd.Flags().IntVar(&flagPort, "port", 8080, "port to bind")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the loaded entity store over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadStore()
		if err != nil {
			return err
		}
		validator := gts.JSONSchemaValidator(store)
		srv := server.NewServer(store, validator, flagHost, flagPort, flagVerbose)
		return srv.Start()
	},
}
