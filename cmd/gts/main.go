/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
