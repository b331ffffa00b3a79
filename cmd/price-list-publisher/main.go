// Package main is the entry point for the price-list-publisher.
package main

import (
	"os"

	"github.com/donaldgifford/price-list-publisher/cmd/price-list-publisher/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
