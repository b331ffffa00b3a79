// Package main is the entry point for the plpctl CLI client.
package main

import (
	"github.com/donaldgifford/price-list-publisher/cmd/plpctl/cmd"
)

func main() {
	cmd.Execute()
}
