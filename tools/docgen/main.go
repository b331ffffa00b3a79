// Package main generates CLI reference documentation for price-list-publisher
// and plpctl.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	plpctl "github.com/donaldgifford/price-list-publisher/cmd/plpctl/cmd"
	publisher "github.com/donaldgifford/price-list-publisher/cmd/price-list-publisher/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated markdown")
	flag.Parse()

	trees := map[string]*cobra.Command{
		"price-list-publisher": publisher.Root(),
		"plpctl":               plpctl.Root(),
	}

	for name, root := range trees {
		dir := filepath.Join(*output, name)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Fatalf("creating output directory: %v", err)
		}

		root.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(root, dir); err != nil {
			log.Fatalf("generating %s docs: %v", name, err)
		}
	}

	fmt.Printf("CLI docs generated in %s/\n", *output)
}
