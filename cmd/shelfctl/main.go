package main

import (
	"os"

	"github.com/matst80/slask-shelf/pkg/catalog"
	"github.com/spf13/cobra"
)

var catalogFile string

var rootCmd = &cobra.Command{
	Use:          "shelfctl",
	Short:        "Inspect the shelf catalog and replay favorites/cart scripts",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", os.Getenv("CATALOG_FILE"), "catalog file (yaml or json), defaults to the built-in products")
	rootCmd.AddCommand(replayCmd, catalogCmd, tailCmd)
}

func loadCatalog() (*catalog.Catalog, error) {
	if catalogFile == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(catalogFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
