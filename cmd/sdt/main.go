package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/skin-community/skin-dev-tools/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sdt",
	Short: "Skin development tools",
	Long:  `sdt is a static-analysis toolchain for skin addons: it indexes includes, fonts, colors and label catalogs and cross-checks window markup against them`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
