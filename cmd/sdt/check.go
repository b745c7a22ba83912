package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skin-community/skin-dev-tools/internal/config"
	"github.com/skin-community/skin-dev-tools/internal/labels"
	"github.com/skin-community/skin-dev-tools/internal/logger"
	"github.com/skin-community/skin-dev-tools/internal/project"
	"github.com/skin-community/skin-dev-tools/internal/report"
	"github.com/skin-community/skin-dev-tools/internal/schema"
	"github.com/skin-community/skin-dev-tools/internal/validator"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path]",
	Short: "Validate a skin addon tree",
	Long:  `Build the include, font, color and label registries of an addon and run every consistency check over its window markup`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("db", "", "append diagnostics to a SQLite report database")
	checkCmd.Flags().Bool("no-warnings", false, "only show error-level diagnostics")
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

func runCheck(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg := config.Load(root)
	proj := project.Load(root)
	if len(proj.Folders) == 0 {
		logger.Println("no skin project found at " + root)
		return nil
	}

	catalog := labels.Load(root, cfg)
	rules := schema.LoadProjectRules(root)

	v := validator.NewValidator(proj, rules, catalog)
	v.ValidateProject(cmd.Context())

	noWarnings, _ := cmd.Flags().GetBool("no-warnings")
	shown := 0
	for _, diag := range v.Diagnostics {
		level := errorColor.Sprint("ERROR")
		if diag.Level == validator.LevelWarning {
			if noWarnings {
				continue
			}
			level = warningColor.Sprint("WARNING")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d: %s: %s\n", diag.File, diag.Line, level, diag.Message)
		shown++
	}
	if shown > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d issues.\n", shown)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		if err := report.Write(dbPath, proj.Name, v.Diagnostics); err != nil {
			return err
		}
		logger.Printf("report written to %s\n", dbPath)
	}

	if v.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		os.Exit(1)
	}
	return nil
}
