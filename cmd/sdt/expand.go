package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skin-community/skin-dev-tools/internal/inliner"
	"github.com/skin-community/skin-dev-tools/internal/project"
	"github.com/skin-community/skin-dev-tools/internal/xmlparse"
)

var expandCmd = &cobra.Command{
	Use:   "expand <window.xml>",
	Short: "Print a window file with all includes inlined",
	Long:  `Resolve the addon containing the given window file and print the markup with every include reference replaced by its definition, recursively`,
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	// The window file lives inside a resolution folder of the addon
	// root: <root>/<folder>/<file>.
	root := filepath.Dir(filepath.Dir(path))
	proj := project.Load(root)
	folder := proj.FolderOf(path)
	if folder == nil {
		return fmt.Errorf("%s is not inside a resolution folder of a skin project", args[0])
	}

	tree, err := xmlparse.ParseFile(path)
	if err != nil {
		return err
	}

	expanded := inliner.New(folder).ResolveIncludes(tree)
	cmd.OutOrStdout().Write(xmlparse.Serialize(expanded))
	return nil
}
