// Package cli wires coderadar's cobra commands to the pipeline and
// scheduler, following githubnext-gh-aw/pkg/cli's one-command-per-file
// layout and console.FormatXMessage output conventions.
package cli

import (
	"fmt"

	"github.com/githubnext/coderadar/pkg/console"
	"github.com/githubnext/coderadar/pkg/constants"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the coderadar root command and its subcommands.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     constants.CLIExtensionPrefix,
		Short:   "Multi-repository code intelligence scanner",
		Version: version,
		Long: `coderadar scans repositories for recurring code patterns and issues,
classifies their tech stack, and generates validated recommendations.

Common tasks:
  coderadar scan acme/widgets         # Scan one repository now
  coderadar schedule start            # Run the periodic scan-and-recommend pass`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s\n", console.FormatInfoMessage(constants.CLIExtensionPrefix+" version {{.Version}}")))

	root.AddCommand(NewScanCommand())
	root.AddCommand(NewScheduleCommand())
	root.AddCommand(NewConfigureCommand())

	return root
}
