package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/conneroisu/balkit/internal/version"
)

var (
	versionFormat string
	versionShort  bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: heredoc.Doc(`
		Display version information for balkit including:

		- Semantic version number and codename
		- Release date and release notes URL
		- Git commit hash and build timestamp
		- Go version and target platform

		Examples:
		  balkit version                 # Show version and build info
		  balkit version --short         # Show the version only
		  balkit version --format json   # Output as JSON
	`),
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionFormat, "format", "f", "text", "Output format (text, json)")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch versionFormat {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(version.GetInfo())
	case "text":
		if versionShort {
			fmt.Fprintln(out, version.GetShortVersion())
			return nil
		}
		fmt.Fprintf(out, "BAL Kit %s\n", version.Full())
		fmt.Fprintln(out, version.GetDetailedVersion())
		if version.IsDirty() {
			fmt.Fprintln(out, "Working directory: dirty")
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json)", versionFormat)
	}
}
