package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khanglvm/movie-recommender/internal/version"
)

// NewVersionCmd creates the 'version' command
func NewVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display the current version, commit hash, build date and Go version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runVersion(cmd *cobra.Command, jsonOutput bool) error {
	info := version.Get()
	out := cmd.OutOrStdout()

	if jsonOutput {
		return printJSON(out, info)
	}

	fmt.Fprintf(out, "Version:  %s\n", info.Version)
	fmt.Fprintf(out, "Commit:   %s\n", info.Commit)
	fmt.Fprintf(out, "Built:    %s\n", info.Date)
	fmt.Fprintf(out, "Go:       %s\n", info.GoVersion)
	return nil
}
