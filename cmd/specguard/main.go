// Command specguard guards TODO-list integrity and tracks checkpoint
// progress during long spec-driven agent runs.
//
// It serves two audiences: Claude Code hooks (specguard hook validate,
// specguard hook pending) and the executing agent itself (checkpoint,
// expect, todo, spec, canonical subcommands).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"specguard/internal/config"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "specguard",
	Short: "specguard - TODO integrity guard for spec execution",
	Long: `Validates TodoWrite calls against a canonical snapshot, blocks premature
session stops while spec work is pending, and tracks loop progress in
durable checkpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("specguard version %s (%s)\n", Version, Build)
			return
		}
		_ = cmd.Help()
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Initialize()
		if cmd.Flags().Changed("json") {
			config.Set("json", jsonOutput)
		}
		jsonOutput = config.GetBool("json")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().String("project-dir", "", "Project root (default: $CLAUDE_PROJECT_DIR or cwd)")
	rootCmd.Flags().Bool("version", false, "Print version information")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(checkpointCmd)
	rootCmd.AddCommand(expectCmd)
	rootCmd.AddCommand(canonicalCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(specCmd)
}

// projectDir resolves the project root for a command invocation.
func projectDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("project-dir"); dir != "" {
		return dir
	}
	return config.ProjectDir()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
