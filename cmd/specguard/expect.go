package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"specguard/internal/config"
	"specguard/internal/expectation"
)

var expectCmd = &cobra.Command{
	Use:   "expect",
	Short: "Manage the one-shot expected TODO count",
}

func expectArtifact() expectation.Artifact {
	return expectation.Artifact{Path: config.ExpectFile()}
}

var expectSetCmd = &cobra.Command{
	Use:   "set <count>",
	Short: "Arm the count gate for the next TodoWrite",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		count, err := strconv.Atoi(args[0])
		if err != nil {
			fail(fmt.Errorf("count must be an integer: %q", args[0]), "bad_count")
		}
		art := expectArtifact()
		if err := art.Set(count); err != nil {
			fail(err, "set_failed")
		}
		if jsonOutput {
			outputJSON(map[string]any{"expected_count": count, "path": art.Path})
			return
		}
		fmt.Printf("Expecting %d TODO items (recorded at %s)\n", count, art.Path)
	},
}

var expectShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the armed count, if any",
	Run: func(cmd *cobra.Command, args []string) {
		count, ok := expectArtifact().Peek()
		if jsonOutput {
			outputJSON(map[string]any{"armed": ok, "expected_count": count})
			return
		}
		if !ok {
			fmt.Println("No expected count set")
			return
		}
		fmt.Printf("Expecting %d TODO items\n", count)
	},
}

var expectClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Disarm the count gate",
	Run: func(cmd *cobra.Command, args []string) {
		if err := expectArtifact().Clear(); err != nil {
			fail(err, "clear_failed")
		}
		if jsonOutput {
			outputJSON(map[string]any{"cleared": true})
			return
		}
		fmt.Println("Expected count cleared")
	},
}

func init() {
	expectCmd.AddCommand(expectSetCmd)
	expectCmd.AddCommand(expectShowCmd)
	expectCmd.AddCommand(expectClearCmd)
}
