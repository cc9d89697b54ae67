package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"specguard/internal/canonical"
	"specguard/internal/config"
	"specguard/internal/ui"
)

var canonicalCmd = &cobra.Command{
	Use:   "canonical",
	Short: "Inspect the canonical TODO snapshot",
}

func canonicalStore(cmd *cobra.Command) *canonical.Store {
	return canonical.NewStore(config.StateDir(projectDir(cmd)))
}

var canonicalShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the canonical snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		store := canonicalStore(cmd)
		snap, err := store.Load()
		if errors.Is(err, canonical.ErrCorrupt) {
			fail(fmt.Errorf("snapshot at %s is unreadable: %w", store.Path(), err), "corrupt")
		}
		if err != nil {
			fail(err, "load_failed")
		}
		if snap == nil {
			if jsonOutput {
				outputJSON(map[string]any{"found": false})
				return
			}
			fmt.Println("No canonical snapshot")
			return
		}

		if jsonOutput {
			outputJSON(snap)
			return
		}

		fmt.Println(ui.RenderHeader("Canonical TODO snapshot"))
		fmt.Printf("Path: %s\n", store.Path())
		fmt.Printf("Created: %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		if snap.SpecFile != "" {
			fmt.Printf("Spec file: %s\n", snap.SpecFile)
		}
		if snap.ExpectedCount != nil {
			fmt.Printf("Expected count: %d\n", *snap.ExpectedCount)
		}
		fmt.Printf("Tasks: %d\n\n", snap.TaskCount)
		for _, item := range snap.Todos {
			fmt.Printf("%s %s\n", ui.StatusIcon(string(item.Status)), item.Content)
		}
	},
}

var canonicalClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the canonical snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		store := canonicalStore(cmd)
		if err := store.Clear(); err != nil {
			fail(err, "clear_failed")
		}
		if jsonOutput {
			outputJSON(map[string]any{"cleared": true})
			return
		}
		fmt.Printf("Canonical TODO cleared: %s\n", store.Path())
	},
}

func init() {
	canonicalCmd.AddCommand(canonicalShowCmd)
	canonicalCmd.AddCommand(canonicalClearCmd)
}
