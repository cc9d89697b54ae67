package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"specguard/internal/canonical"
	"specguard/internal/checkpoint"
	"specguard/internal/config"
	"specguard/internal/ui"
)

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Track loop progress for a spec run",
}

func checkpointStore(cmd *cobra.Command) *checkpoint.Store {
	return checkpoint.NewStore(config.StateDir(projectDir(cmd)))
}

var checkpointInitCmd = &cobra.Command{
	Use:   "init <spec-name>",
	Short: "Create a fresh checkpoint with a zeroed cursor",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		total, _ := cmd.Flags().GetInt("total")
		loopPhase, _ := cmd.Flags().GetString("loop-phase")
		specFile, _ := cmd.Flags().GetString("spec-file")

		store := checkpointStore(cmd)
		cp, err := store.Init(args[0], total, loopPhase, specFile)
		if err != nil {
			fail(err, "init_failed")
		}

		if jsonOutput {
			outputJSON(cp)
			return
		}
		fmt.Printf("Checkpoint initialized: %s\n", store.Path(args[0]))
		fmt.Printf("Total items to process: %d\n", total)
	},
}

var checkpointReadCmd = &cobra.Command{
	Use:   "read <spec-name>",
	Short: "Print checkpoint status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := checkpointStore(cmd)
		cp, err := store.Read(args[0])
		if err != nil {
			fail(err, "read_failed")
		}
		if cp == nil {
			if jsonOutput {
				outputJSON(map[string]any{"found": false})
				return
			}
			fmt.Printf("No checkpoint found for: %s\n", args[0])
			return
		}

		if jsonOutput {
			outputJSON(cp)
			return
		}
		printCheckpointSummary(cp)
		fmt.Println("\nJSON:")
		outputJSON(cp)
	},
}

func printCheckpointSummary(cp *checkpoint.Checkpoint) {
	sep := ui.RenderMuted(strings.Repeat("=", 50))
	fmt.Println()
	fmt.Println(sep)
	fmt.Println(ui.RenderHeader("CHECKPOINT: " + cp.SpecName))
	fmt.Println(sep)

	status := string(cp.Status)
	if cp.Status == checkpoint.StatusCompleted {
		status = ui.RenderDone(status)
	} else {
		status = ui.RenderActive(status)
	}
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Progress: %s completed\n", ui.RenderProgress(len(cp.CompletedItems), cp.TotalItems))
	fmt.Printf("Current index: %d\n", cp.CurrentIndex)
	fmt.Printf("Current item: %s\n", orNA(cp.CurrentItemName))
	fmt.Printf("Current task: %s\n", orNA(cp.CurrentTask))
	fmt.Printf("Last updated: %s\n", cp.LastUpdated.Format("2006-01-02 15:04:05 MST"))
	fmt.Println(sep)

	if len(cp.FailedItems) > 0 {
		fmt.Printf("\nFailed items (%d):\n", len(cp.FailedItems))
		for _, item := range cp.FailedItems {
			line := fmt.Sprintf("  %s index=%d", ui.RenderFail(ui.IconFail), item.Index)
			if item.ItemID != "" {
				line += " item=" + item.ItemID
			}
			if item.Reason != "" {
				line += " reason=" + item.Reason
			}
			fmt.Println(line)
		}
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

var checkpointUpdateCmd = &cobra.Command{
	Use:   "update <spec-name>",
	Short: "Record the current loop position",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index, _ := cmd.Flags().GetInt("index")
		currentTask, _ := cmd.Flags().GetString("task")
		itemID, _ := cmd.Flags().GetString("item-id")
		itemName, _ := cmd.Flags().GetString("item-name")

		cp, err := checkpointStore(cmd).Update(args[0], index, currentTask, itemID, itemName)
		if err != nil {
			fail(err, "update_failed")
		}

		if jsonOutput {
			outputJSON(cp)
			return
		}
		item := cp.CurrentItemName
		if item == "" {
			item = cp.CurrentItemID
		}
		fmt.Printf("Checkpoint updated: index=%d, task=%s, item=%s\n", index, currentTask, orNA(item))
	},
}

var checkpointCompleteCmd = &cobra.Command{
	Use:   "complete <spec-name>",
	Short: "Append an item to the completion ledger",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index, _ := cmd.Flags().GetInt("index")
		itemID, _ := cmd.Flags().GetString("item-id")

		cp, err := checkpointStore(cmd).Complete(args[0], index, itemID)
		if err != nil {
			fail(err, "complete_failed")
		}

		if jsonOutput {
			outputJSON(cp)
			return
		}
		if cp.Status == checkpoint.StatusCompleted {
			fmt.Println(ui.RenderDone(fmt.Sprintf("All %d items completed!", cp.TotalItems)))
			return
		}
		fmt.Printf("Item %d completed. %d remaining.\n", index, cp.Remaining())
	},
}

var checkpointFailCmd = &cobra.Command{
	Use:   "fail <spec-name>",
	Short: "Append an item to the failure ledger",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		index, _ := cmd.Flags().GetInt("index")
		itemID, _ := cmd.Flags().GetString("item-id")
		reason, _ := cmd.Flags().GetString("reason")

		cp, err := checkpointStore(cmd).Fail(args[0], index, itemID, reason)
		if err != nil {
			fail(err, "fail_failed")
		}

		if jsonOutput {
			outputJSON(cp)
			return
		}
		fmt.Printf("Item %d marked as failed: %s\n", index, reason)
	},
}

var checkpointClearCmd = &cobra.Command{
	Use:   "clear <spec-name>",
	Short: "Remove the checkpoint, decision log, and canonical snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		keepCanonical, _ := cmd.Flags().GetBool("keep-canonical")

		store := checkpointStore(cmd)
		if err := store.Clear(args[0]); err != nil {
			fail(err, "clear_failed")
		}
		if !jsonOutput {
			fmt.Printf("Checkpoint cleared: %s\n", store.Path(args[0]))
		}

		if !keepCanonical {
			canon := canonical.NewStore(config.StateDir(projectDir(cmd)))
			if err := canon.Clear(); err != nil {
				fail(err, "clear_failed")
			}
			if !jsonOutput {
				fmt.Printf("Canonical TODO cleared: %s\n", canon.Path())
			}
		}

		if jsonOutput {
			outputJSON(map[string]any{"cleared": true, "kept_canonical": keepCanonical})
		}
	},
}

var checkpointLogCmd = &cobra.Command{
	Use:   "log <spec-name> <text>",
	Short: "Append a decision to the spec's decision log",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store := checkpointStore(cmd)
		text := strings.Join(args[1:], " ")
		if err := store.LogDecision(args[0], text); err != nil {
			fail(err, "log_failed")
		}
		if jsonOutput {
			outputJSON(map[string]any{"logged": true})
			return
		}
		fmt.Printf("Decision logged: %s\n", store.DecisionsPath(args[0]))
	},
}

func init() {
	checkpointInitCmd.Flags().Int("total", 0, "Total items to process")
	checkpointInitCmd.Flags().String("loop-phase", "phase-2", "Phase ID containing the loop")
	checkpointInitCmd.Flags().String("spec-file", "", "Path to the spec file (stored for hook reference)")
	_ = checkpointInitCmd.MarkFlagRequired("total")

	checkpointUpdateCmd.Flags().Int("index", 0, "Current item index (0-based)")
	checkpointUpdateCmd.Flags().String("task", "", "Current task ID (e.g., 2.5)")
	checkpointUpdateCmd.Flags().String("item-id", "", "Current item ID")
	checkpointUpdateCmd.Flags().String("item-name", "", "Current item name (for display)")
	_ = checkpointUpdateCmd.MarkFlagRequired("index")
	_ = checkpointUpdateCmd.MarkFlagRequired("task")

	checkpointCompleteCmd.Flags().Int("index", 0, "Completed item index")
	checkpointCompleteCmd.Flags().String("item-id", "", "Completed item ID")
	_ = checkpointCompleteCmd.MarkFlagRequired("index")

	checkpointFailCmd.Flags().Int("index", 0, "Failed item index")
	checkpointFailCmd.Flags().String("item-id", "", "Failed item ID")
	checkpointFailCmd.Flags().String("reason", "", "Failure reason")
	_ = checkpointFailCmd.MarkFlagRequired("index")

	checkpointClearCmd.Flags().Bool("keep-canonical", false, "Keep the canonical TODO snapshot")

	checkpointCmd.AddCommand(checkpointInitCmd)
	checkpointCmd.AddCommand(checkpointReadCmd)
	checkpointCmd.AddCommand(checkpointUpdateCmd)
	checkpointCmd.AddCommand(checkpointCompleteCmd)
	checkpointCmd.AddCommand(checkpointFailCmd)
	checkpointCmd.AddCommand(checkpointClearCmd)
	checkpointCmd.AddCommand(checkpointLogCmd)
}
