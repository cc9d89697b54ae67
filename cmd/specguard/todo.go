package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"specguard/internal/checkpoint"
	"specguard/internal/config"
	"specguard/internal/specfile"
	"specguard/internal/todogen"
	"specguard/internal/ui"
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Generate TODO lists from a spec file",
}

var todoGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the TODO structure for the current checkpoint state",
	Run: func(cmd *cobra.Command, args []string) {
		specPath, _ := cmd.Flags().GetString("spec")
		checkpointName, _ := cmd.Flags().GetString("checkpoint")
		base, _ := cmd.Flags().GetBool("base")
		format, _ := cmd.Flags().GetString("format")

		doc, err := specfile.Load(specPath)
		if err != nil {
			fail(err, "spec_load_failed")
		}

		items := todogen.Base(doc)
		if !base && checkpointName != "" {
			store := checkpoint.NewStore(config.StateDir(projectDir(cmd)))
			cp, err := store.Read(checkpointName)
			if err != nil {
				fail(err, "checkpoint_read_failed")
			}
			items = todogen.Generate(doc, cp)
		} else if !base {
			items = todogen.Generate(doc, nil)
		}

		switch format {
		case "count":
			fmt.Println(len(items))
		case "preview":
			sep := ui.RenderMuted(strings.Repeat("=", 60))
			fmt.Println()
			fmt.Println(sep)
			fmt.Println(ui.RenderHeader(fmt.Sprintf("TODO Preview (%d items)", len(items))))
			fmt.Println(sep)
			fmt.Println()
			for _, item := range items {
				fmt.Printf("%s %s\n", ui.StatusIcon(string(item.Status)), item.Content)
			}
			fmt.Println()
		default:
			outputJSON(items)
		}
	},
}

func init() {
	todoGenerateCmd.Flags().String("spec", "", "Path to the spec file")
	todoGenerateCmd.Flags().String("checkpoint", "", "Checkpoint name (without .json)")
	todoGenerateCmd.Flags().Bool("base", false, "Generate base TODO (all tasks, no expansion)")
	todoGenerateCmd.Flags().String("format", "json", "Output format: json, count, or preview")
	_ = todoGenerateCmd.MarkFlagRequired("spec")

	todoCmd.AddCommand(todoGenerateCmd)
}
