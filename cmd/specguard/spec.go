package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"specguard/internal/hook"
	"specguard/internal/specfile"
)

var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "Inspect spec files",
}

// maxAdvisableTasks is the plan size beyond which a single session is
// likely to overflow its context or skip tasks.
const maxAdvisableTasks = 400

var specCountCmd = &cobra.Command{
	Use:   "count <spec-file>",
	Short: "Count loop tasks in a spec file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		count, ids, err := specfile.Count(args[0])
		if err != nil {
			fail(err, "count_failed")
		}
		if jsonOutput {
			outputJSON(map[string]any{"count": count, "task_ids": ids, "oversized": count > maxAdvisableTasks})
			return
		}
		fmt.Println(count)
		if count > maxAdvisableTasks {
			fmt.Fprintf(os.Stderr, "WARNING: plan has %d tasks; split it into smaller spec files before executing.\n", count)
		}
	},
}

var specExpandCmd = &cobra.Command{
	Use:   "expand <spec-file>",
	Short: "Expand typed tasks in a compact spec file into subtasks",
	Long: `Rewrites a compact spec file in place (or to --output), expanding each
typed task into its subtask sequence: ui tasks gain a design pre-task and
a visual-QA post-task, backend and func tasks gain a test post-task, docs
tasks gain a verify post-task. A spec that was already expanded is left
untouched.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := specfile.Load(args[0])
		if err != nil {
			fail(err, "expand_failed")
		}
		preview, _ := cmd.Flags().GetBool("preview")
		quiet, _ := cmd.Flags().GetBool("quiet")

		if doc.Expansion != nil && doc.Expansion.Expanded {
			if !quiet {
				fmt.Fprintln(os.Stderr, "Spec is already expanded. Skipping.")
			}
			if preview {
				outputJSON(doc)
			}
			return
		}

		before := len(doc.TaskIDs())
		expanded, warnings := specfile.Expand(doc)
		after := len(expanded.TaskIDs())

		if !quiet {
			for _, w := range warnings {
				fmt.Fprintln(os.Stderr, "Warning: "+w)
			}
			fmt.Fprintf(os.Stderr, "Expansion complete: %d tasks before, %d after (%d added)\n",
				before, after, after-before)
		}

		if preview {
			outputJSON(expanded)
			return
		}
		out := args[0]
		if flagOut, _ := cmd.Flags().GetString("output"); flagOut != "" {
			out = flagOut
		}
		if err := specfile.WriteJSON(out, expanded); err != nil {
			fail(err, "expand_failed")
		}
		if !quiet {
			fmt.Fprintf(os.Stderr, "Written to: %s\n", out)
		}
	},
}

var specFindCmd = &cobra.Command{
	Use:   "find",
	Short: "Locate the spec file for the current project",
	Run: func(cmd *cobra.Command, args []string) {
		path, ok := specfile.Find(projectDir(cmd))
		if jsonOutput {
			outputJSON(map[string]any{"found": ok, "path": path})
			return
		}
		if !ok {
			fail(fmt.Errorf("no spec file found under %s", projectDir(cmd)), "not_found")
		}
		fmt.Println(path)
	},
}

var specContextCmd = &cobra.Command{
	Use:   "context",
	Short: "Report whether a spec execution is in progress",
	Long: `Exits 0 when the project is mid spec execution (an expected count is
armed, a checkpoint exists, or a spec file is discoverable), 1 otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		active := hook.InExecutionContext(projectDir(cmd))
		if jsonOutput {
			outputJSON(map[string]any{"active": active})
		} else {
			fmt.Println(active)
		}
		if !active {
			os.Exit(1)
		}
	},
}

func init() {
	specExpandCmd.Flags().StringP("output", "o", "", "Write the expanded spec to this path instead of in place")
	specExpandCmd.Flags().BoolP("preview", "p", false, "Print the expanded spec without writing it")
	specExpandCmd.Flags().BoolP("quiet", "q", false, "Suppress warnings and the expansion summary")

	specCmd.AddCommand(specCountCmd)
	specCmd.AddCommand(specExpandCmd)
	specCmd.AddCommand(specFindCmd)
	specCmd.AddCommand(specContextCmd)
}
