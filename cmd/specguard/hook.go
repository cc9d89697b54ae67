package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"specguard/internal/debug"
	"specguard/internal/hook"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Claude Code hook handlers (read event JSON from stdin)",
}

// hookValidateCmd is wired as a PostToolUse hook for TodoWrite. It
// never exits non-zero: hook failures must not break the agent loop,
// so errors degrade to allowing the write.
var hookValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a TodoWrite call against the canonical snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		ev, err := hook.ParseEvent(os.Stdin)
		if err != nil {
			outputJSON(hook.Block("Invalid hook input JSON: " + err.Error()))
			return
		}
		if debug.Enabled() {
			payload, _ := json.Marshal(ev.ToolInput.Todos)
			debug.Logf("hook %s: tool=%s cwd=%s payload=%s",
				ev.HookEventName, ev.ToolName, ev.CWD, payload)
		}

		dir := ev.CWD
		if dir == "" {
			dir = projectDir(cmd)
		}

		v := hook.NewValidator(dir)
		decision, info, err := v.ValidateTodoWrite(ev)
		if err != nil {
			return
		}
		if decision != nil {
			outputJSON(decision)
			return
		}
		if info != nil {
			writeStderrJSON(info)
		}
	},
}

// hookPendingCmd is wired as a Stop hook. Unparseable input allows the
// stop so a broken hook chain can never trap the session.
var hookPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Block session stop while spec tasks remain pending",
	Run: func(cmd *cobra.Command, args []string) {
		dir := ""
		if ev, err := hook.ParseEvent(os.Stdin); err == nil {
			dir = ev.CWD
		}
		if dir == "" {
			dir = projectDir(cmd)
		}

		outputJSON(hook.CheckPending(dir))
	},
}

func init() {
	hookCmd.AddCommand(hookValidateCmd)
	hookCmd.AddCommand(hookPendingCmd)
}
