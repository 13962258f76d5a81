package cmd

import (
	"encoding/json"

	"archon/game"

	"github.com/spf13/cobra"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [state.json]",
	Short: "List the allowed actions for a state",
	Long: `List every action the active side may take: a MOVE for each free cell and
an ATTACK for each engageable cell of every unmoved piece, followed by a single
END_TURN. Without a state file the opening position is used.

Examples:
  archon actions
  archon actions state.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: actionsHandler,
}

func actionsHandler(cmd *cobra.Command, args []string) error {
	gs, err := readState(optionalArg(args))
	if err != nil {
		return err
	}
	if violations := game.ValidateState(gs); len(violations) > 0 {
		printViolations(cmd.ErrOrStderr(), "state", violations)
		return errInvalid
	}

	data, err := json.Marshal(game.AllowedActions(gs))
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), data)
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
