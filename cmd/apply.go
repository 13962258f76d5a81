package cmd

import (
	"fmt"

	"archon/communication"
	"archon/game"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	applyAction  string
	applyResolve bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [state.json]",
	Short: "Apply an action to a state",
	Long: `Validate an action against a state, apply it and print the resulting state.
With --resolve a combat opened by an ATTACK is resolved at once.

Examples:
  archon apply --action move.json
  archon apply state.json --action attack.json --resolve`,
	Args: cobra.MaximumNArgs(1),
	RunE: applyHandler,
}

func applyHandler(cmd *cobra.Command, args []string) error {
	gs, err := readState(optionalArg(args))
	if err != nil {
		return err
	}
	if violations := game.ValidateState(gs); len(violations) > 0 {
		printViolations(cmd.ErrOrStderr(), "state", violations)
		return errInvalid
	}

	action, err := readAction(applyAction)
	if err != nil {
		return err
	}
	if violations := game.ValidateAction(gs, action); len(violations) > 0 {
		printViolations(cmd.ErrOrStderr(), "action", violations)
		return errInvalid
	}

	next := game.ApplyAction(gs, action)
	if applyResolve && next.InCombat() {
		var result game.CombatResult
		next, result, err = game.ResolvePendingCombat(next)
		if err != nil {
			return fmt.Errorf("failed to resolve combat: %w", err)
		}
		log.Info().Msgf("%s defeated %s", result.Winner.ID, result.Loser.ID)
	}

	data, err := communication.EncodeState(next)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), data)
}

func init() {
	applyCmd.Flags().StringVar(&applyAction, "action", "", "action file or inline JSON to apply")
	applyCmd.Flags().BoolVar(&applyResolve, "resolve", false, "resolve a combat started by the action")
	applyCmd.MarkFlagRequired("action")
	rootCmd.AddCommand(applyCmd)
}
