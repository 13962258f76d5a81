package cmd

import (
	"fmt"

	"archon/game"

	"github.com/spf13/cobra"
)

var validateAction string

var validateCmd = &cobra.Command{
	Use:   "validate [state.json]",
	Short: "Validate a state and optionally an action",
	Long: `Validate a game state and, with --action, an action against it. The action
is either a path to a JSON file or an inline JSON object. Without a state file
the opening position is used.

Examples:
  archon validate state.json
  archon validate --action '{"type":"MOVE","unitId":"light-wizard-0","from":[0,0],"to":[0,2]}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: validateHandler,
}

func validateHandler(cmd *cobra.Command, args []string) error {
	gs, err := readState(optionalArg(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if violations := game.ValidateState(gs); len(violations) > 0 {
		printViolations(out, "state", violations)
		return errInvalid
	}
	fmt.Fprintln(out, "state is valid")

	if validateAction == "" {
		return nil
	}
	action, err := readAction(validateAction)
	if err != nil {
		return err
	}
	if violations := game.ValidateAction(gs, action); len(violations) > 0 {
		printViolations(out, "action", violations)
		return errInvalid
	}
	fmt.Fprintln(out, "action is valid")
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateAction, "action", "", "action file or inline JSON to validate")
	rootCmd.AddCommand(validateCmd)
}
