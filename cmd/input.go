package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"archon/communication"
	"archon/game"

	"github.com/spf13/afero"
)

var errInvalid = errors.New("validation failed")

// readState decodes the state stored at path, or returns the opening
// position when path is empty.
func readState(path string) (game.GameState, error) {
	if path == "" {
		return game.NewGameState(int64(cfg.Seed)), nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return game.GameState{}, fmt.Errorf("failed to read state: %w", err)
	}
	return communication.DecodeState(data)
}

// readAction decodes an action given inline as a JSON object or as a path.
func readAction(value string) (game.GameAction, error) {
	data := []byte(value)
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		var err error
		data, err = afero.ReadFile(fs, value)
		if err != nil {
			return game.GameAction{}, fmt.Errorf("failed to read action: %w", err)
		}
	}
	return communication.DecodeAction(data)
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func printJSON(w io.Writer, data []byte) error {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}

func printViolations(w io.Writer, what string, violations []string) {
	fmt.Fprintf(w, "%s is invalid:\n", what)
	for _, v := range violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
}
