package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"archon/communication"
	"archon/game"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the CLI on a fresh in-memory filesystem prepared by files
// and returns what was written to stdout.
func execute(t *testing.T, files map[string][]byte, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"ARCHON_LOG_LEVEL", "ARCHON_DIFFICULTY", "ARCHON_SEED", "ARCHON_MAX_TURNS", "ARCHON_METRICS_DIR"} {
		t.Setenv(key, "")
	}

	fs = afero.NewMemMapFs()
	for path, data := range files {
		require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
	}

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func encode(t *testing.T, gs game.GameState) []byte {
	t.Helper()
	data, err := communication.EncodeState(gs)
	require.NoError(t, err)
	return data
}

// skirmish has a light knight two cells from a weakened dark golem.
func skirmish() game.GameState {
	golem := game.NewPiece(game.Golem, game.Dark, game.Position{X: 2, Y: 5}, "dg")
	golem.Health = 20
	return game.GameState{
		Board: game.NewBoard(),
		Units: []game.Piece{
			game.NewPiece(game.Knight, game.Light, game.Position{X: 2, Y: 3}, "lk"),
			golem,
		},
		Turn:   1,
		Cycle:  game.Cycle{Step: 0, Of: game.CycleLength},
		Active: game.Light,
		Mode:   game.Strategy{},
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	require.Equal(t, "archon v0.1.0\n", out)
}

func TestActions(t *testing.T) {
	out, err := execute(t, nil, "actions")
	require.NoError(t, err)

	var actions []game.GameAction
	require.NoError(t, json.Unmarshal([]byte(out), &actions))
	require.NotEmpty(t, actions)
	require.Equal(t, game.MoveAction, actions[0].Type)
	require.Equal(t, game.EndTurnAction, actions[len(actions)-1].Type)

	t.Run("rejects invalid states", func(t *testing.T) {
		gs := game.NewGameState(0)
		gs.Turn = 0
		_, err := execute(t, map[string][]byte{"state.json": encode(t, gs)}, "actions", "state.json")
		require.ErrorIs(t, err, errInvalid)
	})
}

func TestValidate(t *testing.T) {
	t.Run("opening state and move", func(t *testing.T) {
		out, err := execute(t, nil, "validate", "--action",
			`{"type":"MOVE","unitId":"light-wizard-0","from":[0,0],"to":[0,2],"cost":{"ap":1}}`)
		require.NoError(t, err)
		require.Equal(t, "state is valid\naction is valid\n", out)
	})

	t.Run("action from a file", func(t *testing.T) {
		files := map[string][]byte{
			"action.json": []byte(`{"type":"MOVE","unitId":"dark-wizard-0","from":[0,8],"to":[0,6]}`),
		}
		out, err := execute(t, files, "validate", "--action", "action.json")
		require.ErrorIs(t, err, errInvalid)
		require.Contains(t, out, "unit must belong to active player")
	})

	t.Run("broken state", func(t *testing.T) {
		gs := game.NewGameState(0)
		gs.Turn = 0
		out, err := execute(t, map[string][]byte{"state.json": encode(t, gs)}, "validate", "state.json")
		require.ErrorIs(t, err, errInvalid)
		require.Contains(t, out, "turn must be at least 1")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, nil, "validate", "missing.json")
		require.Error(t, err)
	})
}

func TestApply(t *testing.T) {
	t.Run("move", func(t *testing.T) {
		out, err := execute(t, nil, "apply", "--action",
			`{"type":"MOVE","unitId":"light-wizard-0","from":[0,0],"to":[0,2]}`)
		require.NoError(t, err)

		gs, err := communication.DecodeState([]byte(out))
		require.NoError(t, err)
		require.Equal(t, game.Dark, gs.Active)
		require.Equal(t, 2, gs.Turn)
		require.Equal(t, 0, game.UnitAt(gs.Units, game.Position{X: 0, Y: 2}))
	})

	t.Run("attack and resolve", func(t *testing.T) {
		files := map[string][]byte{"state.json": encode(t, skirmish())}
		out, err := execute(t, files, "apply", "state.json", "--resolve", "--action",
			`{"type":"ATTACK","unitId":"lk","from":[2,3],"to":[2,5]}`)
		require.NoError(t, err)

		gs, err := communication.DecodeState([]byte(out))
		require.NoError(t, err)
		require.False(t, gs.InCombat())
		require.Len(t, gs.Units, 1)
		require.Equal(t, "lk", gs.Units[0].ID)
	})

	t.Run("attack without resolve leaves combat pending", func(t *testing.T) {
		files := map[string][]byte{"state.json": encode(t, skirmish())}
		out, err := execute(t, files, "apply", "state.json", "--action",
			`{"type":"ATTACK","unitId":"lk","from":[2,3],"to":[2,5]}`)
		require.NoError(t, err)

		gs, err := communication.DecodeState([]byte(out))
		require.NoError(t, err)
		require.True(t, gs.InCombat())
	})

	t.Run("illegal action", func(t *testing.T) {
		_, err := execute(t, nil, "apply", "--action",
			`{"type":"MOVE","unitId":"light-wizard-0","from":[0,0],"to":[8,8]}`)
		require.ErrorIs(t, err, errInvalid)
	})

	t.Run("action is required", func(t *testing.T) {
		_, err := execute(t, nil, "apply")
		require.Error(t, err)
	})
}

func TestPlay(t *testing.T) {
	t.Run("writes metrics", func(t *testing.T) {
		out, err := execute(t, nil, "play", "--light", "expert", "--dark", "beginner",
			"--seed", "3", "--max-turns", "10", "--metrics", "--metrics-dir", "out", "--events")
		require.NoError(t, err)
		require.Regexp(t, `(wins on turn|no winner after 10 turns)`, out)

		dirs, err := afero.ReadDir(fs, "out/play")
		require.NoError(t, err)
		require.Len(t, dirs, 1)
		for _, file := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			exists, err := afero.Exists(fs, "out/play/"+dirs[0].Name()+"/"+file)
			require.NoError(t, err)
			require.True(t, exists, "%s should be written", file)
		}
	})

	t.Run("workers replay the same match", func(t *testing.T) {
		first, err := execute(t, nil, "play", "--seed", "9", "--max-turns", "8", "--workers")
		require.NoError(t, err)
		second, err := execute(t, nil, "play", "--seed", "9", "--max-turns", "8")
		require.NoError(t, err)
		require.Equal(t, first, second)
	})

	t.Run("standard opening", func(t *testing.T) {
		out, err := execute(t, nil, "play", "--seed", "9", "--max-turns", "8", "--opening", "standard")
		require.NoError(t, err)
		require.NotEmpty(t, out)
	})

	t.Run("unknown opening", func(t *testing.T) {
		_, err := execute(t, nil, "play", "--opening", "castle")
		require.ErrorIs(t, err, game.ErrUnknownValue)
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		_, err := execute(t, nil, "play", "--light", "godlike")
		require.Error(t, err)
	})
}

func TestExperiment(t *testing.T) {
	out, err := execute(t, nil, "experiment", "difficulty", "--games", "1", "--max-turns", "4", "--metrics-dir", "out")
	require.NoError(t, err)
	require.Contains(t, out, "6 games stored in out/difficulty/")

	out, err = execute(t, nil, "experiment", "latency", "--games", "1", "--max-turns", "4", "--metrics-dir", "out")
	require.NoError(t, err)
	require.Contains(t, out, "3 games stored in out/latency/")
	require.Contains(t, out, "over budget")
}
