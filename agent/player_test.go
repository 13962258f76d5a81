package agent

import (
	"testing"
	"time"

	"archon/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestParseDifficulty(t *testing.T) {
	for _, d := range []Difficulty{Beginner, Normal, Expert} {
		got, err := ParseDifficulty(d.String())
		require.NoError(t, err)
		require.Equal(t, d, got)
	}

	_, err := ParseDifficulty("grandmaster")
	require.ErrorIs(t, err, ErrUnknownDifficulty)

	require.Equal(t, 0.6, Beginner.Factor())
	require.Equal(t, 0.9, Normal.Factor())
	require.Equal(t, 0.95, Expert.Factor())
}

func TestSelectIndex(t *testing.T) {
	require.Equal(t, 0, SelectIndex(0, 10, Expert.Factor()))
	require.Equal(t, 5, SelectIndex(0.99, 10, Beginner.Factor()))
	require.Equal(t, 9, SelectIndex(0.99, 10, Expert.Factor()))
	require.Equal(t, 0, SelectIndex(0.999, 1, Expert.Factor()), "Index never leaves the list")

	t.Run("bounded by the difficulty factor", func(t *testing.T) {
		r := rand.New(rand.NewSource(1))
		for i := 0; i < 1000; i++ {
			idx := SelectIndex(r.Float64(), 40, Beginner.Factor())
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, 24)
		}
	})
}

func TestCandidates(t *testing.T) {
	gs := game.NewGameState(0)
	candidates := Candidates(gs)
	require.NotEmpty(t, candidates)

	for i, c := range candidates {
		require.Equal(t, game.Light, c.Move.Piece.Side, "Only the active side is considered")
		require.Equal(t, c.Move.Piece.Position, c.Move.From)
		if i > 0 {
			require.GreaterOrEqual(t, candidates[i-1].Score, c.Score, "Candidates are sorted best first")
		}
	}

	t.Run("moved pieces are skipped", func(t *testing.T) {
		gs := game.NewGameState(0)
		for i := range gs.Units {
			gs.Units[i].HasMoved = true
		}
		require.Empty(t, Candidates(gs))
	})

	t.Run("nothing while a combat is pending", func(t *testing.T) {
		knight := game.NewPiece(game.Knight, game.Light, game.Position{X: 4, Y: 3}, "k")
		wizard := game.NewPiece(game.Wizard, game.Dark, game.Position{X: 4, Y: 5}, "w")
		gs := position(knight, wizard)
		gs.Mode = game.Combat{Attacker: knight, Defender: wizard, FieldType: game.Neutral}

		require.Empty(t, Candidates(gs))
		_, ok := NewPlayer(Expert, WithSeed(1)).CalculateBestMove(gs)
		require.False(t, ok)
	})

	t.Run("engageable cells are candidates", func(t *testing.T) {
		knight := game.NewPiece(game.Knight, game.Light, game.Position{X: 4, Y: 3}, "k")
		wizard := game.NewPiece(game.Wizard, game.Dark, game.Position{X: 4, Y: 5}, "w")
		candidates := Candidates(position(knight, wizard))

		engaged := 0
		for _, c := range candidates {
			if c.Engage {
				engaged++
				require.Equal(t, wizard.Position, c.Move.To)
			}
		}
		require.Equal(t, 1, engaged)
		require.True(t, candidates[0].Engage, "A winning engagement outranks every relocation")
	})
}

func TestCalculateBestMove(t *testing.T) {
	t.Run("deterministic for a seed", func(t *testing.T) {
		gs := game.NewGameState(0)
		a, okA := NewPlayer(Normal, WithSeed(42)).CalculateBestMove(gs)
		b, okB := NewPlayer(Normal, WithSeed(42)).CalculateBestMove(gs)
		require.True(t, okA)
		require.True(t, okB)
		require.Equal(t, a, b)
	})

	t.Run("leaves the snapshot untouched", func(t *testing.T) {
		gs := game.NewGameState(0)
		before := gs.Hash()
		_, ok := NewPlayer(Expert, WithSeed(1)).CalculateBestMove(gs)
		require.True(t, ok)
		require.Equal(t, before, gs.Hash())
	})

	t.Run("no candidates means no move", func(t *testing.T) {
		gs := game.NewGameState(0)
		for i := range gs.Units {
			gs.Units[i].HasMoved = true
		}
		_, ok := NewPlayer(Beginner).CalculateBestMove(gs)
		require.False(t, ok)
	})

	t.Run("picks a legal destination", func(t *testing.T) {
		gs := game.NewGameState(0)
		gs.Active = game.Dark
		move, ok := NewPlayer(Beginner, WithSeed(9)).CalculateBestMove(gs)
		require.True(t, ok)
		require.Equal(t, game.Dark, move.Piece.Side)
		free, engageable := game.Partition(move.Piece, gs.Units)
		require.Contains(t, append(free, engageable...), move.To)
	})

	t.Run("metrics", func(t *testing.T) {
		gs := game.NewGameState(0)
		_, ok, metric := NewPlayer(Expert, WithSeed(3), WithMetrics()).FindMove(gs)
		require.True(t, ok)
		require.Equal(t, "expert", metric.Difficulty)
		require.Equal(t, len(Candidates(gs)), metric.Candidates)
		require.GreaterOrEqual(t, metric.Selected, 0)
		require.GreaterOrEqual(t, metric.BestScore, metric.Score)
	})

	t.Run("stays within the latency budget", func(t *testing.T) {
		gs := game.NewGameState(0)
		gs.Active = game.Dark
		for _, d := range []Difficulty{Normal, Expert} {
			start := time.Now()
			_, ok := NewPlayer(d, WithSeed(5)).CalculateBestMove(gs)
			require.True(t, ok)
			require.Less(t, time.Since(start), time.Second, "%s evaluation should be fast", d)
		}
	})

	t.Run("survives a hundred turns", func(t *testing.T) {
		gs := game.NewGameState(0)
		p := NewPlayer(Normal, WithSeed(8))
		for i := 0; i < 100; i++ {
			require.NotPanics(t, func() {
				p.CalculateBestMove(gs)
			})
			gs.AdvanceTurn()
		}
	})
}
