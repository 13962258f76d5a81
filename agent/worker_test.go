package agent

import (
	"context"
	"testing"
	"time"

	"archon/game"

	"github.com/stretchr/testify/require"
)

func TestWorker(t *testing.T) {
	t.Run("matches an in-process player", func(t *testing.T) {
		gs := game.NewGameState(0)
		want, ok := NewPlayer(Normal, WithSeed(21)).CalculateBestMove(gs)
		require.True(t, ok)

		w := NewWorker(NewPlayer(Normal, WithSeed(21)))
		defer w.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		got, ok, _, err := w.Evaluate(ctx, gs)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, got)
	})

	t.Run("reports no move", func(t *testing.T) {
		gs := game.NewGameState(0)
		for i := range gs.Units {
			gs.Units[i].HasMoved = true
		}
		w := NewWorker(NewPlayer(Expert, WithSeed(1)))
		defer w.Close()

		_, ok, _ := w.FindMove(gs)
		require.False(t, ok)
	})

	t.Run("honours a done context", func(t *testing.T) {
		w := NewWorker(NewPlayer(Expert, WithSeed(1)))
		defer w.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, _, err := w.Evaluate(ctx, game.NewGameState(0))
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("closed worker", func(t *testing.T) {
		w := NewWorker(NewPlayer(Expert, WithSeed(1)))
		w.Close()
		w.Close()

		_, _, _, err := w.Evaluate(context.Background(), game.NewGameState(0))
		require.ErrorIs(t, err, ErrWorkerClosed)
	})
}
