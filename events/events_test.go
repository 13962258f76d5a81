package events

import (
	"context"
	"testing"
	"time"

	"archon/game"

	"github.com/stretchr/testify/require"
)

func TestBus(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan TurnEnded, 1)
	matches := make(chan string, 1)
	err := bus.Subscribe(ctx, TopicTurnEnded, func(matchID string, payload []byte) error {
		event, err := Decode[TurnEnded](payload)
		if err != nil {
			return err
		}
		matches <- matchID
		received <- event
		return nil
	})
	require.NoError(t, err)

	want := TurnEnded{MatchID: "m-1", Turn: 2, Step: 1, Active: game.Dark}
	require.NoError(t, bus.Publish(TopicTurnEnded, "m-1", want))

	select {
	case got := <-received:
		require.Equal(t, want, got)
		require.Equal(t, "m-1", <-matches)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	require.NoError(t, bus.Publish(TopicGameOver, "m-2", GameOver{MatchID: "m-2", Winner: "light", Turns: 9}))
}

func TestDecode(t *testing.T) {
	_, err := Decode[GameOver]([]byte("not json"))
	require.Error(t, err)

	event, err := Decode[GameOver]([]byte(`{"matchId":"x","winner":"dark","turns":4}`))
	require.NoError(t, err)
	require.Equal(t, GameOver{MatchID: "x", Winner: "dark", Turns: 4}, event)
}
