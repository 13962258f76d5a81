package events

import (
	"context"
	"encoding/json"
	"fmt"

	"archon/game"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	TopicTurnEnded      = "turn.ended"
	TopicCombatResolved = "combat.resolved"
	TopicGameOver       = "game.over"
)

const metaKeyMatch = "match_id"

type TurnEnded struct {
	MatchID string    `json:"matchId"`
	Turn    int       `json:"turn"`
	Step    int       `json:"step"`
	Active  game.Side `json:"active"`
}

type CombatResolved struct {
	MatchID string            `json:"matchId"`
	Turn    int               `json:"turn"`
	Result  game.CombatResult `json:"result"`
}

type GameOver struct {
	MatchID string `json:"matchId"`
	Winner  string `json:"winner"` // Empty when the turn limit was reached
	Turns   int    `json:"turns"`
}

// Publisher is what the engine needs to announce game events.
type Publisher interface {
	Publish(topic, matchID string, event any) error
}

// Handler processes the JSON payload of one event.
type Handler func(matchID string, payload []byte) error

// Bus is an in-process pub/sub for game events.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(gochannel.Config{}, zerologAdapter{}),
	}
}

func (b *Bus) Publish(topic, matchID string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(metaKeyMatch, matchID)
	return b.pubSub.Publish(topic, msg)
}

// Subscribe runs handler for every event on topic until ctx is done or the
// bus is closed. It returns once the subscription is active.
func (b *Bus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			if err := handler(msg.Metadata.Get(metaKeyMatch), msg.Payload); err != nil {
				log.Warn().Err(err).Str("topic", topic).Str("msg_id", msg.UUID).Msg("failed to handle event")
			}
			// Nacked messages are redelivered forever by the in-memory bus.
			msg.Ack()
		}
		log.Debug().Str("topic", topic).Msg("event subscription ended")
	}()

	return nil
}

func (b *Bus) Close() error {
	return b.pubSub.Close()
}

// Decode unmarshals an event payload.
func Decode[T any](payload []byte) (T, error) {
	var event T
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("failed to decode event: %w", err)
	}
	return event, nil
}

// zerologAdapter routes watermill's logs through the global zerolog logger.
type zerologAdapter struct {
	fields watermill.LogFields
}

func (a zerologAdapter) Error(msg string, err error, fields watermill.LogFields) {
	log.Error().Err(err).Fields(map[string]interface{}(a.fields.Add(fields))).Msg(msg)
}

func (a zerologAdapter) Info(msg string, fields watermill.LogFields) {
	log.Info().Fields(map[string]interface{}(a.fields.Add(fields))).Msg(msg)
}

func (a zerologAdapter) Debug(msg string, fields watermill.LogFields) {
	log.Debug().Fields(map[string]interface{}(a.fields.Add(fields))).Msg(msg)
}

func (a zerologAdapter) Trace(msg string, fields watermill.LogFields) {
	log.Trace().Fields(map[string]interface{}(a.fields.Add(fields))).Msg(msg)
}

func (a zerologAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return zerologAdapter{fields: a.fields.Add(fields)}
}
