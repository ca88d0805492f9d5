package infra_redis_matches

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/kinoswap/duo/internal/model"
	usecase_session "github.com/humanbelnik/kinoswap/duo/internal/usecase/session"
)

const defaultQueueSize = 256

// Publisher fans match updates out over a redis channel so every instance
// can reach its own websocket clients. Publish only enqueues; Run does the
// network work.
type Publisher struct {
	client  *redis.Client
	channel string
	queue   chan model.MatchesEvent
	logger  *slog.Logger
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithQueueSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan model.MatchesEvent, n)
		}
	}
}

func NewPublisher(client *redis.Client, channel string, opts ...Option) *Publisher {
	p := &Publisher{
		client:  client,
		channel: channel,
		queue:   make(chan model.MatchesEvent, defaultQueueSize),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Publish(sessionID model.SessionID, matches []model.Candidate) {
	select {
	case p.queue <- model.NewMatchesEvent(sessionID, matches):
	default:
		p.logger.Warn("matches queue full, dropping update", slog.String("session_id", sessionID))
	}
}

func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-p.queue:
			data, err := json.Marshal(event)
			if err != nil {
				p.logger.Error("failed to encode matches event", slog.String("error", err.Error()))
				continue
			}
			if err := p.client.Publish(p.channel, data).Err(); err != nil {
				p.logger.Error("failed to publish matches",
					slog.String("session_id", event.SessionID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// Subscriber relays events from the redis channel into a local broadcaster,
// usually the websocket hub.
type Subscriber struct {
	client  *redis.Client
	channel string
	sink    usecase_session.Broadcaster
	logger  *slog.Logger
}

func NewSubscriber(client *redis.Client, channel string, sink usecase_session.Broadcaster, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		client:  client,
		channel: channel,
		sink:    sink,
		logger:  logger,
	}
}

// Run blocks until ctx is done. The subscription is confirmed before
// ready is closed.
func (s *Subscriber) Run(ctx context.Context, ready chan<- struct{}) error {
	pubsub := s.client.Subscribe(s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event model.MatchesEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				s.logger.Warn("skipping malformed matches event", slog.String("error", err.Error()))
				continue
			}
			if event.Type != model.EventUpdateMatches || event.SessionID == model.EmptySessionID {
				continue
			}
			s.sink.Publish(event.SessionID, event.Payload)
		}
	}
}
