// Package events publishes SurgeSentinel domain events to EventStoreDB.
//
// The bus is a best-effort mirror of state changes (advisory generated,
// hospital updated, alert broadcast) for downstream consumers such as
// regional analytics. The Postgres repositories remain the source of truth;
// a publish failure is logged and swallowed, never surfaced to the caller.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"
	"github.com/google/uuid"

	"github.com/surge-sentinel/platform/internal/shared/config"
)

// Domain event types
const (
	TypeAdvisoryGenerated = "advisory.generated"
	TypeHospitalUpdated   = "hospital.updated"
	TypeAlertBroadcast    = "alert.broadcast"
)

// Event represents a domain event
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`

	// Actor is the role/display name that caused the event
	Actor string `json:"actor,omitempty"`

	Data any `json:"data"`
}

// NewEvent creates a new event with auto-generated ID and timestamp
func NewEvent(eventType, source string, data any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// WithActor sets the actor on the event
func (e Event) WithActor(actor string) Event {
	e.Actor = actor
	return e
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus provides event publishing and subscription over EventStoreDB
type Bus struct {
	client *esdb.Client
	prefix string
}

// NewBus creates a new event bus
func NewBus(ctx context.Context, cfg config.EventStoreConfig) (*Bus, error) {
	settings, err := esdb.ParseConnectionString(connectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	client, err := esdb.NewClient(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create eventstore client: %w", err)
	}

	return &Bus{client: client, prefix: "surge"}, nil
}

func connectionString(cfg config.EventStoreConfig) string {
	var auth string
	if cfg.Username != "" && cfg.Password != "" {
		auth = fmt.Sprintf("%s:%s@", cfg.Username, cfg.Password)
	}

	params := ""
	if cfg.Insecure {
		params = "?tls=false&tlsVerifyCert=false"
	}

	return fmt.Sprintf("esdb://%s%s:%d%s", auth, cfg.Host, cfg.Port, params)
}

// Publish appends an event to its per-type stream
func (b *Bus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// advisory.generated -> surge-advisory-generated
	stream := fmt.Sprintf("%s-%s", b.prefix, strings.ReplaceAll(event.Type, ".", "-"))

	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		eventID = uuid.New()
	}

	_, err = b.client.AppendToStream(ctx, stream, esdb.AppendToStreamOptions{
		ExpectedRevision: esdb.Any{},
	}, esdb.EventData{
		EventType:   event.Type,
		ContentType: esdb.ContentTypeJson,
		Data:        data,
		EventID:     eventID,
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe delivers future events whose type matches the given prefix
// ("alert." matches alert.broadcast). Delivery starts at the end of the
// stream; there is no replay.
func (b *Bus) Subscribe(ctx context.Context, typePrefix string, handler Handler) error {
	sub, err := b.client.SubscribeToAll(ctx, esdb.SubscribeToAllOptions{
		From: esdb.End{},
		Filter: &esdb.SubscriptionFilter{
			Type:     esdb.EventFilterType,
			Prefixes: []string{typePrefix},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go b.consume(ctx, sub, handler)
	return nil
}

func (b *Bus) consume(ctx context.Context, sub *esdb.Subscription, handler Handler) {
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		subEvent := sub.Recv()
		if subEvent.SubscriptionDropped != nil {
			return
		}
		deliver(ctx, subEvent.EventAppeared, handler)
	}
}

// deliver decodes one resolved event and hands it to the handler. System
// events and undecodable payloads are skipped.
func deliver(ctx context.Context, resolved *esdb.ResolvedEvent, handler Handler) {
	if resolved == nil || resolved.Event == nil {
		return
	}
	recorded := resolved.Event
	if strings.HasPrefix(recorded.EventType, "$") {
		return
	}

	var event Event
	if err := json.Unmarshal(recorded.Data, &event); err != nil {
		return
	}
	if event.ID == "" {
		event.ID = recorded.EventID.String()
	}

	// Handler errors are the consumer's problem; this is a fire-and-
	// observe stream, not a work queue.
	_ = handler(ctx, event)
}

// Close closes the event bus connection
func (b *Bus) Close() {
	if b.client != nil {
		b.client.Close()
	}
}

// Health checks the EventStoreDB connection
func (b *Bus) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := b.client.ReadStream(ctx, "$streams", esdb.ReadStreamOptions{
		From:      esdb.Start{},
		Direction: esdb.Forwards,
	}, 1)
	if err != nil {
		return fmt.Errorf("eventstore health check failed: %w", err)
	}
	defer stream.Close()

	return nil
}
