package cache

import (
	"context"
	"fmt"

	"github.com/manngobeh2006/oneclick-master/logger"
	"github.com/manngobeh2006/oneclick-master/model"

	"github.com/redis/go-redis/v9"
)

// corpusChannel carries the genre label whose reference samples changed.
const corpusChannel = "mastering:corpus:changed"

// CorpusEvents distributes corpus-change notifications between instances so
// every instance can drop its cached template for the affected genre. A nil
// CorpusEvents publishes nothing, which keeps single-process setups working
// without Redis.
type CorpusEvents struct {
	client *redis.Client
}

// NewCorpusEvents creates a corpus event bus on the given Redis client.
func NewCorpusEvents(client *redis.Client) *CorpusEvents {
	return &CorpusEvents{client: client}
}

// PublishGenreChanged announces that the genre's reference samples changed.
func (e *CorpusEvents) PublishGenreChanged(ctx context.Context, genre string) error {
	if e == nil || e.client == nil {
		return nil
	}
	genre = model.NormalizeGenre(genre)
	if err := e.client.Publish(ctx, corpusChannel, genre).Err(); err != nil {
		return fmt.Errorf("failed to publish corpus change for %q: %w", genre, err)
	}
	return nil
}

// Listen blocks until ctx is cancelled, invoking onChange for each genre
// whose corpus changed.
func (e *CorpusEvents) Listen(ctx context.Context, onChange func(genre string)) error {
	if e == nil || e.client == nil {
		return fmt.Errorf("corpus events not configured")
	}

	sub := e.client.Subscribe(ctx, corpusChannel)
	defer sub.Close()

	// Confirm the subscription before consuming.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", corpusChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			logger.Debug("corpus change received", logger.String("genre", msg.Payload))
			onChange(msg.Payload)
		}
	}
}
