package template

import (
	"context"

	"github.com/manngobeh2006/oneclick-master/cache"
)

// FollowCorpusEvents blocks until ctx is cancelled, refreshing each genre as
// corpus-change notifications arrive. Long-running resolvers call this in a
// goroutine so templates track ingests made by other instances.
func (s *Store) FollowCorpusEvents(ctx context.Context, events *cache.CorpusEvents) error {
	return events.Listen(ctx, s.Refresh)
}
