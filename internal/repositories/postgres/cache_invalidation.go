package postgres

import (
	"context"
	"sync"

	"github.com/campus-connect/career-portal/internal/cache"
)

// userInvalidator drops the cached reads of users touched by a write. A
// deferred invalidator holds the ids until the transaction commits.
type userInvalidator struct {
	cacheManager *cache.CacheManager
	deferred     bool

	mu      sync.Mutex
	userIDs []string
}

func newUserInvalidator(cacheManager *cache.CacheManager) *userInvalidator {
	return &userInvalidator{cacheManager: cacheManager}
}

func newDeferredInvalidator(cacheManager *cache.CacheManager) *userInvalidator {
	return &userInvalidator{cacheManager: cacheManager, deferred: true}
}

func (i *userInvalidator) invalidate(ctx context.Context, userID string) {
	if !i.deferred {
		cache.InvalidateUserCache(ctx, i.cacheManager, userID)
		return
	}
	i.mu.Lock()
	i.userIDs = append(i.userIDs, userID)
	i.mu.Unlock()
}

// flush invalidates every held id once.
func (i *userInvalidator) flush(ctx context.Context) {
	i.mu.Lock()
	ids := i.userIDs
	i.userIDs = nil
	i.mu.Unlock()

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		cache.InvalidateUserCache(ctx, i.cacheManager, id)
	}
}
