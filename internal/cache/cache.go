// Package cache holds recently served orders in memory so the public
// tracking endpoint does not hit the database for every poll.
package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"dokan-backend/internal/metric"
	"dokan-backend/internal/models"
)

type cacheItem struct {
	data      *models.Order
	expiresAt int64
}

// OrderCache maps order numbers to cached aggregates with a fixed TTL.
type OrderCache struct {
	items             map[string]cacheItem
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	sync.RWMutex
	ticker *time.Ticker
}

func NewOrderCache(defaultExpiration, cleanupInterval time.Duration) *OrderCache {
	return &OrderCache{
		items:             make(map[string]cacheItem),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		ticker:            time.NewTicker(cleanupInterval),
	}
}

func (ch *OrderCache) Set(number string, order *models.Order) {
	ch.Lock()
	defer ch.Unlock()
	_, exists := ch.items[number]
	ch.items[number] = cacheItem{
		data:      order,
		expiresAt: time.Now().Add(ch.defaultExpiration).UnixNano(),
	}
	if !exists {
		metric.CacheSize.Inc()
	}
}

func (ch *OrderCache) Get(number string) (*models.Order, bool) {
	ch.RLock()
	defer ch.RUnlock()

	res, ok := ch.items[number]
	if !ok {
		return nil, false
	}
	if time.Now().UnixNano() > res.expiresAt {
		return nil, false
	}
	return res.data, true
}

// Invalidate drops one entry, used after a status change so the next
// tracking poll sees fresh data instead of waiting out the TTL.
func (ch *OrderCache) Invalidate(number string) {
	ch.Lock()
	defer ch.Unlock()
	if _, exists := ch.items[number]; exists {
		delete(ch.items, number)
		metric.CacheSize.Dec()
	}
}

// GC drops expired entries on every tick until the context is done.
func (ch *OrderCache) GC(ctx context.Context) error {
	for {
		select {
		case <-ch.ticker.C:
			ch.Lock()
			now := time.Now().UnixNano()
			deleted := 0
			for key, item := range ch.items {
				if now > item.expiresAt {
					metric.CacheSize.Dec()
					delete(ch.items, key)
					deleted++
				}
			}
			if deleted > 0 {
				log.Printf("cache GC: dropped %d expired entries", deleted)
			}
			ch.Unlock()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (ch *OrderCache) Stop() {
	ch.ticker.Stop()
}
