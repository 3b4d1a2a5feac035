package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agendaclin/agenda-slots-engine/internal/config"
	"github.com/agendaclin/agenda-slots-engine/internal/core/domain"
	"github.com/agendaclin/agenda-slots-engine/internal/core/ports/out"
)

// Cache LRU dos dias calculados. A chave é "profissional|data ISO", um
// dia por entrada; invalidação por profissional varre as chaves.
type LRUCacheAdapter struct {
	cache  *lru.Cache[string, *domain.DaySlots]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewLRUCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*LRUCacheAdapter, error) {
	cache, err := lru.New[string, *domain.DaySlots](cfg.Cache.DaysSize)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.DaysSize,
		})
		return nil, err
	}

	return &LRUCacheAdapter{
		cache:  cache,
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func dayKey(professionalID uuid.UUID, date string) string {
	return professionalID.String() + "|" + date
}

func (c *LRUCacheAdapter) GetDaySlots(ctx context.Context, professionalID uuid.UUID, date string) (*domain.DaySlots, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache.Get(dayKey(professionalID, date))
	if !exists {
		c.logger.Debug("cache.get.miss", out.LogFields{
			"professionalId": professionalID,
			"date":           date,
		})
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"professionalId": professionalID,
		"date":           date,
		"slotsCount":     len(entry.Slots),
	})
	return entry, true
}

func (c *LRUCacheAdapter) StoreDaySlots(ctx context.Context, professionalID uuid.UUID, date string, slots *domain.DaySlots) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slots == nil {
		return
	}

	c.logger.Debug("cache.store", out.LogFields{
		"professionalId": professionalID,
		"date":           date,
		"slotsCount":     len(slots.Slots),
	})

	c.cache.Add(dayKey(professionalID, date), slots)
}

func (c *LRUCacheAdapter) InvalidateDay(ctx context.Context, professionalID uuid.UUID, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(dayKey(professionalID, date))
}

func (c *LRUCacheAdapter) InvalidateProfessional(ctx context.Context, professionalID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := professionalID.String() + "|"
	for _, key := range c.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Remove(key)
		}
	}

	c.logger.Debug("cache.invalidate.professional", out.LogFields{
		"professionalId": professionalID,
	})
}
