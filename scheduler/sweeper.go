package scheduler

import (
	"fmt"
	"log"
	"time"

	"pricescout/cache"

	"github.com/robfig/cron/v3"
)

// CacheSweeper periodically evicts expired scrape results. The cache already
// drops stale entries on read; the sweep keeps keys that are never requested
// again from lingering.
type CacheSweeper struct {
	cron     *cron.Cron
	cache    *cache.Cache
	interval time.Duration
}

func NewCacheSweeper(c *cache.Cache, interval time.Duration) *CacheSweeper {
	return &CacheSweeper{
		cron:     cron.New(),
		cache:    c,
		interval: interval,
	}
}

// Start schedules the sweep
func (cs *CacheSweeper) Start() {
	spec := fmt.Sprintf("@every %s", cs.interval)
	if _, err := cs.cron.AddFunc(spec, cs.sweep); err != nil {
		log.Printf("Failed to schedule cache sweeper: %v", err)
		return
	}
	cs.cron.Start()
	log.Printf("Cache sweeper scheduled to run every %s", cs.interval)
}

// Stop stops the scheduled sweeps
func (cs *CacheSweeper) Stop() {
	if cs.cron != nil {
		cs.cron.Stop()
	}
}

func (cs *CacheSweeper) sweep() {
	if evicted := cs.cache.Sweep(); evicted > 0 {
		log.Printf("Cache sweep evicted %d expired entries (%d remain)", evicted, cs.cache.Len())
	}
}
