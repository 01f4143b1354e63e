// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - stations idle longer than idleTTL
//   - least-recently-used stations when map size exceeds maxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package station

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/stationops/truckchecks/internal/metrics"
)

func (c *Cache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		// Idle eviction pass.
		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)
			idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
			if idle > c.idleTTL {
				c.m.Delete(key)
				zap.S().Infow("station evicted",
					"station", key, "idle", idle.Truncate(time.Second))
				metrics.StationEvictTotal.Inc()
				metrics.ActiveStations.Dec()
			}
			return true
		})

		// LRU eviction pass.
		if c.maxEntries > 0 && count > c.maxEntries {
			type kv struct {
				key int64
				at  int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{key: key.(int64), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < count-c.maxEntries && i < len(all); i++ {
				c.m.Delete(all[i].key)
				zap.S().Infow("station evicted", "station", all[i].key, "reason", "lru")
				metrics.StationEvictTotal.Inc()
				metrics.ActiveStations.Dec()
			}
		}
	}
}
