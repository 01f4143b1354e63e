// internal/station/cache.go
//
// Lazy station cache.
//
// Context
// -------
// Stations share one control-plane DB pool, so the aggregate is cheap, but
// every admin request needs the station row and its resolved time zone.
// The cache loads each station once on first hit, dedupes concurrent
// first hits through singleflight, and evicts idle entries in the
// background (see evictor.go).
package station

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/stationops/truckchecks/internal/metrics"
)

// Static defaults.  Override via the Cache constructor if desired.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 100
	EvictInterval = 5 * time.Minute
)

// ErrNotFound is returned when an id is not present in the station table.
var ErrNotFound = errors.New("station not found")

type entry struct {
	station  *Station
	lastSeen int64 // UnixNano
}

// Cache lazily loads stations, stores them in a sync.Map, and evicts them
// on idle TTL or LRU pressure.
type Cache struct {
	db          *sqlx.DB
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	idleTTL     time.Duration
	maxEntries  int
}

// New constructs a Cache and starts the background evictor.
func New(db *sqlx.DB, idleTTL time.Duration, maxEntries int) *Cache {
	c := &Cache{
		db:         db,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the Station for id, loading it on demand.
func (c *Cache) Get(ctx context.Context, id int64) (*Station, error) {
	if v, ok := c.m.Load(id); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.station, nil
	}

	v, err, _ := c.sfg.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(id); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.station, nil
		}
		rec, err := ByID(ctx, c.db, id)
		if err != nil {
			metrics.StationLoadErrorsTotal.Inc()
			return nil, ErrNotFound
		}
		st := NewStation(*rec)
		c.m.Store(id, &entry{
			station:  st,
			lastSeen: time.Now().UnixNano(),
		})
		metrics.StationLoadTotal.Inc()
		metrics.ActiveStations.Inc()
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Station), nil
}
