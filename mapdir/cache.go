package mapdir

import (
	"github.com/dgraph-io/ristretto/v2"
	"github.com/eak1mov/go-pzmap/cell"
)

// Cache loads cells of a map directory on demand and keeps recently used
// cells up to a cost budget, counted in decoded squares and tile names.
type Cache struct {
	dir      string
	withPack bool
	cache    *ristretto.Cache[uint64, *Cell]
}

func NewCache(dir string, maxCost int64, withPack bool) (*Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, *Cell]{
		NumCounters: 10 * cell.MaxCellsSize,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, withPack: withPack, cache: cache}, nil
}

func (c *Cache) Close() { c.cache.Close() }

func cacheKey(pos cell.Position) uint64 {
	return uint64(uint32(pos.X))<<32 | uint64(uint32(pos.Y))
}

func cellCost(c *Cell) int64 {
	cost := int64(1 + len(c.Header.TileNames))
	if c.Pack != nil {
		cost += int64(len(c.Pack.Squares))
	}
	return cost
}

// Cell returns a cached cell or decodes it from disk.
func (c *Cache) Cell(pos cell.Position) (*Cell, error) {
	key := cacheKey(pos)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}
	loaded, err := LoadCell(c.dir, pos, c.withPack)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, loaded, cellCost(loaded))
	return loaded, nil
}

// Wait blocks until pending cache writes are applied.
func (c *Cache) Wait() { c.cache.Wait() }
