package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type cachedEntry struct {
	Unit  Unit    `json:"unit"`
	Price float64 `json:"price"`
}

// Cached is a read-through price cache in front of another catalog. Cache
// failures degrade to the underlying catalog rather than failing a checkout.
type Cached struct {
	next   Catalog
	client *redis.Client
	ttl    time.Duration
}

// NewCached wraps a catalog with a Redis cache. A nil client or non-positive
// TTL disables caching and makes the wrapper a passthrough.
func NewCached(next Catalog, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, client: client, ttl: ttl}
}

// UnitPrice implements Catalog.
func (c *Cached) UnitPrice(ctx context.Context, p Product) (float64, error) {
	entry, ok := c.get(ctx, productKey(p.Name))
	if ok && entry.Unit == p.Unit {
		return entry.Price, nil
	}
	price, err := c.next.UnitPrice(ctx, p)
	if err != nil {
		return 0, err
	}
	c.set(ctx, productKey(p.Name), cachedEntry{Unit: p.Unit, Price: price})
	return price, nil
}

// ProductWithName implements Catalog.
func (c *Cached) ProductWithName(ctx context.Context, name string) (Product, error) {
	if entry, ok := c.get(ctx, productKey(name)); ok {
		return Product{Name: name, Unit: entry.Unit}, nil
	}
	p, err := c.next.ProductWithName(ctx, name)
	if err != nil {
		return Product{}, err
	}
	if price, err := c.next.UnitPrice(ctx, p); err == nil {
		c.set(ctx, productKey(name), cachedEntry{Unit: p.Unit, Price: price})
	}
	return p, nil
}

func (c *Cached) get(ctx context.Context, key string) (cachedEntry, bool) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return cachedEntry{}, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return cachedEntry{}, false
	}
	var entry cachedEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return cachedEntry{}, false
	}
	return entry, true
}

func (c *Cached) set(ctx context.Context, key string, entry cachedEntry) {
	if c == nil || c.client == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, c.ttl).Err()
}

func productKey(name string) string { return "catalog:product:" + name }
