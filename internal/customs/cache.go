package customs

import (
	"context"
	"fmt"
	"log/slog"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// RouteCache holds an immutable, priority-sorted rule snapshot per route.
// Rule sets are small (tens of rules per route) so a sorted slice with a
// linear scan is the whole structure. Snapshots are invalidated explicitly
// when the admin API mutates a route's rules, and re-snapshotted lazily on
// the next resolution.
type RouteCache struct {
	source    RuleSource
	snapshots cmap.ConcurrentMap[string, []TierRule]
}

func NewRouteCache(source RuleSource) *RouteCache {
	return &RouteCache{
		source:    source,
		snapshots: cmap.New[[]TierRule](),
	}
}

// RouteKey builds the cache key for an (origin, destination) pair. Codes
// must already be normalized.
func RouteKey(originCountry, destinationCountry string) string {
	return originCountry + "->" + destinationCountry
}

// Rules returns the snapshot for the route, loading and caching it on miss.
func (c *RouteCache) Rules(ctx context.Context, originCountry, destinationCountry string) ([]TierRule, error) {
	key := RouteKey(originCountry, destinationCountry)
	if rules, ok := c.snapshots.Get(key); ok {
		return rules, nil
	}

	rules, err := c.source.ListActiveRulesForRoute(ctx, originCountry, destinationCountry)
	if err != nil {
		return nil, fmt.Errorf("snapshotting route %s: %w", key, err)
	}
	SortRules(rules)

	c.snapshots.Set(key, rules)
	slog.DebugContext(ctx, "Route rule snapshot cached",
		slog.String("route", key),
		slog.Int("rules", len(rules)),
	)
	return rules, nil
}

// Invalidate drops the snapshot for one route.
func (c *RouteCache) Invalidate(originCountry, destinationCountry string) {
	c.snapshots.Remove(RouteKey(originCountry, destinationCountry))
}

// InvalidateAll drops every cached snapshot.
func (c *RouteCache) InvalidateAll() {
	c.snapshots.Clear()
}

// Refresh re-snapshots every currently cached route. The background worker
// runs this periodically so admin edits made outside this process converge
// without a restart.
func (c *RouteCache) Refresh(ctx context.Context) (int, error) {
	keys := c.snapshots.Keys()
	for _, key := range keys {
		var origin, dest string
		if n, err := fmt.Sscanf(key, "%2s->%2s", &origin, &dest); n != 2 || err != nil {
			c.snapshots.Remove(key)
			continue
		}
		rules, err := c.source.ListActiveRulesForRoute(ctx, origin, dest)
		if err != nil {
			return 0, fmt.Errorf("refreshing route %s: %w", key, err)
		}
		SortRules(rules)
		c.snapshots.Set(key, rules)
	}
	return len(keys), nil
}
