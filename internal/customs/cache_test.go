package customs

import (
	"context"
	"testing"
)

func TestRouteCache_SnapshotIsReused(t *testing.T) {
	src := &staticSource{rules: []TierRule{{
		ID: 1, OriginCountry: "US", DestinationCountry: "NP", RuleName: "only",
		LogicType: LogicAND, PriorityOrder: 1, IsActive: true,
	}}}
	cache := NewRouteCache(src)

	for i := 0; i < 3; i++ {
		rules, err := cache.Rules(context.Background(), "US", "NP")
		if err != nil {
			t.Fatalf("rules: %v", err)
		}
		if len(rules) != 1 {
			t.Fatalf("len=%d", len(rules))
		}
	}
	if src.calls != 1 {
		t.Fatalf("source hit %d times, want 1", src.calls)
	}
}

func TestRouteCache_SnapshotIsSortedByPriority(t *testing.T) {
	src := &staticSource{rules: []TierRule{
		{ID: 1, OriginCountry: "US", DestinationCountry: "NP", RuleName: "late", LogicType: LogicAND, PriorityOrder: 50, IsActive: true},
		{ID: 2, OriginCountry: "US", DestinationCountry: "NP", RuleName: "early", LogicType: LogicAND, PriorityOrder: 1, IsActive: true},
	}}
	cache := NewRouteCache(src)

	rules, err := cache.Rules(context.Background(), "US", "NP")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if len(rules) != 2 || rules[0].ID != 2 || rules[1].ID != 1 {
		t.Fatalf("unexpected order: %+v", rules)
	}
}

func TestRouteCache_InvalidateForcesReload(t *testing.T) {
	src := &staticSource{rules: []TierRule{{
		ID: 1, OriginCountry: "US", DestinationCountry: "NP", RuleName: "v1",
		LogicType: LogicAND, PriorityOrder: 1, IsActive: true,
	}}}
	cache := NewRouteCache(src)

	if _, err := cache.Rules(context.Background(), "US", "NP"); err != nil {
		t.Fatalf("rules: %v", err)
	}

	// Simulate an admin edit, then invalidate the route.
	src.rules[0].RuleName = "v2"
	cache.Invalidate("US", "NP")

	rules, err := cache.Rules(context.Background(), "US", "NP")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if rules[0].RuleName != "v2" {
		t.Fatalf("stale snapshot survived invalidation: %q", rules[0].RuleName)
	}
	if src.calls != 2 {
		t.Fatalf("source hit %d times, want 2", src.calls)
	}
}

func TestRouteCache_RefreshReSnapshotsCachedRoutes(t *testing.T) {
	src := &staticSource{rules: []TierRule{
		{ID: 1, OriginCountry: "US", DestinationCountry: "NP", RuleName: "us-np", LogicType: LogicAND, PriorityOrder: 1, IsActive: true},
		{ID: 2, OriginCountry: "CN", DestinationCountry: "IN", RuleName: "cn-in", LogicType: LogicAND, PriorityOrder: 1, IsActive: true},
	}}
	cache := NewRouteCache(src)

	if _, err := cache.Rules(context.Background(), "US", "NP"); err != nil {
		t.Fatalf("rules: %v", err)
	}
	if _, err := cache.Rules(context.Background(), "CN", "IN"); err != nil {
		t.Fatalf("rules: %v", err)
	}

	src.rules[0].RuleName = "us-np-edited"

	refreshed, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed != 2 {
		t.Fatalf("refreshed=%d, want 2", refreshed)
	}

	rules, err := cache.Rules(context.Background(), "US", "NP")
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if rules[0].RuleName != "us-np-edited" {
		t.Fatalf("refresh did not pick up edit: %q", rules[0].RuleName)
	}
}

func TestRouteCache_InvalidateAll(t *testing.T) {
	src := &staticSource{rules: []TierRule{{
		ID: 1, OriginCountry: "US", DestinationCountry: "NP", RuleName: "only",
		LogicType: LogicAND, PriorityOrder: 1, IsActive: true,
	}}}
	cache := NewRouteCache(src)

	if _, err := cache.Rules(context.Background(), "US", "NP"); err != nil {
		t.Fatalf("rules: %v", err)
	}
	cache.InvalidateAll()
	if _, err := cache.Rules(context.Background(), "US", "NP"); err != nil {
		t.Fatalf("rules: %v", err)
	}
	if src.calls != 2 {
		t.Fatalf("source hit %d times, want 2", src.calls)
	}
}
