package cache

import (
	"testing"
	"time"
)

func TestGetSetInvalidate(t *testing.T) {
	c := New(time.Minute)

	key := GroupBalanceKey(1, 2)
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(key, "v1")
	got, ok := c.Get(key)
	if !ok || got != "v1" {
		t.Fatalf("Get() = %v, %v; want v1, true", got, ok)
	}

	c.Invalidate(key)
	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss after Invalidate")
	}
}

func TestExpiry(t *testing.T) {
	c := New(-time.Second) // already expired on write
	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(time.Minute)
	c.Set(GroupBalanceKey(7, 1), "a")
	c.Set(GroupBalanceKey(7, 2), "b")
	c.Set(GroupBalanceKey(8, 1), "c")
	c.Set(UserBalanceKey(1), "d")

	c.InvalidatePrefix(GroupBalancePrefix(7))

	if _, ok := c.Get(GroupBalanceKey(7, 1)); ok {
		t.Error("group 7 user 1 should be invalidated")
	}
	if _, ok := c.Get(GroupBalanceKey(7, 2)); ok {
		t.Error("group 7 user 2 should be invalidated")
	}
	if _, ok := c.Get(GroupBalanceKey(8, 1)); !ok {
		t.Error("group 8 entry should survive")
	}
	if _, ok := c.Get(UserBalanceKey(1)); !ok {
		t.Error("global entry should survive")
	}
}
