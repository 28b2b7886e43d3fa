package service

import (
	"context"
	"testing"
	"time"
)

func TestTranslationCacheDisabled(t *testing.T) {
	cache := NewTranslationCache(nil, time.Hour)
	ctx := context.Background()

	if _, ok := cache.Get(ctx, "en", "es", "hello"); ok {
		t.Error("Expected miss from disabled cache")
	}

	// Writes are silently dropped.
	cache.Set(ctx, "en", "es", "hello", "hola")
	if _, ok := cache.Get(ctx, "en", "es", "hello"); ok {
		t.Error("Expected disabled cache to stay empty")
	}
}

func TestTranslationCacheKeyDistinct(t *testing.T) {
	cache := NewTranslationCache(nil, time.Hour)

	a := cache.key("en", "es", "hello")
	b := cache.key("en", "fr", "hello")
	c := cache.key("en", "es", "hello!")
	if a == b || a == c || b == c {
		t.Error("Expected distinct keys for distinct inputs")
	}
	if a != cache.key("en", "es", "hello") {
		t.Error("Expected stable keys for equal inputs")
	}
}
