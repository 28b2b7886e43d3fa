package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/translationhub/server/internal/constants"
	"github.com/translationhub/server/pkg/redis"
)

// TranslationCache memoizes live translation results keyed by the language
// pair and source text. A disabled backend makes every lookup a miss.
type TranslationCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTranslationCache(client *redis.Client, ttl time.Duration) *TranslationCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TranslationCache{client: client, ttl: ttl}
}

func (c *TranslationCache) key(sourceLang, targetLang, text string) string {
	sum := sha256.Sum256([]byte(sourceLang + ":" + targetLang + ":" + text))
	return constants.CacheKeyTranslation + hex.EncodeToString(sum[:])
}

func (c *TranslationCache) Get(ctx context.Context, sourceLang, targetLang, text string) (string, bool) {
	if c == nil || c.client == nil {
		return "", false
	}
	// Cache trouble never blocks a translation, a miss and an error
	// both fall through to the provider.
	value, err := c.client.Get(ctx, c.key(sourceLang, targetLang, text))
	if err != nil {
		return "", false
	}
	return value, true
}

func (c *TranslationCache) Set(ctx context.Context, sourceLang, targetLang, text, translated string) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, c.key(sourceLang, targetLang, text), translated, c.ttl)
}
