package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const maxMemcacheKeyLength = 250

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(memcacheKey(key))
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        memcacheKey(key),
		Value:      value,
		Expiration: int32(expiration.Seconds()),
	})
}

// Delete removes a value from memcache
func (m *MemcacheService) Delete(key string) error {
	return m.client.Delete(memcacheKey(key))
}

// memcacheKey keeps URL-derived keys within memcache's key rules: no
// whitespace or control characters, at most 250 bytes.
func memcacheKey(key string) string {
	key = strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return '_'
		}
		return r
	}, key)
	if len(key) <= maxMemcacheKeyLength {
		return key
	}
	sum := sha1.Sum([]byte(key))
	return key[:200] + ":" + hex.EncodeToString(sum[:])
}
