package config

import (
	"os"
	"strings"
	"sync"
)

// KeyPool owns an ordered list of API keys and a rotation cursor. External
// clients take the next key per request instead of reading a shared
// module-level variable.
type KeyPool struct {
	mu     sync.Mutex
	keys   []string
	cursor int
}

func NewKeyPool(keys []string) *KeyPool {
	return &KeyPool{keys: keys}
}

// KeyPoolFromEnv builds a pool from a comma-separated env var.
func KeyPoolFromEnv(name string) *KeyPool {
	raw := os.Getenv(name)
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return NewKeyPool(keys)
}

// Next returns the next key in rotation, or "" when the pool is empty.
func (p *KeyPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.keys) == 0 {
		return ""
	}
	k := p.keys[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.keys)
	return k
}

func (p *KeyPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}
