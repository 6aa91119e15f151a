package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/factcheck/config"
)

const SESSION_DRAFT_KEY = "draft"

// SessionStore holds a transient value that is written once and consumed
// once. Take deletes the value it returns.
type SessionStore interface {
	Stash(ctx context.Context, key, value string) error
	Take(ctx context.Context, key string) (string, bool, error)
	Close()
}

// NewSessionStore returns a valkey backed store when an address is
// configured and an in-process store otherwise.
func NewSessionStore(ctx context.Context, cfg config.SessionConfig) (SessionStore, error) {
	if cfg.Address == "" {
		slog.Debug("[SessionStore] No valkey address, using memory store")
		return NewMemorySessionStore(cfg.TTL), nil
	}
	return NewValkeySessionStore(ctx, cfg)
}

type ValkeySessionStore struct {
	Client valkey.Client
	ttl    time.Duration
}

func NewValkeySessionStore(ctx context.Context, cfg config.SessionConfig) (*ValkeySessionStore, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
		DisableCache:     true,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[SessionStore] failed to create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[SessionStore] failed to ping valkey: %w", err)
	}

	slog.Info("[SessionStore] Successfully connected to valkey",
		slog.String("address", cfg.Address))

	return &ValkeySessionStore{Client: client, ttl: cfg.TTL}, nil
}

func (s *ValkeySessionStore) Stash(ctx context.Context, key, value string) error {
	cmd := s.Client.B().Set().Key(sessionKey(key)).Value(value).Ex(s.ttl).Build()
	if err := s.doWithRetry(ctx, cmd, 3).Error(); err != nil {
		return fmt.Errorf("stash %s: %w", key, err)
	}
	return nil
}

func (s *ValkeySessionStore) Take(ctx context.Context, key string) (string, bool, error) {
	cmd := s.Client.B().Getdel().Key(sessionKey(key)).Build()
	value, err := s.doWithRetry(ctx, cmd, 3).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("take %s: %w", key, err)
	}
	return value, true, nil
}

func (s *ValkeySessionStore) Close() {
	s.Client.Close()
}

func (s *ValkeySessionStore) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = s.Client.Do(ctx, completed)
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) || !isConnectionError(err) {
			break
		}

		slog.Warn("[SessionStore] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return result
		case <-time.After(250 * time.Millisecond):
		}
	}
	return result
}

func sessionKey(key string) string {
	return SESSION_KEY_PREFIX + key
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

type MemorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemorySessionStore) Stash(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemorySessionStore) Take(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	delete(m.entries, key)
	if m.ttl > 0 && m.now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemorySessionStore) Close() {}
