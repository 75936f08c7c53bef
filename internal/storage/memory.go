package storage

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryStorage est un stockage en mémoire, utilisé par les tests
// à la place de Redis. Les TTL sont honorés paresseusement à la lecture.
type MemoryStorage struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	channels map[string][]chan string
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemory() *MemoryStorage {
	return &MemoryStorage{
		entries:  make(map[string]memoryEntry),
		channels: make(map[string][]chan string),
	}
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (s *MemoryStorage) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

func (s *MemoryStorage) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

func (s *MemoryStorage) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if ok && !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		ok = false
	}

	if !ok {
		// Premier passage : on pose la fenêtre, comme Redis
		s.entries[key] = memoryEntry{value: "1", expiresAt: time.Now().Add(ttl)}
		return 1, nil
	}

	count, _ := strconv.ParseInt(entry.value, 10, 64)
	count++
	entry.value = strconv.FormatInt(count, 10)
	s.entries[key] = entry
	return count, nil
}

func (s *MemoryStorage) Publish(ctx context.Context, channel, payload string) error {
	s.mu.Lock()
	subs := append([]chan string(nil), s.channels[channel]...)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- payload:
		default: // abonné lent, on ne bloque pas la mutation
		}
	}
	return nil
}

func (s *MemoryStorage) Subscribe(ctx context.Context, channel string) (<-chan string, func()) {
	ch := make(chan string, 8)

	s.mu.Lock()
	s.channels[channel] = append(s.channels[channel], ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.channels[channel]
		for i, sub := range subs {
			if sub == ch {
				s.channels[channel] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
	}
	return ch, cancel
}
