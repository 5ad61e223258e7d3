package automod

import (
	"context"
	"sync"
)

const totalKey = "total"

type Stats struct {
	PerFilter map[string]int64
	Total     int64
}

// MemoryStats is the process-local StatsStore used when no Redis is configured.
type MemoryStats struct {
	mu     sync.Mutex
	guilds map[string]map[string]int64
}

func NewMemoryStats() *MemoryStats {
	return &MemoryStats{guilds: make(map[string]map[string]int64)}
}

func (m *MemoryStats) Increment(ctx context.Context, guildID, filter string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := m.guilds[guildID]
	if counts == nil {
		counts = make(map[string]int64)
		m.guilds[guildID] = counts
	}
	counts[filter]++
	counts[totalKey]++
	return nil
}

func (m *MemoryStats) Counts(ctx context.Context, guildID string) (map[string]int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64)
	var total int64
	for filter, count := range m.guilds[guildID] {
		if filter == totalKey {
			total = count
			continue
		}
		out[filter] = count
	}
	return out, total, nil
}

func (m *MemoryStats) Reset(ctx context.Context, guildID string) error {
	m.mu.Lock()
	delete(m.guilds, guildID)
	m.mu.Unlock()
	return nil
}
