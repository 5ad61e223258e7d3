package automod

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"sentinel-automod/internal/moderation"
	"sentinel-automod/internal/storage"
)

type fakeStore struct {
	mu       sync.Mutex
	configs  map[string]moderation.GuildConfig
	words    map[string][]string
	loads    int
	loadErr  error
	loadHook func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{configs: map[string]moderation.GuildConfig{}, words: map[string][]string{}}
}

func (f *fakeStore) put(cfg moderation.GuildConfig) {
	f.mu.Lock()
	f.configs[cfg.GuildID] = cfg
	f.mu.Unlock()
}

func (f *fakeStore) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

func (f *fakeStore) GetGuildAutomodConfig(ctx context.Context, guildID string) (moderation.GuildConfig, bool, error) {
	f.mu.Lock()
	f.loads++
	hook := f.loadHook
	cfg, ok := f.configs[guildID]
	err := f.loadErr
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return moderation.GuildConfig{}, false, err
	}
	if !ok {
		return moderation.DefaultGuildConfig(guildID), false, nil
	}
	return cfg, true, nil
}

func (f *fakeStore) UpdateGuildAutomodConfig(ctx context.Context, guildID string, update moderation.ConfigUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.configs[guildID]
	if !ok {
		cfg = moderation.DefaultGuildConfig(guildID)
	}
	update.Apply(&cfg)
	f.configs[guildID] = cfg
	return nil
}

func (f *fakeStore) GetBadwords(ctx context.Context, guildID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.words[guildID]...), nil
}

func (f *fakeStore) AddBadword(ctx context.Context, guildID, word, addedBy string) (moderation.BadwordAddResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	word = strings.ToLower(strings.TrimSpace(word))
	for _, existing := range f.words[guildID] {
		if existing == word {
			return moderation.BadwordAddResult{AlreadyExists: true}, nil
		}
	}
	f.words[guildID] = append(f.words[guildID], word)
	return moderation.BadwordAddResult{Added: true}, nil
}

func (f *fakeStore) RemoveBadword(ctx context.Context, guildID, word string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	words := f.words[guildID]
	for i, existing := range words {
		if existing == strings.ToLower(word) {
			f.words[guildID] = append(words[:i], words[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountBadwords(ctx context.Context, guildID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.words[guildID]), nil
}

type call struct {
	method string
	target string
	until  time.Time
	notice Notice
}

type fakePlatform struct {
	mu        sync.Mutex
	calls     []call
	deleteErr error
	dmErr     error
	invites   map[string]moderation.InviteInfo
}

func (p *fakePlatform) record(c call) {
	p.mu.Lock()
	p.calls = append(p.calls, c)
	p.mu.Unlock()
}

func (p *fakePlatform) methods() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.calls))
	for _, c := range p.calls {
		out = append(out, c.method)
	}
	return out
}

func (p *fakePlatform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	p.record(call{method: "delete", target: messageID})
	return p.deleteErr
}

func (p *fakePlatform) SendDirect(ctx context.Context, userID string, notice Notice) error {
	p.record(call{method: "dm", target: userID, notice: notice})
	return p.dmErr
}

func (p *fakePlatform) Timeout(ctx context.Context, guildID, userID string, until time.Time, reason string) error {
	p.record(call{method: "timeout", target: userID, until: until})
	return nil
}

func (p *fakePlatform) Kick(ctx context.Context, guildID, userID, reason string) error {
	p.record(call{method: "kick", target: userID})
	return nil
}

func (p *fakePlatform) Ban(ctx context.Context, guildID, userID, reason string) error {
	p.record(call{method: "ban", target: userID})
	return nil
}

func (p *fakePlatform) ResolveInvite(ctx context.Context, code string) (moderation.InviteInfo, error) {
	info, ok := p.invites[code]
	if !ok {
		return moderation.InviteInfo{}, errors.New("unknown invite")
	}
	return info, nil
}

type memoryLogs struct {
	mu   sync.Mutex
	logs []storage.AutomodLog
}

func (m *memoryLogs) AddAutomodLog(ctx context.Context, log storage.AutomodLog) error {
	m.mu.Lock()
	m.logs = append(m.logs, log)
	m.mu.Unlock()
	return nil
}

func (m *memoryLogs) all() []storage.AutomodLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]storage.AutomodLog(nil), m.logs...)
}
