package store

import (
	"context"
	"sync"
	"time"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/types"
)

// Memory is an in-memory Store. It backs local development runs without a
// database and doubles as the test fixture for handler tests.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]*types.ResumeProfileResponse
	settings map[string]provider.Config
	messages []types.ChatHistoryItem
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		profiles: make(map[string]*types.ResumeProfileResponse),
		settings: make(map[string]provider.Config),
	}
}

// Close is a no-op.
func (m *Memory) Close() {}

// SaveProfile upserts the user's profile.
func (m *Memory) SaveProfile(_ context.Context, profile types.ResumeProfile) (*types.ResumeProfileResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	createdAt := now
	if existing, ok := m.profiles[profile.UserID]; ok {
		createdAt = existing.CreatedAt
	}
	resp := &types.ResumeProfileResponse{
		UserID:      profile.UserID,
		ProfileData: profile.ProfileData,
		TargetJD:    profile.TargetJD,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
	m.profiles[profile.UserID] = resp

	copied := *resp
	return &copied, nil
}

// GetProfile loads the user's profile or ErrNotFound.
func (m *Memory) GetProfile(_ context.Context, userID string) (*types.ResumeProfileResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *resp
	return &copied, nil
}

// DeleteProfile removes the user's profile.
func (m *Memory) DeleteProfile(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, userID)
	return nil
}

// SaveSettings upserts the user's provider settings.
func (m *Memory) SaveSettings(_ context.Context, userID string, cfg provider.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[userID] = cfg
	return nil
}

// GetSettings loads the user's provider settings or ErrNotFound.
func (m *Memory) GetSettings(_ context.Context, userID string) (*provider.Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg, ok := m.settings[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

// DeleteSettings removes the user's provider settings.
func (m *Memory) DeleteSettings(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.settings, userID)
	return nil
}

// AppendChatMessage stores one chat message.
func (m *Memory) AppendChatMessage(_ context.Context, msg types.ChatHistoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// ListChatMessages returns the user's most recent messages in
// chronological order.
func (m *Memory) ListChatMessages(_ context.Context, userID, sessionID string, limit int) ([]types.ChatHistoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []types.ChatHistoryItem
	for _, msg := range m.messages {
		if msg.UserID != userID {
			continue
		}
		if sessionID != "" && msg.SessionID != sessionID {
			continue
		}
		matched = append(matched, msg)
	}
	if len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

// DeleteChatSession removes all messages in one of the user's sessions.
func (m *Memory) DeleteChatSession(_ context.Context, userID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.messages[:0]
	for _, msg := range m.messages {
		if msg.UserID == userID && msg.SessionID == sessionID {
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return nil
}
