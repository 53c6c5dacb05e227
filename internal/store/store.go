// Package store persists user data: resume profiles, per-user provider
// settings and chat history. Two implementations exist, a PostgreSQL store
// for deployments and an in-memory store for development and tests.
package store

import (
	"context"
	"errors"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/types"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ProfileStore persists one resume profile per user.
type ProfileStore interface {
	SaveProfile(ctx context.Context, profile types.ResumeProfile) (*types.ResumeProfileResponse, error)
	GetProfile(ctx context.Context, userID string) (*types.ResumeProfileResponse, error)
	DeleteProfile(ctx context.Context, userID string) error
}

// SettingsStore persists per-user provider settings, API key included.
// Masking for display is the caller's job; the store keeps the real key.
type SettingsStore interface {
	SaveSettings(ctx context.Context, userID string, cfg provider.Config) error
	GetSettings(ctx context.Context, userID string) (*provider.Config, error)
	DeleteSettings(ctx context.Context, userID string) error
}

// ChatStore persists chat history.
type ChatStore interface {
	AppendChatMessage(ctx context.Context, msg types.ChatHistoryItem) error
	ListChatMessages(ctx context.Context, userID, sessionID string, limit int) ([]types.ChatHistoryItem, error)
	DeleteChatSession(ctx context.Context, userID, sessionID string) error
}

// Store is the full persistence surface the server wires up.
type Store interface {
	ProfileStore
	SettingsStore
	ChatStore
	Close()
}
