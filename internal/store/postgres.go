package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/types"
)

// Postgres is the PostgreSQL-backed store. Profiles and settings are kept
// as JSONB documents keyed by user id; chat messages are plain rows.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect opens a connection pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// ensureSchema creates the tables if they do not exist yet. Chat message
// timestamps are RFC3339 strings, which sort chronologically as text.
func (p *Postgres) ensureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS resume_profiles (
			user_id TEXT PRIMARY KEY,
			profile_data JSONB NOT NULL,
			target_jd TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS user_settings (
			user_id TEXT PRIMARY KEY,
			settings JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			page_context TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_user_session
			ON chat_messages (user_id, session_id, created_at)`,
	}
	for _, stmt := range ddl {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// SaveProfile upserts the user's profile document.
func (p *Postgres) SaveProfile(ctx context.Context, profile types.ResumeProfile) (*types.ResumeProfileResponse, error) {
	doc, err := json.Marshal(profile.ProfileData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	var createdAt, updatedAt time.Time
	err = p.pool.QueryRow(ctx,
		`INSERT INTO resume_profiles (user_id, profile_data, target_jd)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET profile_data = $2, target_jd = $3, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		profile.UserID, doc, profile.TargetJD,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return &types.ResumeProfileResponse{
		UserID:      profile.UserID,
		ProfileData: profile.ProfileData,
		TargetJD:    profile.TargetJD,
		CreatedAt:   createdAt.UTC().Format(time.RFC3339),
		UpdatedAt:   updatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// GetProfile loads the user's profile or ErrNotFound.
func (p *Postgres) GetProfile(ctx context.Context, userID string) (*types.ResumeProfileResponse, error) {
	var doc []byte
	var targetJD string
	var createdAt, updatedAt time.Time
	err := p.pool.QueryRow(ctx,
		`SELECT profile_data, target_jd, created_at, updated_at
		 FROM resume_profiles WHERE user_id = $1`,
		userID,
	).Scan(&doc, &targetJD, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	var data types.ResumeData
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("failed to parse stored profile: %w", err)
	}

	return &types.ResumeProfileResponse{
		UserID:      userID,
		ProfileData: data,
		TargetJD:    targetJD,
		CreatedAt:   createdAt.UTC().Format(time.RFC3339),
		UpdatedAt:   updatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// DeleteProfile removes the user's profile. Deleting a missing profile is
// not an error.
func (p *Postgres) DeleteProfile(ctx context.Context, userID string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM resume_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

// SaveSettings upserts the user's provider settings document.
func (p *Postgres) SaveSettings(ctx context.Context, userID string, cfg provider.Config) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, settings)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET settings = $2, updated_at = NOW()`,
		userID, doc,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// GetSettings loads the user's provider settings or ErrNotFound.
func (p *Postgres) GetSettings(ctx context.Context, userID string) (*provider.Config, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx,
		`SELECT settings FROM user_settings WHERE user_id = $1`, userID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var cfg provider.Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stored settings: %w", err)
	}
	return &cfg, nil
}

// DeleteSettings removes the user's provider settings.
func (p *Postgres) DeleteSettings(ctx context.Context, userID string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM user_settings WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}

// AppendChatMessage stores one chat message.
func (p *Postgres) AppendChatMessage(ctx context.Context, msg types.ChatHistoryItem) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO chat_messages (id, user_id, session_id, page_context, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.UserID, msg.SessionID, msg.PageContext, msg.Role, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}

// ListChatMessages returns the user's most recent messages in chronological
// order, optionally filtered to one session.
func (p *Postgres) ListChatMessages(ctx context.Context, userID, sessionID string, limit int) ([]types.ChatHistoryItem, error) {
	query := `SELECT id, user_id, session_id, page_context, role, content, created_at
	          FROM chat_messages WHERE user_id = $1`
	args := []any{userID}
	if sessionID != "" {
		query += ` AND session_id = $2`
		args = append(args, sessionID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer rows.Close()

	var messages []types.ChatHistoryItem
	for rows.Next() {
		var m types.ChatHistoryItem
		if err := rows.Scan(&m.ID, &m.UserID, &m.SessionID, &m.PageContext, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat messages: %w", err)
	}

	// Newest-first from the query, chronological for the client.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteChatSession removes all messages in one of the user's sessions.
func (p *Postgres) DeleteChatSession(ctx context.Context, userID, sessionID string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM chat_messages WHERE user_id = $1 AND session_id = $2`,
		userID, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}
