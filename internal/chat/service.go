// Package chat streams assistant replies over the user's configured
// provider and records the conversation history.
package chat

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-tailor/internal/provider"
	"resume-tailor/internal/types"
)

// FrameWriter receives the stream frames for one chat turn: zero or more
// chunk frames followed by exactly one terminal frame, done or error.
// Implementations map frames onto the transport (SSE in the HTTP server,
// plain slices in tests).
type FrameWriter interface {
	WriteChunk(content string) error
	WriteDone(sessionID string) error
	WriteError(message string) error
}

// HistoryStore persists chat messages. Recording failures are logged and
// never interrupt a live stream.
type HistoryStore interface {
	AppendChatMessage(ctx context.Context, msg types.ChatHistoryItem) error
	ListChatMessages(ctx context.Context, userID, sessionID string, limit int) ([]types.ChatHistoryItem, error)
	DeleteChatSession(ctx context.Context, userID, sessionID string) error
}

// Service runs chat turns.
type Service struct {
	history HistoryStore
}

// NewService creates a chat service. history may be nil, in which case
// turns are not persisted.
func NewService(history HistoryStore) *Service {
	return &Service{history: history}
}

// Stream runs one chat turn against client and emits frames to fw. Exactly
// one terminal frame is written no matter where the provider fails: a
// mid-stream fault after chunks have gone out still ends with a single
// error frame, never a done frame.
func (s *Service) Stream(ctx context.Context, client provider.Client, userID string, req types.ChatRequest, fw FrameWriter) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.record(ctx, userID, sessionID, req.PageContext, "user", req.Message)

	system := systemPrompt(req.PageContext, &req.ContextData)

	var reply strings.Builder
	err := client.StreamChat(ctx, system, req.Message, func(token string) error {
		reply.WriteString(token)
		return fw.WriteChunk(token)
	})
	if err != nil {
		log.Printf("chat: stream failed for user %s: %v", userID, err)
		if werr := fw.WriteError(err.Error()); werr != nil {
			log.Printf("chat: failed to write error frame: %v", werr)
		}
		return
	}

	s.record(ctx, userID, sessionID, req.PageContext, "assistant", reply.String())

	if werr := fw.WriteDone(sessionID); werr != nil {
		log.Printf("chat: failed to write done frame: %v", werr)
	}
}

// History returns the most recent messages for a user, optionally scoped
// to one session.
func (s *Service) History(ctx context.Context, userID, sessionID string, limit int) (*types.ChatHistoryResponse, error) {
	if s.history == nil {
		return &types.ChatHistoryResponse{Messages: []types.ChatHistoryItem{}, SessionID: sessionID}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	messages, err := s.history.ListChatMessages(ctx, userID, sessionID, limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []types.ChatHistoryItem{}
	}
	return &types.ChatHistoryResponse{Messages: messages, SessionID: sessionID}, nil
}

// DeleteHistory removes one of the user's chat sessions.
func (s *Service) DeleteHistory(ctx context.Context, userID, sessionID string) error {
	if s.history == nil {
		return nil
	}
	return s.history.DeleteChatSession(ctx, userID, sessionID)
}

func (s *Service) record(ctx context.Context, userID, sessionID, pageContext, role, content string) {
	if s.history == nil || content == "" {
		return
	}
	msg := types.ChatHistoryItem{
		ID:          uuid.NewString(),
		UserID:      userID,
		SessionID:   sessionID,
		PageContext: pageContext,
		Role:        role,
		Content:     content,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.history.AppendChatMessage(ctx, msg); err != nil {
		log.Printf("chat: failed to record %s message: %v", role, err)
	}
}
