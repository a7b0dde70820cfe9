package service

import (
	"context"

	"github.com/xiaot623/docchat/internal/domain"
)

// SessionHistory returns up to limit stored messages for a session,
// oldest first. A disabled or failing store yields an empty list, never
// an error.
func (s *Service) SessionHistory(ctx context.Context, sessionID string, limit int) []domain.Message {
	return s.history.Recent(ctx, sessionID, limit).Messages
}

// UserHistory returns up to limit stored messages for a user across
// sessions, oldest first.
func (s *Service) UserHistory(ctx context.Context, userID string, limit int) []domain.Message {
	return s.history.RecentByUser(ctx, userID, limit).Messages
}

// SessionMessageCount returns the number of stored messages for a
// session, 0 when the store is disabled.
func (s *Service) SessionMessageCount(ctx context.Context, sessionID string) int {
	return s.history.Count(ctx, sessionID)
}
