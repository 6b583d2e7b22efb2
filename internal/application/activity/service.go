package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/activity"
	"github.com/teashop/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// DefaultRecentLimit caps ListRecent when no limit is given
const DefaultRecentLimit = 50

// LogView is one activity entry with the user's display name
type LogView struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	UserName  string          `json:"user_name"`
	Action    activity.Action `json:"action"`
	Details   string          `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// StatisticsView summarises a user's activity
type StatisticsView struct {
	UserID      uuid.UUID                 `json:"user_id"`
	UserName    string                    `json:"user_name"`
	Counts      map[activity.Action]int64 `json:"counts"`
	LoginCount  int64                     `json:"login_count"`
	LastLoginAt *time.Time                `json:"last_login_at,omitempty"`
	LastSeenAt  *time.Time                `json:"last_seen_at,omitempty"`
	Recent      []LogView                 `json:"recent"`
}

// Service records and reports user activity
type Service struct {
	repo      activity.Repository
	users     identity.UserRepository
	directory *identity.UserDirectory
	logger    *zap.Logger
}

// NewService creates an activity service
func NewService(repo activity.Repository, users identity.UserRepository, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		directory: identity.NewUserDirectory(users),
		logger:    logger,
	}
}

// Record appends an activity entry for userID
func (s *Service) Record(ctx context.Context, userID uuid.UUID, action activity.Action, details string) error {
	log, err := activity.NewLog(userID, action, details)
	if err != nil {
		return err
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// GetUserStatistics returns per-action counts, the last login and the
// user's newest entries
func (s *Service) GetUserStatistics(ctx context.Context, userID uuid.UUID) (*StatisticsView, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByAction(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}
	stats := activity.Statistics{UserID: userID, Counts: counts, LastLoginAt: user.LastLoginAt, LastSeenAt: user.LastActiveAt}
	last, err := s.repo.LastOf(ctx, userID, activity.ActionLogin)
	if err != nil {
		return nil, fmt.Errorf("last login: %w", err)
	}
	if last != nil && (stats.LastLoginAt == nil || last.CreatedAt.After(*stats.LastLoginAt)) {
		stats.LastLoginAt = &last.CreatedAt
	}
	recent, err := s.recent(ctx, &userID, 10)
	if err != nil {
		return nil, err
	}
	for _, a := range activity.AllActions {
		if _, ok := stats.Counts[a]; !ok {
			stats.Counts[a] = 0
		}
	}
	return &StatisticsView{
		UserID:      userID,
		UserName:    user.Name,
		Counts:      stats.Counts,
		LoginCount:  stats.LoginCount(),
		LastLoginAt: stats.LastLoginAt,
		LastSeenAt:  stats.LastSeenAt,
		Recent:      recent,
	}, nil
}

// ListRecent returns the newest entries across all users
func (s *Service) ListRecent(ctx context.Context, limit int) ([]LogView, error) {
	return s.recent(ctx, nil, limit)
}

func (s *Service) recent(ctx context.Context, userID *uuid.UUID, limit int) ([]LogView, error) {
	if limit <= 0 || limit > DefaultRecentLimit*4 {
		limit = DefaultRecentLimit
	}
	logs, err := s.repo.FindRecent(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	ids := make([]uuid.UUID, len(logs))
	for i, l := range logs {
		ids[i] = l.UserID
	}
	names := s.directory.Resolve(ctx, ids)
	out := make([]LogView, len(logs))
	for i, l := range logs {
		out[i] = LogView{
			ID:        l.ID,
			UserID:    l.UserID,
			UserName:  names[l.UserID],
			Action:    l.Action,
			Details:   l.Details,
			CreatedAt: l.CreatedAt,
		}
	}
	return out, nil
}
