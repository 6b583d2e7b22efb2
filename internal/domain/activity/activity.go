package activity

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// Action is the kind of tracked user activity
type Action string

const (
	ActionLogin              Action = "login"
	ActionLogout             Action = "logout"
	ActionTaskComplete       Action = "task_complete"
	ActionContentEdit        Action = "content_edit"
	ActionAnnouncementCreate Action = "announcement_create"
)

// AllActions lists the actions in display order
var AllActions = []Action{ActionLogin, ActionLogout, ActionTaskComplete, ActionContentEdit, ActionAnnouncementCreate}

// IsValid reports whether a is a known action
func (a Action) IsValid() bool {
	for _, known := range AllActions {
		if a == known {
			return true
		}
	}
	return false
}

// Log is one entry of the activity trail
type Log struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Action    Action
	Details   string
	CreatedAt time.Time
}

// NewLog creates a log entry stamped now
func NewLog(userID uuid.UUID, action Action, details string) (*Log, error) {
	if userID == uuid.Nil {
		return nil, shared.InvalidInput("Activity needs a user")
	}
	if !action.IsValid() {
		return nil, shared.InvalidInput("Unknown activity %q", action)
	}
	return &Log{
		ID:        uuid.New(),
		UserID:    userID,
		Action:    action,
		Details:   strings.TrimSpace(details),
		CreatedAt: time.Now(),
	}, nil
}

// Statistics summarises one user's activity
type Statistics struct {
	UserID      uuid.UUID
	Counts      map[Action]int64
	LastLoginAt *time.Time
	LastSeenAt  *time.Time
}

// LoginCount returns the number of recorded logins
func (s Statistics) LoginCount() int64 {
	return s.Counts[ActionLogin]
}

// Repository persists activity logs
type Repository interface {
	Create(ctx context.Context, log *Log) error
	// CountByAction counts a user's logs per action
	CountByAction(ctx context.Context, userID uuid.UUID) (map[Action]int64, error)
	// LastOf returns the newest log of the action for the user, or nil
	LastOf(ctx context.Context, userID uuid.UUID, action Action) (*Log, error)
	// FindRecent returns the newest logs, optionally for a single user
	FindRecent(ctx context.Context, userID *uuid.UUID, limit int) ([]*Log, error)
	// DeleteBefore removes logs created before cutoff and reports how many
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
