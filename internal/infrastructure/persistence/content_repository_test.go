package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/domain/activity"
	"github.com/teashop/backend/internal/domain/announcement"
	"github.com/teashop/backend/internal/domain/identity"
	"github.com/teashop/backend/internal/domain/shared"
	"github.com/teashop/backend/internal/domain/situation"
	"github.com/teashop/backend/internal/domain/task"
	"github.com/teashop/backend/internal/domain/training"
)

func TestGormTaskRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormTaskRepository(newTestDB(t))
	author := uuid.New()
	assignee := uuid.New()

	due := time.Now().Add(48 * time.Hour)
	scheduled, err := task.NewTask(author, task.Fields{
		Title:      "盤點冷藏櫃",
		Type:       task.TypeScheduled,
		DueDate:    &due,
		VisibleTo:  []identity.Role{identity.RoleBar},
		AssignedTo: []uuid.UUID{assignee},
	})
	require.NoError(t, err)
	recurring, err := task.NewTask(author, task.Fields{
		Title:         "開店清潔",
		IsRecurring:   true,
		RecurringDays: []time.Weekday{time.Monday, time.Friday},
		ScheduledTime: "09:30",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, scheduled))
	require.NoError(t, repo.Create(ctx, recurring))

	found, err := repo.FindByID(ctx, recurring.ID)
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, found.RecurringDays)
	assert.Equal(t, "09:30", found.ScheduledTime)
	assert.Empty(t, found.AssignedTo)

	isRecurring := true
	list, err := repo.FindAll(ctx, task.Filter{Recurring: &isRecurring})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, recurring.ID, list[0].ID)

	mine, err := repo.FindAll(ctx, task.Filter{AssignedTo: &assignee})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, []identity.Role{identity.RoleBar}, mine[0].VisibleTo)

	byType, err := repo.FindAll(ctx, task.Filter{Type: task.TypeScheduled, Status: task.StatusPending})
	require.NoError(t, err)
	assert.Len(t, byType, 1)

	scheduled.UpdateProgress(100, assignee)
	require.NoError(t, repo.Update(ctx, scheduled))
	done, err := repo.FindByID(ctx, scheduled.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, done.Status)
	assert.Equal(t, 100, done.Progress)

	require.NoError(t, repo.Delete(ctx, scheduled.ID))
	assert.ErrorIs(t, repo.Delete(ctx, scheduled.ID), shared.ErrNotFound)
}

func TestGormTrainingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormTrainingRepository(newTestDB(t))
	trainer := uuid.New()
	trainee := uuid.New()

	m, err := training.NewModule(trainer, "奶茶製作", "基本配方", training.CategoryProduct, 45)
	require.NoError(t, err)
	_, err = m.AddContent(training.ContentText, "紅茶 200ml")
	require.NoError(t, err)
	_, err = m.AddSchedule(training.ScheduleItem{
		Date:      time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "11:00",
		TrainerID: trainer,
		Trainees:  []uuid.UUID{trainee},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, m))

	basic, err := training.NewModule(trainer, "服務禮儀", "", training.CategoryBasic, 30)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, basic))

	m.MarkComplete(trainee)
	require.NoError(t, repo.Update(ctx, m))

	found, err := repo.FindByID(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, found.Contents, 1)
	assert.Equal(t, 1, found.Contents[0].Order)
	require.Len(t, found.Schedules, 1)
	assert.Equal(t, []uuid.UUID{trainee}, found.Schedules[0].Trainees)
	assert.True(t, found.IsCompletedBy(trainee))

	products, err := repo.FindAll(ctx, training.CategoryProduct)
	require.NoError(t, err)
	require.Len(t, products, 1)

	all, err := repo.FindAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSituationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSituationRepository(newTestDB(t))
	author := uuid.New()

	s, err := situation.NewSituation(author, "客人投訴太甜", "", situation.CategoryCustomer, situation.PriorityHigh)
	require.NoError(t, err)
	first, err := s.AddResponse("先道歉", author)
	require.NoError(t, err)
	_, err = s.AddResponse("提供重做", author)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))

	found, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, found.Responses, 2)
	assert.Equal(t, "先道歉", found.Responses[0].Content)
	assert.Equal(t, 2, found.Responses[1].Order)

	require.NoError(t, found.RemoveResponse(first.ID))
	require.NoError(t, repo.Update(ctx, found))

	reloaded, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Responses, 1)
	assert.Equal(t, "提供重做", reloaded.Responses[0].Content)
	assert.Equal(t, 1, reloaded.Responses[0].Order)

	low, err := situation.NewSituation(author, "外送延遲", "", situation.CategoryService, situation.PriorityLow)
	require.NoError(t, err)
	low.SetActive(false)
	require.NoError(t, repo.Create(ctx, low))

	high, err := repo.FindAll(ctx, situation.Filter{Priority: situation.PriorityHigh, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, s.ID, high[0].ID)

	active, err := repo.FindAll(ctx, situation.Filter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.FindByID(ctx, s.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAnnouncementRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAnnouncementRepository(newTestDB(t))
	author := uuid.New()
	reader := uuid.New()

	a, err := announcement.NewAnnouncement(author, announcement.Fields{
		Title:     "新品上市",
		Content:   "黑糖珍奶",
		Priority:  announcement.PriorityHigh,
		VisibleTo: []string{string(identity.RoleBar), reader.String()},
	})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, a))

	a.MarkAsRead(reader)
	q, err := a.AddQuestion(reader, "甜度可以調整嗎?")
	require.NoError(t, err)
	_, err = a.AnswerQuestion(q.ID, author, "可以")
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, a))

	found, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, found.IsReadBy(reader))
	require.Len(t, found.Questions, 1)
	assert.True(t, found.Questions[0].IsAnswered())
	assert.Equal(t, "可以", found.Questions[0].Answer)
	assert.True(t, found.IsVisibleTo(identity.RoleService, reader))

	list, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), shared.ErrNotFound)
}

func TestGormActivityRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormActivityRepository(newTestDB(t))
	user := uuid.New()
	other := uuid.New()

	for _, action := range []activity.Action{activity.ActionLogin, activity.ActionLogin, activity.ActionTaskComplete} {
		log, err := activity.NewLog(user, action, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, log))
		time.Sleep(2 * time.Millisecond)
	}
	otherLog, err := activity.NewLog(other, activity.ActionLogin, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, otherLog))

	counts, err := repo.CountByAction(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[activity.ActionLogin])
	assert.Equal(t, int64(1), counts[activity.ActionTaskComplete])
	assert.Zero(t, counts[activity.ActionLogout])

	last, err := repo.LastOf(ctx, user, activity.ActionTaskComplete)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, activity.ActionTaskComplete, last.Action)

	none, err := repo.LastOf(ctx, user, activity.ActionLogout)
	require.NoError(t, err)
	assert.Nil(t, none)

	recent, err := repo.FindRecent(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, other, recent[0].UserID)

	mine, err := repo.FindRecent(ctx, &user, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	removed, err := repo.DeleteBefore(ctx, otherLog.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	left, err := repo.FindRecent(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, other, left[0].UserID)
}
