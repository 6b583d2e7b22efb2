package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	scheduleapp "github.com/teashop/backend/internal/application/schedule"
	"github.com/teashop/backend/internal/domain/schedule"
	"github.com/teashop/backend/internal/interfaces/http/dto"
)

func TestScheduleHandler_WeekIsSharedByItsDates(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rec := app.do(t, http.MethodPost, "/api/schedule/weeks", token, gin.H{"date": "2024-03-13"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var first scheduleapp.WeekView
	decode(t, rec, &first)
	assert.Equal(t, "2024-03-10", first.StartDate)
	assert.Equal(t, "2024-03-16", first.EndDate)

	rec = app.do(t, http.MethodPost, "/api/schedule/weeks", token, gin.H{"date": "2024-03-16"})
	var second scheduleapp.WeekView
	decode(t, rec, &second)
	assert.Equal(t, first.ID, second.ID)

	rec = app.do(t, http.MethodGet, "/api/schedule/weeks?date=2024-03-11", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched scheduleapp.WeekView
	decode(t, rec, &fetched)
	assert.Equal(t, first.ID, fetched.ID)

	rec = app.do(t, http.MethodPost, "/api/schedule/weeks", token, gin.H{"date": "13/03/2024"})
	assert.Equal(t, dto.ErrCodeValidation, decodeError(t, rec).Code)
}

func TestScheduleHandler_CompleteAssignmentTwice(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rec := app.do(t, http.MethodGet, "/api/auth/me", token, nil)
	var me CurrentUserResponse
	decode(t, rec, &me)

	rec = app.do(t, http.MethodPost, "/api/schedule/time-slots", token, gin.H{"name": "上午班", "start_time": "09:00", "end_time": "14:00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var slot scheduleapp.TimeSlotView
	decode(t, rec, &slot)

	rec = app.do(t, http.MethodPost, "/api/schedule/weeks", token, gin.H{"date": "2024-03-13"})
	var week scheduleapp.WeekView
	decode(t, rec, &week)

	rec = app.do(t, http.MethodPost, "/api/schedule/weeks/"+week.ID.String()+"/assignments", token, gin.H{
		"date":         "2024-03-13",
		"time_slot_id": slot.ID,
		"employee_id":  me.User.ID,
		"tasks":        []gin.H{{"type": schedule.TaskTypeGreeting}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var assignment scheduleapp.AssignmentView
	decode(t, rec, &assignment)
	assert.Equal(t, "上午班", assignment.TimeSlotName)
	require.Len(t, assignment.Tasks, 1)

	completePath := "/api/schedule/weeks/" + week.ID.String() + "/assignments/" + assignment.ID.String() + "/complete"
	rec = app.do(t, http.MethodPost, completePath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var done scheduleapp.AssignmentView
	decode(t, rec, &done)
	require.True(t, done.IsCompleted)
	require.NotNil(t, done.CompletedAt)

	rec = app.do(t, http.MethodPost, completePath, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var again scheduleapp.AssignmentView
	decode(t, rec, &again)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(*again.CompletedAt))
	assert.Equal(t, done.CompletedBy, again.CompletedBy)

	rec = app.do(t, http.MethodPost, "/api/schedule/weeks/"+week.ID.String()+"/assignments/"+uuid.NewString()+"/complete", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleHandler_MissingWeekIsNull(t *testing.T) {
	app := newTestApp(t)
	token := app.login(t)

	rec := app.do(t, http.MethodGet, "/api/schedule/weeks?date=2030-01-01", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
