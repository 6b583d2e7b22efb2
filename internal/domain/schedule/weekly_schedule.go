package schedule

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teashop/backend/internal/domain/shared"
)

// TaskType is the fixed vocabulary of duties inside an assignment
type TaskType string

const (
	TaskTypeGreeting TaskType = "迎賓"
	TaskTypeOrdering TaskType = "點餐"
	TaskTypeCleaning TaskType = "清潔"
	TaskTypePrep     TaskType = "備餐"
	TaskTypeOther    TaskType = "其他"
)

// IsValid reports whether t belongs to the vocabulary
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTypeGreeting, TaskTypeOrdering, TaskTypeCleaning, TaskTypePrep, TaskTypeOther:
		return true
	}
	return false
}

// Task is one duty of an assignment
type Task struct {
	ID          uuid.UUID `json:"id"`
	Type        TaskType  `json:"type"`
	Description string    `json:"description"`
}

// NewTask creates a validated task
func NewTask(taskType TaskType, description string) (Task, error) {
	if !taskType.IsValid() {
		return Task{}, shared.InvalidInput("unknown task type %q", taskType)
	}
	return Task{ID: uuid.New(), Type: taskType, Description: strings.TrimSpace(description)}, nil
}

// Assignment is one employee's duties for one date and time slot.
// Several assignments may share a cell.
type Assignment struct {
	ID          uuid.UUID
	Date        time.Time
	TimeSlotID  uuid.UUID
	EmployeeID  uuid.UUID
	Tasks       []Task
	IsCompleted bool
	CompletedAt *time.Time
	CompletedBy *uuid.UUID
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssignmentPatch carries the fields to change; nil fields are preserved
type AssignmentPatch struct {
	Date       *time.Time
	TimeSlotID *uuid.UUID
	EmployeeID *uuid.UUID
	Tasks      *[]Task
	Notes      *string
}

// WeeklySchedule holds every assignment of one calendar week
type WeeklySchedule struct {
	shared.BaseAggregateRoot
	StartDate      time.Time
	EndDate        time.Time
	Assignments    []Assignment
	LastModifiedBy uuid.UUID
	LastModifiedAt time.Time
}

// NewWeeklySchedule creates an empty schedule for week
func NewWeeklySchedule(week Week, createdBy uuid.UUID) *WeeklySchedule {
	s := &WeeklySchedule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(createdBy),
		StartDate:         week.Start,
		EndDate:           week.End,
		Assignments:       make([]Assignment, 0),
		LastModifiedBy:    createdBy,
	}
	s.LastModifiedAt = s.CreatedAt
	s.AddDomainEvent(NewWeeklyScheduleCreatedEvent(s))
	return s
}

// Week returns the schedule's boundary
func (s *WeeklySchedule) Week() Week {
	return Week{Start: s.StartDate, End: s.EndDate}
}

// Contains reports whether date falls inside this schedule's week
func (s *WeeklySchedule) Contains(date time.Time) bool {
	return s.Week().Contains(date)
}

func (s *WeeklySchedule) modified(actor uuid.UUID) {
	now := time.Now()
	s.LastModifiedBy = actor
	s.LastModifiedAt = now
	s.UpdatedAt = now
}

func (s *WeeklySchedule) indexOf(assignmentID uuid.UUID) (int, error) {
	for i := range s.Assignments {
		if s.Assignments[i].ID == assignmentID {
			return i, nil
		}
	}
	return -1, shared.NotFound("assignment", assignmentID)
}

// Assignment returns a copy of the assignment with the given id
func (s *WeeklySchedule) Assignment(assignmentID uuid.UUID) (Assignment, error) {
	i, err := s.indexOf(assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	return s.Assignments[i], nil
}

func (s *WeeklySchedule) checkCell(date time.Time, timeSlotID, employeeID uuid.UUID) error {
	if !s.Contains(date) {
		return shared.InvalidInput("date %s is outside the week %s – %s",
			FormatDate(date), FormatDate(s.StartDate), FormatDate(s.EndDate))
	}
	if timeSlotID == uuid.Nil {
		return shared.InvalidInput("time slot is required")
	}
	if employeeID == uuid.Nil {
		return shared.InvalidInput("employee is required")
	}
	return nil
}

// AddAssignment appends a new assignment to the week
func (s *WeeklySchedule) AddAssignment(date time.Time, timeSlotID, employeeID uuid.UUID, tasks []Task, notes string, actor uuid.UUID) (Assignment, error) {
	if err := s.checkCell(date, timeSlotID, employeeID); err != nil {
		return Assignment{}, err
	}
	now := time.Now()
	a := Assignment{
		ID:         uuid.New(),
		Date:       DateOf(date),
		TimeSlotID: timeSlotID,
		EmployeeID: employeeID,
		Tasks:      slices.Clone(tasks),
		Notes:      strings.TrimSpace(notes),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if a.Tasks == nil {
		a.Tasks = make([]Task, 0)
	}
	s.Assignments = append(s.Assignments, a)
	s.modified(actor)
	return a, nil
}

// UpdateAssignment merges patch into the assignment
func (s *WeeklySchedule) UpdateAssignment(assignmentID uuid.UUID, patch AssignmentPatch, actor uuid.UUID) (Assignment, error) {
	i, err := s.indexOf(assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	a := s.Assignments[i]
	if patch.Date != nil {
		a.Date = DateOf(*patch.Date)
	}
	if patch.TimeSlotID != nil {
		a.TimeSlotID = *patch.TimeSlotID
	}
	if patch.EmployeeID != nil {
		a.EmployeeID = *patch.EmployeeID
	}
	if patch.Tasks != nil {
		a.Tasks = slices.Clone(*patch.Tasks)
	}
	if patch.Notes != nil {
		a.Notes = strings.TrimSpace(*patch.Notes)
	}
	if err := s.checkCell(a.Date, a.TimeSlotID, a.EmployeeID); err != nil {
		return Assignment{}, err
	}
	a.UpdatedAt = time.Now()
	s.Assignments[i] = a
	s.modified(actor)
	return a, nil
}

// RemoveAssignment deletes an assignment from the week
func (s *WeeklySchedule) RemoveAssignment(assignmentID uuid.UUID, actor uuid.UUID) error {
	i, err := s.indexOf(assignmentID)
	if err != nil {
		return err
	}
	s.Assignments = slices.Delete(s.Assignments, i, i+1)
	s.modified(actor)
	return nil
}

// AddTask appends a task to an assignment
func (s *WeeklySchedule) AddTask(assignmentID uuid.UUID, task Task, actor uuid.UUID) (Assignment, error) {
	i, err := s.indexOf(assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	s.Assignments[i].Tasks = append(s.Assignments[i].Tasks, task)
	s.Assignments[i].UpdatedAt = time.Now()
	s.modified(actor)
	return s.Assignments[i], nil
}

// RemoveTask removes a task from an assignment
func (s *WeeklySchedule) RemoveTask(assignmentID, taskID uuid.UUID, actor uuid.UUID) (Assignment, error) {
	i, err := s.indexOf(assignmentID)
	if err != nil {
		return Assignment{}, err
	}
	tasks := s.Assignments[i].Tasks
	j := slices.IndexFunc(tasks, func(t Task) bool { return t.ID == taskID })
	if j < 0 {
		return Assignment{}, shared.NotFound("task", taskID)
	}
	s.Assignments[i].Tasks = slices.Delete(tasks, j, j+1)
	s.Assignments[i].UpdatedAt = time.Now()
	s.modified(actor)
	return s.Assignments[i], nil
}

// MarkAssignmentComplete records who completed the assignment and when.
// Completing an already completed assignment changes nothing and reports false.
func (s *WeeklySchedule) MarkAssignmentComplete(assignmentID, actor uuid.UUID) (Assignment, bool, error) {
	i, err := s.indexOf(assignmentID)
	if err != nil {
		return Assignment{}, false, err
	}
	a := &s.Assignments[i]
	if a.IsCompleted {
		return *a, false, nil
	}
	now := time.Now()
	completedBy := actor
	a.IsCompleted = true
	a.CompletedAt = &now
	a.CompletedBy = &completedBy
	a.UpdatedAt = now
	s.modified(actor)
	s.AddDomainEvent(NewAssignmentCompletedEvent(s, *a))
	return *a, true, nil
}

// AssignmentsFor returns the employee's assignments ordered by date
func (s *WeeklySchedule) AssignmentsFor(employeeID uuid.UUID) []Assignment {
	result := make([]Assignment, 0)
	for _, a := range s.Assignments {
		if a.EmployeeID == employeeID {
			result = append(result, a)
		}
	}
	slices.SortStableFunc(result, func(a, b Assignment) int {
		return a.Date.Compare(b.Date)
	})
	return result
}

// Cell identifies one date and time slot of the grid
type Cell struct {
	Date       time.Time
	TimeSlotID uuid.UUID
}

// Grid groups assignments by cell. Every assignment of a cell is kept.
func (s *WeeklySchedule) Grid() map[Cell][]Assignment {
	grid := make(map[Cell][]Assignment)
	for _, a := range s.Assignments {
		key := Cell{Date: a.Date, TimeSlotID: a.TimeSlotID}
		grid[key] = append(grid[key], a)
	}
	for key := range grid {
		slices.SortStableFunc(grid[key], func(a, b Assignment) int {
			return cmp.Compare(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
		})
	}
	return grid
}
