package shared

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// State is a step of the submission lifecycle
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// ErrInvalidTransition is returned when a step is taken out of order
var ErrInvalidTransition = errors.New("invalid submission state transition")

var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateSubmitting, StateError},
	StateSubmitting: {StateSuccess, StateError},
	StateSuccess:    {StateIdle},
	StateError:      {StateIdle, StateValidating},
}

// Submission drives one write through Idle → Validating → Submitting → Success|Error.
// The submit step only runs after validation passed.
type Submission struct {
	mu    sync.Mutex
	state State
	err   error
}

// NewSubmission returns an idle submission
func NewSubmission() *Submission {
	return &Submission{state: StateIdle}
}

// State returns the current state
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the error that moved the submission into StateError
func (s *Submission) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Submission) moveTo(to State, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(transitions[s.state], to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.state, to)
	}
	s.state = to
	s.err = cause
	return nil
}

// Validate checks input. A failure leaves the submission in StateError.
func (s *Submission) Validate(input any) error {
	if err := s.moveTo(StateValidating, nil); err != nil {
		return err
	}
	if err := Validate(input); err != nil {
		_ = s.moveTo(StateError, err)
		return err
	}
	return nil
}

// Submit runs fn after a successful Validate
func (s *Submission) Submit(ctx context.Context, fn func(context.Context) error) error {
	if err := s.moveTo(StateSubmitting, nil); err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		_ = s.moveTo(StateError, err)
		return err
	}
	return s.moveTo(StateSuccess, nil)
}

// Reset returns a finished submission to StateIdle
func (s *Submission) Reset() error {
	return s.moveTo(StateIdle, nil)
}

// Run validates input and, when it passes, calls submit with it
func Run[T any, R any](ctx context.Context, input T, submit func(context.Context, T) (R, error)) (R, error) {
	var result R
	sub := NewSubmission()
	if err := sub.Validate(input); err != nil {
		return result, err
	}
	err := sub.Submit(ctx, func(ctx context.Context) error {
		var err error
		result, err = submit(ctx, input)
		return err
	})
	return result, err
}
