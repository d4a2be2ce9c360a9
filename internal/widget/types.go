package widget

import (
	"errors"
	"fmt"
	"strings"
)

// PanelState is the visibility of the panel.
type PanelState int

const (
	PanelHidden PanelState = iota
	PanelVisible
)

func (s PanelState) String() string {
	if s == PanelVisible {
		return "visible"
	}
	return "hidden"
}

// SubmitState tracks whether a submission is in flight.
type SubmitState int

const (
	Idle SubmitState = iota
	Submitting
)

func (s SubmitState) String() string {
	if s == Submitting {
		return "submitting"
	}
	return "idle"
}

// Form holds the trimmed contact form values.
type Form struct {
	Message string `json:"message"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Missing returns the names of the empty fields, in form order.
func (f Form) Missing() []string {
	var missing []string
	if f.Message == "" {
		missing = append(missing, "message")
	}
	if f.Name == "" {
		missing = append(missing, "name")
	}
	if f.Email == "" {
		missing = append(missing, "email")
	}
	return missing
}

var (
	// ErrAlreadyMounted is returned when the instance is already rendered on the surface.
	ErrAlreadyMounted = errors.New("widget: instance already mounted")
	// ErrValidation matches every ValidationError.
	ErrValidation = errors.New("widget: required fields are empty")
	// ErrSubmitting is returned when a submit arrives while another is in flight.
	ErrSubmitting = errors.New("widget: submission already in progress")
)

// ValidationError lists the empty required fields.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("widget: missing %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// SubmissionError reports a failed delivery: a non-2xx status, or a
// transport error when Status is zero.
type SubmissionError struct {
	Status int
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("widget: submission failed: %v", e.Err)
	}
	return fmt.Sprintf("widget: submission failed with status %d", e.Status)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
