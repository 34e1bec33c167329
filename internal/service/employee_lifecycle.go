package service

import (
	"strings"
	"time"

	apperrors "workforce/internal/errors"
	"workforce/internal/model"
)

// transitions lists the statuses reachable from each status.
var transitions = map[model.EmployeeStatus][]model.EmployeeStatus{
	model.StatusApplicationReceived: {model.StatusInterviewScheduled, model.StatusNotAccepted},
	model.StatusInterviewScheduled:  {model.StatusHired, model.StatusNotAccepted},
	model.StatusHired:               {},
	model.StatusNotAccepted:         {},
}

// ParseStatus converts a wire value into a status.
func ParseStatus(raw string) (model.EmployeeStatus, error) {
	status := model.EmployeeStatus(raw)
	if !status.Valid() {
		valid := make([]string, len(model.EmployeeStatuses))
		for i, s := range model.EmployeeStatuses {
			valid[i] = string(s)
		}
		return "", apperrors.NewFieldError("status", "must be one of "+strings.Join(valid, ", "), nil)
	}
	return status, nil
}

// CanTransition reports whether from may move to to. Staying put is always allowed.
func CanTransition(from, to model.EmployeeStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a TransitionError when from may not move to to.
func ValidateTransition(from, to model.EmployeeStatus) error {
	if !CanTransition(from, to) {
		return &apperrors.TransitionError{From: string(from), To: string(to)}
	}
	return nil
}

// ApplyStatus moves the employee to target and keeps hired_on consistent:
// hiring stamps today's date, any other target clears it. It reports whether
// the status actually changed; re-submitting the current status leaves the
// employee untouched.
func ApplyStatus(employee *model.Employee, target model.EmployeeStatus, now time.Time) (bool, error) {
	if employee.Status == target {
		return false, nil
	}
	if err := ValidateTransition(employee.Status, target); err != nil {
		return false, err
	}
	employee.Status = target
	if target == model.StatusHired {
		today := model.DateOf(now)
		employee.HiredOn = &today
	} else {
		employee.HiredOn = nil
	}
	return true, nil
}

// initialStatus decides the status of a new employee. Only pipeline entry
// states may be requested; hiring happens through a transition.
func initialStatus(requested string) (model.EmployeeStatus, error) {
	if requested == "" {
		return model.StatusApplicationReceived, nil
	}
	status, err := ParseStatus(requested)
	if err != nil {
		return "", err
	}
	if status == model.StatusHired {
		return "", apperrors.NewFieldError("status", "an employee cannot be created as hired", apperrors.ErrInconsistentHireDate)
	}
	return status, nil
}
