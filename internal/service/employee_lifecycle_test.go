package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "workforce/internal/errors"
	"workforce/internal/model"
)

func TestCanTransition_Table(t *testing.T) {
	allowed := map[[2]model.EmployeeStatus]bool{
		{model.StatusApplicationReceived, model.StatusInterviewScheduled}: true,
		{model.StatusApplicationReceived, model.StatusNotAccepted}:        true,
		{model.StatusInterviewScheduled, model.StatusHired}:               true,
		{model.StatusInterviewScheduled, model.StatusNotAccepted}:         true,
	}

	for _, from := range model.EmployeeStatuses {
		for _, to := range model.EmployeeStatuses {
			t.Run(fmt.Sprintf("%s->%s", from, to), func(t *testing.T) {
				want := from == to || allowed[[2]model.EmployeeStatus{from, to}]
				assert.Equal(t, want, CanTransition(from, to))

				err := ValidateTransition(from, to)
				if want {
					assert.NoError(t, err)
					return
				}
				assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
				assert.Contains(t, err.Error(), string(from))
				assert.Contains(t, err.Error(), string(to))
			})
		}
	}
}

func TestApplyStatus(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	t.Run("hiring stamps today", func(t *testing.T) {
		e := &model.Employee{Status: model.StatusInterviewScheduled}

		changed, err := ApplyStatus(e, model.StatusHired, now)
		require.NoError(t, err)
		assert.True(t, changed)
		require.NotNil(t, e.HiredOn)
		assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *e.HiredOn)
		assert.NoError(t, e.CheckHireDate())
	})

	t.Run("self transition keeps hire date", func(t *testing.T) {
		hired := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		e := &model.Employee{Status: model.StatusHired, HiredOn: &hired}

		changed, err := ApplyStatus(e, model.StatusHired, now)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, hired, *e.HiredOn)
	})

	t.Run("rejection leaves hire date empty", func(t *testing.T) {
		e := &model.Employee{Status: model.StatusApplicationReceived}

		changed, err := ApplyStatus(e, model.StatusNotAccepted, now)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Nil(t, e.HiredOn)
	})

	t.Run("terminal status rejects change", func(t *testing.T) {
		hired := model.DateOf(now)
		e := &model.Employee{Status: model.StatusHired, HiredOn: &hired}

		_, err := ApplyStatus(e, model.StatusInterviewScheduled, now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		assert.Equal(t, model.StatusHired, e.Status)
	})
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("interview_scheduled")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInterviewScheduled, status)

	_, err = ParseStatus("promoted")
	var fieldErr *apperrors.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "status", fieldErr.Field)
	assert.ErrorIs(t, err, apperrors.ErrFieldFormat)
}

func TestInitialStatus(t *testing.T) {
	status, err := initialStatus("")
	require.NoError(t, err)
	assert.Equal(t, model.StatusApplicationReceived, status)

	status, err = initialStatus("interview_scheduled")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInterviewScheduled, status)

	_, err = initialStatus("hired")
	assert.ErrorIs(t, err, apperrors.ErrInconsistentHireDate)
}

func TestDaysEmployed(t *testing.T) {
	now := time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)

	assert.Zero(t, (&model.Employee{}).DaysEmployed(now))

	hired := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, (&model.Employee{Status: model.StatusHired, HiredOn: &hired}).DaysEmployed(now))

	sameDay := model.DateOf(now)
	assert.Zero(t, (&model.Employee{Status: model.StatusHired, HiredOn: &sameDay}).DaysEmployed(now))

	future := now.AddDate(0, 0, 3)
	assert.Zero(t, (&model.Employee{Status: model.StatusHired, HiredOn: &future}).DaysEmployed(now))
}

func TestContactValidator(t *testing.T) {
	v := NewContactValidator()

	assert.NoError(t, v.ValidateEmail("jane@example.com"))
	assert.ErrorIs(t, v.ValidateEmail("not-an-email"), apperrors.ErrFieldFormat)

	for _, ok := range []string{"+12025550123", "123456789", "+999999999999999"} {
		assert.NoError(t, v.ValidateMobile(ok), ok)
	}
	for _, bad := range []string{"12345678", "+1-202-555-0123", "phone", "+1234567890123456789"} {
		err := v.ValidateMobile(bad)
		var fieldErr *apperrors.FieldError
		require.ErrorAs(t, err, &fieldErr, bad)
		assert.Equal(t, "mobile", fieldErr.Field)
	}

	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}
