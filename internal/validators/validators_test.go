package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "corhyn.com/corhyn/internal/errors"
)

func TestValidatePriority(t *testing.T) {
	assert.NoError(t, ValidatePriority(""))
	assert.NoError(t, ValidatePriority("low"))
	assert.NoError(t, ValidatePriority("medium"))
	assert.NoError(t, ValidatePriority("high"))
	assert.ErrorIs(t, ValidatePriority("urgent"), apperrors.ErrInvalidPriority)
	assert.ErrorIs(t, ValidatePriority("High"), apperrors.ErrInvalidPriority)
}

func TestValidatePeriod(t *testing.T) {
	for _, p := range []string{"day", "week", "month", "year"} {
		assert.NoError(t, ValidatePeriod(p))
	}
	assert.ErrorIs(t, ValidatePeriod("decade"), apperrors.ErrInvalidPeriod)
}

func TestValidateMinutesAndCycles(t *testing.T) {
	assert.NoError(t, ValidateMinutes(1))
	assert.ErrorIs(t, ValidateMinutes(0), apperrors.ErrInvalidMinutes)

	assert.NoError(t, ValidateCycles(0))
	assert.NoError(t, ValidateCycles(3))
	err := ValidateCycles(-1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCycles)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidMinutes)
}

func TestParseTagList(t *testing.T) {
	assert.Equal(t, []string{"work", "home", "x"}, ParseTagList(" work, home,,work , x"))
	assert.Empty(t, ParseTagList(""))
	assert.Equal(t, []string{"Work", "work"}, ParseTagList("Work,work"))
}

func TestValidateCreateTaskRequest(t *testing.T) {
	assert.ErrorIs(t, ValidateCreateTaskRequest(&CreateTaskRequest{Title: "   "}), apperrors.ErrTitleRequired)
	assert.ErrorIs(t, ValidateCreateTaskRequest(&CreateTaskRequest{Title: "a", Priority: "x"}), apperrors.ErrInvalidPriority)
	assert.NoError(t, ValidateCreateTaskRequest(&CreateTaskRequest{Title: "a", Priority: "high"}))
}

func TestUpdateTaskRequest(t *testing.T) {
	empty := ""
	bad := "urgent"

	assert.True(t, (&UpdateTaskRequest{}).IsEmpty())
	assert.ErrorIs(t, ValidateUpdateTaskRequest(&UpdateTaskRequest{Title: &empty}), apperrors.ErrTitleRequired)
	assert.ErrorIs(t, ValidateUpdateTaskRequest(&UpdateTaskRequest{Priority: &bad}), apperrors.ErrInvalidPriority)
	assert.NoError(t, ValidateUpdateTaskRequest(&UpdateTaskRequest{Priority: &empty}))
}
