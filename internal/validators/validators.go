package validators

import (
	"strings"

	apperrors "corhyn.com/corhyn/internal/errors"
	"corhyn.com/corhyn/pkg/constants"
)

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ErrTitleRequired
	}
	return nil
}

// ValidatePriority accepts an empty value as "unset".
func ValidatePriority(priority string) error {
	if priority == "" {
		return nil
	}
	for _, p := range constants.Priorities {
		if constants.Priority(priority) == p {
			return nil
		}
	}
	return apperrors.ErrInvalidPriority
}

func ValidateStatus(status string) error {
	for _, s := range constants.TaskStatuses {
		if constants.TaskStatus(status) == s {
			return nil
		}
	}
	return apperrors.ErrInvalidStatus
}

func ValidatePeriod(period string) error {
	for _, p := range constants.Periods {
		if constants.Period(period) == p {
			return nil
		}
	}
	return apperrors.ErrInvalidPeriod
}

func ValidateMinutes(minutes int) error {
	if minutes <= 0 {
		return apperrors.ErrInvalidMinutes
	}
	return nil
}

// ValidateCycles accepts zero, which means no limit.
func ValidateCycles(cycles int) error {
	if cycles < 0 {
		return apperrors.ErrInvalidCycles
	}
	return nil
}

// ParseTagList splits a comma-delimited tag list, trimming names and
// dropping empty and repeated ones while keeping first-seen order.
func ParseTagList(raw string) []string {
	return NormalizeTagNames(strings.Split(raw, ","))
}

func NormalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
