package errors

var (
	ErrTitleRequired = &Exception{
		Message: "title is required",
		Kind:    KindValidation,
	}
	ErrInvalidPriority = &Exception{
		Message: "priority must be one of: low, medium, high",
		Kind:    KindValidation,
	}
	ErrInvalidStatus = &Exception{
		Message: "status must be one of: pending, completed",
		Kind:    KindValidation,
	}
	ErrInvalidPeriod = &Exception{
		Message: "period must be one of: day, week, month, year",
		Kind:    KindValidation,
	}
	ErrInvalidMinutes = &Exception{
		Message: "minutes must be greater than 0",
		Kind:    KindValidation,
	}
	ErrInvalidCycles = &Exception{
		Message: "cycles must not be negative",
		Kind:    KindValidation,
	}
	ErrKeywordRequired = &Exception{
		Message: "search keyword is required",
		Kind:    KindValidation,
	}
	ErrTagNameRequired = &Exception{
		Message: "tag name is required",
		Kind:    KindValidation,
	}
	ErrInvalidTaskID = &Exception{
		Message: "task id must be a positive integer",
		Kind:    KindValidation,
	}
	ErrNothingToUpdate = &Exception{
		Message: "no fields to update",
		Kind:    KindValidation,
	}
)
