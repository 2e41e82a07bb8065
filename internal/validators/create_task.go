package validators

// CreateTaskRequest carries the raw fields of a new task.
type CreateTaskRequest struct {
	Title       string
	Description string
	Priority    string
	Deadline    string
	Tags        string
}

func ValidateCreateTaskRequest(r *CreateTaskRequest) error {
	if err := ValidateTitle(r.Title); err != nil {
		return err
	}
	return ValidatePriority(r.Priority)
}

// UpdateTaskRequest is a sparse update: nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string
	Description *string
	Priority    *string
	Deadline    *string
	Tags        *string
}

func (r *UpdateTaskRequest) IsEmpty() bool {
	return r.Title == nil && r.Description == nil && r.Priority == nil && r.Deadline == nil && r.Tags == nil
}

func ValidateUpdateTaskRequest(r *UpdateTaskRequest) error {
	if r.Title != nil {
		if err := ValidateTitle(*r.Title); err != nil {
			return err
		}
	}
	if r.Priority != nil {
		return ValidatePriority(*r.Priority)
	}
	return nil
}
