package errors

var ErrTaskNotFound = &Exception{
	Message: "task not found",
	Kind:    KindNotFound,
}
