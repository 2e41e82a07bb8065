package errors

var ErrSessionActive = &Exception{
	Message: "a time tracking session is already running",
	Kind:    KindConflict,
}
