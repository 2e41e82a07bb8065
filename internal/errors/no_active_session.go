package errors

var ErrNoActiveSession = &Exception{
	Message: "no active time tracking session found",
	Kind:    KindNoActiveSession,
}
