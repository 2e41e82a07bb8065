package errors

var ErrTagNotFound = &Exception{
	Message: "tag not found",
	Kind:    KindNotFound,
}
