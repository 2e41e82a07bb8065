package errors

var ErrTagExists = &Exception{
	Message: "tag already exists",
	Kind:    KindConflict,
}
