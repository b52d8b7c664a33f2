package service

import "fmt"

type ErrProjectNotFound struct {
	error
}

func NewErrProjectNotFound(name string) *ErrProjectNotFound {
	return &ErrProjectNotFound{fmt.Errorf("project %q not found", name)}
}

type ErrProjectExists struct {
	error
}

func NewErrProjectExists(name string) *ErrProjectExists {
	return &ErrProjectExists{fmt.Errorf("project %q already exists", name)}
}

type ErrInvalidProjectName struct {
	error
}

func NewErrInvalidProjectName(name string) *ErrInvalidProjectName {
	return &ErrInvalidProjectName{fmt.Errorf("invalid project name %q", name)}
}

type ErrUnsupportedFormat struct {
	error
}

func NewErrUnsupportedFormat(format string) *ErrUnsupportedFormat {
	return &ErrUnsupportedFormat{fmt.Errorf("unsupported export format %q", format)}
}
