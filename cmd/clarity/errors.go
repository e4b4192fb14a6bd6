package main

import "fmt"

// ServerRunningError indicates another server holds the data directory.
type ServerRunningError struct {
	Owner string
	Addr  string
}

func (e ServerRunningError) Error() string {
	return fmt.Sprintf("a clarity server (%s) is already serving this data on %s; stop it or use --force", e.Owner, e.Addr)
}

// InvalidTimeError indicates a time flag that could not be parsed.
type InvalidTimeError struct {
	Value string
}

func (e InvalidTimeError) Error() string {
	return fmt.Sprintf("invalid time: %s (use RFC 3339, 'YYYY-MM-DD HH:MM', 'HH:MM' or 'YYYY-MM-DD')", e.Value)
}

// InvalidNumberError indicates a numeric argument that could not be used.
type InvalidNumberError struct {
	Value string
}

func (e InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid number: %s", e.Value)
}

// ConfirmationRequiredError indicates a destructive command run without --yes.
type ConfirmationRequiredError struct {
	Action string
}

func (e ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s removes data; rerun with --yes to confirm", e.Action)
}

// ConfigExistsError indicates config init would overwrite a file.
type ConfigExistsError struct {
	Path string
}

func (e ConfigExistsError) Error() string {
	return fmt.Sprintf("%s already exists; use --force to overwrite", e.Path)
}
