package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates invalid user input (flags, project config, manifest).
	ErrValidation = errors.New("validation error")

	// ErrConnectivity indicates a network connectivity issue.
	ErrConnectivity = errors.New("connectivity error")

	// ErrNotFound indicates a resource, template, or file was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the project destination is already present.
	ErrAlreadyExists = errors.New("already exists")

	// ErrTemplatesNotFound indicates no template root candidate was usable.
	ErrTemplatesNotFound = errors.New("templates not found")

	// ErrEmptyMaterialization indicates a template root yielded zero copied files.
	ErrEmptyMaterialization = errors.New("empty materialization")

	// ErrInstall indicates a dependency installation step failed.
	ErrInstall = errors.New("dependency installation failed")

	// ErrTrackingDependencyMissing indicates the measurement library is unavailable.
	ErrTrackingDependencyMissing = errors.New("tracking dependency missing")

	// ErrDashboardUnreachable indicates the dashboard backend could not be reached.
	ErrDashboardUnreachable = errors.New("dashboard unreachable")
)
