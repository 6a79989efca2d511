package domain

import "errors"

var (
	// ErrDuplicatePeriod is returned when renaming onto an existing period.
	ErrDuplicatePeriod = errors.New("period already exists")
	// ErrRoleInUse blocks deleting a role that tasks still reference.
	ErrRoleInUse = errors.New("role still has tasks in this period")
	// ErrCrossTypeMove rejects dropping a task onto a role of another type.
	ErrCrossTypeMove = errors.New("tasks can only move between roles of the same type")
	ErrInvalidTask   = errors.New("invalid task")
	ErrInvalidRole   = errors.New("invalid role")
	ErrUnknownPeriod = errors.New("unknown period")
)
