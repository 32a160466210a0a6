package repository

import "errors"

// Storage-level sentinels. Services translate these into the typed taxonomy.
var (
	// ErrDuplicateMembership means the (team, user) pair already exists. The
	// unique index is authoritative; callers must not pre-check with a SELECT.
	ErrDuplicateMembership = errors.New("team membership already exists")
	// ErrDuplicateAssessment means the (project, assessor) pair already exists.
	ErrDuplicateAssessment = errors.New("assessment already exists for assessor")
	// ErrPhaseConflict means a conditional phase update matched zero rows: the
	// project is missing or its phase no longer equals the expected value.
	ErrPhaseConflict = errors.New("project phase conflict")
	// ErrAssessmentConflict means a conditional status update matched zero
	// rows during finalization.
	ErrAssessmentConflict = errors.New("assessment status conflict")
)
