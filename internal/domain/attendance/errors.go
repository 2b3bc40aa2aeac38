package attendance

import "errors"

// Attendance domain errors
var (
	ErrEditWindowExpired = errors.New("editing window has expired for this entry")
	ErrInvalidStatus     = errors.New("status must be one of: present, absent, late, leave")
	ErrDuplicateDraft    = errors.New("draft already exists for this student and day")
)
