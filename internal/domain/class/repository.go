package class

import "context"

type ClassRepository interface {
	Create(ctx context.Context, c Class) (Class, error)
	GetByID(ctx context.Context, id string) (Class, error)
	// GetStats returns one class with the same joins and counts as List.
	GetStats(ctx context.Context, id string) (ClassStats, error)
	// ExistsByGradeLevel ignores the class with excludeID.
	ExistsByGradeLevel(ctx context.Context, gradeLevel string, excludeID string) (bool, error)
	Update(ctx context.Context, c Class) error
	// Delete removes the class together with its students, records and drafts.
	Delete(ctx context.Context, id string) error

	// List returns every class ordered by name.
	List(ctx context.Context) ([]ClassStats, error)
	// ListByTeacher returns the teacher's classes ordered by name. The first is the primary class.
	ListByTeacher(ctx context.Context, teacherID string) ([]ClassStats, error)

	UnassignTeacher(ctx context.Context, teacherID string) error
	AssignTeacher(ctx context.Context, classID string, teacherID *string) error
}
