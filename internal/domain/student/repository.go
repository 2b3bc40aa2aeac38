package student

import "context"

type StudentRepository interface {
	Create(ctx context.Context, s Student) (Student, error)
	GetByID(ctx context.Context, id string) (Student, error)
	Update(ctx context.Context, s Student) error
	// Delete removes the student together with their records and drafts.
	Delete(ctx context.Context, id string) error

	// List returns every student with class name and grade level.
	List(ctx context.Context) ([]Student, error)
	// ListByClasses returns the students of the given classes ordered by first name, then last name.
	ListByClasses(ctx context.Context, classIDs []string) ([]Student, error)

	// ExistsByRollNumber ignores the student with excludeID.
	ExistsByRollNumber(ctx context.Context, classID, rollNumber, excludeID string) (bool, error)
	Count(ctx context.Context) (int, error)
}
