package student

import "context"

type StudentService interface {
	// List orders by grade level, then roll number, comparing digit runs numerically
	List(ctx context.Context) ([]StudentResponse, error)
	Create(ctx context.Context, req CreateStudentRequest) (StudentResponse, error)
	Update(ctx context.Context, req UpdateStudentRequest) (StudentResponse, error)
	Delete(ctx context.Context, id string) error
}
