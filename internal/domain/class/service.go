package class

import "context"

type ClassService interface {
	List(ctx context.Context) ([]ClassResponse, error)
	Create(ctx context.Context, req CreateClassRequest) (ClassResponse, error)
	Update(ctx context.Context, req UpdateClassRequest) (ClassResponse, error)
	Delete(ctx context.Context, id string) error
}
