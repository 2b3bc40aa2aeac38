package user

// UserResponse represents the authenticated user in API responses
type UserResponse struct {
	ID               string   `json:"id"`
	Email            string   `json:"email"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Role             Role     `json:"role"`
	AssignedClassIDs []string `json:"assignedClassIds,omitempty"`
}

// ToResponse drops credentials. Class ids are filled in by the caller for teachers.
func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
