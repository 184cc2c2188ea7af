package user

// NewUser represents the request body for creating a new user.
type NewUser struct {
	Login string `json:"login" validate:"required,max=64"`
	Email string `json:"email" validate:"required,email,max=254"`
}

// UpdateUserInput represents the request body for updating user information.
type UpdateUserInput struct {
	Login string `json:"login" validate:"required,max=64"`
	Email string `json:"email" validate:"required,email,max=254"`
}
