package api

// CredentialsRequest is the body of /login, /signup and /user.
type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email,max=250"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// ResourceRequest is the body for creating a character, planet or vehicle.
type ResourceRequest struct {
	Name        string  `json:"name" validate:"required,max=50"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}
