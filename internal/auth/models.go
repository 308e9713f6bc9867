package auth

// SignupRequest is the request payload for creating an account
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request payload for logging in. The email field
// carries the login identifier.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the request payload for profile updates
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
