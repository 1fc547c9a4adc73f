package types

import "github.com/go-playground/validator/v10"

// RegisterRequest represents the request to register a new user.
type RegisterRequest struct {
	Username   string   `json:"username" validate:"required,min=3,max=32"`
	Name       string   `json:"name" validate:"required,min=1"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=8"`
	Phone      string   `json:"phone,omitempty"`
	DOB        string   `json:"dob,omitempty"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=S R W P"`
	Occupation string   `json:"occupation,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	Location   string   `json:"location,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	Bio        string   `json:"bio,omitempty"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login/register response with the user profile
// and authentication token.
type LoginResponse struct {
	User  *UserProfile `json:"user"`
	Token string       `json:"token"`
}

// UpdatePasswordRequest represents a password change for the authenticated
// user.
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest represents a profile update. Nil slices and empty
// strings leave the stored value unchanged.
type UpdateProfileRequest struct {
	Name       string   `json:"name,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=S R W P"`
	Occupation string   `json:"occupation,omitempty"`
	Interests  []string `json:"interests,omitempty"`
	Location   string   `json:"location,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	PhotoURL   string   `json:"photo_url,omitempty"`
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdatePasswordRequest using the validator.
func (r *UpdatePasswordRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
