// Package dto provides data transfer objects for the auth HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/userauth/internal/validation"
)

// RegisterRequest represents the API request for user registration
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the RegisterRequest. Field-level rules (email format,
// password strength) live in the user use case; the DTO only checks shape.
func (r *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// LoginRequest represents the API request for credential login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the LoginRequest
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// RefreshRequest represents the API request for refresh token rotation
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate validates the RefreshRequest
func (r *RefreshRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken,
			validation.Required.Error("refresh_token is required"),
			appValidation.NotBlank,
		),
	)
	return appValidation.WrapValidationError(err)
}
