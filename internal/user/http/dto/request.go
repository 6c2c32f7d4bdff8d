// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/userauth/internal/validation"
)

// UpdateUserRequest represents the API request for partial user updates.
// Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// Validate validates the UpdateUserRequest. Field-level rules (email format,
// password strength, role transitions) live in the user use case.
func (r *UpdateUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, appValidation.NotBlank),
		validation.Field(&r.Email, appValidation.NotBlank),
		validation.Field(&r.Role, validation.In("user", "admin").Error("role must be user or admin")),
	)
	return appValidation.WrapValidationError(err)
}
