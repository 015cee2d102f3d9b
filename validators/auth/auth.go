package authValidator

import (
	"strings"

	"learnly/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	KeySignup         = "validatedSignup"
	KeyLogin          = "validatedLogin"
	KeyProfile        = "validatedProfile"
	KeyChangePassword = "validatedChangePassword"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Phone    string `json:"phone" validate:"phone"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=3,max=255"`
	Phone *string `json:"phone" validate:"omitnil,phone"`
}

func (r *UpdateProfileRequest) Normalize() {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Phone != nil {
		*r.Phone = strings.TrimSpace(*r.Phone)
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return validators.Body[SignupRequest](KeySignup)
}

// Login validator middleware
func Login() fiber.Handler {
	return validators.Body[LoginRequest](KeyLogin)
}

func UpdateProfile() fiber.Handler {
	return validators.Body[UpdateProfileRequest](KeyProfile)
}

func ChangePassword() fiber.Handler {
	return validators.Body[ChangePasswordRequest](KeyChangePassword)
}
