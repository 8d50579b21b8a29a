package models

import "encoding/json"

type SignupRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// SignupPayload is forwarded to the EIP user signup operation.
type SignupPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

const SignupSuccessMessage = "Signup successful! Check config.txt for API key. Email team@sumtyme.ai for activation."

type SignupResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}
