package auth

import (
	"errors"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validation failures are local and field-level: they block the
// operation before any network call is made.
var (
	ErrInvalidEmail  = errors.New("a valid email address is required")
	ErrWeakPassword  = errors.New("password must be at least 8 characters and contain an uppercase letter, a lowercase letter, a digit and a special character")
	ErrNameRequired  = errors.New("name is required")
	ErrTokenRequired = errors.New("reset token is required")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// strongpassword mirrors the backend's password policy so weak
	// passwords are rejected without a round trip.
	if err := v.RegisterValidation("strongpassword", strongPassword); err != nil {
		panic(err)
	}
	return v
}

func strongPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// SignUpInput is the validated sign-up form.
type SignUpInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// SignInInput is the validated sign-in form.  Password strength is
// checked here too: a password that cannot satisfy the policy cannot
// belong to any account, so the round trip is pointless.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// ForgotPasswordInput requests a password-reset email.
type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordInput completes a password reset with the emailed token.
type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// checkInput validates a form struct and maps the first violation to
// one of the package's field-level errors.
func checkInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	switch {
	case first.Field() == "Email":
		return ErrInvalidEmail
	case first.Field() == "Password":
		return ErrWeakPassword
	case first.Field() == "Name":
		return ErrNameRequired
	case first.Field() == "Token":
		return ErrTokenRequired
	}
	return err
}
