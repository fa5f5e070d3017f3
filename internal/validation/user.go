package validation

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/guttosm/etmarket/internal/domain/dto"
)

// ValidateRegistration checks a sign-up payload.
func ValidateRegistration(r dto.RegisterRequest) Result {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50), is.Alphanumeric),
		validation.Field(&r.Email, validation.Required, validation.Length(1, 120), is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
	return fromOzzo(err)
}
