package favorite

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

func (r AddRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID,
			validation.Required.Error("book_id is required"),
			is.UUID.Error("book_id must be a UUID"),
		),
	)
}
