package httpapi

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/bookmarker/internal/server/models"
	"github.com/dmitrijs2005/bookmarker/internal/server/services"
)

// AuthRequest is the body of sign-up and sign-in.
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r AuthRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type EditUserRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// Validate accepts absent fields but rejects present empty ones.
func (r EditUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Password, validation.NilOrNotEmpty),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty),
		validation.Field(&r.LastName, validation.NilOrNotEmpty),
	)
}

func (r EditUserRequest) input() services.EditUserInput {
	return services.EditUserInput{
		Email:     r.Email,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

type CreateBookmarkRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Link        string  `json:"link"`
}

func (r CreateBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Description, validation.NilOrNotEmpty),
		validation.Field(&r.Link, validation.Required),
	)
}

func (r CreateBookmarkRequest) draft() models.BookmarkDraft {
	return models.BookmarkDraft{
		Title:       r.Title,
		Description: r.Description,
		Link:        r.Link,
	}
}

type EditBookmarkRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
}

func (r EditBookmarkRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.Description, validation.NilOrNotEmpty),
		validation.Field(&r.Link, validation.NilOrNotEmpty),
	)
}

func (r EditBookmarkRequest) update() models.BookmarkUpdate {
	return models.BookmarkUpdate{
		Title:       r.Title,
		Description: r.Description,
		Link:        r.Link,
	}
}
