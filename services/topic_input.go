package services

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	maxTitleLen   = 200
	maxMessageLen = 5000
)

type RegisterTopicInput struct {
	Title    string     `json:"title"`
	Message  string     `json:"message"`
	CourseID *uuid.UUID `json:"course_id"`
}

func (i RegisterTopicInput) normalize() RegisterTopicInput {
	i.Title = strings.TrimSpace(i.Title)
	i.Message = cleanText(i.Message)
	return i
}

func (i RegisterTopicInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.Required, validation.RuneLength(1, maxTitleLen)),
		validation.Field(&i.Message, validation.Required, validation.RuneLength(1, maxMessageLen)),
	)
}

// UpdateTopicInput is a partial update: nil fields are left untouched.
type UpdateTopicInput struct {
	Title    *string    `json:"title"`
	Message  *string    `json:"message"`
	Status   *string    `json:"status"`
	CourseID *uuid.UUID `json:"course_id"`
}

func (i UpdateTopicInput) normalize() UpdateTopicInput {
	i.Title = trimPtr(i.Title)
	if i.Message != nil {
		cleaned := cleanText(*i.Message)
		i.Message = &cleaned
	}
	return i
}

func (i UpdateTopicInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Title, validation.NilOrNotEmpty, validation.RuneLength(1, maxTitleLen)),
		validation.Field(&i.Message, validation.NilOrNotEmpty, validation.RuneLength(1, maxMessageLen)),
		validation.Field(&i.Status, validation.NilOrNotEmpty),
		validation.Field(&i.CourseID, validation.NilOrNotEmpty),
	)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
