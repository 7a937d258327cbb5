package entity

import (
	"errors"
	"fmt"
)

var (
	ErrImageTooLarge        = errors.New("image is larger than 10MB")
	ErrImageWrongType       = errors.New("file is not an image")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrGenerationFailed     = errors.New("palm reading generation failed")
	ErrGenerationInProgress = errors.New("palm reading is already being generated")
	ErrGenerationDiscarded  = errors.New("session was restarted during generation")
	ErrInvalidTransition    = errors.New("operation is not allowed on the current step")
	ErrNoImage              = errors.New("palm image is not uploaded")
	ErrUnknownField         = errors.New("unknown field")
	ErrSessionNotFound      = errors.New("session not found")
)

// MissingFieldError первое незаполненное обязательное поле
type MissingFieldError struct {
	Field Field
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredField, e.Field)
}

// Is позволяет сравнивать через errors.Is(err, ErrMissingRequiredField)
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// UserMessage короткое сообщение для пользователя по ошибке
func UserMessage(err error) string {
	var mf *MissingFieldError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &mf):
		return fmt.Sprintf("Please fill in your %s", mf.Field)
	case errors.Is(err, ErrImageTooLarge):
		return "Image size should be less than 10MB"
	case errors.Is(err, ErrImageWrongType):
		return "Please upload a valid image file"
	case errors.Is(err, ErrNoImage):
		return "Please upload your palm photo first"
	case errors.Is(err, ErrGenerationInProgress):
		return "Your palm is still being analyzed, please wait"
	case errors.Is(err, ErrGenerationDiscarded):
		return "The reading was cancelled because you started over"
	case errors.Is(err, ErrUnknownField):
		return "Unknown field"
	case errors.Is(err, ErrInvalidTransition):
		return "That action is not available right now"
	case errors.Is(err, ErrSessionNotFound):
		return "Session not found"
	default:
		return "Failed to analyze palm. Please try again."
	}
}
