package errs

import (
	"fmt"
	"net/http"
)

// Request & form validation errors. All of them are InvalidInput unless noted.

func NewMissingRequiredFieldError(fieldName string) *ApiErr {
	e := InvalidInput(fmt.Sprintf("%s is required", fieldName))
	e.Field = fieldName
	return e
}

func NewInvalidFieldError(fieldName string, reason string) *ApiErr {
	e := InvalidInput(reason)
	e.Field = fieldName
	return e
}

func NewMalformedPayloadError(payloadType string, cause error) *ApiErr {
	e := InvalidInput(fmt.Sprintf("malformed %s payload", payloadType))
	e.Cause = cause
	e.Field = "payload"
	return e
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	e := newErr(http.StatusRequestEntityTooLarge, ErrInvalidInput,
		fmt.Sprintf("File too large: max %dMB", maxSize/(1024*1024)))
	e.Field = "image"
	return e
}

func NewUnsupportedMediaTypeError(fieldName string, allowed []string) *ApiErr {
	e := InvalidInput(fmt.Sprintf("Invalid file type: only %v are accepted", allowed))
	e.Field = fieldName
	return e
}

func NewInvalidIDError(param string) *ApiErr {
	e := InvalidInput(fmt.Sprintf("%s must be a positive whole number", param))
	e.Field = param
	return e
}
