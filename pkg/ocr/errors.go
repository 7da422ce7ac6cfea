package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction indicates the extraction service failed to read the image.
	ErrExtraction = errors.New("ocr request failed")
	// ErrEmptyImage indicates no image bytes were supplied.
	ErrEmptyImage = errors.New("image data must not be empty")
	// ErrDecode indicates the image bytes could not be decoded.
	ErrDecode = errors.New("image could not be decoded")
)

// ServiceError carries the message reported by the extraction service.
// It matches ErrExtraction with errors.Is.
type ServiceError struct {
	Provider string
	Message  string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s service error: %s", e.Provider, e.Message)
}

func (e *ServiceError) Is(target error) bool {
	return target == ErrExtraction
}
