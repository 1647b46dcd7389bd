package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
)

type ErrorCode string

const (
	ErrNotFound  ErrorCode = "NOT_FOUND"
	ErrForbidden ErrorCode = "FORBIDDEN"
	ErrDataLoad  ErrorCode = "DATA_LOAD"
)

var (
	// DataLoad is the single failure kind operators see: the backend was
	// unreachable or answered with a non-success status.
	DataLoad = &AppError{Code: ErrDataLoad, Message: "data load failure"}
	// Forbidden marks a backend that rejected the dashboard's token. It always
	// wraps a DataLoad error.
	Forbidden = &AppError{Code: ErrForbidden, Message: "backend rejected credentials"}
)

type AppError struct {
	Code    ErrorCode
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError with the same code, so errors.Is(err, DataLoad)
// holds for every wrapped load failure.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrForbidden:
		return http.StatusForbidden
	case ErrDataLoad:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewDataLoad wraps a transport failure or a non-success backend status.
// status is zero when no response was received.
func NewDataLoad(message string, status int, err error) *AppError {
	return &AppError{Code: ErrDataLoad, Message: message, Status: status, Err: err}
}

func NotFound(message string) *AppError {
	return &AppError{Code: ErrNotFound, Message: message}
}

// NewForbidden wraps a load failure caused by a 401 or 403 from the backend.
func NewForbidden(status int, err *AppError) *AppError {
	return &AppError{Code: ErrForbidden, Message: "backend rejected credentials", Status: status, Err: err}
}

func IsDataLoad(err error) bool {
	return errors.Is(err, DataLoad)
}

func IsForbidden(err error) bool {
	return errors.Is(err, Forbidden)
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
