package handlers

import (
	"errors"
	"log"
	"net/http"

	"bloglist/auth"
	"bloglist/storage"
)

const INTERNAL_ERROR_MESSAGE = "internal server error"

type ErrorResponse struct {
	Error string `json:"error"`
}

// RequestError carries a status decided by the handler itself.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func badRequest(message string) error {
	return &RequestError{Status: http.StatusBadRequest, Message: message}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts an error returning handler. Every error that reaches it is
// mapped to a status and a JSON body in one place.
func Handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		status, message := statusOf(err)
		if status == http.StatusInternalServerError {
			log.Printf("Internal error while handling %s %s: %s", r.Method, r.URL.Path, err.Error())
		} else {
			log.Printf("Client error while handling %s %s: %s", r.Method, r.URL.Path, err.Error())
		}
		writeError(w, status, message)
	}
}

func statusOf(err error) (int, string) {
	var requestErr *RequestError
	var validationErr *storage.ValidationError
	switch {
	case errors.As(err, &requestErr):
		return requestErr.Status, requestErr.Message
	case errors.Is(err, auth.ErrTokenMissing):
		return http.StatusUnauthorized, "token missing"
	case errors.Is(err, auth.ErrTokenInvalid):
		return http.StatusUnauthorized, "token invalid"
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.Is(err, storage.CollisionError):
		return http.StatusBadRequest, "expected `username` to be unique"
	case errors.Is(err, storage.NotFoundError):
		return http.StatusNotFound, "not found"
	case errors.Is(err, storage.ClientError):
		return http.StatusBadRequest, "invalid request"
	default:
		return http.StatusInternalServerError, INTERNAL_ERROR_MESSAGE
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	if err := writeJson(w, status, ErrorResponse{Error: message}); err != nil {
		http.Error(w, INTERNAL_ERROR_MESSAGE, http.StatusInternalServerError)
	}
}
