package handlers

import (
	"errors"
	"log"
	"net/http"

	"bloglist/storage"
)

type LoginRequestData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

var (
	errInvalidCredentials = &RequestError{Status: http.StatusUnauthorized, Message: "invalid username or password"}
	errTooManyAttempts    = &RequestError{Status: http.StatusTooManyRequests, Message: "too many failed login attempts"}
)

// HandleLogin issues a token for valid credentials. Throttling fails open:
// when the limiter cannot be reached the attempt is let through.
func (h *HTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	var data LoginRequestData
	if err := decodeBody(r, &data); err != nil {
		return err
	}

	if h.Limiter != nil {
		allowed, err := h.Limiter.Allow(ctx, data.Username)
		if err != nil {
			log.Printf("Failed to check login attempts: %s", err.Error())
		} else if !allowed {
			return errTooManyAttempts
		}
	}

	user, err := h.Storage.GetUserByUsername(ctx, data.Username)
	if err != nil && !errors.Is(err, storage.NotFoundError) {
		return err
	}
	if user == nil || h.Passwords.Compare(user.PasswordHash, data.Password) != nil {
		if h.Limiter != nil {
			if err := h.Limiter.Fail(ctx, data.Username); err != nil {
				log.Printf("Failed to record login attempt: %s", err.Error())
			}
		}
		return errInvalidCredentials
	}

	if h.Limiter != nil {
		if err := h.Limiter.Reset(ctx, data.Username); err != nil {
			log.Printf("Failed to reset login attempts: %s", err.Error())
		}
	}
	token, err := h.Tokens.CreateToken(user.Id, user.Username)
	if err != nil {
		return err
	}
	return writeJson(w, http.StatusOK, LoginResponse{
		Token:    token,
		Username: user.Username,
		Name:     user.Name,
	})
}
