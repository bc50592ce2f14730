package handlers

import (
	"net/http"

	"bloglist/storage"
	"bloglist/storage/models"
)

const minCredentialLength = 3

type CreateUserRequestData struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (d *CreateUserRequestData) validate() error {
	if d.Username == "" {
		return storage.NewValidationError("username", "username missing")
	}
	if len(d.Username) < minCredentialLength {
		return storage.NewValidationError("username", "username must be at least 3 characters long")
	}
	if d.Password == "" {
		return storage.NewValidationError("password", "password missing")
	}
	if len(d.Password) < minCredentialLength {
		return storage.NewValidationError("password", "password must be at least 3 characters long")
	}
	return nil
}

func (h *HTTPHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) error {
	var data CreateUserRequestData
	if err := decodeBody(r, &data); err != nil {
		return err
	}
	if err := data.validate(); err != nil {
		return err
	}

	passwordHash, err := h.Passwords.Hash(data.Password)
	if err != nil {
		return err
	}
	user, err := h.Storage.AddUser(r.Context(), models.User{
		Username:     data.Username,
		Name:         data.Name,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return err
	}
	return writeJson(w, http.StatusCreated, user)
}

func (h *HTTPHandler) HandleGetUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.Storage.GetUsers(r.Context())
	if err != nil {
		return err
	}
	return writeJson(w, http.StatusOK, users)
}
