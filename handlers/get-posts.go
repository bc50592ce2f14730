package handlers

import (
	"net/http"
)

func (h *HTTPHandler) HandleGetPosts(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.Storage.GetPosts(r.Context())
	if err != nil {
		return err
	}
	return writeJson(w, http.StatusOK, posts)
}
