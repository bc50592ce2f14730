package handlers

import (
	"errors"
	"net/http"

	"bloglist/storage"

	"github.com/gorilla/mux"
)

// HandleGetPost answers a missing post with a bare 404.
func (h *HTTPHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) error {
	postId := mux.Vars(r)["id"]
	post, err := h.Storage.GetPost(r.Context(), postId)
	if err != nil {
		if errors.Is(err, storage.NotFoundError) {
			w.WriteHeader(http.StatusNotFound)
			return nil
		}
		return err
	}
	return writeJson(w, http.StatusOK, post)
}
