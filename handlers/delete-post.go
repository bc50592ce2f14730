package handlers

import (
	"net/http"

	"bloglist/events"
	"bloglist/storage/models"

	"github.com/gorilla/mux"
)

// HandleDeletePost answers 204 whether or not the post existed. Only an
// actual removal is announced.
func (h *HTTPHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) error {
	postId := mux.Vars(r)["id"]
	deleted, err := h.Storage.DeletePost(r.Context(), postId)
	if err != nil {
		return err
	}
	if deleted {
		h.notify(r.Context(), events.PostDeleted, &models.Post{Id: postId})
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
