package handlers

import (
	"net/http"

	"bloglist/events"
	"bloglist/storage"

	"github.com/gorilla/mux"
)

type UpdatePostRequestData struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

// HandleUpdatePost replaces the title of a post, and its author when the
// body carries one. Any caller may update any post.
func (h *HTTPHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) error {
	postId := mux.Vars(r)["id"]
	var data UpdatePostRequestData
	if err := decodeBody(r, &data); err != nil {
		return err
	}
	if data.Title == nil || *data.Title == "" {
		return storage.NewValidationError("title", "title missing")
	}

	post, err := h.Storage.UpdatePost(r.Context(), postId, *data.Title, data.Author)
	if err != nil {
		return err
	}
	h.notify(r.Context(), events.PostUpdated, post)
	return writeJson(w, http.StatusOK, post)
}
