package handlers

import (
	"net/http"

	"bloglist/stats"
)

func (h *HTTPHandler) HandleStats(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.Storage.GetAllPosts(r.Context())
	if err != nil {
		return err
	}
	return writeJson(w, http.StatusOK, stats.Summarize(posts))
}
