package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Register mounts every endpoint on r. The statistics route comes before
// the {id} routes so that "stats" is never taken for a post id.
func (h *HTTPHandler) Register(r *mux.Router) {
	r.HandleFunc("/maintenance/ping", h.HealthCheck).Methods("GET")

	r.HandleFunc("/api/posts", Handle(h.HandleGetPosts)).Methods("GET")
	r.HandleFunc("/api/posts", Handle(h.HandleCreatePost)).Methods("POST")
	r.HandleFunc("/api/posts/stats", Handle(h.HandleStats)).Methods("GET")
	r.HandleFunc("/api/posts/{id}", Handle(h.HandleGetPost)).Methods("GET")
	r.HandleFunc("/api/posts/{id}", Handle(h.HandleUpdatePost)).Methods("PUT")
	r.HandleFunc("/api/posts/{id}", Handle(h.HandleDeletePost)).Methods("DELETE")

	r.HandleFunc("/api/users", Handle(h.HandleGetUsers)).Methods("GET")
	r.HandleFunc("/api/users", Handle(h.HandleCreateUser)).Methods("POST")
	r.HandleFunc("/api/login", Handle(h.HandleLogin)).Methods("POST")

	r.NotFoundHandler = Handle(unknownEndpoint)
}

func unknownEndpoint(w http.ResponseWriter, r *http.Request) error {
	return &RequestError{Status: http.StatusNotFound, Message: "unknown endpoint"}
}
