package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"bloglist/auth"
	"bloglist/events"
	"bloglist/limiter"
	"bloglist/storage"
	"bloglist/storage/models"
	"bloglist/tasks"
)

type HTTPHandler struct {
	Storage   storage.Storage
	Tokens    *auth.Tokens
	Passwords *auth.Passwords
	Limiter   limiter.Limiter
	Events    events.Publisher
	Tasks     tasks.Dispatcher
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "OK")
}

// notify publishes a post event and asks for fresh statistics.
func (h *HTTPHandler) notify(ctx context.Context, kind events.Kind, post *models.Post) {
	if h.Events != nil {
		h.Events.Publish(events.NewPostEvent(kind, post.Id, post.UserId))
	}
	if h.Tasks != nil {
		h.Tasks.RefreshStats(ctx)
	}
}

func writeJson(w http.ResponseWriter, status int, v interface{}) error {
	rawResponse, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to dump response to json: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(rawResponse)
	if err != nil {
		log.Printf("Failed to write response: %s", err.Error())
	}
	return nil
}
