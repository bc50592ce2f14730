package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"bloglist/auth"
	"bloglist/events"
	"bloglist/storage"
	"bloglist/storage/models"
)

type CreatePostRequestData struct {
	Title  *string `json:"title"`
	Author string  `json:"author"`
	Url    string  `json:"url"`
	Likes  *int    `json:"likes"`
}

func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return badRequest("malformed json")
	}
	return nil
}

func (d *CreatePostRequestData) validate() error {
	if d.Title == nil || *d.Title == "" {
		return storage.NewValidationError("title", "title missing")
	}
	if d.Likes != nil && *d.Likes < 0 {
		return storage.NewValidationError("likes", "likes must not be negative")
	}
	return nil
}

// HandleCreatePost stores a post owned by the account named in the bearer
// token and links it to that account. The two writes are independent: when
// linking fails the post stays in place without a reference from its owner.
func (h *HTTPHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		return err
	}
	claims, err := h.Tokens.CheckToken(token)
	if err != nil {
		return err
	}
	user, err := h.Storage.GetUser(ctx, claims.Id)
	if err != nil {
		if errors.Is(err, storage.NotFoundError) {
			return fmt.Errorf("account %s does not exist: %w", claims.Id, auth.ErrTokenInvalid)
		}
		return err
	}

	var data CreatePostRequestData
	if err = decodeBody(r, &data); err != nil {
		return err
	}
	if err = data.validate(); err != nil {
		return err
	}

	post, err := h.Storage.AddPost(ctx, models.Post{
		Title:  *data.Title,
		Author: data.Author,
		Url:    data.Url,
		Likes:  data.Likes,
		UserId: user.Id,
	})
	if err != nil {
		return err
	}
	err = h.Storage.AddPostToUser(ctx, user.Id, post.Id)
	if err != nil {
		log.Printf("Post %s was saved but not linked to user %s: %s", post.Id, user.Id, err.Error())
		return err
	}

	h.notify(ctx, events.PostCreated, post)
	return writeJson(w, http.StatusCreated, post)
}
