package storage

import (
	"context"
	"errors"
	"fmt"

	"bloglist/storage/models"
)

var (
	InternalError  = errors.New("storage internal error")
	ClientError    = errors.New("storage client error")
	CollisionError = fmt.Errorf("%w.collision", ClientError)
	NotFoundError  = fmt.Errorf("%w.not_found", ClientError)
)

// ValidationError reports a record field that violates a constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ClientError
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type Storage interface {
	GetPosts(ctx context.Context) ([]models.PopulatedPost, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	AddPost(ctx context.Context, post models.Post) (*models.Post, error)
	// UpdatePost sets the title, and the author when author is not nil.
	UpdatePost(ctx context.Context, id string, title string, author *string) (*models.Post, error)
	// DeletePost reports whether a post was removed. A missing post is not an error.
	DeletePost(ctx context.Context, id string) (bool, error)

	GetUsers(ctx context.Context) ([]models.PopulatedUser, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	AddUser(ctx context.Context, user models.User) (*models.User, error)
	AddPostToUser(ctx context.Context, userId string, postId string) error
}
