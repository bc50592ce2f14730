package in_memory

import (
	"context"
	"fmt"
	"sync"

	"bloglist/storage"
	"bloglist/storage/models"

	"github.com/google/uuid"
)

type InMemoryStorage struct {
	mut     sync.RWMutex
	posts   map[string]models.Post
	postIds []string
	users   map[string]models.User
	userIds []string
}

func copyLikes(likes *int) *int {
	if likes == nil {
		return nil
	}
	n := *likes
	return &n
}

func copyPost(p models.Post) *models.Post {
	p.Likes = copyLikes(p.Likes)
	return &p
}

func copyUser(u models.User) *models.User {
	u.PostIds = append([]string{}, u.PostIds...)
	return &u
}

func (s *InMemoryStorage) GetPosts(ctx context.Context) ([]models.PopulatedPost, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	posts := make([]models.PopulatedPost, 0, len(s.postIds))
	for _, id := range s.postIds {
		p := s.posts[id]
		populated := models.PopulatedPost{
			Id:     p.Id,
			Title:  p.Title,
			Author: p.Author,
			Url:    p.Url,
			Likes:  copyLikes(p.Likes),
		}
		if owner, found := s.users[p.UserId]; found {
			populated.User = &models.PostOwner{Username: owner.Username, Name: owner.Name}
		}
		posts = append(posts, populated)
	}
	return posts, nil
}

func (s *InMemoryStorage) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	posts := make([]models.Post, 0, len(s.postIds))
	for _, id := range s.postIds {
		posts = append(posts, *copyPost(s.posts[id]))
	}
	return posts, nil
}

func (s *InMemoryStorage) GetPost(ctx context.Context, postId string) (*models.Post, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	post, found := s.posts[postId]
	if !found {
		return nil, fmt.Errorf("no post with id %v: %w", postId, storage.NotFoundError)
	}
	return copyPost(post), nil
}

func (s *InMemoryStorage) AddPost(ctx context.Context, post models.Post) (*models.Post, error) {
	if post.Title == "" {
		return nil, storage.NewValidationError("title", "title is required")
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	post.Id = uuid.New().String()
	post.Likes = copyLikes(post.Likes)
	s.posts[post.Id] = post
	s.postIds = append(s.postIds, post.Id)
	return copyPost(post), nil
}

func (s *InMemoryStorage) UpdatePost(ctx context.Context, postId string, title string, author *string) (*models.Post, error) {
	if title == "" {
		return nil, storage.NewValidationError("title", "title is required")
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	post, found := s.posts[postId]
	if !found {
		return nil, fmt.Errorf("no post with id %v: %w", postId, storage.NotFoundError)
	}
	post.Title = title
	if author != nil {
		post.Author = *author
	}
	s.posts[postId] = post
	return copyPost(post), nil
}

func (s *InMemoryStorage) DeletePost(ctx context.Context, postId string) (bool, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	if _, found := s.posts[postId]; !found {
		return false, nil
	}
	delete(s.posts, postId)
	for i, id := range s.postIds {
		if id == postId {
			s.postIds = append(s.postIds[:i], s.postIds[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *InMemoryStorage) GetUsers(ctx context.Context) ([]models.PopulatedUser, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	users := make([]models.PopulatedUser, 0, len(s.userIds))
	for _, id := range s.userIds {
		u := s.users[id]
		populated := models.PopulatedUser{
			Id:       u.Id,
			Username: u.Username,
			Name:     u.Name,
			Posts:    make([]models.UserPost, 0, len(u.PostIds)),
		}
		for _, postId := range u.PostIds {
			p, found := s.posts[postId]
			if !found {
				continue
			}
			populated.Posts = append(populated.Posts, models.UserPost{
				Id:     p.Id,
				Title:  p.Title,
				Author: p.Author,
				Url:    p.Url,
				Likes:  copyLikes(p.Likes),
			})
		}
		users = append(users, populated)
	}
	return users, nil
}

func (s *InMemoryStorage) GetUser(ctx context.Context, userId string) (*models.User, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	user, found := s.users[userId]
	if !found {
		return nil, fmt.Errorf("no user with id %v: %w", userId, storage.NotFoundError)
	}
	return copyUser(user), nil
}

func (s *InMemoryStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, fmt.Errorf("no user with username %v: %w", username, storage.NotFoundError)
}

func (s *InMemoryStorage) AddUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.Username == "" {
		return nil, storage.NewValidationError("username", "username is required")
	}
	s.mut.Lock()
	defer s.mut.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, fmt.Errorf("username %s is taken: %w", user.Username, storage.CollisionError)
		}
	}
	user.Id = uuid.New().String()
	user.PostIds = append([]string{}, user.PostIds...)
	s.users[user.Id] = user
	s.userIds = append(s.userIds, user.Id)
	return copyUser(user), nil
}

func (s *InMemoryStorage) AddPostToUser(ctx context.Context, userId string, postId string) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	user, found := s.users[userId]
	if !found {
		return fmt.Errorf("no user with id %v: %w", userId, storage.NotFoundError)
	}
	user.PostIds = append(user.PostIds, postId)
	s.users[userId] = user
	return nil
}

func CreateInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		posts: make(map[string]models.Post),
		users: make(map[string]models.User),
	}
}
