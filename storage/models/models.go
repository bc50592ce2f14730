package models

import (
	"encoding/json"
	"log"
)

type Post struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Url    string `json:"url,omitempty"`
	Likes  *int   `json:"likes,omitempty"`
	UserId string `json:"user,omitempty"`
}

// LikeCount treats a post without likes as having zero.
func (p *Post) LikeCount() int {
	if p.Likes == nil {
		return 0
	}
	return *p.Likes
}

func (p *Post) ToJson() []byte {
	j, err := json.Marshal(p)
	if err != nil {
		log.Printf("Failed to dump post to json: %s", err.Error())
		return nil
	}
	return j
}

// PostOwner is the projection of a user attached to listed posts.
type PostOwner struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

type PopulatedPost struct {
	Id     string     `json:"id"`
	Title  string     `json:"title"`
	Author string     `json:"author,omitempty"`
	Url    string     `json:"url,omitempty"`
	Likes  *int       `json:"likes,omitempty"`
	User   *PostOwner `json:"user,omitempty"`
}

type User struct {
	Id           string   `json:"id"`
	Username     string   `json:"username"`
	Name         string   `json:"name,omitempty"`
	PasswordHash string   `json:"-"`
	PostIds      []string `json:"posts"`
}

// UserPost is the projection of a post attached to listed users.
type UserPost struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Url    string `json:"url,omitempty"`
	Likes  *int   `json:"likes,omitempty"`
}

type PopulatedUser struct {
	Id       string     `json:"id"`
	Username string     `json:"username"`
	Name     string     `json:"name,omitempty"`
	Posts    []UserPost `json:"posts"`
}
