// Package stats computes aggregate figures over a list of posts.
package stats

import "bloglist/storage/models"

// Favorite is the projection of the most liked post.
type Favorite struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Likes  int    `json:"likes"`
}

type Summary struct {
	TotalLikes int       `json:"totalLikes"`
	Favorite   *Favorite `json:"favorite"`
}

// TotalLikes sums the likes of all posts. Posts without likes count as zero.
func TotalLikes(posts []models.Post) int {
	total := 0
	for i := range posts {
		total += posts[i].LikeCount()
	}
	return total
}

// FavoriteBlog returns the first post with the highest like count, or nil
// for an empty list.
func FavoriteBlog(posts []models.Post) *Favorite {
	if len(posts) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(posts); i++ {
		if posts[i].LikeCount() > posts[best].LikeCount() {
			best = i
		}
	}
	return &Favorite{
		Title:  posts[best].Title,
		Author: posts[best].Author,
		Likes:  posts[best].LikeCount(),
	}
}

func Summarize(posts []models.Post) Summary {
	return Summary{
		TotalLikes: TotalLikes(posts),
		Favorite:   FavoriteBlog(posts),
	}
}
