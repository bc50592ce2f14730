package tasks

import (
	"context"
	"fmt"
	"log"

	"bloglist/events"
	"bloglist/stats"
	"bloglist/storage"
)

// StatsJob recomputes blog statistics over every stored post and
// publishes the result.
type StatsJob struct {
	Storage storage.Storage
	Events  events.Publisher
}

// Run returns the total number of likes so that the result backend keeps
// something useful for callers polling the task.
func (j *StatsJob) Run(ctx context.Context) (int64, error) {
	posts, err := j.Storage.GetAllPosts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load posts for statistics: %w", err)
	}
	summary := stats.Summarize(posts)
	if summary.Favorite != nil {
		log.Printf("Computed statistics over %d posts: %d likes, favorite %q with %d likes",
			len(posts), summary.TotalLikes, summary.Favorite.Title, summary.Favorite.Likes)
	} else {
		log.Printf("Computed statistics over %d posts: no posts yet", len(posts))
	}

	event := events.NewPostEvent(events.StatsComputed, "", "")
	event.Stats = &summary
	j.Events.Publish(event)
	return int64(summary.TotalLikes), nil
}
