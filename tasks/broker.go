package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/RichardKnop/machinery/v1"
	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/config"
	machinerylog "github.com/RichardKnop/machinery/v1/log"
	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/robfig/cron/v3"
)

const (
	BlogStatsTask   = "blogStats"
	consumerTag     = "machinery_worker"
	dispatchTimeout = 5 * time.Second
)

// Dispatcher asks for statistics to be recomputed in the background.
type Dispatcher interface {
	RefreshStats(ctx context.Context)
}

type NoopDispatcher struct{}

func (NoopDispatcher) RefreshStats(context.Context) {}

type taskSender interface {
	SendTaskWithContext(ctx context.Context, signature *tasks.Signature) (*result.AsyncResult, error)
}

type MachineryDispatcher struct {
	sender  taskSender
	timeout time.Duration
}

// RefreshStats returns at once. The task is sent in the background, detached
// from ctx cancellation and bounded by the dispatcher's own timeout.
func (d *MachineryDispatcher) RefreshStats(ctx context.Context) {
	go d.send(context.WithoutCancel(ctx))
}

func (d *MachineryDispatcher) send(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	task := createBlogStatsTask()
	_, err := d.sender.SendTaskWithContext(ctx, &task)
	if err != nil {
		machinerylog.ERROR.Printf("Failed to send %s task: %s", BlogStatsTask, err)
	}
}

func brokerUrl(redisUrl string) string {
	if strings.Contains(redisUrl, "://") {
		return redisUrl
	}
	return "redis://" + redisUrl
}

func startBroker(redisUrl string) (*machinery.Server, error) {
	cnf := &config.Config{
		DefaultQueue:    "machinery_tasks",
		ResultsExpireIn: 3600,
		Broker:          brokerUrl(redisUrl),
		ResultBackend:   brokerUrl(redisUrl),
		Redis: &config.RedisConfig{
			MaxIdle:                3,
			IdleTimeout:            240,
			ReadTimeout:            15,
			WriteTimeout:           15,
			ConnectTimeout:         15,
			NormalTasksPollPeriod:  1000,
			DelayedTasksPollPeriod: 500,
		},
	}
	return machinery.NewServer(cnf)
}

// CreateDispatcher connects the API server to the task queue. Tasks are
// only sent from here, the worker registers the implementations.
func CreateDispatcher(redisUrl string) (*MachineryDispatcher, error) {
	server, err := startBroker(redisUrl)
	if err != nil {
		return nil, err
	}
	return &MachineryDispatcher{sender: server, timeout: dispatchTimeout}, nil
}

// CreateWorker registers the statistics job, schedules it hourly and
// blocks consuming the queue.
func CreateWorker(redisUrl string, job *StatsJob) error {
	server, err := startBroker(redisUrl)
	if err != nil {
		return err
	}
	err = server.RegisterTasks(map[string]interface{}{
		BlogStatsTask: job.Run,
	})
	if err != nil {
		return err
	}

	dispatcher := &MachineryDispatcher{sender: server, timeout: dispatchTimeout}
	c := cron.New()
	_, err = c.AddFunc("@hourly", func() {
		machinerylog.INFO.Println("Scheduling hourly statistics")
		dispatcher.RefreshStats(context.Background())
	})
	if err != nil {
		return err
	}
	c.Start()
	defer c.Stop()

	worker := server.NewWorker(consumerTag, 0)
	errorhandler := func(err error) {
		machinerylog.ERROR.Printf("Something went wrong: %s", err)
	}
	worker.SetErrorHandler(errorhandler)

	return worker.Launch()
}

func createBlogStatsTask() tasks.Signature {
	return tasks.Signature{
		Name: BlogStatsTask,
	}
}
