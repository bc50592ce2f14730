package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/RichardKnop/machinery/v1/backends/result"
	"github.com/RichardKnop/machinery/v1/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stalledSender struct {
	sent    chan context.Context
	names   chan string
	release chan struct{}
}

func (s *stalledSender) SendTaskWithContext(ctx context.Context, signature *tasks.Signature) (*result.AsyncResult, error) {
	s.sent <- ctx
	s.names <- signature.Name
	<-s.release
	return nil, nil
}

func TestRefreshStatsDoesNotWaitForBroker(t *testing.T) {
	sender := &stalledSender{
		sent:    make(chan context.Context, 1),
		names:   make(chan string, 1),
		release: make(chan struct{}),
	}
	defer close(sender.release)
	dispatcher := &MachineryDispatcher{sender: sender, timeout: time.Minute}

	requestCtx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		dispatcher.RefreshStats(requestCtx)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("RefreshStats waited for the broker")
	}
	cancel()

	var sendCtx context.Context
	select {
	case sendCtx = <-sender.sent:
	case <-time.After(time.Second):
		t.Fatal("task was never sent")
	}
	assert.Equal(t, BlogStatsTask, <-sender.names)
	_, hasDeadline := sendCtx.Deadline()
	assert.True(t, hasDeadline)
	require.NoError(t, sendCtx.Err(), "send must outlive the request")
}
