package karma_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gapeval/backend/karma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (f *countingFetcher) FetchProject(ctx context.Context, id string) (*karma.ProjectData, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return &karma.ProjectData{Updates: []karma.Update{{Title: id}}}, nil
}

func TestCoalescingClientReadsRegistryEveryTime(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		fmt.Fprintf(w, `{"details":{"v":%d}}`, n)
	}))
	defer srv.Close()

	c := karma.NewCoalescingClient(karma.NewClient(srv.URL+"/", time.Second))
	ctx := context.Background()

	first, err := c.FetchProject(ctx, "p1")
	require.NoError(t, err)
	second, err := c.FetchProject(ctx, "p1")
	require.NoError(t, err)

	assert.JSONEq(t, `{"v":1}`, string(first.ProjectDetails))
	assert.JSONEq(t, `{"v":2}`, string(second.ProjectDetails))
	assert.Equal(t, int32(2), calls.Load())
}

func TestCoalescingClientPassesFailuresThrough(t *testing.T) {
	next := &countingFetcher{err: errors.New("registry down")}
	c := karma.NewCoalescingClient(next)
	ctx := context.Background()

	_, err := c.FetchProject(ctx, "p1")
	require.Error(t, err)
	_, err = c.FetchProject(ctx, "p1")
	require.Error(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestCoalescingClientSharesConcurrentFetches(t *testing.T) {
	next := &countingFetcher{delay: 200 * time.Millisecond}
	c := karma.NewCoalescingClient(next)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := c.FetchProject(context.Background(), "p1")
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()
	assert.Less(t, next.calls.Load(), int32(8))
}
