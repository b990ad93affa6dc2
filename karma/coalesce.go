package karma

import (
	"context"

	"golang.org/x/sync/singleflight"
)

type Fetcher interface {
	FetchProject(ctx context.Context, id string) (*ProjectData, error)
}

// CoalescingClient shares one in-flight registry request between concurrent
// callers asking for the same project. Nothing is kept once the request
// returns, so every later read reaches the registry.
type CoalescingClient struct {
	next    Fetcher
	sfGroup singleflight.Group
}

func NewCoalescingClient(next Fetcher) *CoalescingClient {
	return &CoalescingClient{next: next}
}

func (c *CoalescingClient) FetchProject(ctx context.Context, id string) (*ProjectData, error) {
	result, err, _ := c.sfGroup.Do(id, func() (interface{}, error) {
		return c.next.FetchProject(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return result.(*ProjectData), nil
}
