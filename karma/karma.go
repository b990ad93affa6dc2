// Package karma fetches project data from the Karma GAP registry.
package karma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gapeval/backend/metrics"
	"github.com/tidwall/gjson"
)

const maxBodyBytes = 4 << 20

type ProjectData struct {
	ProjectDetails json.RawMessage `json:"project_details"`
	Updates        []Update        `json:"updates"`
}

type Update struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Date         string          `json:"date"`
	Verified     bool            `json:"verified"`
	Deliverables json.RawMessage `json:"deliverables"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client whose requests give up after timeout. The
// project id is appended to baseURL verbatim, so baseURL usually ends
// with a slash.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchProject returns the registry view of project id. Any non-200
// answer is an error for this call only.
func (c *Client) FetchProject(ctx context.Context, id string) (*ProjectData, error) {
	data, err := c.fetchProject(ctx, id)
	if err != nil {
		metrics.RegistryFetch(metrics.FetchUnavailable)
		return nil, err
	}
	metrics.RegistryFetch(metrics.FetchSuccess)
	return data, nil
}

func (c *Client) fetchProject(ctx context.Context, id string) (*ProjectData, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("registry url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("build registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read registry response: %w", err)
	}
	return parseProject(body)
}

func parseProject(body []byte) (*ProjectData, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("registry response is not valid json")
	}
	root := gjson.ParseBytes(body)

	details := root.Get("details")
	if !details.Exists() {
		return nil, fmt.Errorf("registry response has no details")
	}

	updates := []Update{}
	root.Get("updates").ForEach(func(_, u gjson.Result) bool {
		deliverables := json.RawMessage("[]")
		if d := u.Get("deliverables"); d.Exists() && d.Type != gjson.Null {
			deliverables = json.RawMessage(d.Raw)
		}
		updates = append(updates, Update{
			Title:        u.Get("title").String(),
			Description:  u.Get("text").String(),
			Date:         u.Get("createdAt").String(),
			Verified:     u.Get("verified").Bool(),
			Deliverables: deliverables,
		})
		return true
	})

	return &ProjectData{
		ProjectDetails: json.RawMessage(details.Raw),
		Updates:        updates,
	}, nil
}
