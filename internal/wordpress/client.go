// Package wordpress publishes generated articles to a WordPress site via
// the REST API, using application passwords for auth.
package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one publish call.
const DefaultTimeout = 30 * time.Second

// Client talks to one WordPress site.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient builds a client for the site's REST API root, e.g.
// "https://blog.example.com".
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Post is one article to publish.
type Post struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"` // draft or publish
	Excerpt string `json:"excerpt,omitempty"`
}

// PublishResult is the created post's identity.
type PublishResult struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// CreatePost creates a post, defaulting to draft status so nothing goes
// live without review.
func (c *Client) CreatePost(ctx context.Context, post Post) (PublishResult, error) {
	if c.baseURL == "" {
		return PublishResult{}, fmt.Errorf("wordpress: no site URL configured")
	}
	if post.Status == "" {
		post.Status = "draft"
	}

	body, err := json.Marshal(post)
	if err != nil {
		return PublishResult{}, fmt.Errorf("wordpress: encode post: %w", err)
	}

	endpoint := c.baseURL + "/wp-json/wp/v2/posts"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return PublishResult{}, fmt.Errorf("wordpress: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.username, c.password))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PublishResult{}, fmt.Errorf("wordpress: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return PublishResult{}, fmt.Errorf("wordpress: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PublishResult{}, fmt.Errorf("wordpress: create post failed with status %d: %s",
			resp.StatusCode, truncateBody(data))
	}

	var result PublishResult
	if err := json.Unmarshal(data, &result); err != nil {
		return PublishResult{}, fmt.Errorf("wordpress: decode response: %w", err)
	}
	return result, nil
}

// Ping verifies the site and credentials by listing one post.
func (c *Client) Ping(ctx context.Context) error {
	endpoint := c.baseURL + "/wp-json/wp/v2/posts?per_page=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(c.username, c.password))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wordpress: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("wordpress: credentials rejected (status %d)", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("wordpress: site check failed with status %d", resp.StatusCode)
	}
	return nil
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}

func truncateBody(b []byte) string {
	s := string(b)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
