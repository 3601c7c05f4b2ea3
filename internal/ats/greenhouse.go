package ats

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io"

// Greenhouse adapts the Greenhouse job board API. A single call with
// content=true returns every posting with its HTML description inline.
type Greenhouse struct {
	client  *Client
	baseURL string
}

// NewGreenhouse constructs the Greenhouse adapter.
func NewGreenhouse(client *Client) *Greenhouse {
	return &Greenhouse{client: client, baseURL: greenhouseBaseURL}
}

// Platform returns PlatformGreenhouse.
func (g *Greenhouse) Platform() Platform { return PlatformGreenhouse }

type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

type greenhouseJob struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Location    greenhouseLocation `json:"location"`
	Content     string             `json:"content"` // entity-escaped HTML
	AbsoluteURL string             `json:"absolute_url"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// ListPostings fetches all postings for a company board.
func (g *Greenhouse) ListPostings(ctx context.Context, company string) ([]RawPosting, error) {
	url := fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", g.baseURL, company)

	var resp greenhouseResponse
	if err := g.client.getJSON(ctx, PlatformGreenhouse, company, url, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	postings := make([]RawPosting, 0, len(resp.Jobs))
	for _, job := range resp.Jobs {
		if job.ID == 0 {
			log.Printf("[greenhouse] skipping posting with missing id for %s", company)
			continue
		}
		jobURL := job.AbsoluteURL
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://boards.greenhouse.io/%s/jobs/%d", company, job.ID)
		}
		postings = append(postings, RawPosting{
			Platform:       PlatformGreenhouse,
			Company:        company,
			ExternalID:     strconv.FormatInt(job.ID, 10),
			Title:          job.Title,
			URL:            jobURL,
			Location:       job.Location.Name,
			RawDescription: CleanDescription(job.Content),
			FetchedAt:      now,
		})
	}
	return postings, nil
}
