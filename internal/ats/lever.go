package ats

import (
	"context"
	"fmt"
	"log"
	"time"
)

const leverBaseURL = "https://api.lever.co"

// Lever adapts the Lever postings API. The root of the response is a JSON
// array and descriptions arrive as plain text.
type Lever struct {
	client  *Client
	baseURL string
}

// NewLever constructs the Lever adapter.
func NewLever(client *Client) *Lever {
	return &Lever{client: client, baseURL: leverBaseURL}
}

// Platform returns PlatformLever.
func (l *Lever) Platform() Platform { return PlatformLever }

type leverJob struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"` // posting title
	Categories       leverCategories `json:"categories"`
	HostedURL        string          `json:"hostedUrl"`
	DescriptionPlain string          `json:"descriptionPlain"`
}

type leverCategories struct {
	Location string `json:"location"`
}

// ListPostings fetches all postings for a company board.
func (l *Lever) ListPostings(ctx context.Context, company string) ([]RawPosting, error) {
	url := fmt.Sprintf("%s/v0/postings/%s?mode=json", l.baseURL, company)

	var jobs []leverJob
	if err := l.client.getJSON(ctx, PlatformLever, company, url, &jobs); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	postings := make([]RawPosting, 0, len(jobs))
	for _, job := range jobs {
		if job.ID == "" {
			log.Printf("[lever] skipping posting with missing id for %s", company)
			continue
		}
		postings = append(postings, RawPosting{
			Platform:       PlatformLever,
			Company:        company,
			ExternalID:     job.ID,
			Title:          job.Text,
			URL:            job.HostedURL,
			Location:       job.Categories.Location,
			RawDescription: CleanDescription(job.DescriptionPlain),
			FetchedAt:      now,
		})
	}
	return postings, nil
}
