package ats

import (
	"context"
	"fmt"
	"log"
	"time"
)

const ashbyBaseURL = "https://api.ashbyhq.com"

// Ashby adapts the Ashby job board posting API. Single-page, plain-text
// descriptions.
type Ashby struct {
	client  *Client
	baseURL string
}

// NewAshby constructs the Ashby adapter.
func NewAshby(client *Client) *Ashby {
	return &Ashby{client: client, baseURL: ashbyBaseURL}
}

// Platform returns PlatformAshby.
func (a *Ashby) Platform() Platform { return PlatformAshby }

type ashbyResponse struct {
	Jobs []ashbyJob `json:"jobs"`
}

type ashbyJob struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Location         string `json:"location"`
	JobURL           string `json:"jobUrl"`
	DescriptionPlain string `json:"descriptionPlain"`
}

// ListPostings fetches all postings for a company board.
func (a *Ashby) ListPostings(ctx context.Context, company string) ([]RawPosting, error) {
	url := fmt.Sprintf("%s/posting-api/job-board/%s", a.baseURL, company)

	var resp ashbyResponse
	if err := a.client.getJSON(ctx, PlatformAshby, company, url, &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	postings := make([]RawPosting, 0, len(resp.Jobs))
	for _, job := range resp.Jobs {
		if job.ID == "" {
			log.Printf("[ashby] skipping posting with missing id for %s", company)
			continue
		}
		jobURL := job.JobURL
		if jobURL == "" {
			jobURL = fmt.Sprintf("https://jobs.ashbyhq.com/%s/%s", company, job.ID)
		}
		postings = append(postings, RawPosting{
			Platform:       PlatformAshby,
			Company:        company,
			ExternalID:     job.ID,
			Title:          job.Title,
			URL:            jobURL,
			Location:       job.Location,
			RawDescription: CleanDescription(job.DescriptionPlain),
			FetchedAt:      now,
		})
	}
	return postings, nil
}
