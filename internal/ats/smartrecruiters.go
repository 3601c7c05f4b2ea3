package ats

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	smartRecruitersBaseURL  = "https://api.smartrecruiters.com"
	smartRecruitersPageSize = 100
	smartRecruitersMaxPages = 10
)

// SmartRecruiters adapts the SmartRecruiters postings API. The list endpoint
// is offset-paginated and does not include descriptions, so every posting
// needs a second detail call for its jobAd sections.
type SmartRecruiters struct {
	client  *Client
	baseURL string
}

// NewSmartRecruiters constructs the SmartRecruiters adapter.
func NewSmartRecruiters(client *Client) *SmartRecruiters {
	return &SmartRecruiters{client: client, baseURL: smartRecruitersBaseURL}
}

// Platform returns PlatformSmartRecruiters.
func (s *SmartRecruiters) Platform() Platform { return PlatformSmartRecruiters }

type smartRecruitersList struct {
	TotalFound int                  `json:"totalFound"`
	Content    []smartRecruitersJob `json:"content"`
}

type smartRecruitersJob struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Location smartRecruitersLocation `json:"location"`
}

type smartRecruitersLocation struct {
	City string `json:"city"`
}

type smartRecruitersDetail struct {
	JobAd smartRecruitersJobAd `json:"jobAd"`
}

type smartRecruitersJobAd struct {
	Sections map[string]smartRecruitersSection `json:"sections"`
}

type smartRecruitersSection struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// sectionOrder fixes the concatenation order of jobAd sections.
var sectionOrder = []string{"jobDescription", "qualifications", "additionalInformation", "companyDescription"}

// ListPostings fetches all postings for a company, walking offset pages and
// resolving each posting's description through the detail endpoint. A failed
// detail call leaves that posting's description empty rather than failing
// the whole company.
func (s *SmartRecruiters) ListPostings(ctx context.Context, company string) ([]RawPosting, error) {
	now := time.Now().UTC()
	var postings []RawPosting

	for page := 0; page < smartRecruitersMaxPages; page++ {
		url := fmt.Sprintf("%s/v1/companies/%s/postings?limit=%d&offset=%d",
			s.baseURL, company, smartRecruitersPageSize, page*smartRecruitersPageSize)

		var list smartRecruitersList
		if err := s.client.getJSON(ctx, PlatformSmartRecruiters, company, url, &list); err != nil {
			return nil, err
		}
		if len(list.Content) == 0 {
			break
		}

		for _, job := range list.Content {
			if job.ID == "" {
				log.Printf("[smartrecruiters] skipping posting with missing id for %s", company)
				continue
			}
			postings = append(postings, RawPosting{
				Platform:       PlatformSmartRecruiters,
				Company:        company,
				ExternalID:     job.ID,
				Title:          job.Name,
				URL:            fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", company, job.ID),
				Location:       job.Location.City,
				RawDescription: s.fetchDescription(ctx, company, job.ID),
				FetchedAt:      now,
			})
		}

		if len(postings) >= list.TotalFound || len(list.Content) < smartRecruitersPageSize {
			break
		}
	}
	return postings, nil
}

// fetchDescription pulls the jobAd sections for one posting and joins them
// as titled plain-text blocks.
func (s *SmartRecruiters) fetchDescription(ctx context.Context, company, jobID string) string {
	url := fmt.Sprintf("%s/v1/companies/%s/postings/%s", s.baseURL, company, jobID)

	var detail smartRecruitersDetail
	if err := s.client.getJSON(ctx, PlatformSmartRecruiters, company, url, &detail); err != nil {
		log.Printf("[smartrecruiters] detail fetch failed for %s/%s: %v", company, jobID, err)
		return ""
	}

	var parts []string
	for _, key := range sectionOrder {
		section, ok := detail.JobAd.Sections[key]
		if !ok || section.Text == "" {
			continue
		}
		if section.Title != "" {
			parts = append(parts, "## "+section.Title)
		}
		parts = append(parts, CleanDescription(section.Text))
	}
	return strings.Join(parts, "\n\n")
}
