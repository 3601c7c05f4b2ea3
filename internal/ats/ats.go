// Package ats implements client adapters for the public job board APIs of
// the supported applicant tracking systems. Each adapter translates its
// platform's listing shape into the common RawPosting record; it never
// retries or sleeps — retry policy belongs to the fetch worker.
package ats

import (
	"context"
	"fmt"
	"time"
)

// Platform identifies a supported applicant tracking system.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform.
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform.
	PlatformLever Platform = "lever"
	// PlatformAshby is the Ashby ATS platform.
	PlatformAshby Platform = "ashby"
	// PlatformSmartRecruiters is the SmartRecruiters ATS platform.
	PlatformSmartRecruiters Platform = "smartrecruiters"
)

// Platforms lists every supported platform.
func Platforms() []Platform {
	return []Platform{PlatformGreenhouse, PlatformLever, PlatformAshby, PlatformSmartRecruiters}
}

// ParsePlatform validates a platform string.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(s)
	switch p {
	case PlatformGreenhouse, PlatformLever, PlatformAshby, PlatformSmartRecruiters:
		return p, nil
	}
	return "", fmt.Errorf("unknown ATS platform %q", s)
}

// RawPosting is one fetched job before LLM processing. Identity key is
// (Platform, Company, ExternalID); re-fetching the same id overwrites in place.
type RawPosting struct {
	Platform       Platform  `json:"ats"`
	Company        string    `json:"company"`
	ExternalID     string    `json:"external_job_id"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	Location       string    `json:"location"`
	RawDescription string    `json:"raw_description"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// Adapter lists all open postings for a company board on one platform.
// Pagination is internal; a failed call is restarted from the first page by
// the caller, never resumed mid-page. Unknown or missing platform fields map
// to zero values, never to an error.
type Adapter interface {
	Platform() Platform
	ListPostings(ctx context.Context, company string) ([]RawPosting, error)
}

// AdapterFor returns the adapter for the given platform, sharing one Client.
func AdapterFor(platform Platform, client *Client) (Adapter, error) {
	switch platform {
	case PlatformGreenhouse:
		return NewGreenhouse(client), nil
	case PlatformLever:
		return NewLever(client), nil
	case PlatformAshby:
		return NewAshby(client), nil
	case PlatformSmartRecruiters:
		return NewSmartRecruiters(client), nil
	}
	return nil, fmt.Errorf("no adapter for platform %q", platform)
}
