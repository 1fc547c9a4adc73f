// Package events ingests upcoming community events from an Eventbrite-style
// listing API and converts them into the internal event shape.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alaik/settlerr/internal/fetch"
	"github.com/alaik/settlerr/internal/types"
)

// DefaultBaseURL is the production listing API endpoint.
const DefaultBaseURL = "https://www.eventbriteapi.com/v3"

// Search window and pagination defaults.
const (
	searchWindowDays = 30
	pageSize         = 50
	DefaultRadius    = "10km"
	DefaultMaxEvents = 100
)

// Client talks to an Eventbrite-style event listing API.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mostly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithClock overrides the time source used to compute the search window.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a listing API client. The token is required.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("events: API token is required")
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		timeout: fetch.DefaultTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchOptions controls an upcoming-events search.
type SearchOptions struct {
	Location  string
	Radius    string
	MaxEvents int
}

// apiEvent mirrors the listing API's event payload.
type apiEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Description struct {
		HTML string `json:"html"`
		Text string `json:"text"`
	} `json:"description"`
	URL   string `json:"url"`
	Start struct {
		UTC string `json:"utc"`
	} `json:"start"`
	IsFree bool `json:"is_free"`
	Venue  *struct {
		Name    string `json:"name"`
		Address struct {
			LocalizedAddressDisplay string `json:"localized_address_display"`
		} `json:"address"`
	} `json:"venue"`
	Organizer *struct {
		Name string `json:"name"`
	} `json:"organizer"`
	Category *struct {
		Name string `json:"name"`
	} `json:"category"`
	Capacity int `json:"capacity"`
}

type searchResponse struct {
	Events     []apiEvent `json:"events"`
	Pagination struct {
		HasMoreItems bool `json:"has_more_items"`
	} `json:"pagination"`
}

// UpcomingEvents fetches events starting within the next 30 days around a
// location, following pagination until MaxEvents is reached or the listing
// runs out.
func (c *Client) UpcomingEvents(ctx context.Context, opts SearchOptions) ([]types.Event, error) {
	if opts.Location == "" {
		return nil, fmt.Errorf("events: location is required")
	}
	if opts.Radius == "" {
		opts.Radius = DefaultRadius
	}
	if opts.MaxEvents <= 0 {
		opts.MaxEvents = DefaultMaxEvents
	}

	start := c.now().UTC()
	end := start.Add(searchWindowDays * 24 * time.Hour)

	query := url.Values{
		"location.address":       {opts.Location},
		"location.within":        {opts.Radius},
		"start_date.range_start": {start.Format("2006-01-02T15:04:05Z")},
		"start_date.range_end":   {end.Format("2006-01-02T15:04:05Z")},
		"expand":                 {"venue,organizer,category"},
		"page_size":              {strconv.Itoa(pageSize)},
	}

	fetchOpts := &fetch.Options{
		Timeout:   c.timeout,
		UserAgent: fetch.DefaultUserAgent,
		Headers:   map[string]string{"Authorization": "Bearer " + c.token},
	}

	var all []types.Event
	for page := 1; len(all) < opts.MaxEvents; page++ {
		query.Set("page", strconv.Itoa(page))
		fetchOpts.Query = query

		result, err := fetch.URL(ctx, c.baseURL+"/events/search/", fetchOpts)
		if err != nil {
			if len(all) > 0 {
				// Keep what we have when a later page fails.
				break
			}
			return nil, fmt.Errorf("events: search failed: %w", err)
		}

		var resp searchResponse
		if err := json.Unmarshal(result.Body, &resp); err != nil {
			return nil, fmt.Errorf("events: failed to decode search response: %w", err)
		}
		if len(resp.Events) == 0 {
			break
		}

		for _, e := range resp.Events {
			all = append(all, convertEvent(e))
		}

		if !resp.Pagination.HasMoreItems {
			break
		}
	}

	if len(all) > opts.MaxEvents {
		all = all[:opts.MaxEvents]
	}
	return all, nil
}

// convertEvent maps a listing API event into the internal shape. The
// internal ID is assigned later when the event is stored. HTML descriptions
// are flattened to plain text.
func convertEvent(e apiEvent) types.Event {
	about := e.Description.Text
	if about == "" && e.Description.HTML != "" {
		about = fetch.HTMLToText(e.Description.HTML)
	}

	ev := types.Event{
		Name:      e.Name.Text,
		About:     about,
		Date:      e.Start.UTC,
		RSVPLimit: e.Capacity,
	}
	if e.Venue != nil {
		ev.Venue = e.Venue.Name
		if ev.Venue == "" {
			ev.Venue = e.Venue.Address.LocalizedAddressDisplay
		}
	}
	if e.Organizer != nil {
		ev.Organizer = e.Organizer.Name
	}
	if e.Category != nil {
		ev.Category = e.Category.Name
	}
	return ev
}
