// Package googlecal pulls external commitments from Google Calendar.
// Sync is optional; the rest of the system works on stored commitments
// when no credentials are configured.
package googlecal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Event is the transport-neutral shape of a calendar event. The sync
// service consumes these without knowing about the Google API types.
type Event struct {
	ID    string
	Title string
	Start time.Time
	End   time.Time
}

// Credentials points at the OAuth client secrets and the cached token.
type Credentials struct {
	ClientSecretsPath string
	TokenPath         string
}

// Client wraps the Calendar API with a request rate limit.
type Client struct {
	srv     *calendar.Service
	limiter *rate.Limiter
}

// NewClient builds an authenticated calendar client from a client
// secrets file and a previously obtained token file. It never starts an
// interactive authorization flow; run `timeloom sync login` first.
func NewClient(ctx context.Context, creds Credentials) (*Client, error) {
	secrets, err := os.ReadFile(creds.ClientSecretsPath)
	if err != nil {
		return nil, fmt.Errorf("reading client secrets %s: %w", creds.ClientSecretsPath, err)
	}
	config, err := google.ConfigFromJSON(secrets, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secrets: %w", err)
	}

	token, err := tokenFromFile(creds.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("loading oauth token (run `timeloom sync login` first): %w", err)
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("building calendar service: %w", err)
	}
	return &Client{
		srv: srv,
		// The Calendar API allows far more, but sync is bursty and a
		// small steady limit keeps us clear of per-user quotas.
		limiter: rate.NewLimiter(rate.Limit(5), 10),
	}, nil
}

// Events lists the events overlapping [start, end) on the calendar,
// following pagination. All-day and zero-length events are skipped.
func (c *Client) Events(ctx context.Context, calendarID string, start, end time.Time) ([]Event, error) {
	var out []Event
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := c.srv.Events.List(calendarID).
			TimeMin(start.Format(time.RFC3339)).
			TimeMax(end.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		page, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing calendar events: %w", err)
		}

		for _, item := range page.Items {
			ev, ok := convertEvent(item)
			if !ok {
				continue
			}
			out = append(out, ev)
		}
		if page.NextPageToken == "" {
			return out, nil
		}
		pageToken = page.NextPageToken
	}
}

// convertEvent maps an API event onto the neutral shape. Events without
// concrete start and end times (all-day markers, cancellations) do not
// block availability and are dropped.
func convertEvent(item *calendar.Event) (Event, bool) {
	if item.Status == "cancelled" || item.Start == nil || item.End == nil {
		return Event{}, false
	}
	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return Event{}, false
	}
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return Event{}, false
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return Event{}, false
	}
	if !start.Before(end) {
		return Event{}, false
	}
	return Event{ID: item.Id, Title: item.Summary, Start: start, End: end}, true
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("decoding token file %s: %w", path, err)
	}
	return tok, nil
}

// SaveToken writes a token to disk with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("writing token file %s: %w", path, err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
