package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"datenight/internal/domain/event"
	"datenight/internal/pkg/config"
	"datenight/internal/pkg/errs"
	"datenight/internal/usecase/shared"

	"github.com/cenkalti/backoff/v4"
)

var (
	ErrUnauthorized = errs.New("registry rejected credentials")
	ErrEventUnknown = errs.New("registry does not know this event")
)

// Client talks to the video-conferencing registry's membership API.
// Calls are retried with exponential backoff on transport errors and
// 5xx responses; they always run outside ledger transactions.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxElapsed func() backoff.BackOff
}

func NewClient(cfg config.RegistryConfig) shared.Registry {
	maxElapsed := cfg.MaxElapsed
	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.APIToken,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxElapsed: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = maxElapsed
			return b
		},
	}
}

type enrollRequest struct {
	Email string `json:"email"`
}

type memberList struct {
	Members []struct {
		Email string `json:"email"`
	} `json:"members"`
}

// Enroll adds the email to the event's membership. The registry answers
// 409 for an already-enrolled member; that counts as success.
func (c *Client) Enroll(ctx context.Context, externalEventID event.ExternalID, email string) error {
	body, err := json.Marshal(enrollRequest{Email: email})
	if err != nil {
		return errs.Wrap(err, "failed to marshal enroll request")
	}

	endpoint := c.memberURL(externalEventID)

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer drainAndClose(resp.Body)

		switch {
		case resp.StatusCode == http.StatusConflict:
			// Already enrolled; idempotent no-op
			return nil
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(ErrUnauthorized)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrEventUnknown)
		case resp.StatusCode >= 500:
			return fmt.Errorf("registry enroll returned %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("registry enroll returned %d", resp.StatusCode))
		default:
			return nil
		}
	}

	return backoff.Retry(op, backoff.WithContext(c.maxElapsed(), ctx))
}

func (c *Client) ListMembers(ctx context.Context, externalEventID event.ExternalID) ([]string, error) {
	endpoint := c.memberURL(externalEventID)

	var emails []string
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer drainAndClose(resp.Body)

		switch {
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return backoff.Permanent(ErrUnauthorized)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrEventUnknown)
		case resp.StatusCode >= 500:
			return fmt.Errorf("registry list returned %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("registry list returned %d", resp.StatusCode))
		}

		var list memberList
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			return backoff.Permanent(errs.Wrap(err, "failed to decode member list"))
		}

		emails = emails[:0]
		for _, m := range list.Members {
			emails = append(emails, m.Email)
		}
		return nil
	}

	if err := backoff.Retry(op, backoff.WithContext(c.maxElapsed(), ctx)); err != nil {
		return nil, err
	}
	return emails, nil
}

func (c *Client) memberURL(externalEventID event.ExternalID) string {
	return c.baseURL + "/v2/events/" + url.PathEscape(externalEventID.String()) + "/members"
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
