// Package lei resolves Legal Entity Identifiers to legal names through the
// GLEIF lookup API.
//
// The API answers GET <url>?lei=<LEI> with a JSON array of records:
//
//	[
//	  {
//	    "LEI": {"$": "4469000001AVO26P9X86"},
//	    "Entity": {
//	      "LegalName": {"@xml:lang": "es", "$": "ASOCIACION MEXICANA ..."}
//	    }
//	  }
//	]
//
// Exactly one record with a legal name is a successful resolution; every
// other outcome is a *lei.ResolutionError. Any status other than 200 is a
// server error. Transport failures are unreachable, including a connection
// that breaks while the body of a 200 response is being read.
package lei

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domain "bondregistry/internal/domain/entity/lei"

	"github.com/sirupsen/logrus"
)

const (
	DefaultURLTemplate = "https://leilookup.gleif.org/api/v2/leirecords?lei={lei}"
	leiPlaceholder     = "{lei}"
)

// Config configures a Client. Zero values fall back to the defaults.
type Config struct {
	URLTemplate string
	HTTPClient  *http.Client
	Messages    *domain.Messages
	Logger      logrus.FieldLogger
}

// Client performs one synchronous lookup per Resolve call. It never retries
// and never caches.
type Client struct {
	urlTemplate string
	httpClient  *http.Client
	messages    domain.Messages
	logger      logrus.FieldLogger
}

func NewClient(cfg Config) (*Client, error) {
	tmpl := cfg.URLTemplate
	if tmpl == "" {
		tmpl = DefaultURLTemplate
	}
	if !strings.Contains(tmpl, leiPlaceholder) {
		return nil, fmt.Errorf("lei lookup url template %q has no %s placeholder", tmpl, leiPlaceholder)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	messages := domain.DefaultMessages()
	if cfg.Messages != nil {
		messages = *cfg.Messages
	}
	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Client{
		urlTemplate: tmpl,
		httpClient:  httpClient,
		messages:    messages,
		logger:      logger.WithField("component", "lei_client"),
	}, nil
}

// URL renders the lookup URL for lei.
func (c *Client) URL(lei string) string {
	return strings.ReplaceAll(c.urlTemplate, leiPlaceholder, url.QueryEscape(lei))
}

// Resolve returns the legal name registered for lei.
func (c *Client) Resolve(ctx context.Context, lei string) (string, error) {
	started := time.Now()
	name, err := c.resolve(ctx, lei)
	observeLookup(err, time.Since(started))
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"lei":  lei,
			"kind": kindLabel(err),
		}).WithError(err).Warn("lei lookup failed")
		return "", err
	}
	return name, nil
}

func (c *Client) resolve(ctx context.Context, lei string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(lei), nil)
	if err != nil {
		return "", c.fail(domain.KindUnreachable, lei, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.fail(domain.KindUnreachable, lei, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.fail(domain.KindServerError, lei, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.fail(domain.KindUnreachable, lei, 0, fmt.Errorf("read body: %w", err))
	}
	return c.parse(lei, body)
}

type leiRecord struct {
	Entity *struct {
		LegalName *struct {
			Value *string `json:"$"`
		} `json:"LegalName"`
	} `json:"Entity"`
}

func (c *Client) parse(lei string, body []byte) (string, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return "", c.fail(domain.KindInvalidResponseFormat, lei, 0, err)
	}
	// null decodes into a nil slice without error.
	if records == nil {
		return "", c.fail(domain.KindInvalidResponseFormat, lei, 0, nil)
	}

	switch len(records) {
	case 0:
		return "", c.fail(domain.KindNoMatch, lei, 0, nil)
	case 1:
	default:
		return "", c.fail(domain.KindMultipleMatches, lei, 0, nil)
	}

	var record leiRecord
	if err := json.Unmarshal(records[0], &record); err != nil {
		return "", c.fail(domain.KindNoLegalName, lei, 0, err)
	}
	if record.Entity == nil || record.Entity.LegalName == nil || record.Entity.LegalName.Value == nil {
		return "", c.fail(domain.KindNoLegalName, lei, 0, nil)
	}
	return *record.Entity.LegalName.Value, nil
}

func (c *Client) fail(kind domain.Kind, lei string, statusCode int, cause error) *domain.ResolutionError {
	return &domain.ResolutionError{
		Kind:       kind,
		LEI:        lei,
		StatusCode: statusCode,
		Message:    c.messages.Text(kind, statusCode),
		Err:        cause,
	}
}
