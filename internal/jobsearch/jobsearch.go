// Package jobsearch looks up apply links for role names through the SerpAPI
// search endpoint, scoped to one job-listing site.
package jobsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"resume-rag/internal/config"
	"resume-rag/internal/helper"
	"resume-rag/internal/models"

	"github.com/rs/zerolog/log"
)

var ErrMissingAPIKey = errors.New("search api key is required")

// organicResult is one entry of the API's main result listing. Both
// fields may be absent.
type organicResult struct {
	Title string `json:"title"`
	Link  string `json:"link"`
}

// searchResponse holds the fields read from a search reply. A missing
// organic_results field decodes to an empty listing. Error carries the
// API's message, which on a 200 reply only means nothing was found.
type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
	Error          string          `json:"error"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	engine     string
	site       string
	maxLinks   int
}

// NewClient builds a client from cfg. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg *config.SearchConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	maxLinks := cfg.MaxLinks
	if maxLinks <= 0 {
		maxLinks = 2
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		engine:     cfg.Engine,
		site:       cfg.Site,
		maxLinks:   maxLinks,
	}
}

// Find runs one search for role and returns at most maxLinks links.
// Entries without a link are skipped, so the links may come from later
// entries than the first maxLinks. A search without hits is not an error.
func (c *Client) Find(ctx context.Context, role string) ([]models.JobLink, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	u, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("q", c.query(role))
	q.Set("api_key", c.apiKey)
	q.Set("engine", c.engine)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search request failed: %d, %s", resp.StatusCode, helper.Truncate(string(body), 200))
	}

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if data.Error != "" && len(data.OrganicResults) == 0 {
		// The API answers a search without hits with 200 and an error string.
		log.Debug().Str("role", role).Str("message", data.Error).Msg("Search returned no results")
		return []models.JobLink{}, nil
	}

	links := make([]models.JobLink, 0, c.maxLinks)
	for _, r := range data.OrganicResults {
		if len(links) == c.maxLinks {
			break
		}
		if r.Link == "" {
			continue
		}
		links = append(links, models.JobLink{Title: r.Title, URL: r.Link})
	}
	return links, nil
}

// FindAll looks up every role in order. A failed lookup is recorded on its
// role and the loop moves on.
func (c *Client) FindAll(ctx context.Context, roles []string) []models.RoleJobs {
	out := make([]models.RoleJobs, 0, len(roles))
	for _, role := range roles {
		links, err := c.Find(ctx, role)
		if err != nil {
			log.Error().Err(err).Str("role", role).Msg("Failed to fetch jobs")
		} else {
			log.Debug().Str("role", role).Int("links", len(links)).Msg("Fetched jobs")
		}
		out = append(out, models.RoleJobs{Role: role, Links: links, Err: err})
	}
	return out
}

func (c *Client) query(role string) string {
	if c.site == "" {
		return role + " jobs"
	}
	return fmt.Sprintf(models.SearchQueryTemplate, role, c.site)
}

// redactKey hides the api key that url.Error embeds in its message.
func redactKey(err error, key string) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(key), "REDACTED")
	}
	return err
}
