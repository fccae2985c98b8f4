// Package wiki implements the link provider against the MediaWiki Action API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"wikiracer/domain/core/valueobjects"
	pkgerrors "wikiracer/pkg/errors"
)

// Client queries a MediaWiki Action API endpoint for page links and
// backlinks. A transport, status, or decode failure surfaces as a
// ProviderFault error; a well-formed response for a page without links is a
// valid empty result, not a fault.
type Client struct {
	baseURL    string
	httpClient *http.Client
	separators string
	logger     *zap.Logger
}

// NewClient creates a client for the given API endpoint
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		separators: valueobjects.DefaultSeparators,
		logger:     logger,
	}
}

// apiError is the error member of an Action API response
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// linksResponse unpacks action=query&prop=links
type linksResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Pages map[string]struct {
			Title string `json:"title"`
			Links []struct {
				Title string `json:"title"`
			} `json:"links"`
		} `json:"pages"`
	} `json:"query"`
}

// backlinksResponse unpacks action=query&list=backlinks
type backlinksResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Backlinks []struct {
			Title string `json:"title"`
		} `json:"backlinks"`
	} `json:"query"`
}

// GetLinks returns the outbound links of a page in API order, truncated to
// limit. Link titles carrying a structural separator are excluded before
// truncation, mirroring how the corpus flags technical pages.
func (c *Client) GetLinks(ctx context.Context, title string, limit int) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"prop":    {"links"},
		"pllimit": {strconv.Itoa(limit)},
		"titles":  {title},
	}

	var response linksResponse
	if err := c.get(ctx, params, &response); err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, pkgerrors.NewProviderFaultError(
			fmt.Sprintf("link source rejected the query: %s", response.Error.Info), nil)
	}

	// A page without a links member (missing page or stub) is a valid
	// zero-link result.
	links := make([]string, 0, limit)
	for _, page := range response.Query.Pages {
		for _, link := range page.Links {
			if valueobjects.ContainsSeparator(link.Title, c.separators) {
				continue
			}
			links = append(links, link.Title)
			if len(links) == limit {
				return links, nil
			}
		}
	}

	return links, nil
}

// GetBacklinks returns titles of pages linking to the given page, truncated
// to limit
func (c *Client) GetBacklinks(ctx context.Context, title string, limit int) ([]string, error) {
	params := url.Values{
		"action":  {"query"},
		"format":  {"json"},
		"list":    {"backlinks"},
		"bltitle": {title},
		"bllimit": {strconv.Itoa(limit)},
	}

	var response backlinksResponse
	if err := c.get(ctx, params, &response); err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, pkgerrors.NewProviderFaultError(
			fmt.Sprintf("link source rejected the query: %s", response.Error.Info), nil)
	}

	backlinks := make([]string, 0, len(response.Query.Backlinks))
	for _, entry := range response.Query.Backlinks {
		backlinks = append(backlinks, entry.Title)
		if len(backlinks) == limit {
			break
		}
	}

	return backlinks, nil
}

// get performs one API round trip and decodes the JSON body into out
func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	requestURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return pkgerrors.NewProviderFaultError("failed to build link source request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.NewProviderFaultError("link source unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.NewProviderFaultError(
			fmt.Sprintf("link source returned status %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Debug("Failed to decode link source response",
			zap.String("url", c.baseURL),
			zap.Error(err),
		)
		return pkgerrors.NewProviderFaultError("link source returned an unparseable response", err)
	}

	return nil
}
