package wormholescan

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/bridgescan/wormhole-ingester/entities"
	"github.com/pkg/errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	operationsPath = "/api/v1/operations"
	// windowLayout is ISO-8601 with millisecond precision and a literal Z suffix.
	windowLayout = "2006-01-02T15:04:05.000Z"
)

type operationsResponse struct {
	Operations []entities.Operation `json:"operations"`
}

type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

func NewClient(baseURL string, pageSize int, timeout time.Duration) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.Wrapf(err, "parsing base url [%s]", baseURL)
	}
	if pageSize <= 0 {
		return nil, errors.Errorf("invalid page size [%d]", pageSize)
	}

	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: timeout,
			},
		},
	}, nil
}

// GetOperations returns one page of operations for the window, newest first. An empty slice means
// there are no more pages for the window.
func (c *Client) GetOperations(ctx context.Context, window entities.DateWindow, page int) ([]entities.Operation, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	params.Set("sortOrder", "DESC")
	params.Set("from", window.Start.UTC().Format(windowLayout))
	params.Set("to", window.End.UTC().Format(windowLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+operationsPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating operations request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: calling operations endpoint: %w", entities.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: unexpected status [%d]: %s", entities.ErrTransport, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var response operationsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("%w: decoding operations response: %w", entities.ErrTransport, err)
	}

	return response.Operations, nil
}
