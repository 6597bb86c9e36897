package nbrb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nbrb-rates/internal/entity"
	"nbrb-rates/internal/metrics"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/htmlindex"
)

const (
	DefaultBaseURL = "https://www.nbrb.by/api/exrates"

	endpointCurrencies = "currencies"
	endpointRates      = "rates"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
	metrics    *metrics.Metrics
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger, m *metrics.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				ResponseHeaderTimeout: timeout,
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		metrics: m,
	}
}

func (c *Client) FetchCurrencies(ctx context.Context) ([]Currency, error) {
	var currencies []Currency
	if err := c.get(ctx, endpointCurrencies, nil, &currencies); err != nil {
		return nil, err
	}
	c.logger.Infof("Fetched %d currencies from NBRB", len(currencies))
	return currencies, nil
}

// FetchRates returns the daily rates published for date, keyed by Cur_ID.
func (c *Client) FetchRates(ctx context.Context, date time.Time) ([]Rate, error) {
	params := url.Values{}
	params.Set("ondate", date.Format(entity.DateLayout))
	params.Set("periodicity", "0")
	params.Set("parammode", "0")

	var rates []Rate
	if err := c.get(ctx, endpointRates, params, &rates); err != nil {
		return nil, err
	}
	c.logger.WithField("date", date.Format(entity.DateLayout)).Infof("Fetched %d rates from NBRB", len(rates))
	return rates, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	c.logger.Infof("Fetching from URL: %s", u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		c.logger.Errorf("Failed to create request: %v", err)
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, 0, started)
		c.logger.Errorf("Failed to fetch by API: %v", err)
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveUpstream(endpoint, resp.StatusCode, started)
	c.logger.Debugf("Response status: %d", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		}).Warn("NBRB returned non-success status, treating as empty result")
		return nil
	}

	body, err := decodedBody(resp)
	if err != nil {
		c.logger.Errorf("Unsupported response charset: %v", err)
		return err
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		if err == io.EOF {
			c.logger.Warnf("Empty response body from NBRB %s", endpoint)
			return nil
		}
		c.logger.Errorf("Failed to parse NBRB %s response: %v", endpoint, err)
		return fmt.Errorf("parse %s response: %w", endpoint, err)
	}
	return nil
}

// decodedBody converts the body to UTF-8 when the server announces another charset.
func decodedBody(resp *http.Response) (io.Reader, error) {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return resp.Body, nil
	}
	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return resp.Body, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	return enc.NewDecoder().Reader(resp.Body), nil
}
