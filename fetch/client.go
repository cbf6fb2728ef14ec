// Package fetch wraps a synchronous colly collector for plain JSON API calls.
package fetch

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const holderKey = "fetch_holder"

// Response is the raw outcome of a single request.
type Response struct {
	StatusCode int
	Body       []byte
}

type holder struct {
	status int
	body   []byte
}

// Client issues one request at a time over a shared colly collector.
// The collector runs in synchronous mode, so every call blocks until the
// response handlers have run.
type Client struct {
	collector *colly.Collector
}

// NewClient builds a client with a bounded request timeout and an optional
// fixed delay between requests.
func NewClient(timeout time.Duration, userAgent string, delay time.Duration) (*Client, error) {
	collector := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	collector.IgnoreRobotsTxt = true
	collector.SetRequestTimeout(timeout)

	if delay > 0 {
		if err := collector.Limit(&colly.LimitRule{
			DomainGlob: "*",
			Delay:      delay,
		}); err != nil {
			return nil, fmt.Errorf("configure rate limit: %w", err)
		}
	}

	client := &Client{collector: collector}

	collector.OnResponse(func(r *colly.Response) {
		if h, ok := r.Ctx.GetAny(holderKey).(*holder); ok {
			h.status = r.StatusCode
			h.body = append([]byte(nil), r.Body...)
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r == nil {
			return
		}
		if h, ok := r.Ctx.GetAny(holderKey).(*holder); ok {
			h.status = r.StatusCode
		}
	})

	return client, nil
}

// WithTransport swaps the HTTP transport, used by tests to inject a mock.
func (c *Client) WithTransport(transport http.RoundTripper) {
	c.collector.WithTransport(transport)
}

// Get issues a GET request with the given query parameters.
func (c *Client) Get(rawURL string, query url.Values) (*Response, error) {
	target := rawURL
	if len(query) > 0 {
		target = rawURL + "?" + query.Encode()
	}
	return c.do(http.MethodGet, target, "", nil)
}

// PostForm issues an application/x-www-form-urlencoded POST request.
func (c *Client) PostForm(rawURL string, form url.Values) (*Response, error) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(http.MethodPost, rawURL, form.Encode(), hdr)
}

func (c *Client) do(method, target, body string, hdr http.Header) (*Response, error) {
	h := &holder{}
	ctx := colly.NewContext()
	ctx.Put(holderKey, h)

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	var err error
	if reader != nil {
		err = c.collector.Request(method, target, reader, ctx, hdr)
	} else {
		err = c.collector.Request(method, target, nil, ctx, hdr)
	}
	if err != nil {
		return nil, Classify(err, h.status)
	}
	if h.status != http.StatusOK {
		return nil, Classify(fmt.Errorf("http status %d", h.status), h.status)
	}
	return &Response{StatusCode: h.status, Body: h.body}, nil
}
