// Package fontres resolves requested font families to loadable font
// binaries: system-font-to-webfont substitution, remote acquisition with a
// bounded timeout, in-memory caching, and best-effort disk caching.
//
// Nothing in this package fails hard. A family that cannot be acquired
// resolves as unavailable and the caller draws with the fallback face.
package fontres

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sarthakpriyadarshi/credrender/internal/logging"
)

const (
	// DefaultStyleSheetURL serves CSS with url(...) references to font
	// binaries for "family:weight" queries.
	DefaultStyleSheetURL = "https://fonts.googleapis.com/css2"

	// DefaultFetchTimeout bounds each network call. Acquisition is the one
	// unbounded external dependency of a render; it must never stall one
	// indefinitely.
	DefaultFetchTimeout = 5 * time.Second

	// minFontBytes rejects truncated or error-page responses.
	minFontBytes = 1024
)

// urlRefPattern matches url(...) references in a style-sheet body.
var urlRefPattern = regexp.MustCompile(`url\(([^)]+)\)`)

// Client fetches font binaries from a remote font-serving API.
type Client struct {
	styleSheetURL string
	httpClient    *http.Client
	timeout       time.Duration
	logger        *slog.Logger
}

// ClientOptions configures a Client. Zero values select defaults.
type ClientOptions struct {
	StyleSheetURL string
	HTTPClient    *http.Client
	Timeout       time.Duration
	Logger        *slog.Logger
}

// NewClient creates a font acquisition client.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		styleSheetURL: opts.StyleSheetURL,
		httpClient:    opts.HTTPClient,
		timeout:       opts.Timeout,
		logger:        logging.OrNop(opts.Logger),
	}
	if c.styleSheetURL == "" {
		c.styleSheetURL = DefaultStyleSheetURL
	}
	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}
	if c.timeout <= 0 {
		c.timeout = DefaultFetchTimeout
	}
	return c
}

// FetchFontBinary obtains raw font bytes for family+weight, or nil when
// acquisition fails for any reason. Failures are logged, never returned:
// font trouble degrades rendering, it does not abort it.
func (c *Client) FetchFontBinary(ctx context.Context, family string, weight int) []byte {
	sheet := c.fetchStyleSheet(ctx, family, weight)
	if sheet == "" {
		return nil
	}

	fontURL := selectFontURL(sheet)
	if fontURL == "" {
		c.logger.Warn("no usable font url in style sheet", "family", family, "weight", weight)
		return nil
	}

	data := c.fetchBytes(ctx, fontURL)
	if len(data) < minFontBytes {
		c.logger.Warn("font binary too small, discarding",
			"family", family, "weight", weight, "bytes", len(data))
		return nil
	}

	c.logger.Debug("font binary fetched", "family", family, "weight", weight, "bytes", len(data))
	return data
}

// fetchStyleSheet requests the CSS document describing family:weight.
func (c *Client) fetchStyleSheet(ctx context.Context, family string, weight int) string {
	q := url.Values{}
	q.Set("family", fmt.Sprintf("%s:wght@%d", family, weight))

	body := c.fetchBytes(ctx, c.styleSheetURL+"?"+q.Encode())
	return string(body)
}

// fetchBytes GETs a URL under the client timeout. Returns nil on any failure.
func (c *Client) fetchBytes(ctx context.Context, rawURL string) []byte {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		c.logger.Warn("bad font request url", "url", rawURL, "err", err)
		return nil
	}
	// A non-browser agent makes the style-sheet endpoint advertise TTF
	// instead of WOFF2.
	req.Header.Set("User-Agent", "credrender/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("font fetch failed", "url", rawURL, "err", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("font fetch non-200", "url", rawURL, "status", resp.StatusCode)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("font fetch read failed", "url", rawURL, "err", err)
		return nil
	}
	return data
}

// selectFontURL picks a directly usable binary URL from a style-sheet body.
// TTF wins outright. When only WOFF2 is advertised, a .woff2→.ttf URL
// rewrite is attempted; transcoding is never. Empty string means nothing
// usable was found.
func selectFontURL(sheet string) string {
	var first string
	for _, m := range urlRefPattern.FindAllStringSubmatch(sheet, -1) {
		u := strings.Trim(m[1], `'" `)
		if u == "" {
			continue
		}
		if strings.HasSuffix(u, ".ttf") {
			return u
		}
		if first == "" {
			first = u
		}
	}

	if strings.HasSuffix(first, ".woff2") {
		return strings.TrimSuffix(first, ".woff2") + ".ttf"
	}
	return ""
}
