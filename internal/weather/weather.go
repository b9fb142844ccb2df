// Package weather feeds the dashboard header widget. Results come from
// WeatherAPI keyed by the caller's IP and sit in Redis for five minutes;
// every failure mode degrades to "no weather", never to an error.
package weather

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const (
	apiURL   = "https://api.weatherapi.com/v1/current.json"
	cacheTTL = 5 * time.Minute
)

type Report struct {
	TempC   int    `json:"temp_c"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Client struct {
	apiKey string
	http   *http.Client
	cache  *redis.Client
	log    zerolog.Logger
}

// NewClient returns nil when no API key is configured; callers treat a nil
// client as "widget disabled". cache may be nil to skip caching.
func NewClient(apiKey string, cache *redis.Client, log zerolog.Logger) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 5 * time.Second},
		cache:  cache,
		log:    log,
	}
}

// IPForQuery maps local and private addresses to WeatherAPI's "auto:ip"
// marker so development traffic still resolves to something.
func IPForQuery(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "auto:ip"
	}
	if parsed.IsPrivate() || parsed.IsLoopback() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified() {
		return "auto:ip"
	}
	return ip
}

// Current returns the weather for the caller's IP, or nil on any failure.
func (c *Client) Current(ctx context.Context, ip string) *Report {
	q := IPForQuery(ip)
	key := "weather:" + q

	if c.cache != nil {
		if b, err := c.cache.Get(ctx, key).Bytes(); err == nil {
			var rep Report
			if json.Unmarshal(b, &rep) == nil {
				return &rep
			}
		}
	}

	rep := c.fetch(ctx, q)
	if rep == nil {
		return nil
	}

	if c.cache != nil {
		if b, err := json.Marshal(rep); err == nil {
			if err := c.cache.Set(ctx, key, b, cacheTTL).Err(); err != nil {
				c.log.Warn().Err(err).Msg("weather cache write failed")
			}
		}
	}

	return rep
}

func (c *Client) fetch(ctx context.Context, q string) *Report {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", q)
	params.Set("aqi", "no")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Msg("weather lookup failed")
		return nil
	}
	defer resp.Body.Close()

	var payload struct {
		Current struct {
			TempC float64 `json:"temp_c"`
		} `json:"current"`
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}
	if payload.Location.Name == "" {
		return nil
	}

	return &Report{
		TempC:   int(math.Round(payload.Current.TempC)),
		City:    payload.Location.Name,
		Country: payload.Location.Country,
	}
}
