package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"clubhouse/config"
	"clubhouse/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// FeedClient talks to the golf results feed. All requests go through a
// shared circuit breaker so a dead feed trips fast instead of stalling
// every polling job, and through a ticker that keeps us under the feed's
// request ceiling.
type FeedClient struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *time.Ticker
	mu          sync.Mutex
}

func NewFeedClient() *FeedClient {
	env := config.Env()
	settings := gobreaker.Settings{
		Name:    "results-feed",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Feed circuit breaker changed state")
		},
	}
	return &FeedClient{
		client: &http.Client{
			Timeout: time.Duration(env.FeedRequestTimeout) * time.Second,
		},
		baseURL:     env.FeedBaseURL,
		apiKey:      env.FeedAPIKey,
		breaker:     gobreaker.NewCircuitBreaker(settings),
		rateLimiter: time.NewTicker(time.Second),
	}
}

// GetSchedule fetches the season schedule for the given year.
func (c *FeedClient) GetSchedule(year int) (*ScheduleResponse, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(year))
	response := &ScheduleResponse{}
	if err := c.get("get-schedule", query, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetField fetches the entry list for one tournament.
func (c *FeedClient) GetField(eventId string) (*FieldResponse, error) {
	query := url.Values{}
	query.Set("event_id", eventId)
	response := &FieldResponse{}
	if err := c.get("field-updates", query, response); err != nil {
		return nil, err
	}
	return response, nil
}

// GetInPlay fetches the live leaderboard of the currently running
// tournament. The feed only serves one event at a time; the caller matches
// the returned event id against its own tournaments.
func (c *FeedClient) GetInPlay() (*InPlayResponse, error) {
	response := &InPlayResponse{}
	if err := c.get("preds/in-play", url.Values{}, response); err != nil {
		return nil, err
	}
	return response, nil
}

func (c *FeedClient) get(endpoint string, query url.Values, target any) error {
	timer := prometheus.NewTimer(metrics.FeedRequestDuration.WithLabelValues(endpoint))
	defer timer.ObserveDuration()
	metrics.FeedRequestCounter.WithLabelValues(endpoint).Inc()

	c.mu.Lock()
	<-c.rateLimiter.C
	c.mu.Unlock()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		query.Set("tour", "pga")
		query.Set("file_format", "json")
		query.Set("key", c.apiKey)
		requestUrl := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

		req, err := http.NewRequest("GET", requestUrl, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.FeedResponseCounter.WithLabelValues("network_error").Inc()
			return nil, err
		}
		defer resp.Body.Close()
		metrics.FeedResponseCounter.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		switch resp.StatusCode {
		case http.StatusOK:
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("feed rejected the api key")
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("feed rate limit exceeded")
		default:
			return nil, fmt.Errorf("feed request to %s failed with status %d", endpoint, resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return nil, fmt.Errorf("failed to decode feed response: %v", err)
		}
		return nil, nil
	})
	return err
}
