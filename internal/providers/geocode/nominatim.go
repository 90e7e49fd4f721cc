package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yoockh/jobportal/internal/utils"
	"golang.org/x/time/rate"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

type NominatimOption func(*Nominatim)

func WithHTTPClient(c *http.Client) NominatimOption {
	return func(n *Nominatim) { n.http = c }
}

// WithRateLimit overrides the default of one request per second.
func WithRateLimit(l *rate.Limiter) NominatimOption {
	return func(n *Nominatim) { n.limiter = l }
}

func NewNominatim(baseURL, userAgent string, opts ...NominatimOption) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	n := &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      &http.Client{Timeout: 10 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (n *Nominatim) Lookup(ctx context.Context, postalCode string) (Coordinates, error) {
	const op = "Nominatim.Lookup"

	postalCode = strings.TrimSpace(postalCode)
	if postalCode == "" {
		return Coordinates{}, utils.E(utils.CodeInvalidArgument, op, "postal code is required", nil)
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return Coordinates{}, utils.E(utils.CodeUpstream, op, "geocoder throttled", err)
	}

	q := url.Values{}
	q.Set("postalcode", postalCode)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Coordinates{}, utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if n.userAgent != "" {
		req.Header.Set("User-Agent", n.userAgent)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return Coordinates{}, utils.E(utils.CodeUpstream, op, "geocoder request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Coordinates{}, utils.E(utils.CodeUpstream, op, "geocoder returned an error", fmt.Errorf("status %d", resp.StatusCode))
	}

	var places []nominatimPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&places); err != nil {
		return Coordinates{}, utils.E(utils.CodeUpstream, op, "invalid geocoder response", err)
	}
	if len(places) == 0 {
		return Coordinates{}, utils.E(utils.CodeNotFound, op, "no location found for postal code", utils.ErrNotFound)
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Coordinates{}, utils.E(utils.CodeUpstream, op, "invalid latitude", err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Coordinates{}, utils.E(utils.CodeUpstream, op, "invalid longitude", err)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
