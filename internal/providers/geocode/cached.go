package geocode

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/cache"
)

const DefaultCacheTTL = 7 * 24 * time.Hour

// CachedGeocoder remembers successful lookups. Misses and errors are never
// cached, and a failing cache only costs a direct lookup.
type CachedGeocoder struct {
	next  Geocoder
	cache cache.Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewCachedGeocoder(next Geocoder, c cache.Cache, ttl time.Duration, log logrus.FieldLogger) *CachedGeocoder {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedGeocoder{next: next, cache: c, ttl: ttl, log: log}
}

func cacheKey(postalCode string) string {
	return "geocode:" + strings.ToUpper(strings.TrimSpace(postalCode))
}

func (g *CachedGeocoder) Lookup(ctx context.Context, postalCode string) (Coordinates, error) {
	key := cacheKey(postalCode)

	var c Coordinates
	hit, err := g.cache.GetJSON(ctx, key, &c)
	if err != nil {
		g.log.WithError(err).WithField("zip_code", postalCode).Warn("geocode cache read failed")
	}
	if hit {
		return c, nil
	}

	c, err = g.next.Lookup(ctx, postalCode)
	if err != nil {
		return Coordinates{}, err
	}

	if err := g.cache.SetJSON(ctx, key, c, g.ttl); err != nil {
		g.log.WithError(err).WithField("zip_code", postalCode).Warn("geocode cache write failed")
	}
	return c, nil
}
