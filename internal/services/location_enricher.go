package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/providers/geocode"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

var coordinateFields = []string{"location.latitude", "location.longitude"}

// LocationEnricher is the geocoding stage of a job seeker write. It runs
// before persistence and turns a postal code change into coordinate fields
// on the same nested location object.
type LocationEnricher struct {
	geocoder geocode.Geocoder
	log      logrus.FieldLogger
}

// NewLocationEnricher accepts a nil geocoder; postal codes then never
// resolve and coordinates are cleared.
func NewLocationEnricher(g geocode.Geocoder, log logrus.FieldLogger) *LocationEnricher {
	return &LocationEnricher{geocoder: g, log: log}
}

// Enrich returns the coordinate fields to $set and $unset for update u
// against the stored profile current (nil when none exists yet). Geocoding
// failures are logged and only ever clear coordinates.
func (e *LocationEnricher) Enrich(ctx context.Context, current *models.JobSeekerProfile, u *models.JobSeekerUpdate) (bson.M, []string) {
	zip, ok := u.ZipCode()
	if !ok {
		return nil, nil
	}

	log := e.log.WithField("zip_code", zip)
	if current != nil {
		log = log.WithField("user_id", current.UserID.Hex())
	}

	if zip == "" {
		return nil, coordinateFields
	}

	if current != nil && current.Location != nil &&
		current.Location.ZipCode == zip &&
		current.Location.Latitude != nil && current.Location.Longitude != nil {
		// unchanged and already resolved
		return nil, nil
	}

	if e.geocoder == nil {
		log.Warn("geocoder not configured; storing location without coordinates")
		return nil, coordinateFields
	}

	c, err := e.geocoder.Lookup(ctx, zip)
	if err != nil {
		if utils.IsCode(err, utils.CodeNotFound) {
			log.Warn("no geocode match for postal code")
		} else {
			log.WithError(err).Error("geocoding failed")
		}
		return nil, coordinateFields
	}

	return bson.M{
		"location.latitude":  c.Latitude,
		"location.longitude": c.Longitude,
	}, nil
}
