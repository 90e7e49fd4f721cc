package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProfileGet(t *testing.T) {
	seeker := &models.User{ID: primitive.NewObjectID(), Role: models.RoleJobSeeker}
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	seekers := newFakeSeekers(&models.JobSeekerProfile{UserID: seeker.ID, Headline: "hi"})
	svc := NewProfileService(newFakeUsers(seeker, admin), seekers, newFakeRecruiters(), newTestWriter(seekers, nil, &fakeScheduler{}), utils.NewSanitizer())

	_, p, err := svc.Get(context.Background(), seeker.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "hi", p.(*models.JobSeekerProfile).Headline)

	_, p, err = svc.Get(context.Background(), admin.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, p)

	_, _, err = svc.Get(context.Background(), "nope")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestProfileUpdate(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID(), Name: "Jane", Email: "jane@example.com", Role: models.RoleJobSeeker}
	seekers := newFakeSeekers(&models.JobSeekerProfile{UserID: u.ID})
	sched := &fakeScheduler{}
	g := sfGeocoder()
	svc := NewProfileService(newFakeUsers(u), seekers, newFakeRecruiters(), newTestWriter(seekers, g, sched), utils.NewSanitizer())

	got, p, err := svc.Update(context.Background(), u.ID.Hex(), UpdateProfileInput{
		Email: strPtr(" JANE.DOE@example.com "),
		JobSeeker: &models.JobSeekerUpdate{
			Headline: strPtr("Gopher"),
			Location: &models.LocationUpdate{ZipCode: strPtr("94103"), City: strPtr("San Francisco")},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", got.Email)
	jp := p.(*models.JobSeekerProfile)
	assert.Equal(t, "Gopher", jp.Headline)
	assert.Equal(t, "San Francisco", jp.Location.City)
	assert.InDelta(t, -122.41, *jp.Location.Longitude, 1e-9)
	assert.Equal(t, []string{u.ID.Hex()}, sched.scheduled)
}

func TestProfileUpdateRecruiter(t *testing.T) {
	u := &models.User{ID: primitive.NewObjectID(), Role: models.RoleRecruiter}
	recruiters := newFakeRecruiters()
	recruiters.profiles[u.ID] = &models.RecruiterProfile{UserID: u.ID, CompanyName: "Acme"}
	seekers := newFakeSeekers()
	svc := NewProfileService(newFakeUsers(u), seekers, recruiters, newTestWriter(seekers, nil, &fakeScheduler{}), utils.NewSanitizer())

	_, p, err := svc.Update(context.Background(), u.ID.Hex(), UpdateProfileInput{
		Recruiter: &models.RecruiterUpdate{CompanyWebsite: strPtr("https://acme.example")},
		JobSeeker: &models.JobSeekerUpdate{Headline: strPtr("ignored")},
	})

	require.NoError(t, err)
	rp := p.(*models.RecruiterProfile)
	assert.Equal(t, "Acme", rp.CompanyName)
	assert.Equal(t, "https://acme.example", rp.CompanyWebsite)
	assert.Zero(t, seekers.updates)
}
