package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobportal/internal/logger"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/providers/embed"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seekerForVector(uid primitive.ObjectID) *models.JobSeekerProfile {
	yoe := 6.0
	return &models.JobSeekerProfile{
		UserID:            uid,
		Headline:          "Backend engineer",
		Bio:               "Builds APIs.",
		CurrentJobTitle:   "Senior Engineer",
		CurrentCompany:    "Acme",
		Skills:            []string{"Go", "PostgreSQL"},
		TechStack:         []string{"Kubernetes"},
		SeniorityLevel:    "Senior",
		YearsOfExperience: &yoe,
		Location:          &models.Location{City: "Berlin", Country: "Germany"},
		WorkExperience: []models.WorkExperience{{
			JobTitle:  "Engineer",
			Company:   "Initech",
			StartDate: monthDate(2019, time.January),
			EndDate:   monthDate(2021, time.June),
		}},
		Projects:       []models.Project{{Name: "ledger", Description: "double entry", Technologies: []string{"Go"}}},
		Certifications: []models.Certification{{Name: "CKA", IssuingOrganization: "CNCF"}},
		Education:      []models.Education{{Degree: "BSc", FieldOfStudy: "CS", Institution: "TU Berlin"}},
	}
}

func monthDate(y int, m time.Month) *models.Date {
	d := models.NewDate(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
	return &d
}

func TestBuildVectorDocument(t *testing.T) {
	uid := primitive.NewObjectID()

	doc, err := BuildVectorDocument(seekerForVector(uid))

	require.NoError(t, err)
	assert.Equal(t, uid.Hex(), doc.UserID)
	assert.Equal(t, "Berlin", doc.City)
	assert.Equal(t, "Senior", doc.SeniorityLevel)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, []string(doc.Skills))

	for _, want := range []string{
		"Headline: Backend engineer",
		"Bio: Builds APIs.",
		"Current role: Senior Engineer at Acme",
		"Skills: Go, PostgreSQL",
		"Tech stack: Kubernetes",
		"- Engineer at Initech (2019-01 to 2021-06)",
		"- ledger: double entry [Go]",
		"- CKA (CNCF)",
		"- BSc in CS, TU Berlin",
	} {
		assert.Contains(t, doc.Content, want)
	}

	var md models.VectorMetadata
	require.NoError(t, json.Unmarshal(doc.Metadata, &md))
	assert.Equal(t, uid.Hex(), md.UserID)
	assert.Equal(t, "Germany", md.Country)
}

func TestVectorSync(t *testing.T) {
	tests := []struct {
		name      string
		prior     string
		deleteErr error
		embedder  embed.Embedder
		wantEmbed bool
		keepsID   bool
	}{
		{name: "first sync"},
		{name: "replaces prior document", prior: "old-id"},
		// the stale row is overwritten in place instead
		{name: "prior delete failure is swallowed", prior: "old-id", deleteErr: errors.New("pg down"), keepsID: true},
		{name: "with embedding", embedder: fakeEmbedder{dims: embed.Dimensions}, wantEmbed: true},
		{name: "embedding failure stores text only", embedder: fakeEmbedder{err: errors.New("quota")}},
		{name: "wrong dimensions stores text only", embedder: fakeEmbedder{dims: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid := primitive.NewObjectID()
			p := seekerForVector(uid)
			p.VectorID = tt.prior
			seekers := newFakeSeekers(p)
			repo := newFakeVectorRepo()
			if tt.prior != "" {
				repo.docs[tt.prior] = &models.ProfileVector{ID: tt.prior, UserID: uid.Hex()}
			}

			svc := NewVectorService(seekers, repo, tt.embedder, logger.Discard())
			repo.deleteErr = tt.deleteErr

			require.NoError(t, svc.Sync(context.Background(), uid.Hex()))

			newID := seekers.profiles[uid].VectorID
			require.NotEmpty(t, newID)
			if tt.keepsID {
				assert.Equal(t, tt.prior, newID)
			} else {
				assert.NotEqual(t, tt.prior, newID)
			}
			require.Contains(t, repo.docs, newID)
			assert.Len(t, repo.docs, 1)
			assert.NotEmpty(t, repo.docs[newID].Content)
			assert.Equal(t, tt.wantEmbed, repo.docs[newID].Embedding != nil)

			if tt.prior != "" {
				assert.Equal(t, []string{tt.prior}, repo.deleted)
			} else {
				assert.Empty(t, repo.deleted)
			}
		})
	}
}

func TestVectorSyncConcurrentRebuilds(t *testing.T) {
	uid := primitive.NewObjectID()
	p := seekerForVector(uid)
	p.VectorID = "old"
	seekers := newFakeSeekers(p)
	repo := newFakeVectorRepo()
	repo.docs["old"] = &models.ProfileVector{ID: "old", UserID: uid.Hex()}

	// a second sync of the same user runs to completion while the first is
	// waiting on its embedding
	inner := NewVectorService(seekers, repo, fakeEmbedder{dims: embed.Dimensions}, logger.Discard())
	ran := false
	outer := NewVectorService(seekers, repo, fakeEmbedder{dims: embed.Dimensions, during: func() {
		if !ran {
			ran = true
			require.NoError(t, inner.Sync(context.Background(), uid.Hex()))
		}
	}}, logger.Discard())

	require.NoError(t, outer.Sync(context.Background(), uid.Hex()))
	require.True(t, ran)

	var mine []string
	for id, d := range repo.docs {
		if d.UserID == uid.Hex() {
			mine = append(mine, id)
		}
	}
	require.Len(t, mine, 1)
	assert.Equal(t, mine[0], seekers.profiles[uid].VectorID)
	assert.NotEqual(t, "old", mine[0])
}

func TestVectorSyncInsertFailure(t *testing.T) {
	uid := primitive.NewObjectID()
	seekers := newFakeSeekers(seekerForVector(uid))
	repo := newFakeVectorRepo()
	repo.insertErr = errors.New("pg down")

	err := NewVectorService(seekers, repo, nil, logger.Discard()).Sync(context.Background(), uid.Hex())

	assert.True(t, utils.IsCode(err, utils.CodeUpstream))
	assert.Empty(t, seekers.profiles[uid].VectorID)
}

func TestVectorSearch(t *testing.T) {
	repo := newFakeVectorRepo()
	repo.matches = []models.VectorMatch{{UserID: "u1", Distance: 0.1}}

	tests := []struct {
		name     string
		embedder embed.Embedder
		query    string
		limit    int
		wantCode utils.Code
	}{
		{"ok", fakeEmbedder{dims: embed.Dimensions}, "go engineer", 10, ""},
		{"empty query", fakeEmbedder{dims: embed.Dimensions}, "  ", 10, utils.CodeInvalidArgument},
		{"limit too high", fakeEmbedder{dims: embed.Dimensions}, "go", 51, utils.CodeInvalidArgument},
		{"not configured", nil, "go", 10, utils.CodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewVectorService(newFakeSeekers(), repo, tt.embedder, logger.Discard())

			got, err := svc.Search(context.Background(), tt.query, tt.limit)

			if tt.wantCode != "" {
				assert.True(t, utils.IsCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, repo.matches, got)
		})
	}
}
