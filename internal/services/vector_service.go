package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/providers/embed"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	pgrepo "github.com/yoockh/jobportal/internal/repositories/postgres"
	"github.com/yoockh/jobportal/internal/utils"
	"gorm.io/datatypes"
)

type VectorService interface {
	// Sync rebuilds the user's vector document: the previous one is deleted
	// (failures logged), the new one upserted by user and its id stored on
	// the profile.
	Sync(ctx context.Context, userID string) error
	// RemoveUser drops every vector document of the user.
	RemoveUser(ctx context.Context, userID string) error
	Search(ctx context.Context, query string, limit int) ([]models.VectorMatch, error)
}

type vectorService struct {
	seekers  mongorepo.JobSeekerRepository
	vectors  pgrepo.VectorRepository
	embedder embed.Embedder
	log      logrus.FieldLogger
}

// NewVectorService accepts a nil embedder; documents are then stored
// without embeddings and Search is unavailable.
func NewVectorService(seekers mongorepo.JobSeekerRepository, vectors pgrepo.VectorRepository, embedder embed.Embedder, log logrus.FieldLogger) VectorService {
	return &vectorService{seekers: seekers, vectors: vectors, embedder: embedder, log: log}
}

func (s *vectorService) Sync(ctx context.Context, userID string) error {
	const op = "VectorService.Sync"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return err
	}
	p, err := s.seekers.GetByUserID(ctx, oid)
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "profile not found", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}

	log := s.log.WithField("user_id", userID)

	doc, err := BuildVectorDocument(p)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to build vector document", err)
	}
	doc.ID = uuid.NewString()
	doc.CreatedAt = time.Now().UTC()

	if s.embedder != nil && doc.Content != "" {
		values, err := s.embedder.Embed(ctx, doc.Content, embed.TaskDocument)
		switch {
		case err != nil:
			log.WithError(err).Warn("embedding failed; storing document without embedding")
		case len(values) != embed.Dimensions:
			log.WithField("dims", len(values)).Warn("unexpected embedding size; storing document without embedding")
		default:
			v := pgvector.NewVector(values)
			doc.Embedding = &v
		}
	}

	if p.VectorID != "" {
		if err := s.vectors.Delete(ctx, p.VectorID); err != nil && !errors.Is(err, utils.ErrNotFound) {
			log.WithError(err).WithField("vector_id", p.VectorID).Warn("failed to delete previous vector document")
		}
	}

	// Concurrent syncs of one user converge on a single row; doc.ID is the
	// id of whichever row survives.
	if err := s.vectors.Upsert(ctx, doc); err != nil {
		return utils.E(utils.CodeUpstream, op, "failed to insert vector document", err)
	}
	if err := s.seekers.SetVectorID(ctx, oid, doc.ID); err != nil {
		if derr := s.vectors.Delete(ctx, doc.ID); derr != nil {
			log.WithError(derr).WithField("vector_id", doc.ID).Warn("failed to drop unreferenced vector document")
		}
		return utils.E(utils.CodeInternal, op, "failed to store vector id", err)
	}
	return nil
}

func (s *vectorService) RemoveUser(ctx context.Context, userID string) error {
	const op = "VectorService.RemoveUser"
	if err := s.vectors.DeleteByUserID(ctx, userID); err != nil {
		return utils.E(utils.CodeUpstream, op, "failed to delete vector documents", err)
	}
	return nil
}

func (s *vectorService) Search(ctx context.Context, query string, limit int) ([]models.VectorMatch, error) {
	const op = "VectorService.Search"

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, utils.Invalid(op, "query is required", map[string]string{"query": "required"})
	}
	if limit < 1 || limit > 50 {
		return nil, utils.Invalid(op, "limit must be between 1 and 50", map[string]string{"limit": "1-50"})
	}
	if s.embedder == nil {
		return nil, utils.E(utils.CodeUpstream, op, "semantic search is not configured", nil)
	}

	values, err := s.embedder.Embed(ctx, query, embed.TaskQuery)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to embed query", err)
	}
	matches, err := s.vectors.Nearest(ctx, values, limit)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "vector search failed", err)
	}
	return matches, nil
}

// BuildVectorDocument projects a profile into filterable columns, a metadata
// record and one text blob for embedding. ID and CreatedAt are left unset.
func BuildVectorDocument(p *models.JobSeekerProfile) (*models.ProfileVector, error) {
	md := models.VectorMetadata{
		UserID:                 p.UserID.Hex(),
		Headline:               p.Headline,
		CurrentJobTitle:        p.CurrentJobTitle,
		CurrentCompany:         p.CurrentCompany,
		DesiredJobTitle:        p.DesiredJobTitle,
		Skills:                 p.Skills,
		TechStack:              p.TechStack,
		YearsOfExperience:      p.YearsOfExperience,
		SeniorityLevel:         p.SeniorityLevel,
		OpenToRemote:           p.OpenToRemote,
		OpenToRelocation:       p.OpenToRelocation,
		PreferredLocations:     p.PreferredLocations,
		DesiredEmploymentTypes: p.DesiredEmploymentTypes,
		JobSearchStatus:        p.JobSearchStatus,
	}
	if l := p.Location; l != nil {
		md.City, md.State, md.Country = l.City, l.State, l.Country
		md.Latitude, md.Longitude = l.Latitude, l.Longitude
	}

	raw, err := json.Marshal(md)
	if err != nil {
		return nil, err
	}

	return &models.ProfileVector{
		UserID:            md.UserID,
		Content:           profileText(p),
		Metadata:          datatypes.JSON(raw),
		Skills:            pq.StringArray(append([]string{}, p.Skills...)),
		City:              md.City,
		State:             md.State,
		Country:           md.Country,
		SeniorityLevel:    p.SeniorityLevel,
		YearsOfExperience: p.YearsOfExperience,
	}, nil
}

func profileText(p *models.JobSeekerProfile) string {
	var b strings.Builder
	line := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, v)
		}
	}

	line("Headline", p.Headline)
	line("Bio", p.Bio)
	switch {
	case p.CurrentJobTitle != "" && p.CurrentCompany != "":
		line("Current role", p.CurrentJobTitle+" at "+p.CurrentCompany)
	default:
		line("Current role", p.CurrentJobTitle)
	}
	line("Seniority", p.SeniorityLevel)
	if p.YearsOfExperience != nil {
		line("Years of experience", fmt.Sprintf("%g", *p.YearsOfExperience))
	}
	line("Skills", strings.Join(p.Skills, ", "))
	line("Tech stack", strings.Join(p.TechStack, ", "))

	if len(p.WorkExperience) > 0 {
		b.WriteString("Experience:\n")
		for _, we := range p.WorkExperience {
			entry := strings.TrimSpace(we.JobTitle)
			if we.Company != "" {
				entry = strings.TrimSpace(entry + " at " + we.Company)
			}
			if span := dateSpan(we.StartDate, we.EndDate); span != "" {
				entry += " (" + span + ")"
			}
			if we.Description != "" {
				entry += ": " + we.Description
			}
			if len(we.TechnologiesUsed) > 0 {
				entry += " [" + strings.Join(we.TechnologiesUsed, ", ") + "]"
			}
			b.WriteString("- " + entry + "\n")
		}
	}
	if len(p.Projects) > 0 {
		b.WriteString("Projects:\n")
		for _, pr := range p.Projects {
			entry := pr.Name
			if pr.Description != "" {
				entry += ": " + pr.Description
			}
			if len(pr.Technologies) > 0 {
				entry += " [" + strings.Join(pr.Technologies, ", ") + "]"
			}
			b.WriteString("- " + strings.TrimSpace(entry) + "\n")
		}
	}
	if len(p.Certifications) > 0 {
		b.WriteString("Certifications:\n")
		for _, c := range p.Certifications {
			entry := c.Name
			if c.IssuingOrganization != "" {
				entry += " (" + c.IssuingOrganization + ")"
			}
			b.WriteString("- " + strings.TrimSpace(entry) + "\n")
		}
	}
	if len(p.Education) > 0 {
		b.WriteString("Education:\n")
		for _, e := range p.Education {
			entry := e.Degree
			if e.FieldOfStudy != "" {
				entry = strings.TrimSpace(entry + " in " + e.FieldOfStudy)
			}
			if e.Institution != "" {
				if entry != "" {
					entry += ", "
				}
				entry += e.Institution
			}
			b.WriteString("- " + entry + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func dateSpan(start, end *models.Date) string {
	from, to := "", ""
	if start != nil && !start.IsZero() {
		from = start.Format("2006-01")
	}
	if end != nil && !end.IsZero() {
		to = end.Format("2006-01")
	}
	switch {
	case from != "" && to != "":
		return from + " to " + to
	case from != "":
		return from + " to present"
	default:
		return to
	}
}
