package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VectorScheduler queues a vector document rebuild for a user. It never
// fails the caller; scheduling problems are logged by the implementation.
type VectorScheduler interface {
	Schedule(ctx context.Context, userID string)
}

// SeekerWriter is the single write path for job seeker profiles:
// sanitize, geocode, persist, then schedule denormalization.
type SeekerWriter struct {
	seekers  mongorepo.JobSeekerRepository
	enricher *LocationEnricher
	vectors  VectorScheduler
	clean    *utils.Sanitizer
	log      logrus.FieldLogger
}

func NewSeekerWriter(seekers mongorepo.JobSeekerRepository, enricher *LocationEnricher, vectors VectorScheduler, clean *utils.Sanitizer, log logrus.FieldLogger) *SeekerWriter {
	return &SeekerWriter{seekers: seekers, enricher: enricher, vectors: vectors, clean: clean, log: log}
}

// Apply merges u (and any extra fields) into the user's profile. Fields
// absent from u keep their stored values.
func (w *SeekerWriter) Apply(ctx context.Context, userID primitive.ObjectID, u *models.JobSeekerUpdate, extra bson.M) (*models.JobSeekerProfile, error) {
	const op = "SeekerWriter.Apply"

	if u == nil {
		u = &models.JobSeekerUpdate{}
	}
	sanitizeSeekerUpdate(w.clean, u)

	current, err := w.seekers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}

	set := u.SetFields()
	for k, v := range extra {
		set[k] = v
	}
	coords, unset := w.enricher.Enrich(ctx, current, u)
	for k, v := range coords {
		set[k] = v
	}

	if len(set) == 0 && len(unset) == 0 {
		return current, nil
	}

	updated, err := w.seekers.Update(ctx, userID, set, unset)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}

	w.vectors.Schedule(ctx, userID.Hex())
	return updated, nil
}

func sanitizeSeekerUpdate(s *utils.Sanitizer, u *models.JobSeekerUpdate) {
	for _, p := range []*string{
		u.Github, u.Linkedin, u.Portfolio, u.PersonalWebsite, u.Twitter,
		u.Bio, u.Headline, u.CurrentJobTitle, u.CurrentCompany, u.NoticePeriod,
		u.DesiredJobTitle, u.SeniorityLevel, u.JobSearchStatus,
	} {
		s.StringPtr(p)
	}
	if l := u.Location; l != nil {
		for _, p := range []*string{l.Street, l.City, l.State, l.Country, l.ZipCode} {
			s.StringPtr(p)
		}
	}
	for _, list := range []*[]string{
		u.Skills, u.TechStack, u.DesiredEmploymentTypes, u.DesiredIndustries, u.PreferredLocations,
	} {
		if list != nil {
			*list = s.Strings(*list)
		}
	}
	if se := u.SalaryExpectation; se != nil {
		se.Currency = s.String(se.Currency)
	}
	if u.WorkExperience != nil {
		for i := range *u.WorkExperience {
			we := &(*u.WorkExperience)[i]
			we.JobTitle = s.String(we.JobTitle)
			we.Company = s.String(we.Company)
			we.Location = s.String(we.Location)
			we.Description = s.String(we.Description)
			we.Achievements = s.Strings(we.Achievements)
			we.TechnologiesUsed = s.Strings(we.TechnologiesUsed)
		}
	}
	if u.Education != nil {
		for i := range *u.Education {
			ed := &(*u.Education)[i]
			ed.Institution = s.String(ed.Institution)
			ed.Degree = s.String(ed.Degree)
			ed.FieldOfStudy = s.String(ed.FieldOfStudy)
			ed.Grade = s.String(ed.Grade)
			ed.Honors = s.String(ed.Honors)
		}
	}
	if u.Certifications != nil {
		for i := range *u.Certifications {
			c := &(*u.Certifications)[i]
			c.Name = s.String(c.Name)
			c.IssuingOrganization = s.String(c.IssuingOrganization)
			c.CredentialID = s.String(c.CredentialID)
			c.CredentialURL = s.String(c.CredentialURL)
		}
	}
	if u.Languages != nil {
		for i := range *u.Languages {
			l := &(*u.Languages)[i]
			l.Language = s.String(l.Language)
		}
	}
	if u.Projects != nil {
		for i := range *u.Projects {
			p := &(*u.Projects)[i]
			p.Name = s.String(p.Name)
			p.Description = s.String(p.Description)
			p.Link = s.String(p.Link)
			p.GithubRepo = s.String(p.GithubRepo)
			p.Technologies = s.Strings(p.Technologies)
		}
	}
}
