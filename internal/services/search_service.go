package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
	// MaxSearchPage bounds the offset handed to the store at
	// MaxSearchPage*MaxSearchLimit documents.
	MaxSearchPage = 10000
)

// SemanticHit is a vector match joined with its owner's summary.
type SemanticHit struct {
	models.VectorMatch
	User *models.UserSummary `json:"user,omitempty"`
}

type SearchService interface {
	Seekers(ctx context.Context, q models.SeekerQuery) (*models.SeekerPage, error)
	// Seeker returns one job seeker with their profile.
	Seeker(ctx context.Context, userID string) (*models.User, *models.JobSeekerProfile, error)
	Semantic(ctx context.Context, query string, limit int) ([]*SemanticHit, error)
}

type searchService struct {
	users   mongorepo.UserRepository
	seekers mongorepo.JobSeekerRepository
	vectors VectorService
	log     logrus.FieldLogger
}

func NewSearchService(users mongorepo.UserRepository, seekers mongorepo.JobSeekerRepository, vectors VectorService, log logrus.FieldLogger) SearchService {
	return &searchService{users: users, seekers: seekers, vectors: vectors, log: log}
}

func (s *searchService) Seekers(ctx context.Context, q models.SeekerQuery) (*models.SeekerPage, error) {
	const op = "SearchService.Seekers"

	if err := checkPage(op, q.Page); err != nil {
		return nil, err
	}
	if q.Limit < 1 || q.Limit > MaxSearchLimit {
		return nil, utils.Invalid(op, "limit must be between 1 and 100", map[string]string{"limit": "1-100"})
	}
	q.Keywords = strings.TrimSpace(q.Keywords)
	q.City = strings.TrimSpace(q.City)
	q.State = strings.TrimSpace(q.State)
	q.Country = strings.TrimSpace(q.Country)

	profiles, total, err := s.seekers.Search(ctx, q)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "seeker search failed", err)
	}

	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load users", err)
	}

	out := make([]*models.SeekerResult, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, &models.SeekerResult{JobSeekerProfile: p, User: summaries[p.UserID]})
	}

	return &models.SeekerPage{
		Results:      len(out),
		TotalResults: total,
		CurrentPage:  q.Page,
		TotalPages:   totalPages(total, q.Limit),
		Seekers:      out,
	}, nil
}

func (s *searchService) Seeker(ctx context.Context, userID string) (*models.User, *models.JobSeekerProfile, error) {
	const op = "SearchService.Seeker"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return nil, nil, userLookupError(op, err)
	}
	if u.Role != models.RoleJobSeeker {
		return nil, nil, utils.E(utils.CodeNotFound, op, "job seeker not found", nil)
	}
	p, err := s.seekers.GetByUserID(ctx, oid)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
	}
	if err != nil {
		return nil, nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	return u, p, nil
}

func (s *searchService) Semantic(ctx context.Context, query string, limit int) ([]*SemanticHit, error) {
	const op = "SearchService.Semantic"

	matches, err := s.vectors.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(matches))
	for _, m := range matches {
		if oid, err := primitive.ObjectIDFromHex(m.UserID); err == nil {
			ids = append(ids, oid)
		}
	}
	summaries, err := s.users.Summaries(ctx, ids)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load users", err)
	}

	out := make([]*SemanticHit, 0, len(matches))
	for _, m := range matches {
		oid, _ := primitive.ObjectIDFromHex(m.UserID)
		sum, ok := summaries[oid]
		if !ok {
			// stale document of a deleted account
			s.log.WithField("user_id", m.UserID).Debug("skipping vector match without user")
			continue
		}
		out = append(out, &SemanticHit{VectorMatch: m, User: sum})
	}
	return out, nil
}

func checkPage(op string, page int) error {
	if page < 1 {
		return utils.Invalid(op, "page must be a positive integer", map[string]string{"page": "min=1"})
	}
	if page > MaxSearchPage {
		return utils.Invalid(op, "page must not exceed 10000", map[string]string{"page": "max=10000"})
	}
	return nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
