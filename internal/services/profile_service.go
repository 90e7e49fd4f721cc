package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yoockh/jobportal/internal/models"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

type UpdateProfileInput struct {
	Name      *string
	Email     *string
	JobSeeker *models.JobSeekerUpdate
	Recruiter *models.RecruiterUpdate
}

type ProfileService interface {
	// Get returns the user and the profile matching its role. Admins have
	// no profile and get a nil Profile.
	Get(ctx context.Context, userID string) (*models.User, models.Profile, error)
	Update(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, models.Profile, error)
	// Create attaches a fresh role profile to a newly created user.
	Create(ctx context.Context, u *models.User, companyName string) (models.Profile, error)
	Load(ctx context.Context, u *models.User) (models.Profile, error)
}

type profileService struct {
	users      mongorepo.UserRepository
	seekers    mongorepo.JobSeekerRepository
	recruiters mongorepo.RecruiterRepository
	writer     *SeekerWriter
	clean      *utils.Sanitizer
}

func NewProfileService(users mongorepo.UserRepository, seekers mongorepo.JobSeekerRepository, recruiters mongorepo.RecruiterRepository, writer *SeekerWriter, clean *utils.Sanitizer) ProfileService {
	return &profileService{users: users, seekers: seekers, recruiters: recruiters, writer: writer, clean: clean}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.User, models.Profile, error) {
	const op = "ProfileService.Get"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return nil, nil, userLookupError(op, err)
	}
	p, err := s.Load(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

func (s *profileService) Load(ctx context.Context, u *models.User) (models.Profile, error) {
	const op = "ProfileService.Load"

	var (
		p   models.Profile
		err error
	)
	switch u.Role {
	case models.RoleJobSeeker:
		p, err = s.seekers.GetByUserID(ctx, u.ID)
	case models.RoleRecruiter:
		p, err = s.recruiters.GetByUserID(ctx, u.ID)
	default:
		return nil, nil
	}
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	return p, nil
}

func (s *profileService) Create(ctx context.Context, u *models.User, companyName string) (models.Profile, error) {
	const op = "ProfileService.Create"

	var (
		p   models.Profile
		err error
	)
	switch u.Role {
	case models.RoleJobSeeker:
		jp := &models.JobSeekerProfile{UserID: u.ID}
		err = s.seekers.Create(ctx, jp)
		p = jp
	case models.RoleRecruiter:
		rp := &models.RecruiterProfile{UserID: u.ID, CompanyName: s.clean.String(companyName)}
		err = s.recruiters.Create(ctx, rp)
		p = rp
	default:
		return nil, nil
	}
	if errors.Is(err, utils.ErrDuplicate) {
		return nil, utils.E(utils.CodeConflict, op, "profile already exists", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create profile", err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, models.Profile, error) {
	const op = "ProfileService.Update"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return nil, nil, userLookupError(op, err)
	}

	if set := s.userFields(in.Name, in.Email); len(set) > 0 {
		if u, err = s.users.Update(ctx, oid, set, nil); err != nil {
			return nil, nil, userWriteError(op, err)
		}
	}

	var p models.Profile
	switch {
	case u.Role == models.RoleJobSeeker && in.JobSeeker != nil:
		p, err = s.writer.Apply(ctx, oid, in.JobSeeker, nil)
	case u.Role == models.RoleRecruiter && in.Recruiter != nil:
		s.clean.StringPtr(in.Recruiter.CompanyName)
		s.clean.StringPtr(in.Recruiter.CompanyWebsite)
		p, err = s.updateRecruiter(ctx, op, u, in.Recruiter)
	default:
		p, err = s.Load(ctx, u)
	}
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

func (s *profileService) updateRecruiter(ctx context.Context, op string, u *models.User, in *models.RecruiterUpdate) (models.Profile, error) {
	set := in.SetFields()
	if len(set) == 0 {
		return s.Load(ctx, u)
	}
	p, err := s.recruiters.Update(ctx, u.ID, set)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return p, nil
}

func (s *profileService) userFields(name, email *string) bson.M {
	set := bson.M{}
	if name != nil {
		if n := s.clean.String(*name); n != "" {
			set["name"] = n
		}
	}
	if email != nil {
		if e := normalizeEmail(*email); e != "" {
			set["email"] = e
		}
	}
	return set
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func userLookupError(op string, err error) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, "user not found", err)
	}
	return utils.E(utils.CodeInternal, op, "failed to load user", err)
}

func userWriteError(op string, err error) error {
	switch {
	case errors.Is(err, utils.ErrDuplicate):
		return utils.E(utils.CodeConflict, op, "email already in use", err)
	case errors.Is(err, utils.ErrNotFound):
		return utils.E(utils.CodeNotFound, op, "user not found", err)
	default:
		return utils.E(utils.CodeInternal, op, "failed to update user", err)
	}
}
