package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

const recentUsers = 5

var adminSortFields = []string{"createdAt", "name", "email", "role"}

type UserPage struct {
	Results      int            `json:"results"`
	TotalResults int64          `json:"totalResults"`
	CurrentPage  int            `json:"currentPage"`
	TotalPages   int            `json:"totalPages"`
	Users        []*models.User `json:"users"`
}

type AdminUpdateInput struct {
	Name        *string
	Email       *string
	Role        *models.Role
	IsActive    *bool
	CompanyName *string
	JobSeeker   *models.JobSeekerUpdate
}

type AdminService interface {
	List(ctx context.Context, f models.UserFilter) (*UserPage, error)
	Stats(ctx context.Context) (*models.UserStats, error)
	Get(ctx context.Context, userID string) (*models.User, models.Profile, error)
	Update(ctx context.Context, userID string, in AdminUpdateInput) (*models.User, models.Profile, error)
	Delete(ctx context.Context, userID string) error
}

type adminService struct {
	users      mongorepo.UserRepository
	recruiters mongorepo.RecruiterRepository
	profiles   ProfileService
	accounts   AccountService
	writer     *SeekerWriter
	clean      *utils.Sanitizer
	log        logrus.FieldLogger
}

func NewAdminService(
	users mongorepo.UserRepository,
	recruiters mongorepo.RecruiterRepository,
	profiles ProfileService,
	accounts AccountService,
	writer *SeekerWriter,
	clean *utils.Sanitizer,
	log logrus.FieldLogger,
) AdminService {
	return &adminService{
		users:      users,
		recruiters: recruiters,
		profiles:   profiles,
		accounts:   accounts,
		writer:     writer,
		clean:      clean,
		log:        log,
	}
}

func (s *adminService) List(ctx context.Context, f models.UserFilter) (*UserPage, error) {
	const op = "AdminService.List"

	if err := checkPage(op, f.Page); err != nil {
		return nil, err
	}
	if f.Limit < 1 || f.Limit > MaxSearchLimit {
		return nil, utils.Invalid(op, "limit must be between 1 and 100", map[string]string{"limit": "1-100"})
	}
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	if !models.OneOf(f.SortBy, adminSortFields) {
		return nil, utils.Invalid(op, "invalid sortBy", map[string]string{"sortBy": strings.Join(adminSortFields, "|")})
	}
	if f.Role != 0 && !f.Role.Valid() {
		return nil, utils.Invalid(op, "invalid role", map[string]string{"role": "1|2|3"})
	}
	f.Search = strings.TrimSpace(f.Search)

	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list users", err)
	}
	return &UserPage{
		Results:      len(users),
		TotalResults: total,
		CurrentPage:  f.Page,
		TotalPages:   totalPages(total, f.Limit),
		Users:        users,
	}, nil
}

func (s *adminService) Stats(ctx context.Context) (*models.UserStats, error) {
	stats, err := s.users.Stats(ctx, recentUsers)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, "AdminService.Stats", "failed to compute user stats", err)
	}
	return stats, nil
}

func (s *adminService) Get(ctx context.Context, userID string) (*models.User, models.Profile, error) {
	return s.profiles.Get(ctx, userID)
}

func (s *adminService) Delete(ctx context.Context, userID string) error {
	return s.accounts.Delete(ctx, userID)
}

func (s *adminService) Update(ctx context.Context, userID string, in AdminUpdateInput) (*models.User, models.Profile, error) {
	const op = "AdminService.Update"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, nil, err
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return nil, nil, userLookupError(op, err)
	}
	prevRole := u.Role

	set := bson.M{}
	if in.Name != nil {
		if n := s.clean.String(*in.Name); n != "" {
			set["name"] = n
		}
	}
	if in.Email != nil {
		if e := normalizeEmail(*in.Email); e != "" {
			set["email"] = e
		}
	}
	if in.IsActive != nil {
		set["isActive"] = *in.IsActive
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return nil, nil, utils.Invalid(op, "invalid role", map[string]string{"role": "1|2|3"})
		}
		if *in.Role != u.Role {
			set["role"] = *in.Role
		}
	}

	if len(set) > 0 {
		if u, err = s.users.Update(ctx, oid, set, nil); err != nil {
			return nil, nil, userWriteError(op, err)
		}
	}

	if u.Role != prevRole {
		if err := s.switchProfile(ctx, op, u, prevRole, in.CompanyName); err != nil {
			return nil, nil, err
		}
	}

	var p models.Profile
	switch {
	case u.Role == models.RoleJobSeeker && in.JobSeeker != nil:
		p, err = s.writer.Apply(ctx, oid, in.JobSeeker, nil)
	case u.Role == models.RoleRecruiter && in.CompanyName != nil && u.Role == prevRole:
		p, err = s.updateCompany(ctx, op, u, *in.CompanyName)
	default:
		p, err = s.profiles.Load(ctx, u)
	}
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// switchProfile creates the profile for u's new role, then drops the one
// belonging to prev. A failed create reverts the role.
func (s *adminService) switchProfile(ctx context.Context, op string, u *models.User, prev models.Role, companyName *string) error {
	company := ""
	if companyName != nil {
		company = *companyName
	}

	if _, err := s.profiles.Create(ctx, u, company); err != nil && !utils.IsCode(err, utils.CodeConflict) {
		if _, rerr := s.users.Update(ctx, u.ID, bson.M{"role": prev}, nil); rerr != nil {
			s.log.WithError(rerr).WithField("user_id", u.ID.Hex()).Error("failed to revert role after profile error")
		}
		return err
	}

	if err := s.accounts.DropProfile(ctx, u, prev); err != nil {
		s.log.WithError(err).WithField("user_id", u.ID.Hex()).Warn("failed to drop previous role profile")
	}
	return nil
}

func (s *adminService) updateCompany(ctx context.Context, op string, u *models.User, name string) (models.Profile, error) {
	name = s.clean.String(name)
	if name == "" {
		return s.profiles.Load(ctx, u)
	}
	p, err := s.recruiters.Update(ctx, u.ID, bson.M{"companyName": name})
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update profile", err)
	}
	return p, nil
}
