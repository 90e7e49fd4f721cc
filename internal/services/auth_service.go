package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/auth"
	"github.com/yoockh/jobportal/internal/models"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/utils"
)

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Phone       string
	Role        models.Role
	CompanyName string
}

type AuthResult struct {
	Token   string         `json:"token"`
	User    *models.User   `json:"user"`
	Profile models.Profile `json:"profile,omitempty"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Authenticate resolves a token subject to a live, active user.
	Authenticate(ctx context.Context, userID string) (*models.User, error)
}

type authService struct {
	users    mongorepo.UserRepository
	profiles ProfileService
	tokens   *auth.Manager
	clean    *utils.Sanitizer
	log      logrus.FieldLogger
}

func NewAuthService(users mongorepo.UserRepository, profiles ProfileService, tokens *auth.Manager, clean *utils.Sanitizer, log logrus.FieldLogger) AuthService {
	return &authService{users: users, profiles: profiles, tokens: tokens, clean: clean, log: log}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	const op = "AuthService.Register"

	switch in.Role {
	case models.RoleJobSeeker, models.RoleRecruiter:
	case models.RoleAdmin:
		return nil, utils.E(utils.CodeForbidden, op, "admin accounts cannot be self-registered", nil)
	default:
		return nil, utils.Invalid(op, "invalid role", map[string]string{"role": "must be 1 (job seeker) or 2 (recruiter)"})
	}
	if in.Role == models.RoleRecruiter && s.clean.String(in.CompanyName) == "" {
		return nil, utils.Invalid(op, "company name is required for recruiters", map[string]string{"companyName": "required"})
	}

	hash, err := utils.HashPassword(in.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return nil, utils.Invalid(op, "invalid password", map[string]string{"password": err.Error()})
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		Name:         s.clean.String(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         in.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "email already registered", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}

	p, err := s.profiles.Create(ctx, u, in.CompanyName)
	if err != nil {
		if derr := s.users.Delete(ctx, u.ID); derr != nil {
			s.log.WithError(derr).WithField("user_id", u.ID.Hex()).Error("failed to roll back user after profile error")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID.Hex(), u.Role.Name())
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &AuthResult{Token: token, User: u, Profile: p}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "AuthService.Login"

	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if u == nil || !utils.PasswordMatches(u.PasswordHash, password) {
		return nil, utils.E(utils.CodeUnauthorized, op, "incorrect email or password", nil)
	}
	if !u.IsActive {
		return nil, utils.E(utils.CodeUnauthorized, op, "account is deactivated", nil)
	}

	token, err := s.tokens.Issue(u.ID.Hex(), u.Role.Name())
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return &AuthResult{Token: token, User: u}, nil
}

func (s *authService) Authenticate(ctx context.Context, userID string) (*models.User, error) {
	const op = "AuthService.Authenticate"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, utils.E(utils.CodeUnauthorized, op, "the user belonging to this token no longer exists", err)
	}
	u, err := s.users.GetByID(ctx, oid)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeUnauthorized, op, "the user belonging to this token no longer exists", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if !u.IsActive {
		return nil, utils.E(utils.CodeUnauthorized, op, "account is deactivated", nil)
	}
	return u, nil
}
