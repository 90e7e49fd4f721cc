package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobportal/internal/auth"
	"github.com/yoockh/jobportal/internal/logger"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
)

type authFixture struct {
	users      *fakeUsers
	seekers    *fakeSeekers
	recruiters *fakeRecruiters
	tokens     *auth.Manager
	svc        AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tokens, err := auth.NewManager("test-secret", time.Hour)
	require.NoError(t, err)

	f := &authFixture{
		users:      newFakeUsers(),
		seekers:    newFakeSeekers(),
		recruiters: newFakeRecruiters(),
		tokens:     tokens,
	}
	clean := utils.NewSanitizer()
	profiles := NewProfileService(f.users, f.seekers, f.recruiters, newTestWriter(f.seekers, nil, &fakeScheduler{}), clean)
	f.svc = NewAuthService(f.users, profiles, tokens, clean, logger.Discard())
	return f
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name     string
		in       RegisterInput
		wantCode utils.Code
	}{
		{"job seeker", RegisterInput{Name: "Jane", Email: " Jane@Example.com ", Password: "secret123", Role: models.RoleJobSeeker}, ""},
		{"recruiter", RegisterInput{Name: "Rob", Email: "rob@example.com", Password: "secret123", Role: models.RoleRecruiter, CompanyName: "Acme"}, ""},
		{"recruiter without company", RegisterInput{Name: "Rob", Email: "rob@example.com", Password: "secret123", Role: models.RoleRecruiter}, utils.CodeInvalidArgument},
		{"admin", RegisterInput{Name: "Root", Email: "root@example.com", Password: "secret123", Role: models.RoleAdmin}, utils.CodeForbidden},
		{"unknown role", RegisterInput{Name: "X", Email: "x@example.com", Password: "secret123", Role: 9}, utils.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			res, err := f.svc.Register(context.Background(), tt.in)

			if tt.wantCode != "" {
				assert.True(t, utils.IsCode(err, tt.wantCode), "got %v", err)
				assert.Empty(t, f.users.users)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, res.Token)
			assert.Equal(t, tt.in.Role, res.User.Role)
			assert.True(t, res.User.IsActive)
			require.NotNil(t, res.Profile)
			assert.Equal(t, res.User.ID, res.Profile.OwnerID())

			claims, err := f.tokens.Parse(res.Token)
			require.NoError(t, err)
			assert.Equal(t, res.User.ID.Hex(), claims.Subject)
		})
	}
}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, RegisterInput{Name: "Jane", Email: " Jane@Example.com ", Password: "secret123", Role: models.RoleJobSeeker})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", res.User.Email)

	_, err = f.svc.Register(ctx, RegisterInput{Name: "Jane 2", Email: "jane@example.com", Password: "secret123", Role: models.RoleJobSeeker})
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestRegisterRollsBackUserOnProfileFailure(t *testing.T) {
	f := newAuthFixture(t)
	svc := NewAuthService(f.users, failingProfiles{}, f.tokens, utils.NewSanitizer(), logger.Discard())

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123", Role: models.RoleJobSeeker})

	assert.True(t, utils.IsCode(err, utils.CodeInternal))
	assert.Empty(t, f.users.users)
	assert.Len(t, f.users.deleted, 1)
}

type failingProfiles struct {
	ProfileService
}

func (failingProfiles) Create(context.Context, *models.User, string) (models.Profile, error) {
	return nil, utils.E(utils.CodeInternal, "fake.Create", "failed to create profile", nil)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123", Role: models.RoleJobSeeker})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, "JANE@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = f.svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	_, err = f.svc.Login(ctx, "nobody@example.com", "secret123")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	f.users.users[reg.User.ID].IsActive = false
	_, err = f.svc.Login(ctx, "jane@example.com", "secret123")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret123", Role: models.RoleJobSeeker})
	require.NoError(t, err)

	u, err := f.svc.Authenticate(ctx, reg.User.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, u.ID)

	_, err = f.svc.Authenticate(ctx, "garbage")
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))

	delete(f.users.users, reg.User.ID)
	_, err = f.svc.Authenticate(ctx, reg.User.ID.Hex())
	assert.True(t, utils.IsCode(err, utils.CodeUnauthorized))
}
