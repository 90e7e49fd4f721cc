package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/storage"
	"github.com/yoockh/jobportal/internal/utils"
)

type AccountService interface {
	// Delete removes the user and their profile. Stored files and the
	// vector document are removed best effort.
	Delete(ctx context.Context, userID string) error
	// DropProfile removes u's profile for role along with the assets only
	// that profile references.
	DropProfile(ctx context.Context, u *models.User, role models.Role) error
}

type accountService struct {
	users      mongorepo.UserRepository
	seekers    mongorepo.JobSeekerRepository
	recruiters mongorepo.RecruiterRepository
	store      storage.ObjectStore
	vectors    VectorService
	log        logrus.FieldLogger
}

func NewAccountService(
	users mongorepo.UserRepository,
	seekers mongorepo.JobSeekerRepository,
	recruiters mongorepo.RecruiterRepository,
	store storage.ObjectStore,
	vectors VectorService,
	log logrus.FieldLogger,
) AccountService {
	return &accountService{users: users, seekers: seekers, recruiters: recruiters, store: store, vectors: vectors, log: log}
}

func (s *accountService) Delete(ctx context.Context, userID string) error {
	const op = "AccountService.Delete"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return err
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return userLookupError(op, err)
	}

	if err := s.DropProfile(ctx, u, u.Role); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, oid); err != nil && !errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeInternal, op, "failed to delete user", err)
	}

	log := s.log.WithField("user_id", userID)
	var keys []string
	if u.Avatar != nil {
		keys = append(keys, u.Avatar.Key)
	}
	s.dropObjects(ctx, log, storage.FolderAvatar, userID, keys)

	log.Info("account deleted")
	return nil
}

func (s *accountService) DropProfile(ctx context.Context, u *models.User, role models.Role) error {
	const op = "AccountService.DropProfile"

	userID := u.ID.Hex()
	log := s.log.WithField("user_id", userID)

	switch role {
	case models.RoleJobSeeker:
		var keys []string
		p, err := s.seekers.GetByUserID(ctx, u.ID)
		switch {
		case err == nil:
			keys = append(keys, p.ResumePath)
		case !errors.Is(err, utils.ErrNotFound):
			return utils.E(utils.CodeInternal, op, "failed to load profile", err)
		}
		if err := s.seekers.DeleteByUserID(ctx, u.ID); err != nil && !errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeInternal, op, "failed to delete profile", err)
		}
		s.dropObjects(ctx, log, storage.FolderResume, userID, keys)
		if err := s.vectors.RemoveUser(context.WithoutCancel(ctx), userID); err != nil {
			log.WithError(err).Warn("failed to delete vector documents")
		}
	case models.RoleRecruiter:
		if err := s.recruiters.DeleteByUserID(ctx, u.ID); err != nil && !errors.Is(err, utils.ErrNotFound) {
			return utils.E(utils.CodeInternal, op, "failed to delete profile", err)
		}
	}
	return nil
}

// dropObjects deletes the known keys plus anything else stored under the
// user's prefix in folder.
func (s *accountService) dropObjects(ctx context.Context, log logrus.FieldLogger, folder, userID string, keys []string) {
	seen := map[string]bool{}
	listed, err := s.store.List(context.WithoutCancel(ctx), storage.UserPrefix(folder, userID))
	if err != nil {
		log.WithError(err).WithField("folder", folder).Warn("failed to list stored objects")
	}
	for _, k := range append(keys, listed...) {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		dropObject(ctx, s.store, log, k, "stored "+folder)
	}
}
