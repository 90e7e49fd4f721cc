package services

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/providers/extract"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/storage"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

const avatarURLTTL = 15 * time.Minute

type AvatarService interface {
	Upload(ctx context.Context, userID string, f Upload) (*models.User, error)
	// Open returns a signed URL when the store can sign one, otherwise an
	// open download.
	Open(ctx context.Context, userID string) (string, *Download, error)
}

type avatarService struct {
	users  mongorepo.UserRepository
	store  storage.ObjectStore
	signer storage.Signer
	clean  *utils.Sanitizer
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewAvatarService accepts a nil signer; avatars are then always streamed.
func NewAvatarService(users mongorepo.UserRepository, store storage.ObjectStore, signer storage.Signer, clean *utils.Sanitizer, log logrus.FieldLogger) AvatarService {
	return &avatarService{users: users, store: store, signer: signer, clean: clean, log: log, now: time.Now}
}

func (s *avatarService) Upload(ctx context.Context, userID string, f Upload) (*models.User, error) {
	const op = "AvatarService.Upload"
	defer removeTemp(s.log, f.Path)

	kind, err := extract.ImageKind(f.OriginalName)
	if err != nil {
		return nil, err
	}
	if err := checkSize(op, f.Path, MaxAvatarBytes); err != nil {
		return nil, err
	}
	if err := kind.Verify(f.Path); err != nil {
		return nil, err
	}

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return nil, userLookupError(op, err)
	}

	log := s.log.WithField("user_id", userID)

	key := storage.ObjectKey(storage.FolderAvatar, userID, f.OriginalName, s.now())
	if err := putFile(ctx, s.store, key, kind.MimeType, f.Path); err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to upload avatar", err)
	}

	updated, err := s.users.Update(ctx, oid, bson.M{
		"avatar": models.Avatar{
			Key:          key,
			OriginalName: displayName(s.clean, f.OriginalName),
			MimeType:     kind.MimeType,
		},
	}, nil)
	if err != nil {
		dropObject(ctx, s.store, log, key, "unreferenced avatar")
		return nil, userWriteError(op, err)
	}

	if u.Avatar != nil && u.Avatar.Key != "" && u.Avatar.Key != key {
		dropObject(ctx, s.store, log, u.Avatar.Key, "previous avatar")
	}
	return updated, nil
}

func (s *avatarService) Open(ctx context.Context, userID string) (string, *Download, error) {
	const op = "AvatarService.Open"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return "", nil, err
	}
	u, err := s.users.GetByID(ctx, oid)
	if err != nil {
		return "", nil, userLookupError(op, err)
	}
	if u.Avatar == nil || u.Avatar.Key == "" {
		return "", nil, utils.E(utils.CodeNotFound, op, "no avatar uploaded", nil)
	}

	if s.signer != nil {
		url, err := s.signer.SignedGetURL(ctx, u.Avatar.Key, avatarURLTTL)
		if err == nil {
			return url, nil, nil
		}
		s.log.WithError(err).WithField("object", u.Avatar.Key).Warn("failed to sign avatar url; streaming instead")
	}

	body, info, err := s.store.Open(ctx, u.Avatar.Key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return "", nil, utils.E(utils.CodeNotFound, op, "avatar file not found", err)
	}
	if err != nil {
		return "", nil, utils.E(utils.CodeUpstream, op, "failed to read avatar", err)
	}

	d := &Download{Body: body, ContentType: u.Avatar.MimeType, Size: info.Size, FileName: u.Avatar.OriginalName}
	if d.ContentType == "" {
		d.ContentType = info.ContentType
	}
	if d.FileName == "" {
		d.FileName = path.Base(u.Avatar.Key)
	}
	return "", d, nil
}
