package services

import (
	"context"
	"errors"
	"path"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/providers/extract"
	"github.com/yoockh/jobportal/internal/providers/llm"
	mongorepo "github.com/yoockh/jobportal/internal/repositories/mongo"
	"github.com/yoockh/jobportal/internal/storage"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
)

type ResumeService interface {
	// Upload stores a new resume for a job seeker, merges the structured
	// content into the profile and replaces the previous file.
	Upload(ctx context.Context, userID string, f Upload) (*models.JobSeekerProfile, error)
	Download(ctx context.Context, userID string) (*Download, error)
}

type resumeService struct {
	seekers    mongorepo.JobSeekerRepository
	writer     *SeekerWriter
	store      storage.ObjectStore
	extractor  extract.Extractor
	structurer llm.ResumeStructurer
	clean      *utils.Sanitizer
	log        logrus.FieldLogger
	now        func() time.Time
}

// NewResumeService accepts a nil structurer; resumes are then stored
// without touching the profile fields.
func NewResumeService(
	seekers mongorepo.JobSeekerRepository,
	writer *SeekerWriter,
	store storage.ObjectStore,
	extractor extract.Extractor,
	structurer llm.ResumeStructurer,
	clean *utils.Sanitizer,
	log logrus.FieldLogger,
) ResumeService {
	return &resumeService{
		seekers:    seekers,
		writer:     writer,
		store:      store,
		extractor:  extractor,
		structurer: structurer,
		clean:      clean,
		log:        log,
		now:        time.Now,
	}
}

func (s *resumeService) Upload(ctx context.Context, userID string, f Upload) (*models.JobSeekerProfile, error) {
	const op = "ResumeService.Upload"
	defer removeTemp(s.log, f.Path)

	kind, err := extract.ResumeKind(f.OriginalName)
	if err != nil {
		return nil, err
	}
	if err := checkSize(op, f.Path, MaxResumeBytes); err != nil {
		return nil, err
	}
	if err := kind.Verify(f.Path); err != nil {
		return nil, err
	}

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, err
	}
	current, err := s.seekers.GetByUserID(ctx, oid)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}

	log := s.log.WithField("user_id", userID)

	text, err := s.extractor.Extract(ctx, f.Path, kind)
	if err != nil {
		return nil, err
	}

	var update *models.JobSeekerUpdate
	switch {
	case text == "":
		log.Warn("no text extracted from resume; storing file only")
	case s.structurer == nil:
		log.Warn("resume structuring not configured; storing file only")
	default:
		if update, err = s.structurer.Structure(ctx, text); err != nil {
			return nil, err
		}
	}

	key := storage.ObjectKey(storage.FolderResume, userID, f.OriginalName, s.now())
	if err := putFile(ctx, s.store, key, kind.MimeType, f.Path); err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to upload resume", err)
	}

	updated, err := s.writer.Apply(ctx, oid, update, bson.M{
		"resumePath":         key,
		"resumeOriginalName": displayName(s.clean, f.OriginalName),
		"resumeMimeType":     kind.MimeType,
	})
	if err != nil {
		dropObject(ctx, s.store, log, key, "unreferenced resume")
		return nil, err
	}

	if current.ResumePath != "" && current.ResumePath != key {
		dropObject(ctx, s.store, log, current.ResumePath, "previous resume")
	}
	return updated, nil
}

func (s *resumeService) Download(ctx context.Context, userID string) (*Download, error) {
	const op = "ResumeService.Download"

	oid, err := parseUserID(op, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.seekers.GetByUserID(ctx, oid)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "profile not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to load profile", err)
	}
	if !p.HasResume() {
		return nil, utils.E(utils.CodeNotFound, op, "no resume uploaded", nil)
	}

	body, info, err := s.store.Open(ctx, p.ResumePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, utils.E(utils.CodeNotFound, op, "resume file not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to read resume", err)
	}

	d := &Download{
		Body:        body,
		ContentType: p.ResumeMimeType,
		Size:        info.Size,
		FileName:    p.ResumeOriginalName,
	}
	if d.ContentType == "" {
		d.ContentType = info.ContentType
	}
	if d.FileName == "" {
		d.FileName = path.Base(p.ResumePath)
	}
	return d, nil
}
