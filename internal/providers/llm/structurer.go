package llm

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
)

// ResumeStructurer turns resume text into a partial job seeker profile.
type ResumeStructurer interface {
	Structure(ctx context.Context, resumeText string) (*models.JobSeekerUpdate, error)
}

type resumeStructurer struct {
	provider Provider
	log      logrus.FieldLogger
}

func NewResumeStructurer(p Provider, log logrus.FieldLogger) ResumeStructurer {
	return &resumeStructurer{provider: p, log: log}
}

func (s *resumeStructurer) Structure(ctx context.Context, resumeText string) (*models.JobSeekerUpdate, error) {
	const op = "ResumeStructurer.Structure"

	raw, err := s.provider.GenerateJSON(ctx, ResumePrompt, resumeText)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "resume structuring failed", err)
	}

	u, warnings, err := ParseProfile(raw)
	if err != nil {
		s.log.WithError(err).WithField("response_bytes", len(raw)).Error("malformed structuring response")
		return nil, utils.E(utils.CodeUpstream, op, "resume structuring returned an invalid response", err)
	}
	for _, w := range warnings {
		s.log.WithField("warning", w).Warn("dropped structured resume value")
	}
	return u, nil
}
