package llm

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/yoockh/jobportal/internal/models"
)

var ErrMalformed = errors.New("llm: response is not a single JSON object")

// ParseProfile decodes an agent response into a partial profile. Markdown
// fences are tolerated; anything other than exactly one JSON object is
// ErrMalformed. Enum values outside the allowed sets are dropped and
// reported in warnings.
func ParseProfile(raw string) (*models.JobSeekerUpdate, []string, error) {
	body := stripFences(raw)
	if !strings.HasPrefix(body, "{") {
		return nil, nil, ErrMalformed
	}

	dec := json.NewDecoder(strings.NewReader(body))
	var u models.JobSeekerUpdate
	if err := dec.Decode(&u); err != nil {
		return nil, nil, errors.Join(ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, ErrMalformed
	}

	return &u, dropInvalidEnums(&u), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// optional language tag on the opening fence
	if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.Contains(s[:i], "{") {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func dropInvalidEnums(u *models.JobSeekerUpdate) []string {
	var warnings []string
	drop := func(field string, v **string, allowed []string) {
		if *v != nil && !models.OneOf(**v, allowed) {
			warnings = append(warnings, field+": unsupported value "+**v)
			*v = nil
		}
	}

	drop("seniorityLevel", &u.SeniorityLevel, models.SeniorityLevels)
	drop("jobSearchStatus", &u.JobSearchStatus, models.SearchStatuses)

	if se := u.SalaryExpectation; se != nil && se.Period != "" && !models.OneOf(se.Period, models.SalaryPeriods) {
		warnings = append(warnings, "salaryExpectation.period: unsupported value "+se.Period)
		se.Period = ""
	}
	if u.Languages != nil {
		langs := *u.Languages
		for i := range langs {
			if p := langs[i].Proficiency; p != "" && !models.OneOf(p, models.Proficiencies) {
				warnings = append(warnings, "languages.proficiency: unsupported value "+p)
				langs[i].Proficiency = ""
			}
		}
	}
	return warnings
}
