package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// LocationUpdate carries the client-settable location fields. Coordinates
// are absent on purpose: they only come from a geocode of ZipCode.
type LocationUpdate struct {
	Street  *string `json:"street,omitempty" binding:"omitempty,max=200"`
	City    *string `json:"city,omitempty" binding:"omitempty,max=100"`
	State   *string `json:"state,omitempty" binding:"omitempty,max=100"`
	Country *string `json:"country,omitempty" binding:"omitempty,max=100"`
	ZipCode *string `json:"zipCode,omitempty" binding:"omitempty,postal_code"`
}

func (l *LocationUpdate) empty() bool {
	return l.Street == nil && l.City == nil && l.State == nil && l.Country == nil && l.ZipCode == nil
}

// JobSeekerUpdate is a partial job seeker profile. A nil field is absent and
// leaves the stored value untouched; a present field replaces it. The same
// shape is produced by resume structuring.
type JobSeekerUpdate struct {
	Github          *string `json:"github,omitempty" binding:"omitempty,url"`
	Linkedin        *string `json:"linkedin,omitempty" binding:"omitempty,url"`
	Portfolio       *string `json:"portfolio,omitempty" binding:"omitempty,url"`
	PersonalWebsite *string `json:"personalWebsite,omitempty" binding:"omitempty,url"`
	Twitter         *string `json:"twitter,omitempty" binding:"omitempty,url"`

	Location *LocationUpdate `json:"location,omitempty"`

	Bio             *string `json:"bio,omitempty" binding:"omitempty,max=2000"`
	Headline        *string `json:"headline,omitempty" binding:"omitempty,max=200"`
	CurrentJobTitle *string `json:"currentJobTitle,omitempty"`
	CurrentCompany  *string `json:"currentCompany,omitempty"`
	NoticePeriod    *string `json:"noticePeriod,omitempty"`

	Skills            *[]string `json:"skills,omitempty" binding:"omitempty,min=1,dive,required"`
	TechStack         *[]string `json:"techStack,omitempty"`
	YearsOfExperience *float64  `json:"yearsOfExperience,omitempty" binding:"omitempty,min=0,max=80"`
	SeniorityLevel    *string   `json:"seniorityLevel,omitempty" binding:"omitempty,seniority"`

	DesiredJobTitle        *string            `json:"desiredJobTitle,omitempty"`
	DesiredEmploymentTypes *[]string          `json:"desiredEmploymentTypes,omitempty"`
	DesiredIndustries      *[]string          `json:"desiredIndustries,omitempty"`
	OpenToRemote           *bool              `json:"openToRemote,omitempty"`
	OpenToRelocation       *bool              `json:"openToRelocation,omitempty"`
	PreferredLocations     *[]string          `json:"preferredLocations,omitempty"`
	SalaryExpectation      *SalaryExpectation `json:"salaryExpectation,omitempty"`

	WorkExperience *[]WorkExperience `json:"workExperience,omitempty"`
	Education      *[]Education      `json:"education,omitempty"`
	Certifications *[]Certification  `json:"certifications,omitempty"`
	Languages      *[]Language       `json:"languages,omitempty" binding:"omitempty,dive"`
	Projects       *[]Project        `json:"projects,omitempty"`

	AvailableFrom   *Date   `json:"availableFrom,omitempty"`
	JobSearchStatus *string `json:"jobSearchStatus,omitempty" binding:"omitempty,search_status"`
}

// ZipCode reports the postal code this update writes, if any.
func (u *JobSeekerUpdate) ZipCode() (string, bool) {
	if u == nil || u.Location == nil || u.Location.ZipCode == nil {
		return "", false
	}
	return strings.TrimSpace(*u.Location.ZipCode), true
}

// Empty reports whether the update carries no field at all.
func (u *JobSeekerUpdate) Empty() bool {
	return u == nil || len(u.SetFields()) == 0
}

// SetFields flattens the update into a $set document. Location is merged per
// sub-field through dotted paths so absent sub-fields keep their stored value.
func (u *JobSeekerUpdate) SetFields() bson.M {
	set := bson.M{}
	if u == nil {
		return set
	}

	putStr := func(key string, v *string) {
		if v != nil {
			set[key] = strings.TrimSpace(*v)
		}
	}
	putList := func(key string, v *[]string) {
		if v != nil {
			set[key] = compact(*v)
		}
	}

	putStr("github", u.Github)
	putStr("linkedin", u.Linkedin)
	putStr("portfolio", u.Portfolio)
	putStr("personalWebsite", u.PersonalWebsite)
	putStr("twitter", u.Twitter)

	if u.Location != nil && !u.Location.empty() {
		putStr("location.street", u.Location.Street)
		putStr("location.city", u.Location.City)
		putStr("location.state", u.Location.State)
		putStr("location.country", u.Location.Country)
		putStr("location.zipCode", u.Location.ZipCode)
	}

	putStr("bio", u.Bio)
	putStr("headline", u.Headline)
	putStr("currentJobTitle", u.CurrentJobTitle)
	putStr("currentCompany", u.CurrentCompany)
	putStr("noticePeriod", u.NoticePeriod)

	putList("skills", u.Skills)
	putList("techStack", u.TechStack)
	if u.YearsOfExperience != nil {
		set["yearsOfExperience"] = *u.YearsOfExperience
	}
	putStr("seniorityLevel", u.SeniorityLevel)

	putStr("desiredJobTitle", u.DesiredJobTitle)
	putList("desiredEmploymentTypes", u.DesiredEmploymentTypes)
	putList("desiredIndustries", u.DesiredIndustries)
	if u.OpenToRemote != nil {
		set["openToRemote"] = *u.OpenToRemote
	}
	if u.OpenToRelocation != nil {
		set["openToRelocation"] = *u.OpenToRelocation
	}
	putList("preferredLocations", u.PreferredLocations)
	if u.SalaryExpectation != nil {
		se := *u.SalaryExpectation
		if se.Currency == "" {
			se.Currency = DefaultCurrency
		}
		set["salaryExpectation"] = se
	}

	if u.WorkExperience != nil {
		set["workExperience"] = *u.WorkExperience
	}
	if u.Education != nil {
		set["education"] = *u.Education
	}
	if u.Certifications != nil {
		set["certifications"] = *u.Certifications
	}
	if u.Languages != nil {
		set["languages"] = *u.Languages
	}
	if u.Projects != nil {
		set["projects"] = *u.Projects
	}

	if u.AvailableFrom != nil {
		set["availableFrom"] = *u.AvailableFrom
	}
	putStr("jobSearchStatus", u.JobSearchStatus)
	return set
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

type RecruiterUpdate struct {
	CompanyName    *string `json:"companyName,omitempty" binding:"omitempty,min=1,max=200"`
	CompanyWebsite *string `json:"companyWebsite,omitempty" binding:"omitempty,url"`
}

func (u *RecruiterUpdate) SetFields() bson.M {
	set := bson.M{}
	if u == nil {
		return set
	}
	if u.CompanyName != nil {
		set["companyName"] = strings.TrimSpace(*u.CompanyName)
	}
	if u.CompanyWebsite != nil {
		set["companyWebsite"] = strings.TrimSpace(*u.CompanyWebsite)
	}
	return set
}
