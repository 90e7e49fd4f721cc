package models

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the role-specific record attached 1:1 to a user. The concrete
// type follows the owner's role: JobSeekerProfile or RecruiterProfile.
type Profile interface {
	OwnerID() primitive.ObjectID
	isProfile()
}

var (
	SeniorityLevels = []string{"Intern", "Junior", "Mid", "Senior", "Lead", "Principal", "Architect", "Manager"}
	SearchStatuses  = []string{"Actively looking", "Open to opportunities", "Not looking", "Employed, but open"}
	SalaryPeriods   = []string{"year", "month", "hour"}
	Proficiencies   = []string{"Basic", "Conversational", "Fluent", "Native"}
)

const DefaultCurrency = "USD"

func OneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

type Location struct {
	Street    string   `bson:"street,omitempty" json:"street,omitempty"`
	City      string   `bson:"city,omitempty" json:"city,omitempty"`
	State     string   `bson:"state,omitempty" json:"state,omitempty"`
	Country   string   `bson:"country,omitempty" json:"country,omitempty"`
	ZipCode   string   `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

type SalaryExpectation struct {
	Min      *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max      *float64 `bson:"max,omitempty" json:"max,omitempty"`
	Currency string   `bson:"currency,omitempty" json:"currency,omitempty"`
	Period   string   `bson:"period,omitempty" json:"period,omitempty" binding:"omitempty,salary_period"`
}

type WorkExperience struct {
	JobTitle         string   `bson:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	Company          string   `bson:"company,omitempty" json:"company,omitempty"`
	Location         string   `bson:"location,omitempty" json:"location,omitempty"`
	StartDate        *Date    `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate          *Date    `bson:"endDate,omitempty" json:"endDate,omitempty"`
	CurrentlyWorking *bool    `bson:"currentlyWorking,omitempty" json:"currentlyWorking,omitempty"`
	Description      string   `bson:"description,omitempty" json:"description,omitempty"`
	Achievements     []string `bson:"achievements,omitempty" json:"achievements,omitempty"`
	TechnologiesUsed []string `bson:"technologiesUsed,omitempty" json:"technologiesUsed,omitempty"`
}

type Education struct {
	Institution  string `bson:"institution,omitempty" json:"institution,omitempty"`
	Degree       string `bson:"degree,omitempty" json:"degree,omitempty"`
	FieldOfStudy string `bson:"fieldOfStudy,omitempty" json:"fieldOfStudy,omitempty"`
	StartDate    *Date  `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate      *Date  `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Grade        string `bson:"grade,omitempty" json:"grade,omitempty"`
	Honors       string `bson:"honors,omitempty" json:"honors,omitempty"`
}

type Certification struct {
	Name                string `bson:"name,omitempty" json:"name,omitempty"`
	IssuingOrganization string `bson:"issuingOrganization,omitempty" json:"issuingOrganization,omitempty"`
	IssueDate           *Date  `bson:"issueDate,omitempty" json:"issueDate,omitempty"`
	ExpirationDate      *Date  `bson:"expirationDate,omitempty" json:"expirationDate,omitempty"`
	CredentialID        string `bson:"credentialId,omitempty" json:"credentialId,omitempty"`
	CredentialURL       string `bson:"credentialURL,omitempty" json:"credentialURL,omitempty"`
}

// Language decodes from either {"language": "..", "proficiency": ".."}
// or a bare string such as "German".
type Language struct {
	Language    string `bson:"language,omitempty" json:"language,omitempty"`
	Proficiency string `bson:"proficiency,omitempty" json:"proficiency,omitempty" binding:"omitempty,proficiency"`
}

func (l *Language) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*l = Language{}
		return json.Unmarshal(data, &l.Language)
	}
	type plain Language
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Language(p)
	return nil
}

type Project struct {
	Name         string   `bson:"name,omitempty" json:"name,omitempty"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Technologies []string `bson:"technologies,omitempty" json:"technologies,omitempty"`
	Link         string   `bson:"link,omitempty" json:"link,omitempty"`
	GithubRepo   string   `bson:"githubRepo,omitempty" json:"githubRepo,omitempty"`
	StartDate    *Date    `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate      *Date    `bson:"endDate,omitempty" json:"endDate,omitempty"`
}

type JobSeekerProfile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"userId"`

	Github          string `bson:"github,omitempty" json:"github,omitempty"`
	Linkedin        string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Portfolio       string `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
	PersonalWebsite string `bson:"personalWebsite,omitempty" json:"personalWebsite,omitempty"`
	Twitter         string `bson:"twitter,omitempty" json:"twitter,omitempty"`

	ResumePath         string `bson:"resumePath,omitempty" json:"-"`
	ResumeOriginalName string `bson:"resumeOriginalName,omitempty" json:"resumeOriginalName,omitempty"`
	ResumeMimeType     string `bson:"resumeMimeType,omitempty" json:"resumeMimeType,omitempty"`

	Location *Location `bson:"location,omitempty" json:"location,omitempty"`

	Bio             string `bson:"bio,omitempty" json:"bio,omitempty"`
	Headline        string `bson:"headline,omitempty" json:"headline,omitempty"`
	CurrentJobTitle string `bson:"currentJobTitle,omitempty" json:"currentJobTitle,omitempty"`
	CurrentCompany  string `bson:"currentCompany,omitempty" json:"currentCompany,omitempty"`
	NoticePeriod    string `bson:"noticePeriod,omitempty" json:"noticePeriod,omitempty"`

	Skills            []string `bson:"skills,omitempty" json:"skills,omitempty"`
	TechStack         []string `bson:"techStack,omitempty" json:"techStack,omitempty"`
	YearsOfExperience *float64 `bson:"yearsOfExperience,omitempty" json:"yearsOfExperience,omitempty"`
	SeniorityLevel    string   `bson:"seniorityLevel,omitempty" json:"seniorityLevel,omitempty"`

	DesiredJobTitle        string             `bson:"desiredJobTitle,omitempty" json:"desiredJobTitle,omitempty"`
	DesiredEmploymentTypes []string           `bson:"desiredEmploymentTypes,omitempty" json:"desiredEmploymentTypes,omitempty"`
	DesiredIndustries      []string           `bson:"desiredIndustries,omitempty" json:"desiredIndustries,omitempty"`
	OpenToRemote           *bool              `bson:"openToRemote,omitempty" json:"openToRemote,omitempty"`
	OpenToRelocation       *bool              `bson:"openToRelocation,omitempty" json:"openToRelocation,omitempty"`
	PreferredLocations     []string           `bson:"preferredLocations,omitempty" json:"preferredLocations,omitempty"`
	SalaryExpectation      *SalaryExpectation `bson:"salaryExpectation,omitempty" json:"salaryExpectation,omitempty"`

	WorkExperience []WorkExperience `bson:"workExperience,omitempty" json:"workExperience,omitempty"`
	Education      []Education      `bson:"education,omitempty" json:"education,omitempty"`
	Certifications []Certification  `bson:"certifications,omitempty" json:"certifications,omitempty"`
	Languages      []Language       `bson:"languages,omitempty" json:"languages,omitempty"`
	Projects       []Project        `bson:"projects,omitempty" json:"projects,omitempty"`

	AvailableFrom   *Date  `bson:"availableFrom,omitempty" json:"availableFrom,omitempty"`
	JobSearchStatus string `bson:"jobSearchStatus,omitempty" json:"jobSearchStatus,omitempty"`

	VectorID string `bson:"vectorId,omitempty" json:"vectorId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *JobSeekerProfile) OwnerID() primitive.ObjectID { return p.UserID }
func (*JobSeekerProfile) isProfile()                    {}

func (p *JobSeekerProfile) HasResume() bool { return p.ResumePath != "" }

type RecruiterProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"userId"`
	CompanyName    string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	CompanyWebsite string             `bson:"companyWebsite,omitempty" json:"companyWebsite,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p *RecruiterProfile) OwnerID() primitive.ObjectID { return p.UserID }
func (*RecruiterProfile) isProfile()                    {}

// SeekerResult is a job seeker profile joined with its owner's summary.
type SeekerResult struct {
	*JobSeekerProfile
	User *UserSummary `json:"user,omitempty"`
}

type SeekerQuery struct {
	Keywords string
	City     string
	State    string
	Country  string
	Page     int
	Limit    int
}

type SeekerPage struct {
	Results      int             `json:"results"`
	TotalResults int64           `json:"totalResults"`
	CurrentPage  int             `json:"currentPage"`
	TotalPages   int             `json:"totalPages"`
	Seekers      []*SeekerResult `json:"seekers"`
}
