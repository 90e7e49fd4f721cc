package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// ProfileVector is the denormalized, embeddable projection of a job seeker
// profile. The profile remains the source of truth; there is at most one
// document per user.
type ProfileVector struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:text;uniqueIndex" json:"userId"`

	// Content is the text blob the embedding is computed from.
	Content  string         `gorm:"column:content;type:text" json:"content"`
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	Skills            pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	City              string         `gorm:"column:city;type:text" json:"city,omitempty"`
	State             string         `gorm:"column:state;type:text" json:"state,omitempty"`
	Country           string         `gorm:"column:country;type:text" json:"country,omitempty"`
	SeniorityLevel    string         `gorm:"column:seniority_level;type:text" json:"seniorityLevel,omitempty"`
	YearsOfExperience *float64       `gorm:"column:years_of_experience" json:"yearsOfExperience,omitempty"`

	Embedding *pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
}

func (ProfileVector) TableName() string { return "profile_vectors" }

// VectorMetadata is the filterable record stored next to the text blob.
type VectorMetadata struct {
	UserID                 string   `json:"userId"`
	Headline               string   `json:"headline,omitempty"`
	CurrentJobTitle        string   `json:"currentJobTitle,omitempty"`
	CurrentCompany         string   `json:"currentCompany,omitempty"`
	DesiredJobTitle        string   `json:"desiredJobTitle,omitempty"`
	Skills                 []string `json:"skills,omitempty"`
	TechStack              []string `json:"techStack,omitempty"`
	YearsOfExperience      *float64 `json:"yearsOfExperience,omitempty"`
	SeniorityLevel         string   `json:"seniorityLevel,omitempty"`
	City                   string   `json:"city,omitempty"`
	State                  string   `json:"state,omitempty"`
	Country                string   `json:"country,omitempty"`
	Latitude               *float64 `json:"latitude,omitempty"`
	Longitude              *float64 `json:"longitude,omitempty"`
	OpenToRemote           *bool    `json:"openToRemote,omitempty"`
	OpenToRelocation       *bool    `json:"openToRelocation,omitempty"`
	PreferredLocations     []string `json:"preferredLocations,omitempty"`
	DesiredEmploymentTypes []string `json:"desiredEmploymentTypes,omitempty"`
	JobSearchStatus        string   `json:"jobSearchStatus,omitempty"`
}

// VectorMatch is one semantic search hit.
type VectorMatch struct {
	UserID   string         `json:"userId"`
	Distance float64        `json:"distance"`
	Metadata datatypes.JSON `json:"metadata"`
}
