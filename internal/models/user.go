package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role int

const (
	RoleJobSeeker Role = 1
	RoleRecruiter Role = 2
	RoleAdmin     Role = 3
)

func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleRecruiter || r == RoleAdmin
}

// Name is the role label carried in tokens and checked by RequireRole.
func (r Role) Name() string {
	switch r {
	case RoleJobSeeker:
		return "jobseeker"
	case RoleRecruiter:
		return "recruiter"
	case RoleAdmin:
		return "admin"
	default:
		return ""
	}
}

func RoleFromName(s string) (Role, bool) {
	switch s {
	case "jobseeker":
		return RoleJobSeeker, true
	case "recruiter":
		return RoleRecruiter, true
	case "admin":
		return RoleAdmin, true
	}
	return 0, false
}

type Avatar struct {
	Key          string `bson:"key" json:"-"`
	OriginalName string `bson:"originalName" json:"originalName"`
	MimeType     string `bson:"mimeType" json:"mimeType"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Phone        string             `bson:"phone" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	Avatar       *Avatar            `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the slice of a user attached to search results.
type UserSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Role  Role               `bson:"role" json:"role"`
}

type UserFilter struct {
	Role   Role
	Search string
	SortBy string
	Desc   bool
	Page   int
	Limit  int
}

type UserStats struct {
	Total       int64   `json:"totalUsers"`
	JobSeekers  int64   `json:"jobSeekers"`
	Recruiters  int64   `json:"recruiters"`
	Admins      int64   `json:"admins"`
	RecentUsers []*User `json:"recentUsers"`
}
