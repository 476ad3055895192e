package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleRunner Role = "runner"
	RoleCoach  Role = "coach"
)

// User represents an account in the system (either a Runner or a Coach).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never exposed via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Coach-specific ---
	RunnerIDs []primitive.ObjectID `bson:"runnerIds,omitempty" json:"runnerIds,omitempty"`

	// --- Runner-specific ---
	CoachID  *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
	Defaults *RunnerDefaults     `bson:"runnerDefaults,omitempty" json:"runnerDefaults,omitempty"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsRunner() bool {
	return u.Role == RoleRunner
}
