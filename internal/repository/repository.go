package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/marathon-trainer/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	// ErrConflict means the stored document changed since it was read.
	ErrConflict = RepositoryError("version conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddRunnerToCoach(ctx context.Context, coachID, runnerID primitive.ObjectID) error
	GetRunnersByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForRunner(ctx context.Context, runnerID, coachID primitive.ObjectID) error
	// UpdateRunnerDefaults replaces the stored training defaults of a runner.
	UpdateRunnerDefaults(ctx context.Context, runnerID primitive.ObjectID, defaults domain.RunnerDefaults) error
}

// TrainingPlanRepository stores TrainingPlan aggregates as whole documents.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) error
	GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error)
	GetActiveByRunnerID(ctx context.Context, runnerID string) (*domain.TrainingPlan, error)
	ListByRunnerID(ctx context.Context, runnerID string) ([]domain.TrainingPlan, error)
	// Replace swaps the stored aggregate for plan if the stored version is
	// still plan.Version, and bumps plan.Version. Returns ErrConflict otherwise.
	Replace(ctx context.Context, plan *domain.TrainingPlan) error
	// DeactivateOtherPlansForRunner clears IsActive on every plan of the
	// runner except keepID and returns the IDs it changed.
	DeactivateOtherPlansForRunner(ctx context.Context, runnerID, keepID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
