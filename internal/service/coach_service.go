package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/repository"
)

// --- Error Definitions ---
var (
	ErrRunnerNotFound       = errors.New("runner not found")
	ErrRunnerNotRole        = errors.New("user found but is not a runner")
	ErrRunnerAlreadyCoached = errors.New("runner already has a coach")
	ErrRunnerNotManaged     = errors.New("runner is not managed by this coach")
)

type CoachService interface {
	AddRunnerByEmail(ctx context.Context, coachID primitive.ObjectID, runnerEmail string) (*domain.User, error)
	GetManagedRunners(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	GetRunnerActivePlan(ctx context.Context, coachID, runnerID primitive.ObjectID) (*domain.TrainingPlan, error)
}

// coachService implements the CoachService interface.
type coachService struct {
	userRepo    repository.UserRepository
	planService PlanService
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(userRepo repository.UserRepository, planService PlanService) CoachService {
	return &coachService{
		userRepo:    userRepo,
		planService: planService,
	}
}

// AddRunnerByEmail finds a runner by email and attaches them to the coach.
func (s *coachService) AddRunnerByEmail(ctx context.Context, coachID primitive.ObjectID, runnerEmail string) (*domain.User, error) {
	runnerEmail = normalizeEmail(runnerEmail)
	if coachID == primitive.NilObjectID || runnerEmail == "" {
		return nil, errors.New("coach ID and runner email are required")
	}

	runner, err := s.userRepo.GetByEmail(ctx, runnerEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRunnerNotFound
		}
		return nil, err
	}
	if !runner.IsRunner() {
		return nil, ErrRunnerNotRole
	}

	if runner.CoachID != nil && *runner.CoachID != primitive.NilObjectID {
		if *runner.CoachID == coachID {
			runner.PasswordHash = ""
			return runner, nil
		}
		return nil, ErrRunnerAlreadyCoached
	}

	if err = s.userRepo.AddRunnerToCoach(ctx, coachID, runner.ID); err != nil {
		return nil, err
	}
	// Not transactional: a failure here leaves the coach listing a runner
	// whose coachId is unset, which a retry repairs.
	if err = s.userRepo.SetCoachForRunner(ctx, runner.ID, coachID); err != nil {
		return nil, err
	}

	runner.CoachID = &coachID
	runner.PasswordHash = ""
	return runner, nil
}

// GetManagedRunners retrieves the runners attached to the coach.
func (s *coachService) GetManagedRunners(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	runners, err := s.userRepo.GetRunnersByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range runners {
		runners[i].PasswordHash = ""
	}
	return runners, nil
}

// GetRunnerActivePlan is the coach's read-only view of a runner's plan.
func (s *coachService) GetRunnerActivePlan(ctx context.Context, coachID, runnerID primitive.ObjectID) (*domain.TrainingPlan, error) {
	runner, err := s.userRepo.GetByID(ctx, runnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRunnerNotFound
		}
		return nil, err
	}
	if runner.CoachID == nil || *runner.CoachID != coachID {
		return nil, ErrRunnerNotManaged
	}
	return s.planService.GetActivePlan(ctx, runnerID)
}
