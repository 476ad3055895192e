package api_test

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/planner"
	"alcyxob/marathon-trainer/internal/service"
)

// fakePlanService returns err when set, otherwise canned values, and records
// its last inputs.
type fakePlanService struct {
	err error

	plan           *domain.TrainingPlan
	lastRunner     primitive.ObjectID
	lastPlanID     string
	lastProfile    domain.RunnerProfile
	lastCompletion domain.Completion
	lastWeek       int
}

func (f *fakePlanService) PreviewPaceZones(recentMin, recentKm float64) (*planner.ZoneResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	zr, err := planner.CalculatePaceZones(recentMin, recentKm)
	return &zr, err
}

func (f *fakePlanService) GeneratePlan(_ context.Context, runnerID primitive.ObjectID, profile domain.RunnerProfile) (*domain.TrainingPlan, error) {
	f.lastRunner, f.lastProfile = runnerID, profile
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

func (f *fakePlanService) ListPlans(_ context.Context, runnerID primitive.ObjectID) ([]service.PlanSummary, error) {
	f.lastRunner = runnerID
	return nil, f.err
}

func (f *fakePlanService) GetActivePlan(_ context.Context, runnerID primitive.ObjectID) (*domain.TrainingPlan, error) {
	f.lastRunner = runnerID
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

func (f *fakePlanService) GetPlan(_ context.Context, runnerID primitive.ObjectID, planID string) (*domain.TrainingPlan, error) {
	f.lastRunner, f.lastPlanID = runnerID, planID
	if f.err != nil {
		return nil, f.err
	}
	return f.plan, nil
}

func (f *fakePlanService) GetWeek(_ context.Context, runnerID primitive.ObjectID, planID string, weekNumber int) (*domain.TrainingWeek, error) {
	f.lastRunner, f.lastPlanID, f.lastWeek = runnerID, planID, weekNumber
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TrainingWeek{WeekNumber: weekNumber, Phase: domain.PhaseBase}, nil
}

func (f *fakePlanService) GetToday(_ context.Context, runnerID primitive.ObjectID, planID string) (*service.TodayView, error) {
	f.lastRunner, f.lastPlanID = runnerID, planID
	if f.err != nil {
		return nil, f.err
	}
	return &service.TodayView{CurrentWeek: 1, TotalWeeks: 12}, nil
}

func (f *fakePlanService) GetStats(_ context.Context, runnerID primitive.ObjectID, planID string) (*service.PlanStats, error) {
	f.lastRunner, f.lastPlanID = runnerID, planID
	if f.err != nil {
		return nil, f.err
	}
	return &service.PlanStats{PlanID: planID}, nil
}

func (f *fakePlanService) CompleteWorkout(_ context.Context, runnerID primitive.ObjectID, planID, workoutID string, c domain.Completion) (*domain.Workout, error) {
	f.lastRunner, f.lastPlanID, f.lastCompletion = runnerID, planID, c
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Workout{ID: workoutID, Completed: true, ActualPaceSecPerKm: c.PaceSecPerKm()}, nil
}

func (f *fakePlanService) ExportPlan(_ context.Context, runnerID primitive.ObjectID, planID string) (*service.ExportResult, error) {
	f.lastRunner, f.lastPlanID = runnerID, planID
	if f.err != nil {
		return nil, f.err
	}
	return &service.ExportResult{ObjectKey: "exports/" + planID + ".json", DownloadURL: "https://storage.test/x", ExpiresAt: time.Now()}, nil
}

func (f *fakePlanService) DeletePlan(_ context.Context, runnerID primitive.ObjectID, planID string) error {
	f.lastRunner, f.lastPlanID = runnerID, planID
	return f.err
}

type fakeCoachService struct {
	err    error
	runner *domain.User
	plan   *domain.TrainingPlan
}

func (f *fakeCoachService) AddRunnerByEmail(_ context.Context, _ primitive.ObjectID, _ string) (*domain.User, error) {
	return f.runner, f.err
}

func (f *fakeCoachService) GetManagedRunners(_ context.Context, _ primitive.ObjectID) ([]domain.User, error) {
	if f.err != nil || f.runner == nil {
		return nil, f.err
	}
	return []domain.User{*f.runner}, nil
}

func (f *fakeCoachService) GetRunnerActivePlan(_ context.Context, _, _ primitive.ObjectID) (*domain.TrainingPlan, error) {
	return f.plan, f.err
}

type fakeAuthService struct {
	secret  string
	err     error
	user    *domain.User
	lastReg service.Registration
}

func (f *fakeAuthService) Register(_ context.Context, reg service.Registration) (*domain.User, error) {
	f.lastReg = reg
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: primitive.NewObjectID(), Name: reg.Name, Email: reg.Email, Role: reg.Role, Defaults: reg.Defaults}, nil
}

func (f *fakeAuthService) GetUser(_ context.Context, userID primitive.ObjectID) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: userID, Name: "Ann", Role: domain.RoleRunner}, nil
}

func (f *fakeAuthService) UpdateRunnerDefaults(_ context.Context, runnerID primitive.ObjectID, d domain.RunnerDefaults) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.User{ID: runnerID, Role: domain.RoleRunner, Defaults: &d}, nil
}

func (f *fakeAuthService) Login(_ context.Context, _, _ string) (string, *domain.User, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return "token", f.user, nil
}

func (f *fakeAuthService) GetJWTSecret() string { return f.secret }
