package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/marathon-trainer/internal/cache"
	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/metrics"
	"alcyxob/marathon-trainer/internal/planner"
	"alcyxob/marathon-trainer/internal/repository"
	"alcyxob/marathon-trainer/internal/storage"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound      = errors.New("training plan not found")
	ErrNoActivePlan      = errors.New("runner has no active training plan")
	ErrPlanAccessDenied  = errors.New("access denied: plan belongs to another runner")
	ErrWorkoutNotFound   = errors.New("workout not found in plan")
	ErrWeekNotFound      = errors.New("week not found in plan")
	ErrInvalidCompletion = errors.New("invalid workout completion")
	ErrPlanConflict      = errors.New("plan was modified concurrently, retry")
	ErrExportUnavailable = errors.New("plan export is not configured")
)

// maxCompleteAttempts bounds the reload-and-retry loop on version conflicts.
const maxCompleteAttempts = 3

// PlanSummary is a plan without its weeks, as listed in history.
type PlanSummary struct {
	ID                   string    `json:"id"`
	Version              int       `json:"version"`
	IsActive             bool      `json:"isActive"`
	CreatedAt            time.Time `json:"createdAt"`
	StartDate            time.Time `json:"startDate"`
	RaceDate             time.Time `json:"raceDate"`
	TotalWeeks           int       `json:"totalWeeks"`
	VDOT                 float64   `json:"vdot"`
	PredictedMarathonMin float64   `json:"predictedMarathonMin"`
	PeakWeeklyKm         float64   `json:"peakWeeklyKm"`
}

// TodayView is the runner's dashboard for a plan.
type TodayView struct {
	CurrentWeek int             `json:"currentWeek"`
	TotalWeeks  int             `json:"totalWeeks"`
	Workout     *domain.Workout `json:"workout,omitempty"`
	IsToday     bool            `json:"isToday"`
}

// PlanStats aggregates weekly progress for a plan.
type PlanStats struct {
	PlanID            string               `json:"planId"`
	CurrentWeek       int                  `json:"currentWeek"`
	TotalWeeks        int                  `json:"totalWeeks"`
	PlannedKm         float64              `json:"plannedKm"`
	ActualKm          float64              `json:"actualKm"`
	CompletedWorkouts int                  `json:"completedWorkouts"`
	TotalWorkouts     int                  `json:"totalWorkouts"`
	Weeks             []domain.WeeklyStats `json:"weeks"`
}

// ExportResult points at an uploaded export document.
type ExportResult struct {
	ObjectKey   string    `json:"objectKey"`
	DownloadURL string    `json:"downloadUrl"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type PlanService interface {
	PreviewPaceZones(recentMin, recentKm float64) (*planner.ZoneResult, error)
	GeneratePlan(ctx context.Context, runnerID primitive.ObjectID, profile domain.RunnerProfile) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, runnerID primitive.ObjectID) ([]PlanSummary, error)
	GetActivePlan(ctx context.Context, runnerID primitive.ObjectID) (*domain.TrainingPlan, error)
	GetPlan(ctx context.Context, runnerID primitive.ObjectID, planID string) (*domain.TrainingPlan, error)
	GetWeek(ctx context.Context, runnerID primitive.ObjectID, planID string, weekNumber int) (*domain.TrainingWeek, error)
	GetToday(ctx context.Context, runnerID primitive.ObjectID, planID string) (*TodayView, error)
	GetStats(ctx context.Context, runnerID primitive.ObjectID, planID string) (*PlanStats, error)
	CompleteWorkout(ctx context.Context, runnerID primitive.ObjectID, planID, workoutID string, c domain.Completion) (*domain.Workout, error)
	ExportPlan(ctx context.Context, runnerID primitive.ObjectID, planID string) (*ExportResult, error)
	DeletePlan(ctx context.Context, runnerID primitive.ObjectID, planID string) error
}

// ExportConfig controls where plan exports are written.
type ExportConfig struct {
	Prefix     string
	PresignTTL time.Duration
}

// planService implements the PlanService interface.
type planService struct {
	planRepo  repository.TrainingPlanRepository
	userRepo  repository.UserRepository
	generator *planner.Generator
	cache     *cache.PlanCache
	storage   storage.FileStorage
	export    ExportConfig
	now       func() time.Time
}

// NewPlanService creates a new instance of planService. A nil cache disables
// caching; a nil user repository skips the runner's stored defaults.
func NewPlanService(
	planRepo repository.TrainingPlanRepository,
	userRepo repository.UserRepository,
	generator *planner.Generator,
	planCache *cache.PlanCache,
	fileStorage storage.FileStorage,
	export ExportConfig,
) PlanService {
	if planCache == nil {
		planCache = cache.NewNoopPlanCache()
	}
	if fileStorage == nil {
		fileStorage = storage.NewDisabledStorage()
	}
	if export.PresignTTL <= 0 {
		export.PresignTTL = storage.DefaultPresignedURLExpiry
	}
	now := time.Now
	if generator != nil && generator.Now != nil {
		now = generator.Now
	}
	return &planService{
		planRepo:  planRepo,
		userRepo:  userRepo,
		generator: generator,
		cache:     planCache,
		storage:   fileStorage,
		export:    export,
		now:       now,
	}
}

// PreviewPaceZones runs the zone calculator without persisting anything.
func (s *planService) PreviewPaceZones(recentMin, recentKm float64) (*planner.ZoneResult, error) {
	zr, err := planner.CalculatePaceZones(recentMin, recentKm)
	if err != nil {
		return nil, err
	}
	return &zr, nil
}

// GeneratePlan builds a plan, stores it and makes it the runner's only
// active plan.
func (s *planService) GeneratePlan(ctx context.Context, runnerID primitive.ObjectID, profile domain.RunnerProfile) (*domain.TrainingPlan, error) {
	if runnerID == primitive.NilObjectID {
		return nil, errors.New("runner ID is required")
	}

	profile, err := s.withRunnerDefaults(ctx, runnerID, profile)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	plan, err := s.generator.GeneratePlan(profile)
	metrics.PlanGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PlansGenerated.WithLabelValues("invalid").Inc()
		return nil, err
	}
	plan.RunnerID = runnerID.Hex()

	if err := s.planRepo.Create(ctx, plan); err != nil {
		metrics.PlansGenerated.WithLabelValues("error").Inc()
		log.Printf("ERROR: Failed to store plan for runner %s: %v", plan.RunnerID, err)
		return nil, err
	}
	deactivated, err := s.planRepo.DeactivateOtherPlansForRunner(ctx, plan.RunnerID, plan.ID)
	if err != nil {
		// The new plan is stored and newest-first lookup still finds it.
		log.Printf("WARN: Failed to deactivate previous plans for runner %s: %v", plan.RunnerID, err)
	}
	s.cache.Invalidate(ctx, deactivated...)

	metrics.PlansGenerated.WithLabelValues("ok").Inc()
	metrics.PlanWeeks.Observe(float64(plan.TotalWeeks))
	log.Printf("INFO: Generated %d-week plan %s for runner %s (VDOT %.1f, peak %.0f km)",
		plan.TotalWeeks, plan.ID, plan.RunnerID, plan.VDOT, plan.PeakWeeklyKm)
	return plan, nil
}

// withRunnerDefaults fills the fields the request left empty from the
// runner's account.
func (s *planService) withRunnerDefaults(ctx context.Context, runnerID primitive.ObjectID, profile domain.RunnerProfile) (domain.RunnerProfile, error) {
	if s.userRepo == nil {
		return profile, nil
	}
	user, err := s.userRepo.GetByID(ctx, runnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile, nil
		}
		return profile, err
	}
	if user.Defaults == nil {
		return profile, nil
	}
	return user.Defaults.ApplyTo(profile), nil
}

// ListPlans returns the runner's plan history, newest first.
func (s *planService) ListPlans(ctx context.Context, runnerID primitive.ObjectID) ([]PlanSummary, error) {
	plans, err := s.planRepo.ListByRunnerID(ctx, runnerID.Hex())
	if err != nil {
		return nil, err
	}
	summaries := make([]PlanSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, PlanSummary{
			ID:                   p.ID,
			Version:              p.Version,
			IsActive:             p.IsActive,
			CreatedAt:            p.CreatedAt,
			StartDate:            p.StartDate,
			RaceDate:             p.Profile.RaceDate,
			TotalWeeks:           p.TotalWeeks,
			VDOT:                 p.VDOT,
			PredictedMarathonMin: p.PredictedMarathonMin,
			PeakWeeklyKm:         p.PeakWeeklyKm,
		})
	}
	return summaries, nil
}

// GetActivePlan returns the runner's active plan.
func (s *planService) GetActivePlan(ctx context.Context, runnerID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.planRepo.GetActiveByRunnerID(ctx, runnerID.Hex())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, err
	}
	return plan, nil
}

// GetPlan returns a plan owned by the runner, through the cache.
func (s *planService) GetPlan(ctx context.Context, runnerID primitive.ObjectID, planID string) (*domain.TrainingPlan, error) {
	plan, err := s.cache.GetOrLoad(ctx, planID, func(ctx context.Context) (*domain.TrainingPlan, error) {
		return s.planRepo.GetByID(ctx, planID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.RunnerID != runnerID.Hex() {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// GetWeek returns one week of a plan by its 1-based number.
func (s *planService) GetWeek(ctx context.Context, runnerID primitive.ObjectID, planID string, weekNumber int) (*domain.TrainingWeek, error) {
	plan, err := s.GetPlan(ctx, runnerID, planID)
	if err != nil {
		return nil, err
	}
	for i := range plan.Weeks {
		if plan.Weeks[i].WeekNumber == weekNumber {
			return &plan.Weeks[i], nil
		}
	}
	return nil, ErrWeekNotFound
}

// GetToday returns the workout on today's date or the next pending one.
func (s *planService) GetToday(ctx context.Context, runnerID primitive.ObjectID, planID string) (*TodayView, error) {
	plan, err := s.GetPlan(ctx, runnerID, planID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	view := &TodayView{
		CurrentWeek: plan.CurrentWeek(now),
		TotalWeeks:  plan.TotalWeeks,
	}
	if w, ok := plan.WorkoutFor(now); ok {
		view.Workout = w
		view.IsToday = sameDay(w.Date, now)
	}
	return view, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// GetStats computes planned versus completed volume.
func (s *planService) GetStats(ctx context.Context, runnerID primitive.ObjectID, planID string) (*PlanStats, error) {
	plan, err := s.GetPlan(ctx, runnerID, planID)
	if err != nil {
		return nil, err
	}
	stats := &PlanStats{
		PlanID:      plan.ID,
		CurrentWeek: plan.CurrentWeek(s.now()),
		TotalWeeks:  plan.TotalWeeks,
		Weeks:       plan.WeeklyStats(),
	}
	for _, w := range stats.Weeks {
		stats.PlannedKm += w.PlannedKm
		stats.ActualKm += w.ActualKm
		stats.CompletedWorkouts += w.CompletedWorkouts
		stats.TotalWorkouts += w.TotalWorkouts
	}
	return stats, nil
}

// CompleteWorkout records a finished session. The stored aggregate is
// reloaded and the write retried when another request won the version race.
func (s *planService) CompleteWorkout(ctx context.Context, runnerID primitive.ObjectID, planID, workoutID string, c domain.Completion) (*domain.Workout, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCompletion, err)
	}

	for attempt := 1; ; attempt++ {
		plan, err := s.planRepo.GetByID(ctx, planID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		if plan.RunnerID != runnerID.Hex() {
			return nil, ErrPlanAccessDenied
		}

		next, err := plan.WithWorkoutCompleted(workoutID, c, s.now())
		if err != nil {
			if errors.Is(err, domain.ErrWorkoutNotInPlan) {
				return nil, ErrWorkoutNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidCompletion, err)
		}

		err = s.planRepo.Replace(ctx, next)
		if err == nil {
			s.cache.Invalidate(ctx, planID)
			wi, i, _ := next.FindWorkout(workoutID)
			done := next.Weeks[wi].Workouts[i]
			metrics.WorkoutsCompleted.WithLabelValues(string(done.Type)).Inc()
			return &done, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, err
		}
		metrics.PlanWriteConflicts.Inc()
		if attempt >= maxCompleteAttempts {
			log.Printf("WARN: Giving up completing workout %s in plan %s after %d conflicts", workoutID, planID, attempt)
			return nil, ErrPlanConflict
		}
	}
}

// ExportPlan uploads the plan as a structured workout document and returns a
// temporary download link.
func (s *planService) ExportPlan(ctx context.Context, runnerID primitive.ObjectID, planID string) (*ExportResult, error) {
	plan, err := s.GetPlan(ctx, runnerID, planID)
	if err != nil {
		return nil, err
	}

	body, err := MarshalExport(BuildExport(plan, s.now()))
	if err != nil {
		metrics.PlanExports.WithLabelValues("error").Inc()
		return nil, err
	}

	key := s.exportKey(plan)
	if err := s.storage.PutObject(ctx, key, "application/json", body); err != nil {
		if errors.Is(err, storage.ErrNotConfigured) {
			metrics.PlanExports.WithLabelValues("disabled").Inc()
			return nil, ErrExportUnavailable
		}
		metrics.PlanExports.WithLabelValues("error").Inc()
		log.Printf("ERROR: Failed to upload export %s: %v", key, err)
		return nil, err
	}

	url, err := s.storage.GeneratePresignedDownloadURL(ctx, key, s.export.PresignTTL)
	if err != nil {
		metrics.PlanExports.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PlanExports.WithLabelValues("ok").Inc()
	return &ExportResult{
		ObjectKey:   key,
		DownloadURL: url,
		ExpiresAt:   s.now().Add(s.export.PresignTTL).UTC(),
	}, nil
}

func (s *planService) exportKey(plan *domain.TrainingPlan) string {
	return s.export.Prefix + plan.RunnerID + "/" + plan.ID + ".json"
}

// DeletePlan removes a plan, its cache entry and its export.
func (s *planService) DeletePlan(ctx context.Context, runnerID primitive.ObjectID, planID string) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if plan.RunnerID != runnerID.Hex() {
		return ErrPlanAccessDenied
	}

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, planID)

	key := s.exportKey(plan)
	if err := s.storage.DeleteObject(ctx, key); err != nil && !errors.Is(err, storage.ErrNotConfigured) {
		log.Printf("WARN: Failed to delete export %s for removed plan: %v", key, err)
	}
	return nil
}
