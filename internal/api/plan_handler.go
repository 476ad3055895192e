// internal/api/plan_handler.go
package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/service"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type PaceZonesRequest struct {
	RecentRaceMin float64 `json:"recentRaceMin" binding:"required,gt=0"`
	RecentRaceKm  float64 `json:"recentRaceKm" binding:"required,gt=0"`
}

type PaceZonesResponse struct {
	VDOT                 float64          `json:"vdot"`
	PredictedMarathonMin float64          `json:"predictedMarathonMin"`
	PredictedMarathon    string           `json:"predictedMarathon"` // h:mm:ss
	PaceZones            domain.PaceZones `json:"paceZones"`
}

type GeneratePlanRequest struct {
	Level         domain.ExperienceLevel `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	RaceDate      string                 `json:"raceDate" binding:"required"` // YYYY-MM-DD or RFC 3339
	GoalTimeMin   float64                `json:"goalTimeMin" binding:"gte=0"`
	RecentRaceMin float64                `json:"recentRaceMin" binding:"required,gt=0"`
	RecentRaceKm  float64                `json:"recentRaceKm" binding:"required,gt=0"`
	RunsPerWeek   int                    `json:"runsPerWeek"` // defaults to len(runDays)
	RunDays       []int                  `json:"runDays"`     // empty: taken from the runner's defaults
	WeeklyKmBase  float64                `json:"weeklyKmBase" binding:"gte=0"`
	HeightCm      float64                `json:"heightCm" binding:"gte=0"`
	WeightKg      float64                `json:"weightKg" binding:"gte=0"`
}

type CompleteWorkoutRequest struct {
	ActualDistanceKm  float64 `json:"actualDistanceKm" binding:"gte=0"`
	ActualDurationMin float64 `json:"actualDurationMin" binding:"gte=0"`
	Feeling           int     `json:"feeling" binding:"omitempty,min=1,max=5"`
	Notes             string  `json:"notes" binding:"max=2000"`
}

func (r GeneratePlanRequest) toProfile() (domain.RunnerProfile, error) {
	raceDate, err := parseRaceDate(r.RaceDate)
	if err != nil {
		return domain.RunnerProfile{}, err
	}
	runs := r.RunsPerWeek
	if runs == 0 {
		runs = len(r.RunDays)
	}
	return domain.RunnerProfile{
		Level:         r.Level,
		RaceDate:      raceDate,
		GoalTimeMin:   r.GoalTimeMin,
		RecentRaceMin: r.RecentRaceMin,
		RecentRaceKm:  r.RecentRaceKm,
		RunsPerWeek:   runs,
		RunDays:       r.RunDays,
		WeeklyKmBase:  r.WeeklyKmBase,
		HeightCm:      r.HeightCm,
		WeightKg:      r.WeightKg,
	}, nil
}

func parseRaceDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("raceDate must be YYYY-MM-DD or RFC 3339, got %q", s)
	}
	return t, nil
}

// FormatMinutes renders a duration in minutes as h:mm:ss.
func FormatMinutes(min float64) string {
	total := int(min*60 + 0.5)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
}

// handlePlanError maps service errors to HTTP responses.
func handlePlanError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, domain.ErrInvalidProfile), errors.Is(err, service.ErrInvalidCompletion):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrNoActivePlan),
		errors.Is(err, service.ErrWeekNotFound), errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrExportUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("ERROR: Failed to %s: %v", action, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to "+action+".")
	}
}

// --- Handler Methods ---

// PreviewPaceZones godoc
// @Summary Compute VDOT and training pace zones from a recent race
// @Tags Plans
// @Accept json
// @Produce json
// @Param performance body PaceZonesRequest true "Recent performance"
// @Success 200 {object} PaceZonesResponse
// @Router /pace-zones [post]
func (h *PlanHandler) PreviewPaceZones(c *gin.Context) {
	var req PaceZonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	zr, err := h.planService.PreviewPaceZones(req.RecentRaceMin, req.RecentRaceKm)
	if err != nil {
		handlePlanError(c, err, "compute pace zones")
		return
	}
	c.JSON(http.StatusOK, PaceZonesResponse{
		VDOT:                 zr.VDOT,
		PredictedMarathonMin: zr.PredictedMarathonMin,
		PredictedMarathon:    FormatMinutes(zr.PredictedMarathonMin),
		PaceZones:            zr.Zones,
	})
}

// GeneratePlan godoc
// @Summary Generate a new marathon plan for the runner
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body GeneratePlanRequest true "Runner profile"
// @Success 201 {object} domain.TrainingPlan
// @Failure 400 {object} gin.H "Invalid profile"
// @Router /plans [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	profile, err := req.toProfile()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GeneratePlan(c.Request.Context(), runnerID, profile)
	if err != nil {
		handlePlanError(c, err, "generate plan")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlans godoc
// @Summary List the runner's plans, newest first
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.PlanSummary
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), runnerID)
	if err != nil {
		handlePlanError(c, err, "list plans")
		return
	}
	if plans == nil {
		plans = []service.PlanSummary{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetActivePlan godoc
// @Summary Get the runner's active plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.TrainingPlan
// @Router /plans/active [get]
func (h *PlanHandler) GetActivePlan(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetActivePlan(c.Request.Context(), runnerID)
	if err != nil {
		handlePlanError(c, err, "load active plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetPlan godoc
// @Summary Get a full plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} domain.TrainingPlan
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), runnerID, c.Param("planId"))
	if err != nil {
		handlePlanError(c, err, "load plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GetWeek godoc
// @Summary Get one week of a plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param week path int true "Week number (1-based)"
// @Success 200 {object} domain.TrainingWeek
// @Router /plans/{planId}/weeks/{week} [get]
func (h *PlanHandler) GetWeek(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	weekNumber, err := strconv.Atoi(c.Param("week"))
	if err != nil || weekNumber < 1 {
		abortWithError(c, http.StatusBadRequest, "Week must be a positive integer.")
		return
	}
	week, err := h.planService.GetWeek(c.Request.Context(), runnerID, c.Param("planId"), weekNumber)
	if err != nil {
		handlePlanError(c, err, "load week")
		return
	}
	c.JSON(http.StatusOK, week)
}

// GetToday godoc
// @Summary Today's workout, or the next one, and the current week
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} service.TodayView
// @Router /plans/{planId}/today [get]
func (h *PlanHandler) GetToday(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	view, err := h.planService.GetToday(c.Request.Context(), runnerID, c.Param("planId"))
	if err != nil {
		handlePlanError(c, err, "load today's workout")
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetStats godoc
// @Summary Planned versus completed volume per week
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} service.PlanStats
// @Router /plans/{planId}/stats [get]
func (h *PlanHandler) GetStats(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	stats, err := h.planService.GetStats(c.Request.Context(), runnerID, c.Param("planId"))
	if err != nil {
		handlePlanError(c, err, "load plan stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CompleteWorkout godoc
// @Summary Mark a workout as completed
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Param workoutId path string true "Workout ID"
// @Param completion body CompleteWorkoutRequest true "Actual session data"
// @Success 200 {object} domain.Workout
// @Failure 409 {object} gin.H "Plan modified concurrently"
// @Router /plans/{planId}/workouts/{workoutId}/complete [post]
func (h *PlanHandler) CompleteWorkout(c *gin.Context) {
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}

	workout, err := h.planService.CompleteWorkout(c.Request.Context(), runnerID, c.Param("planId"), c.Param("workoutId"),
		domain.Completion{
			ActualDistanceKm:  req.ActualDistanceKm,
			ActualDurationMin: req.ActualDurationMin,
			Feeling:           req.Feeling,
			Notes:             req.Notes,
		})
	if err != nil {
		handlePlanError(c, err, "complete workout")
		return
	}
	c.JSON(http.StatusOK, workout)
}

// ExportPlan godoc
// @Summary Upload a structured export of the plan and return a download link
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 200 {object} service.ExportResult
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /plans/{planId}/export [post]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	res, err := h.planService.ExportPlan(c.Request.Context(), runnerID, c.Param("planId"))
	if err != nil {
		handlePlanError(c, err, "export plan")
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeletePlan godoc
// @Summary Delete a plan
// @Tags Plans
// @Security BearerAuth
// @Param planId path string true "Plan ID"
// @Success 204
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	runnerID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), runnerID, c.Param("planId")); err != nil {
		handlePlanError(c, err, "delete plan")
		return
	}
	c.Status(http.StatusNoContent)
}
