// internal/api/coach_handler.go
package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/marathon-trainer/internal/service"
)

type CoachHandler struct {
	coachService service.CoachService
}

func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

type AddRunnerRequest struct {
	RunnerEmail string `json:"runnerEmail" binding:"required,email"`
}

// AddRunnerByEmail godoc
// @Summary Add a runner to the coach's roster by email
// @Tags Coach
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param runnerRequest body AddRunnerRequest true "Runner's email"
// @Success 200 {object} UserResponse
// @Failure 403 {object} gin.H "User is not a runner"
// @Failure 404 {object} gin.H "Runner not found"
// @Failure 409 {object} gin.H "Runner already has a coach"
// @Router /coach/runners [post]
func (h *CoachHandler) AddRunnerByEmail(c *gin.Context) {
	var req AddRunnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}

	runner, err := h.coachService.AddRunnerByEmail(c.Request.Context(), coachID, req.RunnerEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRunnerNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrRunnerNotRole):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrRunnerAlreadyCoached):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			log.Printf("ERROR: Adding runner %s to coach %s: %v", req.RunnerEmail, coachID.Hex(), err)
			abortWithError(c, http.StatusInternalServerError, "Failed to add runner.")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(runner))
}

// GetManagedRunners godoc
// @Summary Get the coach's runners
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Router /coach/runners [get]
func (h *CoachHandler) GetManagedRunners(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}

	runners, err := h.coachService.GetManagedRunners(c.Request.Context(), coachID)
	if err != nil {
		log.Printf("ERROR: Listing runners of coach %s: %v", coachID.Hex(), err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve runners.")
		return
	}

	resp := make([]UserResponse, 0, len(runners))
	for i := range runners {
		resp = append(resp, MapUserToResponse(&runners[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetRunnerActivePlan godoc
// @Summary Read-only view of a managed runner's active plan
// @Tags Coach
// @Produce json
// @Security BearerAuth
// @Param runnerId path string true "Runner ID"
// @Success 200 {object} domain.TrainingPlan
// @Failure 403 {object} gin.H "Runner not managed by this coach"
// @Failure 404 {object} gin.H "Runner or plan not found"
// @Router /coach/runners/{runnerId}/plans/active [get]
func (h *CoachHandler) GetRunnerActivePlan(c *gin.Context) {
	coachID, ok := mustUserID(c)
	if !ok {
		return
	}
	runnerID, err := primitive.ObjectIDFromHex(c.Param("runnerId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid runner ID format.")
		return
	}

	plan, err := h.coachService.GetRunnerActivePlan(c.Request.Context(), coachID, runnerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRunnerNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrRunnerNotFound), errors.Is(err, service.ErrNoActivePlan):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			log.Printf("ERROR: Loading active plan of runner %s for coach %s: %v", runnerID.Hex(), coachID.Hex(), err)
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plan.")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}
