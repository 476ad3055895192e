package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/service"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name           string                 `json:"name" binding:"required"`
	Email          string                 `json:"email" binding:"required,email"`
	Password       string                 `json:"password" binding:"required,min=8"`
	Role           domain.Role            `json:"role" binding:"required,oneof=runner coach"`
	RunnerDefaults *RunnerDefaultsRequest `json:"runnerDefaults"`
}

// RunnerDefaultsRequest carries the training settings used when a plan
// request omits them.
type RunnerDefaultsRequest struct {
	Level        domain.ExperienceLevel `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	WeeklyKmBase float64                `json:"weeklyKmBase" binding:"gte=0"`
	RunDays      []int                  `json:"runDays" binding:"omitempty,min=3,max=5,dive,min=0,max=6"`
}

func (r *RunnerDefaultsRequest) toDomain() *domain.RunnerDefaults {
	if r == nil {
		return nil
	}
	return &domain.RunnerDefaults{Level: r.Level, WeeklyKmBase: r.WeeklyKmBase, RunDays: r.RunDays}
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	RunnerIDs []string    `json:"runnerIds,omitempty"`
	CoachID   *string     `json:"coachId,omitempty"`

	RunnerDefaults *domain.RunnerDefaults `json:"runnerDefaults,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user (Runner or Coach)
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (email already exists)"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), service.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Defaults: req.RunnerDefaults.toDomain(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrMissingCredentials),
			errors.Is(err, service.ErrDefaultsForCoach), errors.Is(err, domain.ErrInvalidProfile):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("ERROR: Registration failed for %s: %v", req.Email, err)
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			log.Printf("ERROR: Login failed for %s: %v", req.Email, err)
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UserResponse
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.handleAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateRunnerDefaults godoc
// @Summary Replace the runner's training defaults
// @Tags Auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param defaults body RunnerDefaultsRequest true "Training defaults"
// @Success 200 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid defaults"
// @Router /me/runner-defaults [put]
func (h *AuthHandler) UpdateRunnerDefaults(c *gin.Context) {
	var req RunnerDefaultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.authService.UpdateRunnerDefaults(c.Request.Context(), userID, *req.toDomain())
	if err != nil {
		h.handleAccountError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *AuthHandler) handleAccountError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidProfile):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("ERROR: Account request failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}

	resp := UserResponse{
		ID:        user.ID.Hex(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}

	if len(user.RunnerIDs) > 0 {
		resp.RunnerIDs = make([]string, len(user.RunnerIDs))
		for i, id := range user.RunnerIDs {
			resp.RunnerIDs[i] = id.Hex()
		}
	}

	if user.CoachID != nil && *user.CoachID != primitive.NilObjectID {
		coachIDHex := user.CoachID.Hex()
		resp.CoachID = &coachIDHex
	}
	resp.RunnerDefaults = user.Defaults

	return resp
}
