package controller

import (
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/repository"
	"sat_practice_backend/internal/service"
	"sat_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Attempts *service.AttemptService
}

func NewAttemptController(attempts *service.AttemptService) *AttemptController {
	return &AttemptController{Attempts: attempts}
}

// RecordAttemptRequest is a client-graded attempt.
// swagger:model RecordAttemptRequest
type RecordAttemptRequest struct {
	QuestionID string                 `json:"questionId" binding:"required"`
	Result     model.SubmissionResult `json:"result"`
}

// MeResponse is nil data for anonymous callers.
type MeResponse struct {
	UserID string         `json:"userId"`
	Role   model.UserRole `json:"role"`
	Email  string         `json:"email,omitempty"`
	Name   string         `json:"name,omitempty"`
}

// RecordAttempt godoc
// @Summary Record an attempt
// @Description Stores a client-graded result after checking it against the question kind.
// @Tags Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecordAttemptRequest true "Attempt"
// @Success 201 {object} util.Response{data=model.AttemptSummary}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/attempts [post]
func (ctrl *AttemptController) RecordAttempt(c *gin.Context) {
	var req RecordAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	a, err := ctrl.Attempts.RecordAttempt(c.Request.Context(), util.UserID(c), req.QuestionID, req.Result)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Created(c, a.Summary())
}

// Me godoc
// @Summary Current user
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=MeResponse}
// @Router /api/me [get]
func (ctrl *AttemptController) Me(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Success(c, nil)
		return
	}
	util.Success(c, MeResponse{UserID: claims.UserID, Role: claims.Role, Email: claims.Email, Name: claims.Name})
}

// ListMyAttempts godoc
// @Summary Recent attempts
// @Description Newest first; empty for anonymous callers.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max attempts (default 100)"
// @Success 200 {object} util.Response{data=[]model.AttemptSummary}
// @Router /api/me/attempts [get]
func (ctrl *AttemptController) ListMyAttempts(c *gin.Context) {
	limit := util.ParseIntDefault(c.Query("limit"), service.DefaultAttemptLimit)
	out, err := ctrl.Attempts.ListMyAttempts(c.Request.Context(), util.UserID(c), limit)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, out)
}

// ListMyAttemptsPage godoc
// @Summary Paginated attempts
// @Description Cursor pagination, optionally narrowed to one skill or one domain.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Param numItems query int false "Page size (max 100)"
// @Param cursor query string false "continueCursor of the previous page"
// @Param skill query string false "Skill"
// @Param domain query string false "Domain"
// @Success 200 {object} util.Response{data=service.AttemptPage}
// @Failure 400 {object} util.Response
// @Router /api/me/attempts/page [get]
func (ctrl *AttemptController) ListMyAttemptsPage(c *gin.Context) {
	filter := repository.AttemptFilter{
		Skill:  model.Skill(c.Query("skill")),
		Domain: model.Domain(c.Query("domain")),
	}
	numItems := util.ParseIntDefault(c.Query("numItems"), service.DefaultAttemptPageSize)
	page, err := ctrl.Attempts.ListMyAttemptsPaginated(c.Request.Context(), util.UserID(c), filter, numItems, c.Query("cursor"))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, page)
}

// Stats godoc
// @Summary Attempt statistics
// @Description Totals and per subject, domain and skill breakdowns.
// @Tags Attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.AttemptStats}
// @Router /api/me/stats [get]
func (ctrl *AttemptController) Stats(c *gin.Context) {
	stats, err := ctrl.Attempts.Stats(c.Request.Context(), util.UserID(c))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, stats)
}
