package controller

import (
	"math"
	"sat_practice_backend/internal/catalog"
	"sat_practice_backend/internal/grading"
	"sat_practice_backend/internal/model"
	"sat_practice_backend/internal/service"
	"sat_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	Catalog         *service.CatalogService
	Attempts        *service.AttemptService
	DefaultPageSize int
}

func NewQuestionController(catalogSvc *service.CatalogService, attempts *service.AttemptService, defaultPageSize int) *QuestionController {
	return &QuestionController{Catalog: catalogSvc, Attempts: attempts, DefaultPageSize: defaultPageSize}
}

// SubmitAnswerRequest carries exactly the field the question kind needs:
// optionId for id_mcq, key for ibn_mcq, input for both SPR kinds.
// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	OptionID string `json:"optionId"`
	Key      string `json:"key"`
	Input    string `json:"input"`
}

func bindFilters(c *gin.Context) (catalog.Filters, bool) {
	var f catalog.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		util.BadRequest(c, util.ErrInvalidFilter.Error()+": "+err.Error())
		return f, false
	}
	return f, true
}

// viewState reads the browse state from the query string. Malformed page
// values are left for DeriveQuery to replace with defaults.
func (ctrl *QuestionController) viewState(c *gin.Context, f catalog.Filters) catalog.ViewState {
	s := catalog.ViewState{
		Filters:  f,
		Page:     util.ParseFloatOrNaN(c.Query("page")),
		PageSize: util.ParseFloatOrNaN(c.Query("pageSize")),
		Sort:     catalog.SortKey(c.Query("sort")),
		Order:    catalog.Order(c.Query("order")),
	}
	if math.IsNaN(s.PageSize) && ctrl.DefaultPageSize > 0 {
		s.PageSize = float64(ctrl.DefaultPageSize)
	}
	return s
}

// ListQuestions godoc
// @Summary List questions
// @Description One page of the catalog. hasMore is derived by over-fetching one row.
// @Tags Questions
// @Produce json
// @Param page query number false "1-based page"
// @Param pageSize query number false "Page size (max 100)"
// @Param sort query string false "createDate or updateDate"
// @Param order query string false "asc or desc"
// @Param program query string false "Program"
// @Param subject query string false "Subject"
// @Param domain query string false "Domain"
// @Param difficulty query string false "Difficulty"
// @Param skill query string false "Skill"
// @Param ibnOnly query bool false "Only IBN-origin questions"
// @Param hasExternalId query bool false "Only questions with an external id"
// @Param onlyInactive query bool false "Only inactive questions"
// @Param questionId query string false "Exact questionId"
// @Success 200 {object} util.Response{data=catalog.ListResult}
// @Failure 400 {object} util.Response
// @Router /api/questions [get]
func (ctrl *QuestionController) ListQuestions(c *gin.Context) {
	f, ok := bindFilters(c)
	if !ok {
		return
	}
	res, err := ctrl.Catalog.List(c.Request.Context(), catalog.DeriveQuery(ctrl.viewState(c, f)))
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, res)
}

// CountQuestions godoc
// @Summary Count questions
// @Description Bounded count; capped=true means more than cap rows match.
// @Tags Questions
// @Produce json
// @Param subject query string false "Subject"
// @Param domain query string false "Domain"
// @Param skill query string false "Skill"
// @Param difficulty query string false "Difficulty"
// @Param questionId query string false "Exact questionId"
// @Success 200 {object} util.Response{data=service.CountResult}
// @Failure 400 {object} util.Response
// @Router /api/questions/count [get]
func (ctrl *QuestionController) CountQuestions(c *gin.Context) {
	f, ok := bindFilters(c)
	if !ok {
		return
	}
	res, err := ctrl.Catalog.Count(c.Request.Context(), f)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, res)
}

// GetQuestion godoc
// @Summary Get a question
// @Tags Questions
// @Produce json
// @Param questionId path string true "questionId"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{questionId} [get]
func (ctrl *QuestionController) GetQuestion(c *gin.Context) {
	q, err := ctrl.Catalog.GetByQuestionID(c.Request.Context(), c.Param("questionId"))
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	if q == nil {
		util.HandleError(c, util.ErrQuestionNotFound)
		return
	}
	util.Success(c, q)
}

// SubmitAnswer godoc
// @Summary Grade and record an answer
// @Description Grades the submission on the server and records the attempt.
// @Tags Questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param questionId path string true "questionId"
// @Param request body SubmitAnswerRequest true "Submission"
// @Success 200 {object} util.Response{data=model.SubmissionResult}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{questionId}/submit [post]
func (ctrl *QuestionController) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	res, err := ctrl.Attempts.SubmitAnswer(c.Request.Context(), util.UserID(c), c.Param("questionId"), grading.Submission{
		OptionID: req.OptionID,
		Key:      req.Key,
		Input:    req.Input,
	})
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, res)
}

// GetTaxonomy godoc
// @Summary SAT taxonomy
// @Description Subjects, domains and skills in display order.
// @Tags Questions
// @Produce json
// @Success 200 {object} util.Response{data=model.TaxonomyView}
// @Router /api/taxonomy [get]
func (ctrl *QuestionController) GetTaxonomy(c *gin.Context) {
	util.Success(c, model.SAT.View())
}
