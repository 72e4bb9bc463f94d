package controller

import (
	"io"
	"net/http"
	"sat_practice_backend/internal/service"
	"sat_practice_backend/internal/util"
	"sat_practice_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Admin  *service.AdminService
	Import *service.ImportService
}

func NewAdminController(admin *service.AdminService, imports *service.ImportService) *AdminController {
	return &AdminController{Admin: admin, Import: imports}
}

// QuestionIDsRequest names the questions to (de)activate.
// swagger:model QuestionIDsRequest
type QuestionIDsRequest struct {
	QuestionIDs []string `json:"questionIds" binding:"required"`
}

// ActivateQuestions godoc
// @Summary Activate questions
// @Description Unknown ids are counted in notFound, not treated as errors.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QuestionIDsRequest true "questionIds"
// @Success 200 {object} util.Response{data=service.ActivationResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/questions/activate [post]
func (ctrl *AdminController) ActivateQuestions(c *gin.Context) {
	ctrl.setActive(c, true)
}

// DeactivateQuestions godoc
// @Summary Deactivate questions
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body QuestionIDsRequest true "questionIds"
// @Success 200 {object} util.Response{data=service.ActivationResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/questions/deactivate [post]
func (ctrl *AdminController) DeactivateQuestions(c *gin.Context) {
	ctrl.setActive(c, false)
}

func (ctrl *AdminController) setActive(c *gin.Context, active bool) {
	var req QuestionIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}
	var (
		res service.ActivationResult
		err error
	)
	if active {
		res, err = ctrl.Admin.SetQuestionsActive(c.Request.Context(), req.QuestionIDs)
	} else {
		res, err = ctrl.Admin.SetQuestionsInactive(c.Request.Context(), req.QuestionIDs)
	}
	if err != nil {
		util.HandleError(c, err)
		return
	}
	logger.Log.Info("Question activation changed",
		zap.Bool("active", active),
		zap.Int("updated", res.Updated),
		zap.Int("notFound", res.NotFound),
		zap.String("admin", util.UserID(c)))
	util.Success(c, res)
}

// DeactivateAllQuestions godoc
// @Summary Deactivate every question
// @Description Walks the catalog in batches until no active question remains.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.BulkDeactivateResult}
// @Failure 403 {object} util.Response
// @Router /api/admin/questions/deactivate-all [post]
func (ctrl *AdminController) DeactivateAllQuestions(c *gin.Context) {
	res, err := ctrl.Admin.SetAllQuestionsInactive(c.Request.Context())
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, res)
}

// CountNeedingUpdate godoc
// @Summary Questions missing an update date
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.NeedingUpdate}
// @Failure 403 {object} util.Response
// @Router /api/admin/questions/needing-update [get]
func (ctrl *AdminController) CountNeedingUpdate(c *gin.Context) {
	res, err := ctrl.Admin.CountQuestionsNeedingUpdate(c.Request.Context())
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, res)
}

// ImportQuestions godoc
// @Summary Import raw question records
// @Description Accepts a JSON array body or a multipart upload in the "file" field. Records whose questionId already exists are skipped.
// @Tags Admin
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param request body []service.RawQuestion false "Raw records"
// @Param file formData file false "Dataset file"
// @Success 200 {object} util.Response{data=service.ImportResult}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/questions/import [post]
func (ctrl *AdminController) ImportQuestions(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		ctrl.importUpload(c)
		return
	}

	var raws []service.RawQuestion
	if err := c.ShouldBindJSON(&raws); err != nil {
		util.BadRequest(c, util.ErrMalformedImport.Error()+": "+err.Error())
		return
	}
	res, err := ctrl.Import.ImportBatch(c.Request.Context(), raws)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, res)
}

func (ctrl *AdminController) importUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "No file uploaded")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	defer file.Close()

	if _, err := util.ValidateMimeType(file, util.AllowedImportMimeTypes); err != nil {
		util.Error(c, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(c, err)
		return
	}

	logger.Log.Info("Importing uploaded dataset",
		zap.String("filename", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size))
	res, err := ctrl.Import.ImportJSON(c.Request.Context(), file)
	if err != nil {
		util.HandleError(c, err)
		return
	}
	util.Success(c, res)
}

// ResetQuestions godoc
// @Summary Delete every question
// @Description Attempts are kept.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/questions [delete]
func (ctrl *AdminController) ResetQuestions(c *gin.Context) {
	n, err := ctrl.Admin.ResetQuestions(c.Request.Context())
	if err != nil {
		util.HandleError(c, err)
		return
	}
	logger.Log.Warn("Question catalog reset", zap.Int64("deleted", n), zap.String("admin", util.UserID(c)))
	util.Success(c, gin.H{"deleted": n})
}
