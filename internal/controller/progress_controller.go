package controller

import (
	"errors"
	"strconv"

	"academy_backend/internal/service"
	"academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Progress    *service.ProgressService
	Curriculum  *service.CurriculumService
	CourseTitle string
}

func NewProgressController(progress *service.ProgressService, curriculum *service.CurriculumService) *ProgressController {
	return &ProgressController{Progress: progress, Curriculum: curriculum}
}

// @Summary Completion summary for the current user
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.Progress.Summary(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// @Summary Toggle a week's completion state
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param number path int true "week number"
// @Success 200 {object} util.Response
// @Router /api/progress/weeks/{number}/toggle [post]
func (c *ProgressController) ToggleWeek(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid week number")
		return
	}
	// Only weeks that exist in the document can be marked.
	if _, err := c.Curriculum.Week(number); err != nil {
		if errors.Is(err, util.ErrWeekNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	completed, err := c.Progress.Toggle(claims.UserID, number)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	summary, err := c.Progress.Summary(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"week":      number,
		"completed": completed,
		"progress":  summary,
	})
}

// @Summary Completion certificate
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/certificate [get]
func (c *ProgressController) GetCertificate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	title := c.CourseTitle
	if cur, err := c.Curriculum.Load(); err == nil && cur.Title != "" {
		title = cur.Title
	}

	cert, err := c.Progress.IssueCertificate(claims.UserID, title)
	if err != nil {
		if errors.Is(err, util.ErrNotEligible) {
			util.Error(ctx, 403, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}
