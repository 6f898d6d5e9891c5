package controller

import (
	"errors"
	"strconv"

	"academy_backend/internal/config"
	"academy_backend/internal/middleware"
	"academy_backend/internal/model"
	"academy_backend/internal/repository"
	"academy_backend/internal/service"
	"academy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CurriculumController struct {
	Curriculum *service.CurriculumService
	Access     *service.AccessService
	Render     *service.RenderService
	UserRepo   *repository.UserRepository
	Course     *config.CourseConfig
}

func NewCurriculumController(
	curriculum *service.CurriculumService,
	access *service.AccessService,
	render *service.RenderService,
	userRepo *repository.UserRepository,
	course *config.CourseConfig,
) *CurriculumController {
	return &CurriculumController{
		Curriculum: curriculum,
		Access:     access,
		Render:     render,
		UserRepo:   userRepo,
		Course:     course,
	}
}

// WeekSummary is the listing shape: structured fields without the body.
type WeekSummary struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Phase     int    `json:"phase"`
	PhaseName string `json:"phaseName"`
	IsFree    bool   `json:"isFree"`
}

// WeekResponse carries the access decision alongside the (possibly gated or
// truncated) week body.
type WeekResponse struct {
	model.Week
	Access      service.AccessState `json:"access"`
	IsFree      bool                `json:"isFree"`
	ContentHTML string              `json:"contentHtml,omitempty"`
	Pricing     *PricingInfo        `json:"pricing,omitempty"`
}

type PricingInfo struct {
	Amount  int    `json:"amount"` // cents
	Display string `json:"display"`
}

// @Summary Curriculum overview
// @Tags curriculum
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/curriculum [get]
func (c *CurriculumController) GetCurriculum(ctx *gin.Context) {
	cur, err := c.Curriculum.Load()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	type phaseView struct {
		Number    int           `json:"number"`
		Name      string        `json:"name"`
		WeekRange string        `json:"weekRange"`
		Weeks     []WeekSummary `json:"weeks"`
	}

	phases := make([]phaseView, 0, len(cur.Phases))
	for _, p := range cur.Phases {
		pv := phaseView{Number: p.Number, Name: p.Name, WeekRange: p.WeekRange}
		for _, w := range p.Weeks {
			pv.Weeks = append(pv.Weeks, c.summarize(w))
		}
		phases = append(phases, pv)
	}

	util.Success(ctx, gin.H{
		"title":      cur.Title,
		"edition":    cur.Edition,
		"duration":   cur.Duration,
		"goal":       cur.Goal,
		"phases":     phases,
		"appendices": len(cur.Appendices),
	})
}

// @Summary List all weeks
// @Tags curriculum
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/weeks [get]
func (c *CurriculumController) ListWeeks(ctx *gin.Context) {
	weeks, err := c.Curriculum.AllWeeks()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	summaries := make([]WeekSummary, 0, len(weeks))
	for _, w := range weeks {
		summaries = append(summaries, c.summarize(w))
	}
	util.Success(ctx, summaries)
}

// @Summary One week, gated by the visitor's access state
// @Tags curriculum
// @Produce json
// @Param number path int true "week number"
// @Param format query string false "set to html to render the body"
// @Success 200 {object} util.Response
// @Router /api/weeks/{number} [get]
func (c *CurriculumController) GetWeek(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid week number")
		return
	}

	week, err := c.Curriculum.Week(number)
	if err != nil {
		if errors.Is(err, util.ErrWeekNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	state := c.resolve(ctx, number)

	resp := WeekResponse{
		Week:   *week,
		Access: state,
		IsFree: c.Access.IsFreeWeek(number),
	}

	switch state {
	case service.AccessEmailGated:
		// Body withheld until the gate clears; structured fields stay.
		resp.Content = ""
	case service.AccessPreviewLocked:
		resp.Content = c.Access.Preview(week.Content)
		resp.Pricing = &PricingInfo{
			Amount:  c.Course.PriceAmount,
			Display: c.Course.PriceDisplay,
		}
	}

	if ctx.Query("format") == "html" && resp.Content != "" {
		html, err := c.Render.ToHTML(resp.Content)
		if err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		resp.ContentHTML = html
	}

	util.Success(ctx, resp)
}

// @Summary Access state for a week
// @Tags curriculum
// @Produce json
// @Param number path int true "week number"
// @Success 200 {object} util.Response
// @Router /api/access/{number} [get]
func (c *CurriculumController) GetAccess(ctx *gin.Context) {
	number, err := strconv.Atoi(ctx.Param("number"))
	if err != nil {
		util.BadRequest(ctx, "invalid week number")
		return
	}

	util.Success(ctx, gin.H{
		"week":   number,
		"access": c.resolve(ctx, number),
		"isFree": c.Access.IsFreeWeek(number),
	})
}

// @Summary List appendices
// @Tags curriculum
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/appendices [get]
func (c *CurriculumController) ListAppendices(ctx *gin.Context) {
	appendices, err := c.Curriculum.Appendices()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	type appendixSummary struct {
		Letter string `json:"letter"`
		Title  string `json:"title"`
	}
	summaries := make([]appendixSummary, 0, len(appendices))
	for _, a := range appendices {
		summaries = append(summaries, appendixSummary{Letter: a.Letter, Title: a.Title})
	}
	util.Success(ctx, summaries)
}

// @Summary One appendix, premium-gated like non-free weeks
// @Tags curriculum
// @Produce json
// @Param letter path string true "appendix letter"
// @Success 200 {object} util.Response
// @Router /api/appendices/{letter} [get]
func (c *CurriculumController) GetAppendix(ctx *gin.Context) {
	appendix, err := c.Curriculum.Appendix(ctx.Param("letter"))
	if err != nil {
		if errors.Is(err, util.ErrAppendixNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	// Appendices are never in the free set; week 0 resolves on the
	// remaining signals only.
	state := c.resolve(ctx, 0)

	resp := gin.H{
		"letter": appendix.Letter,
		"title":  appendix.Title,
		"access": state,
	}
	switch state {
	case service.AccessFull:
		resp["content"] = appendix.Content
		if ctx.Query("format") == "html" {
			html, err := c.Render.ToHTML(appendix.Content)
			if err != nil {
				util.LogInternalError(ctx, err)
				return
			}
			resp["contentHtml"] = html
		}
	case service.AccessPreviewLocked:
		resp["content"] = c.Access.Preview(appendix.Content)
		resp["pricing"] = &PricingInfo{
			Amount:  c.Course.PriceAmount,
			Display: c.Course.PriceDisplay,
		}
	}

	util.Success(ctx, resp)
}

func (c *CurriculumController) summarize(w model.Week) WeekSummary {
	return WeekSummary{
		Number:    w.Number,
		Title:     w.Title,
		Subtitle:  w.Subtitle,
		Phase:     w.Phase,
		PhaseName: w.PhaseName,
		IsFree:    c.Access.IsFreeWeek(w.Number),
	}
}

// resolve builds the visitor's signals (profile flag for logged-in users,
// redis flags for the browser) and runs the decision table.
func (c *CurriculumController) resolve(ctx *gin.Context, week int) service.AccessState {
	profilePremium := false
	if claims := util.GetUserFromContext(ctx); claims != nil {
		if user, err := c.UserRepo.FindByID(claims.UserID); err == nil {
			profilePremium = user.IsPremium
		}
	}

	signals := c.Access.SignalsFor(ctx.Request.Context(), middleware.VisitorID(ctx), profilePremium)
	return c.Access.Resolve(week, signals)
}
