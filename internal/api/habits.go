package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orowoletimothy/vane/internal/constants"
	"github.com/orowoletimothy/vane/internal/errors"
	"github.com/orowoletimothy/vane/internal/models"
	"github.com/orowoletimothy/vane/internal/tracker"
)

type createHabitRequest struct {
	models.HabitDraft
	SkipFeasibilityCheck bool `json:"skipFeasibilityCheck"`
	Override             bool `json:"override"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type progressRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type rolloverRequest struct {
	Date string `json:"date"`
}

// intQuery parses an optional integer query parameter; absent means 0.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "query parameter "+name+" must be an integer")
		return 0, false
	}
	return n, true
}

func (h *Handler) TodayHabits(c *gin.Context) {
	habits, err := h.svc.Today(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, habits, map[string]any{"count": len(habits)})
}

func (h *Handler) AllHabits(c *gin.Context) {
	includeDeleted := c.Query("include_deleted") == "true"
	habits, err := h.svc.Habits(c.Request.Context(), c.Param("userId"), includeDeleted)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, habits, map[string]any{"count": len(habits)})
}

// CreateHabit responds 201 with the habit, or 422 with the feasibility
// result when the habit was rejected.
func (h *Handler) CreateHabit(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON: "+err.Error())
		return
	}
	habit, result, err := h.svc.CreateHabit(c.Request.Context(), c.Param("userId"), req.HabitDraft, tracker.CreateOptions{
		SkipFeasibilityCheck: req.SkipFeasibilityCheck,
		Override:             req.Override,
	})
	if err != nil {
		if stderrors.Is(err, errors.ErrNotFeasible) {
			failWith(c, err, result)
			return
		}
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, habit, map[string]any{"feasibility": result})
}

func (h *Handler) CheckFeasibility(c *gin.Context) {
	var req createHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON: "+err.Error())
		return
	}
	result, err := h.svc.Evaluate(c.Request.Context(), c.Param("userId"), req.HabitDraft, req.Override)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}

func (h *Handler) EditHabit(c *gin.Context) {
	var draft models.HabitDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, "invalid JSON: "+err.Error())
		return
	}
	habit, err := h.svc.EditHabit(c.Request.Context(), c.Param("userId"), c.Param("habitId"), draft)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, habit)
}

func (h *Handler) DeleteHabit(c *gin.Context) {
	if err := h.svc.DeleteHabit(c.Request.Context(), c.Param("userId"), c.Param("habitId")); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"id": c.Param("habitId"), "deleted": true})
}

func (h *Handler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON: "+err.Error())
		return
	}
	habit, err := h.svc.SetStatus(c.Request.Context(), c.Param("userId"), c.Param("habitId"), constants.HabitStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, habit)
}

func (h *Handler) Progress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON: "+err.Error())
		return
	}
	habit, err := h.svc.Progress(c.Request.Context(), c.Param("userId"), c.Param("habitId"), *req.Delta)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, habit)
}

func (h *Handler) History(c *gin.Context) {
	days, valid := intQuery(c, "days")
	if !valid {
		return
	}
	stats, err := h.svc.History(c.Request.Context(), c.Param("userId"), c.Param("habitId"), days)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, stats)
}

func (h *Handler) Analytics(c *gin.Context) {
	days, valid := intQuery(c, "days")
	if !valid {
		return
	}
	a, err := h.svc.Analytics(c.Request.Context(), c.Param("userId"), days)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, a)
}

// Rollover is the hook for an external end-of-day scheduler. The body is
// optional.
func (h *Handler) Rollover(c *gin.Context) {
	var req rolloverRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid JSON: "+err.Error())
			return
		}
	}
	report, err := h.svc.Rollover(c.Request.Context(), c.Param("userId"), req.Date)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, report)
}
