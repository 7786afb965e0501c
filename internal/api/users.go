package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orowoletimothy/vane/internal/validation"
)

func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.svc.User(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, u)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var in validation.UserSettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON: "+err.Error())
		return
	}
	u, err := h.svc.UpdateSettings(c.Request.Context(), c.Param("userId"), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, u)
}

func (h *Handler) LogMood(c *gin.Context) {
	var in validation.MoodInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid JSON: "+err.Error())
		return
	}
	entry, err := h.svc.LogMood(c.Request.Context(), c.Param("userId"), in)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusCreated, entry, nil)
}

func (h *Handler) TodayMood(c *gin.Context) {
	entry, err := h.svc.TodayMood(c.Request.Context(), c.Param("userId"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, entry)
}

func (h *Handler) MoodHistory(c *gin.Context) {
	limit, valid := intQuery(c, "limit")
	if !valid {
		return
	}
	entries, err := h.svc.MoodHistory(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, entries, map[string]any{"count": len(entries)})
}
