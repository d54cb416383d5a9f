package handlers

import (
	"net/http"

	"flymedia_backend/internal/services"
	"flymedia_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the account card and the recent activity feed.
type ProfileHandler struct {
	*BaseHandler
	profileService  services.ProfileService
	activityService services.ActivityService
}

func NewProfileHandler(
	base *BaseHandler,
	profileService services.ProfileService,
	activityService services.ActivityService,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:     base,
		profileService:  profileService,
		activityService: activityService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	profile := r.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
		profile.DELETE("", h.Logout)
	}

	activity := r.Group("/activity")
	{
		activity.GET("", h.ListActivity)
		activity.POST("", h.RecordActivity)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.Save(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Logout(c *gin.Context) {
	if err := h.profileService.Logout(c.Request.Context()); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) ListActivity(c *gin.Context) {
	entries, err := h.activityService.List(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *ProfileHandler) RecordActivity(c *gin.Context) {
	var req dto.CreateActivityRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	entry, err := h.activityService.Record(c.Request.Context(), req.Type, req.Message)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
