package handlers

import (
	"net/http"
	"strings"
	"time"

	"placementcell/internal/app"
	"placementcell/internal/common"
	"placementcell/internal/domain/application"
	"placementcell/internal/http/middleware"
	"placementcell/internal/http/response"
	"placementcell/internal/lifecycle"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
	applyLimit   int
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter, applyLimit int) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter, applyLimit: applyLimit}
}

type applyRequest struct {
	DriveID string `json:"drive_id"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.DriveID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"drive_id": "drive_id is required"}))
		return
	}
	driveID, err := common.ParseUUID(req.DriveID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"drive_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + driveID.String() + ":" + identity.SubjectID.String()
		if !h.limiter.Allow(key, h.applyLimit, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), identity, driveID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.ListForIdentity(r.Context(), identity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.Get(r.Context(), identity, applicationID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) ListByDrive(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	driveID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.applications.ListByDrive(r.Context(), identity, driveID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type roundRequest struct {
	Status          string  `json:"status"`
	ScheduledDate   *string `json:"scheduled_date"`
	Feedback        *string `json:"feedback"`
	OverallFeedback *string `json:"overall_feedback"`
}

// UpdateRound handles PATCH /applications/{id}/rounds/{index}.
func (h *ApplicationHandler) UpdateRound(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	index, err := intFromPath(r, 1, "round_index")
	if err != nil {
		response.Error(w, err)
		return
	}
	var req roundRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.UpdateRound(r.Context(), identity, applicationID, lifecycle.RoundUpdate{
		RoundIndex:      index,
		Status:          application.RoundState(strings.TrimSpace(req.Status)),
		ScheduledDate:   req.ScheduledDate,
		Feedback:        req.Feedback,
		OverallFeedback: req.OverallFeedback,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type overrideRequest struct {
	Status   string  `json:"status"`
	Feedback *string `json:"feedback"`
}

func (h *ApplicationHandler) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req overrideRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.OverrideStatus(r.Context(), applicationID, application.Status(strings.TrimSpace(req.Status)), req.Feedback)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.applications.Delete(r.Context(), applicationID); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ApplicationHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.applications.StatusSummary(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, summary)
}
