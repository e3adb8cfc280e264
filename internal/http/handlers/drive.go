package handlers

import (
	"net/http"
	"strings"

	"placementcell/internal/app"
	"placementcell/internal/common"
	"placementcell/internal/domain/drive"
	"placementcell/internal/http/response"
)

type DriveHandler struct {
	drives *app.DriveService
}

func NewDriveHandler(drives *app.DriveService) *DriveHandler {
	return &DriveHandler{drives: drives}
}

func (h *DriveHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.CreateDriveInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.drives.Create(r.Context(), identity, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *DriveHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.drives.ListByCompany(r.Context(), identity.SubjectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type driveStatusRequest struct {
	Status string `json:"status"`
}

func (h *DriveHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	var req driveStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		response.Error(w, common.NewError(common.CodeValidation, "status is required", nil))
		return
	}
	updated, err := h.drives.UpdateStatus(r.Context(), identity, driveID, drive.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *DriveHandler) Candidates(w http.ResponseWriter, r *http.Request) {
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
	items, err := h.drives.EligibleCandidates(r.Context(), identity, driveID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}
