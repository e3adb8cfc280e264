package handlers

import (
	"net/http"

	"placementcell/internal/app"
	"placementcell/internal/http/response"
)

type CompanyHandler struct {
	companies *app.CompanyService
}

func NewCompanyHandler(companies *app.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.companies.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type approveRequest struct {
	Approved *bool `json:"approved"`
}

func (h *CompanyHandler) Approve(w http.ResponseWriter, r *http.Request) {
	companyID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req approveRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	approved := req.Approved == nil || *req.Approved
	updated, err := h.companies.Approve(r.Context(), companyID, approved)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
