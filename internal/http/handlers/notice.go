package handlers

import (
	"net/http"

	"placementcell/internal/app"
	"placementcell/internal/http/response"
)

type NoticeHandler struct {
	notices *app.NoticeService
}

func NewNoticeHandler(notices *app.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

type activeRequest struct {
	Active *bool `json:"active"`
}

func (h *NoticeHandler) ActiveNotices(w http.ResponseWriter, r *http.Request) {
	items, err := h.notices.ListNotices(r.Context(), true)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NoticeHandler) ListNotices(w http.ResponseWriter, r *http.Request) {
	items, err := h.notices.ListNotices(r.Context(), false)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NoticeHandler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.NoticeInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.notices.CreateNotice(r.Context(), identity, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *NoticeHandler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	noticeID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.NoticeInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.notices.UpdateNotice(r.Context(), identity, noticeID, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *NoticeHandler) SetNoticeActive(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	noticeID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req activeRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	active := req.Active == nil || *req.Active
	updated, err := h.notices.SetNoticeActive(r.Context(), identity, noticeID, active)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *NoticeHandler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	noticeID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.notices.DeleteNotice(r.Context(), identity, noticeID); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *NoticeHandler) ActiveEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.notices.ListEvents(r.Context(), true)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NoticeHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	items, err := h.notices.ListEvents(r.Context(), false)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NoticeHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.EventInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.notices.CreateEvent(r.Context(), identity, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *NoticeHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	eventID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var input app.EventInput
	if err := decodeJSON(r, &input); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.notices.UpdateEvent(r.Context(), identity, eventID, input)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *NoticeHandler) SetEventActive(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	eventID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req activeRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	active := req.Active == nil || *req.Active
	updated, err := h.notices.SetEventActive(r.Context(), identity, eventID, active)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *NoticeHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	eventID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.notices.DeleteEvent(r.Context(), identity, eventID); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
