package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"placementcell/internal/app"
	"placementcell/internal/common"
	"placementcell/internal/eligibility"
	"placementcell/internal/http/response"
)

type StudentHandler struct {
	students *app.StudentService
	drives   *app.DriveService
}

func NewStudentHandler(students *app.StudentService, drives *app.DriveService) *StudentHandler {
	return &StudentHandler{students: students, drives: drives}
}

func (h *StudentHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	profile, err := h.students.Get(r.Context(), identity.SubjectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

func (h *StudentHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req app.ProfileUpdate
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.students.UpdateProfile(r.Context(), identity.SubjectID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *StudentHandler) EligibleDrives(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFrom(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.drives.EligibleForStudent(r.Context(), identity.SubjectID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := studentFilterFromQuery(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.students.List(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type verifyRequest struct {
	Verified *bool `json:"verified"`
}

func (h *StudentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	studentID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req verifyRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	verified := req.Verified == nil || *req.Verified
	updated, err := h.students.Verify(r.Context(), studentID, verified)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type blacklistRequest struct {
	Blacklisted *bool `json:"blacklisted"`
}

func (h *StudentHandler) Blacklist(w http.ResponseWriter, r *http.Request) {
	studentID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req blacklistRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	blacklisted := req.Blacklisted == nil || *req.Blacklisted
	updated, err := h.students.SetBlacklisted(r.Context(), studentID, blacklisted)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	studentID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.students.Delete(r.Context(), studentID); err != nil {
		response.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

// Bulk handles /admin/students/bulk/{verify|blacklist|unblacklist|delete}.
func (h *StudentHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	ids, err := parseIDs(req.IDs)
	if err != nil {
		response.Error(w, err)
		return
	}
	var result app.BulkResult
	switch action := pathSegment(r, 1); action {
	case "verify":
		result, err = h.students.BulkVerify(r.Context(), ids)
	case "blacklist":
		result, err = h.students.BulkBlacklist(r.Context(), ids, true)
	case "unblacklist":
		result, err = h.students.BulkBlacklist(r.Context(), ids, false)
	case "delete":
		result, err = h.students.BulkDelete(r.Context(), ids)
	default:
		response.Error(w, common.NewError(common.CodeNotFound, "unknown bulk action "+action, nil))
		return
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func studentFilterFromQuery(r *http.Request) (eligibility.StudentFilter, error) {
	q := r.URL.Query()
	filter := eligibility.StudentFilter{
		Search:       q.Get("search"),
		Verification: eligibility.VerificationFilter(q.Get("verification")),
		Blacklist:    eligibility.BlacklistFilter(q.Get("blacklist")),
	}
	fields := map[string]string{}
	parseFloat := func(key string) *float64 {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields[key] = "must be a number"
			return nil
		}
		return &value
	}
	parseInt := func(key string) *int {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil
		}
		value, err := strconv.Atoi(raw)
		if err != nil {
			fields[key] = "must be an integer"
			return nil
		}
		return &value
	}
	filter.MinCGPA = parseFloat("min_cgpa")
	filter.MaxCGPA = parseFloat("max_cgpa")
	filter.MinBacklogs = parseInt("min_backlogs")
	filter.MaxBacklogs = parseInt("max_backlogs")
	filter.Branches = splitList(q["branch"])
	for _, raw := range splitList(q["year"]) {
		year, err := strconv.Atoi(raw)
		if err != nil {
			fields["year"] = "must be an integer"
			continue
		}
		filter.Years = append(filter.Years, year)
	}
	if len(fields) > 0 {
		return filter, common.NewValidationError("invalid filter", fields)
	}
	return filter, nil
}

// splitList accepts both repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
