package handlers

import (
	"net/http"
	"time"

	"placementcell/internal/app"
	"placementcell/internal/common"
	"placementcell/internal/http/middleware"
	"placementcell/internal/http/response"
)

type AuthHandler struct {
	auth       *app.AuthService
	students   *app.StudentService
	companies  *app.CompanyService
	limiter    middleware.Limiter
	loginLimit int
}

func NewAuthHandler(auth *app.AuthService, students *app.StudentService, companies *app.CompanyService, limiter middleware.Limiter, loginLimit int) *AuthHandler {
	return &AuthHandler{auth: auth, students: students, companies: companies, limiter: limiter, loginLimit: loginLimit}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow("login:"+middleware.ClientIP(r), h.loginLimit, time.Minute) {
		response.Error(w, common.NewError(common.CodeRateLimited, "login rate limit exceeded", nil))
		return
	}
	var req app.LoginInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	session, err := h.auth.Login(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, session)
}

func (h *AuthHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterStudentInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.students.Register(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *AuthHandler) RegisterCompany(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterCompanyInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.companies.Register(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}
