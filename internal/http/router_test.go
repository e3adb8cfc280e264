package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"placementcell/internal/app"
	"placementcell/internal/domain/application"
	"placementcell/internal/domain/notification"
	"placementcell/internal/http/handlers"
	"placementcell/internal/http/metrics"
	httpmw "placementcell/internal/http/middleware"
	"placementcell/internal/repository/memory"
	"placementcell/internal/security"
)

type recordingMailer struct {
	sent []notification.Message
}

func (m *recordingMailer) Send(_ context.Context, msg notification.Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	mailer  *recordingMailer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	students := memory.NewStudentRepository()
	companies := memory.NewCompanyRepository()
	drives := memory.NewDriveRepository()
	applications := memory.NewApplicationRepository()
	mailer := &recordingMailer{}

	studentSvc := app.NewStudentService(students, nil)
	companySvc := app.NewCompanyService(companies, nil)
	notificationSvc := app.NewNotificationService(students, mailer, nil, nil)
	driveSvc := app.NewDriveService(drives, companies, students, notificationSvc, nil)
	applicationSvc := app.NewApplicationService(applications, drives, companies, students, true, nil)
	noticeSvc := app.NewNoticeService(memory.NewNoticeRepository(), memory.NewEventRepository(), nil)
	jwtProvider := security.NewJWTProvider("router-test")
	authSvc := app.NewAuthService(students, companies, jwtProvider, app.AdminCredentials{Email: "admin@nfsu.test", Password: "admin-pass"}, time.Hour, nil)
	limiter := httpmw.NewRateLimiter()

	handler := NewRouter(RouterDependencies{
		AuthHandler:         handlers.NewAuthHandler(authSvc, studentSvc, companySvc, limiter, 100),
		StudentHandler:      handlers.NewStudentHandler(studentSvc, driveSvc),
		CompanyHandler:      handlers.NewCompanyHandler(companySvc),
		DriveHandler:        handlers.NewDriveHandler(driveSvc),
		ApplicationHandler:  handlers.NewApplicationHandler(applicationSvc, limiter, 3),
		NotificationHandler: handlers.NewNotificationHandler(notificationSvc),
		NoticeHandler:       handlers.NewNoticeHandler(noticeSvc),
		AuthMiddleware:      httpmw.NewAuthMiddleware(jwtProvider),
		Metrics:             metrics.NewCollector(),
		RequestTimeout:      5 * time.Second,
	})
	return &testServer{t: t, handler: handler, mailer: mailer}
}

func (s *testServer) do(method, path, token string, body any, wantStatus int, out any) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("encode: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		s.t.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantStatus, rec.Code, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			s.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
}

func (s *testServer) login(email, password, role string) string {
	s.t.Helper()
	var session struct {
		AccessToken string `json:"access_token"`
	}
	s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password, "role": role}, http.StatusOK, &session)
	return session.AccessToken
}

func TestPlacementFlow(t *testing.T) {
	s := newTestServer(t)
	deadline := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	var company struct {
		ID string `json:"id"`
	}
	s.do(http.MethodPost, "/auth/register/company", "", map[string]any{
		"name": "Acme", "hr_name": "Rita", "hr_email": "rita@acme.test", "password": "secret12",
	}, http.StatusCreated, &company)

	var pending map[string]any
	s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "rita@acme.test", "password": "secret12", "role": "recruiter"}, http.StatusForbidden, &pending)

	admin := s.login("admin@nfsu.test", "admin-pass", "admin")
	s.do(http.MethodPost, "/admin/companies/"+company.ID+"/approve", admin, nil, http.StatusOK, nil)
	recruiter := s.login("rita@acme.test", "secret12", "recruiter")

	var st struct {
		ID string `json:"id"`
	}
	s.do(http.MethodPost, "/auth/register/student", "", map[string]any{
		"name": "Asha", "email": "asha@nfsu.test", "password": "secret12", "branch": "CSE", "cgpa": 8.2, "backlogs": 0, "year": 4,
	}, http.StatusCreated, &st)
	student := s.login("asha@nfsu.test", "secret12", "student")

	var drive struct {
		ID     string   `json:"id"`
		Rounds []string `json:"rounds"`
	}
	s.do(http.MethodPost, "/drives", recruiter, map[string]any{
		"role": "SDE", "ctc": "12 LPA", "min_cgpa": 7.5, "max_backlogs": 0, "eligible_branches": []string{"CSE"}, "deadline": deadline,
	}, http.StatusCreated, &drive)
	if len(drive.Rounds) != 3 {
		t.Fatalf("expected default rounds, got %v", drive.Rounds)
	}
	if len(s.mailer.sent) != 0 {
		t.Fatalf("unverified students must not be notified")
	}

	s.do(http.MethodPost, "/drives", student, map[string]any{"role": "x"}, http.StatusForbidden, nil)
	s.do(http.MethodPost, "/applications", student, map[string]string{"drive_id": drive.ID}, http.StatusForbidden, nil)

	s.do(http.MethodPost, "/admin/students/"+st.ID+"/verify", admin, nil, http.StatusOK, nil)

	var eligible []map[string]any
	s.do(http.MethodGet, "/students/drives/eligible", student, nil, http.StatusOK, &eligible)
	if len(eligible) != 1 {
		t.Fatalf("expected one eligible drive, got %d", len(eligible))
	}
	var candidates []map[string]any
	s.do(http.MethodGet, "/drives/"+drive.ID+"/candidates", recruiter, nil, http.StatusOK, &candidates)
	if len(candidates) != 1 {
		t.Fatalf("expected one candidate, got %d", len(candidates))
	}

	var created application.Application
	s.do(http.MethodPost, "/applications", student, map[string]string{"drive_id": drive.ID}, http.StatusCreated, &created)
	s.do(http.MethodPost, "/applications", student, map[string]string{"drive_id": drive.ID}, http.StatusConflict, nil)

	var updated application.Application
	for i := 0; i < 3; i++ {
		path := "/applications/" + created.ID.String() + "/rounds/" + string(rune('0'+i))
		s.do(http.MethodPatch, path, recruiter, map[string]string{"status": "Cleared", "feedback": "good"}, http.StatusOK, &updated)
	}
	if updated.Status != application.StatusSelected || updated.CurrentRound != 2 {
		t.Fatalf("unexpected final application: status=%s current=%d", updated.Status, updated.CurrentRound)
	}
	s.do(http.MethodPatch, "/applications/"+created.ID.String()+"/rounds/2", recruiter, map[string]string{"status": "Rejected"}, http.StatusBadRequest, nil)

	var mine []application.Application
	s.do(http.MethodGet, "/applications", student, nil, http.StatusOK, &mine)
	if len(mine) != 1 || mine[0].Status != application.StatusSelected {
		t.Fatalf("unexpected student view: %+v", mine)
	}

	var summary map[string]int
	s.do(http.MethodGet, "/admin/summary", admin, nil, http.StatusOK, &summary)
	if summary["Selected"] != 1 {
		t.Fatalf("unexpected summary: %v", summary)
	}
}

func TestRouterRejectsMissingTokenAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/students/profile", "", nil, http.StatusUnauthorized, nil)
	s.do(http.MethodGet, "/nowhere", "", nil, http.StatusNotFound, nil)
	s.do(http.MethodGet, "/health", "", nil, http.StatusOK, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("metrics not exposed: %s", rec.Body.String())
	}
}

func TestAdminBulkAndFilter(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@nfsu.test", "admin-pass", "admin")
	var ids []string
	for _, email := range []string{"a@nfsu.test", "b@nfsu.test"} {
		var st struct {
			ID string `json:"id"`
		}
		s.do(http.MethodPost, "/auth/register/student", "", map[string]any{
			"name": email, "email": email, "password": "secret12", "branch": "IT", "cgpa": 7.0,
		}, http.StatusCreated, &st)
		ids = append(ids, st.ID)
	}
	var result app.BulkResult
	s.do(http.MethodPost, "/admin/students/bulk/verify", admin, map[string]any{"ids": ids}, http.StatusOK, &result)
	if result.Processed != 2 {
		t.Fatalf("unexpected bulk result: %+v", result)
	}
	var listed []map[string]any
	s.do(http.MethodGet, "/admin/students?verification=verified&branch=IT,CSE&min_cgpa=6.5", admin, nil, http.StatusOK, &listed)
	if len(listed) != 2 {
		t.Fatalf("expected two verified students, got %d", len(listed))
	}
	s.do(http.MethodGet, "/admin/students?min_cgpa=high", admin, nil, http.StatusBadRequest, nil)
	s.do(http.MethodPost, "/admin/students/bulk/explode", admin, map[string]any{"ids": ids}, http.StatusNotFound, nil)
	s.do(http.MethodPost, "/admin/notifications", admin, map[string]any{"student_ids": ids, "subject": "Hi", "body": "Welcome"}, http.StatusAccepted, nil)
	if len(s.mailer.sent) != 1 || len(s.mailer.sent[0].Recipients) != 2 {
		t.Fatalf("unexpected notifications: %+v", s.mailer.sent)
	}
}

func TestNoticeBoardAndEvents(t *testing.T) {
	s := newTestServer(t)
	admin := s.login("admin@nfsu.test", "admin-pass", "admin")

	var first, second struct {
		ID       string `json:"id"`
		IsActive bool   `json:"is_active"`
		PostedBy string `json:"posted_by"`
	}
	s.do(http.MethodPost, "/admin/notices", admin, map[string]any{"title": "Resume deadline", "description": "Upload by Friday"}, http.StatusCreated, &first)
	if !first.IsActive || first.PostedBy != "Admin" {
		t.Fatalf("unexpected notice: %+v", first)
	}
	s.do(http.MethodPost, "/admin/notices", admin, map[string]any{"title": "Draft", "is_active": false}, http.StatusCreated, &second)
	s.do(http.MethodPost, "/admin/notices", admin, map[string]any{"title": " "}, http.StatusBadRequest, nil)

	var public []map[string]any
	s.do(http.MethodGet, "/notices", "", nil, http.StatusOK, &public)
	if len(public) != 1 || public[0]["title"] != "Resume deadline" {
		t.Fatalf("expected only the active notice, got %v", public)
	}

	s.do(http.MethodPost, "/admin/notices/"+second.ID+"/active", admin, map[string]bool{"active": true}, http.StatusOK, nil)
	s.do(http.MethodPut, "/admin/notices/"+first.ID, admin, map[string]any{"title": "Resume deadline extended", "is_active": false}, http.StatusOK, nil)
	s.do(http.MethodGet, "/notices", "", nil, http.StatusOK, &public)
	if len(public) != 1 || public[0]["title"] != "Draft" {
		t.Fatalf("unexpected active notices: %v", public)
	}
	s.do(http.MethodDelete, "/admin/notices/"+first.ID, admin, nil, http.StatusNoContent, nil)
	var all []map[string]any
	s.do(http.MethodGet, "/admin/notices", admin, nil, http.StatusOK, &all)
	if len(all) != 1 {
		t.Fatalf("expected one notice left, got %v", all)
	}

	var event struct {
		ID    string `json:"id"`
		Date  string `json:"date"`
		Month string `json:"month"`
		Day   string `json:"day"`
	}
	s.do(http.MethodPost, "/admin/events", admin, map[string]any{"title": "Pre-placement talk", "date": "2026-10-05"}, http.StatusCreated, &event)
	if event.Month != "Oct" || event.Day != "05" {
		t.Fatalf("unexpected calendar labels: %+v", event)
	}
	s.do(http.MethodPost, "/admin/events", admin, map[string]any{"title": "Mock interviews", "date": "soon"}, http.StatusBadRequest, nil)
	s.do(http.MethodPost, "/admin/events/"+event.ID+"/active", admin, map[string]bool{"active": false}, http.StatusOK, nil)
	var events []map[string]any
	s.do(http.MethodGet, "/events", "", nil, http.StatusOK, &events)
	if len(events) != 0 {
		t.Fatalf("expected no active events, got %v", events)
	}

	s.do(http.MethodPost, "/auth/register/student", "", map[string]any{
		"name": "Asha", "email": "asha@nfsu.test", "password": "secret12", "branch": "CSE", "cgpa": 8.2,
	}, http.StatusCreated, nil)
	student := s.login("asha@nfsu.test", "secret12", "student")
	s.do(http.MethodPost, "/admin/notices", student, map[string]any{"title": "Spam"}, http.StatusForbidden, nil)
	s.do(http.MethodDelete, "/admin/events/"+event.ID, admin, nil, http.StatusNoContent, nil)
	s.do(http.MethodDelete, "/admin/events/"+event.ID, admin, nil, http.StatusNotFound, nil)
}
