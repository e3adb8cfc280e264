package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"placementcell/internal/domain/user"
	"placementcell/internal/http/handlers"
	"placementcell/internal/http/metrics"
	httpmw "placementcell/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	StudentHandler      *handlers.StudentHandler
	CompanyHandler      *handlers.CompanyHandler
	DriveHandler        *handlers.DriveHandler
	ApplicationHandler  *handlers.ApplicationHandler
	NotificationHandler *handlers.NotificationHandler
	NoticeHandler       *handlers.NoticeHandler
	AuthMiddleware      *httpmw.AuthMiddleware
	Metrics             *metrics.Collector
	Logger              *slog.Logger
	RequestTimeout      time.Duration
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	r := &Router{deps: deps}
	r.handler = httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(deps.Logger),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover(deps.Logger),
		httpmw.Metrics(deps.Metrics),
		httpmw.Timeout(deps.RequestTimeout),
	)
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics" && r.deps.Metrics != nil:
			r.deps.Metrics.Handler().ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/register/student":
			r.deps.AuthHandler.RegisterStudent(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/register/company":
			r.deps.AuthHandler.RegisterCompany(w, req)
			return
		case req.Method == http.MethodGet && path == "/notices":
			r.deps.NoticeHandler.ActiveNotices(w, req)
			return
		case req.Method == http.MethodGet && path == "/events":
			r.deps.NoticeHandler.ActiveEvents(w, req)
			return
		}

		for _, prefix := range []string{"/students", "/companies", "/drives", "/applications", "/admin"} {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(r.handleProtected)).ServeHTTP(w, req)
				return
			}
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	seg := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
	method := req.Method
	is := func(m string, parts ...string) bool {
		if method != m || len(seg) != len(parts) {
			return false
		}
		for i, part := range parts {
			if part != "*" && part != seg[i] {
				return false
			}
		}
		return true
	}
	allow := func(h http.HandlerFunc, roles ...user.Role) {
		httpmw.RequireRole(roles...)(h).ServeHTTP(w, req)
	}
	students := r.deps.StudentHandler
	drives := r.deps.DriveHandler
	apps := r.deps.ApplicationHandler
	notices := r.deps.NoticeHandler

	switch {
	case is(http.MethodGet, "students", "profile"):
		allow(students.GetProfile, user.RoleStudent)
	case is(http.MethodPut, "students", "profile"):
		allow(students.UpdateProfile, user.RoleStudent)
	case is(http.MethodGet, "students", "drives", "eligible"):
		allow(students.EligibleDrives, user.RoleStudent)
	case is(http.MethodPost, "applications"):
		allow(apps.Apply, user.RoleStudent)

	case is(http.MethodPost, "drives"):
		allow(drives.Create, user.RoleRecruiter)
	case is(http.MethodGet, "companies", "drives"):
		allow(drives.ListMine, user.RoleRecruiter)
	case is(http.MethodPatch, "drives", "*", "status"):
		allow(drives.UpdateStatus, user.RoleRecruiter, user.RoleAdmin)
	case is(http.MethodGet, "drives", "*", "candidates"):
		allow(drives.Candidates, user.RoleRecruiter, user.RoleAdmin)
	case is(http.MethodGet, "drives", "*", "applications"):
		allow(apps.ListByDrive, user.RoleRecruiter, user.RoleAdmin)
	case is(http.MethodPatch, "applications", "*", "rounds", "*"):
		allow(apps.UpdateRound, user.RoleRecruiter, user.RoleAdmin)

	case is(http.MethodGet, "applications"):
		apps.List(w, req)
	case is(http.MethodGet, "applications", "*"):
		apps.Get(w, req)

	case is(http.MethodPatch, "applications", "*", "status"):
		allow(apps.OverrideStatus, user.RoleAdmin)
	case is(http.MethodDelete, "applications", "*"):
		allow(apps.Delete, user.RoleAdmin)
	case is(http.MethodGet, "admin", "students"):
		allow(students.List, user.RoleAdmin)
	case is(http.MethodPost, "admin", "students", "bulk", "*"):
		allow(students.Bulk, user.RoleAdmin)
	case is(http.MethodPost, "admin", "students", "*", "verify"):
		allow(students.Verify, user.RoleAdmin)
	case is(http.MethodPost, "admin", "students", "*", "blacklist"):
		allow(students.Blacklist, user.RoleAdmin)
	case is(http.MethodDelete, "admin", "students", "*"):
		allow(students.Delete, user.RoleAdmin)
	case is(http.MethodGet, "admin", "companies"):
		allow(r.deps.CompanyHandler.List, user.RoleAdmin)
	case is(http.MethodPost, "admin", "companies", "*", "approve"):
		allow(r.deps.CompanyHandler.Approve, user.RoleAdmin)
	case is(http.MethodGet, "admin", "summary"):
		allow(apps.Summary, user.RoleAdmin)
	case is(http.MethodPost, "admin", "notifications"):
		allow(r.deps.NotificationHandler.Send, user.RoleAdmin)

	case is(http.MethodGet, "admin", "notices"):
		allow(notices.ListNotices, user.RoleAdmin)
	case is(http.MethodPost, "admin", "notices"):
		allow(notices.CreateNotice, user.RoleAdmin)
	case is(http.MethodPut, "admin", "notices", "*"):
		allow(notices.UpdateNotice, user.RoleAdmin)
	case is(http.MethodPost, "admin", "notices", "*", "active"):
		allow(notices.SetNoticeActive, user.RoleAdmin)
	case is(http.MethodDelete, "admin", "notices", "*"):
		allow(notices.DeleteNotice, user.RoleAdmin)
	case is(http.MethodGet, "admin", "events"):
		allow(notices.ListEvents, user.RoleAdmin)
	case is(http.MethodPost, "admin", "events"):
		allow(notices.CreateEvent, user.RoleAdmin)
	case is(http.MethodPut, "admin", "events", "*"):
		allow(notices.UpdateEvent, user.RoleAdmin)
	case is(http.MethodPost, "admin", "events", "*", "active"):
		allow(notices.SetEventActive, user.RoleAdmin)
	case is(http.MethodDelete, "admin", "events", "*"):
		allow(notices.DeleteEvent, user.RoleAdmin)
	default:
		http.NotFound(w, req)
	}
}
