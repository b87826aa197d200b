package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires handlers and middleware into the server mux.
// RequireIdentity guards the authenticated routes; Middleware wraps the
// whole mux, outermost first.
type RouterConfig struct {
	Members      *MemberHandler
	Meetings     *MeetingHandler
	OneOnOnes    *OneOnOneHandler
	Businesses   *BusinessHandler
	Referrals    *ReferralHandler
	Requirements *RequirementHandler
	Stats        *StatsHandler
	Health       *HealthHandler
	Metrics      http.Handler

	RequireIdentity func(http.Handler) http.Handler
	Middleware      []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	secured := func(h http.HandlerFunc) http.HandlerFunc {
		if cfg.RequireIdentity == nil {
			return h
		}
		wrapped := cfg.RequireIdentity(h)
		return wrapped.ServeHTTP
	}

	if cfg.Meetings != nil {
		mux.HandleFunc("/meetings", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Meetings.List(w, r)
			case http.MethodPost:
				cfg.Meetings.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/meetings/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/meetings/")
			if rest == "mine" {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				secured(cfg.Meetings.ListMine)(w, r)
				return
			}
			id, action, _ := strings.Cut(rest, "/")
			if id == "" || action != "attendance" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			secured(cfg.Meetings.MarkAttendance)(w, r)
		})
	}

	if cfg.OneOnOnes != nil {
		mux.HandleFunc("/oneonone", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			secured(cfg.OneOnOnes.Create)(w, r)
		})
		mux.HandleFunc("/oneonone/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/oneonone/")

			var list http.HandlerFunc
			switch rest {
			case "my":
				list = cfg.OneOnOnes.ListMine
			case "received":
				list = cfg.OneOnOnes.ListReceived
			case "sent":
				list = cfg.OneOnOnes.ListSent
			case "between":
				list = cfg.OneOnOnes.ListBetween
			}
			if list != nil {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				secured(list)(w, r)
				return
			}

			id, action, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			var transition http.HandlerFunc
			switch action {
			case "approve":
				transition = cfg.OneOnOnes.Approve
			case "reschedule":
				transition = cfg.OneOnOnes.ProposeReschedule
			case "reschedule/accept":
				transition = cfg.OneOnOnes.AcceptReschedule
			case "reschedule/reject":
				transition = cfg.OneOnOnes.RejectReschedule
			case "complete":
				transition = cfg.OneOnOnes.Complete
			default:
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPatch {
				methodNotAllowed(w, http.MethodPatch)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			secured(transition)(w, r)
		})
	}

	if cfg.Members != nil {
		mux.HandleFunc("/registration", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Members.Register(w, r)
		})
		mux.HandleFunc("/registration/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/registration/")
			uid, action, _ := strings.Cut(rest, "/")
			if uid == "" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), uid))
			switch action {
			case "":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Members.GetRegistration(w, r)
			case "status":
				if r.Method != http.MethodPatch {
					methodNotAllowed(w, http.MethodPatch)
					return
				}
				cfg.Members.UpdateStatus(w, r)
			default:
				http.NotFound(w, r)
			}
		})
		mux.HandleFunc("/users/status", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Members.StatusByPhone(w, r)
		})
		mux.HandleFunc("/search/members", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			secured(cfg.Members.Search)(w, r)
		})
	}

	if cfg.Businesses != nil {
		mux.HandleFunc("/business/me", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				secured(cfg.Businesses.GetMine)(w, r)
			case http.MethodPut:
				secured(cfg.Businesses.UpdateMine)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		})
		mux.HandleFunc("/business/by-uid", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			secured(cfg.Businesses.GetByUID)(w, r)
		})
	}

	if cfg.Referrals != nil {
		mux.HandleFunc("/referrals", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			secured(cfg.Referrals.Create)(w, r)
		})
		mux.HandleFunc("/referrals/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/referrals/")

			var list http.HandlerFunc
			switch rest {
			case "given":
				list = cfg.Referrals.ListGiven
			case "taken":
				list = cfg.Referrals.ListTaken
			}
			if list != nil {
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				secured(list)(w, r)
				return
			}

			id, action, _ := strings.Cut(rest, "/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			var update http.HandlerFunc
			switch action {
			case "status":
				update = cfg.Referrals.UpdateStatus
			case "confirm":
				update = cfg.Referrals.Confirm
			case "thank-note":
				update = cfg.Referrals.ThankNote
			default:
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPatch {
				methodNotAllowed(w, http.MethodPatch)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			secured(update)(w, r)
		})
	}

	if cfg.Requirements != nil {
		mux.HandleFunc("/requirements", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			secured(cfg.Requirements.Create)(w, r)
		})
		mux.HandleFunc("/requirements/", func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/requirements/")
			switch rest {
			case "public":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				cfg.Requirements.ListPublic(w, r)
				return
			case "me":
				if r.Method != http.MethodGet {
					methodNotAllowed(w, http.MethodGet)
					return
				}
				secured(cfg.Requirements.ListMine)(w, r)
				return
			}

			id, action, _ := strings.Cut(rest, "/")
			if id == "" || action != "responses" {
				http.NotFound(w, r)
				return
			}
			r = r.WithContext(ContextWithResourceID(r.Context(), id))
			switch r.Method {
			case http.MethodGet:
				cfg.Requirements.ListResponses(w, r)
			case http.MethodPost:
				secured(cfg.Requirements.Respond)(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
	}

	if cfg.Stats != nil {
		mux.HandleFunc("/stats/overview", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Stats.Overview(w, r)
		})
	}

	if cfg.Health != nil {
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Health.Health(w, r)
		})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
