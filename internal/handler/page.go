// Package handler contains HTTP request handlers for the ProjectHub
// application.
//
// HANDLER RESPONSIBILITIES:
// 1. Parse the incoming HTTP request (query params, body, cookies)
// 2. Call business logic in the service layer
// 3. Write the HTTP response (status code, headers, body)
//
// Handlers should NOT contain business logic — they are the "glue" between
// HTTP and the services.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/muhub/projecthub/internal/auth"
)

// PageHandler renders the server-side HTML pages: the login page and the
// dashboard. It holds parsed templates so we don't re-parse them on every
// request.
type PageHandler struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// NewPageHandler parses the HTML templates under templateDir.
//
// base.html defines the page skeleton with a {{template "content" .}}
// placeholder; each page template fills it with {{define "content"}}.
// Every page gets its OWN clone of the base set: all pages define the
// same "content" name, so parsing them into one shared set would let the
// last file parsed silently overwrite the others.
func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	base, err := template.ParseFiles(filepath.Join(templateDir, "base.html"))
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"login", "dashboard"} {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base template: %w", err)
		}
		set, err = set.ParseFiles(filepath.Join(templateDir, name+".html"))
		if err != nil {
			return nil, fmt.Errorf("parsing %s page: %w", name, err)
		}
		pages[name] = set
	}

	return &PageHandler{
		pages:  pages,
		logger: logger,
	}, nil
}

// HandleLogin serves the login page. Unauthenticated visitors land here;
// the route guard appends ?next= so the frontend can bounce back after a
// successful login.
func (h *PageHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, "login", map[string]interface{}{
		"Title": "ProjectHub — Sign in",
		"Next":  r.URL.Query().Get("next"),
	})
}

// HandleDashboard serves the dashboard page for a logged-in user.
//
// The route guard has already validated the session cookie, so the
// identity is always present in the context here. The page shows
// claims-derived data only — no store read on render.
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// The guard should make this unreachable; redirect rather than 500.
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.render(w, "dashboard", map[string]interface{}{
		"Title": "ProjectHub — Dashboard",
		"User":  identity,
	})
}

// render executes the named page inside the base layout.
func (h *PageHandler) render(w http.ResponseWriter, page string, data map[string]interface{}) {
	tmpl, ok := h.pages[page]
	if !ok {
		h.logger.Error("unknown page requested", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data["Page"] = page

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
