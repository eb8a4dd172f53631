package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/rev-tone/app/config"
)

//go:generate moq --out config_store_mock.go --with-resets --skip-ensure . SettingsStore

// SettingsStore provides access to configuration stored in database
type SettingsStore interface {
	Load(ctx context.Context) (*config.Settings, error)
	Save(ctx context.Context, settings *config.Settings) error
	Delete(ctx context.Context) error
	LastUpdated(ctx context.Context) (time.Time, error)
	Exists(ctx context.Context) (bool, error)
}

// getSettingsHandler handles GET /settings request.
// it returns settings from the database store, falling back to the effective
// runtime settings when nothing is stored yet.
func (s *Server) getSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if s.SettingsStore == nil {
		w.WriteHeader(http.StatusNotFound)
		rest.RenderJSON(w, rest.JSON{"error": "settings store is not configured"})
		return
	}

	settings, err := s.SettingsStore.Load(r.Context())
	if err != nil {
		if strings.Contains(err.Error(), "no settings found") {
			rest.RenderJSON(w, s.AppSettings)
			return
		}
		log.Printf("[ERROR] failed to load settings: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't load settings", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, settings)
}

// updateSettingsHandler handles PUT /settings request.
// it stores the new settings in the database, they take effect on the next restart.
func (s *Server) updateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if s.SettingsStore == nil {
		w.WriteHeader(http.StatusNotFound)
		rest.RenderJSON(w, rest.JSON{"error": "settings store is not configured"})
		return
	}

	// decode on top of defaults, fields missing from the request keep default values
	settings := config.New()
	if err := json.NewDecoder(r.Body).Decode(settings); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode settings", "details": err.Error()})
		return
	}

	if err := s.SettingsStore.Save(r.Context(), settings); err != nil {
		log.Printf("[ERROR] failed to save settings: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't save settings", "details": err.Error()})
		return
	}

	rest.RenderJSON(w, rest.JSON{"updated": true})
}

// deleteSettingsHandler handles DELETE /settings request.
// it removes the stored settings from the database.
func (s *Server) deleteSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if s.SettingsStore == nil {
		w.WriteHeader(http.StatusNotFound)
		rest.RenderJSON(w, rest.JSON{"error": "settings store is not configured"})
		return
	}

	if err := s.SettingsStore.Delete(r.Context()); err != nil {
		log.Printf("[ERROR] failed to delete settings: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't delete settings", "details": err.Error()})
		return
	}

	rest.RenderJSON(w, rest.JSON{"deleted": true})
}
