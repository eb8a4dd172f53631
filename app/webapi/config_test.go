package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/rev-tone/app/config"
)

func TestServer_getSettingsHandler(t *testing.T) {
	t.Run("settings store not configured", func(t *testing.T) {
		srv := Server{Config: Config{}}

		req := httptest.NewRequest("GET", "/settings", http.NoBody)
		w := httptest.NewRecorder()
		srv.getSettingsHandler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "settings store is not configured")
	})

	t.Run("stored settings returned", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			LoadFunc: func(ctx context.Context) (*config.Settings, error) {
				res := config.New()
				res.InstanceID = "stored-instance"
				res.Workers = 16
				return res, nil
			},
		}
		srv := Server{Config: Config{SettingsStore: settingsStore}}

		req := httptest.NewRequest("GET", "/settings", http.NoBody)
		w := httptest.NewRecorder()
		srv.getSettingsHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var settings config.Settings
		err := json.Unmarshal(w.Body.Bytes(), &settings)
		assert.NoError(t, err)
		assert.Equal(t, "stored-instance", settings.InstanceID)
		assert.Equal(t, 16, settings.Workers)
		assert.Equal(t, 1, len(settingsStore.LoadCalls()))
	})

	t.Run("nothing stored falls back to effective settings", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			LoadFunc: func(ctx context.Context) (*config.Settings, error) {
				return nil, errors.New("no settings found in database")
			},
		}
		appSettings := config.New()
		appSettings.InstanceID = "effective-instance"
		srv := Server{Config: Config{SettingsStore: settingsStore, AppSettings: appSettings}}

		req := httptest.NewRequest("GET", "/settings", http.NoBody)
		w := httptest.NewRecorder()
		srv.getSettingsHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var settings config.Settings
		err := json.Unmarshal(w.Body.Bytes(), &settings)
		assert.NoError(t, err)
		assert.Equal(t, "effective-instance", settings.InstanceID)
	})

	t.Run("load failure", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			LoadFunc: func(ctx context.Context) (*config.Settings, error) {
				return nil, errors.New("db blew up")
			},
		}
		srv := Server{Config: Config{SettingsStore: settingsStore}}

		req := httptest.NewRequest("GET", "/settings", http.NoBody)
		w := httptest.NewRecorder()
		srv.getSettingsHandler(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "can't load settings")
		assert.Contains(t, w.Body.String(), "db blew up")
	})
}

func TestServer_updateSettingsHandler(t *testing.T) {
	t.Run("settings store not configured", func(t *testing.T) {
		srv := Server{Config: Config{}}

		req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString(`{"workers": 8}`))
		w := httptest.NewRecorder()
		srv.updateSettingsHandler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "settings store is not configured")
	})

	t.Run("successful save", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			SaveFunc: func(ctx context.Context, settings *config.Settings) error {
				return nil
			},
		}
		srv := Server{Config: Config{SettingsStore: settingsStore}}

		reqBody := `{"instance_id": "new-instance", "workers": 16, "classifier": {"alpha": 0.5, "bigrams": true}}`
		req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString(reqBody))
		w := httptest.NewRecorder()
		srv.updateSettingsHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"updated":true`)
		require.Equal(t, 1, len(settingsStore.SaveCalls()))

		saved := settingsStore.SaveCalls()[0].Settings
		assert.Equal(t, "new-instance", saved.InstanceID)
		assert.Equal(t, 16, saved.Workers)
		assert.InDelta(t, 0.5, saved.Classifier.Alpha, 0.0001)
		assert.Equal(t, ":8080", saved.Server.ListenAddr, "fields missing from the request keep defaults")
	})

	t.Run("bad json", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			SaveFunc: func(ctx context.Context, settings *config.Settings) error {
				return nil
			},
		}
		srv := Server{Config: Config{SettingsStore: settingsStore}}

		req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		srv.updateSettingsHandler(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "can't decode settings")
		assert.Equal(t, 0, len(settingsStore.SaveCalls()))
	})

	t.Run("save failure", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			SaveFunc: func(ctx context.Context, settings *config.Settings) error {
				return errors.New("db blew up")
			},
		}
		srv := Server{Config: Config{SettingsStore: settingsStore}}

		req := httptest.NewRequest("PUT", "/settings", bytes.NewBufferString(`{"workers": 8}`))
		w := httptest.NewRecorder()
		srv.updateSettingsHandler(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "can't save settings")
		assert.Equal(t, 1, len(settingsStore.SaveCalls()))
	})
}

func TestServer_deleteSettingsHandler(t *testing.T) {
	t.Run("settings store not configured", func(t *testing.T) {
		srv := Server{Config: Config{}}

		req := httptest.NewRequest("DELETE", "/settings", http.NoBody)
		w := httptest.NewRecorder()
		srv.deleteSettingsHandler(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "settings store is not configured")
	})

	t.Run("successful delete", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			DeleteFunc: func(ctx context.Context) error { return nil },
		}
		srv := Server{Config: Config{SettingsStore: settingsStore}}

		req := httptest.NewRequest("DELETE", "/settings", http.NoBody)
		w := httptest.NewRecorder()
		srv.deleteSettingsHandler(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"deleted":true`)
		assert.Equal(t, 1, len(settingsStore.DeleteCalls()))
	})

	t.Run("delete failure", func(t *testing.T) {
		settingsStore := &SettingsStoreMock{
			DeleteFunc: func(ctx context.Context) error { return errors.New("db blew up") },
		}
		srv := Server{Config: Config{SettingsStore: settingsStore}}

		req := httptest.NewRequest("DELETE", "/settings", http.NoBody)
		w := httptest.NewRecorder()
		srv.deleteSettingsHandler(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "can't delete settings")
		assert.Contains(t, w.Body.String(), "db blew up")
	})
}
