// Package webapi provides a web API for the review tone classifier.
package webapi

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/didip/tollbooth/v8"
	cache "github.com/go-pkgz/expirable-cache/v3"
	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/rev-tone/app/config"
	"github.com/umputun/rev-tone/app/storage"
	"github.com/umputun/rev-tone/lib/review"
)

//go:generate moq --out mocks/engine.go --pkg mocks --with-resets --skip-ensure . Engine
//go:generate moq --out mocks/rater.go --pkg mocks --with-resets --skip-ensure . Rater
//go:generate moq --out mocks/predictions.go --pkg mocks --with-resets --skip-ensure . Predictions

// Server is a web API server.
type Server struct {
	Config
	cache cache.Cache[string, review.Prediction] // classification results keyed by text hash
}

// Config defines server parameters
type Config struct {
	Version       string           // version to show in /ping
	ListenAddr    string           // listen address
	Engine        Engine           // trained classifier
	Rater         Rater            // dynamic samples and batch classification
	Predictions   Predictions      // prediction log store, optional
	SettingsStore SettingsStore    // db-backed settings, optional
	AppSettings   *config.Settings // effective runtime settings
	AuthPasswd    string           // basic auth password for user "rev-tone"
	Dbg           bool             // debug mode
}

// Engine is a review tone classifier interface.
type Engine interface {
	Predict(text string) review.Prediction
	Vocab() int
	Trained() bool
}

// Rater manages dynamic samples and batch classification on top of the engine.
type Rater interface {
	ClassifyBatch(ctx context.Context, lines []string) ([]review.Prediction, error)
	UpdatePositive(msg string) error
	UpdateNegative(msg string) error
	RemoveDynamicSample(label review.Label, sample string) (int, error)
	DynamicSamples() (positive, negative []string, err error)
	ReloadSamples() error
}

// Predictions is a storage interface for the classification results log.
type Predictions interface {
	Write(ctx context.Context, entry storage.PredictionEntry) (string, error)
	Read(ctx context.Context, limit int) ([]storage.PredictionEntry, error)
	Count(ctx context.Context) (int, error)
}

// NewServer creates a new web API server.
func NewServer(config Config) *Server {
	return &Server{
		Config: config,
		cache:  cache.NewCache[string, review.Prediction]().WithLRU().WithMaxKeys(1000).WithTTL(time.Hour),
	}
}

// Run starts server and accepts requests to classify reviews and manage samples.
func (s *Server) Run(ctx context.Context) error {
	router := routegroup.New(http.NewServeMux())
	router.Use(rest.Recoverer(lgr.Default()))
	router.Use(rest.Throttle(1000))
	router.Use(rest.AppInfo("rev-tone", "umputun", s.Version), rest.Ping)
	router.Use(tollbooth.HTTPMiddleware(tollbooth.NewLimiter(50, nil)))
	router.Use(rest.SizeLimit(1024 * 1024)) // 1M max request size

	if s.AuthPasswd != "" {
		log.Printf("[INFO] basic auth enabled for webapi server")
	} else {
		log.Printf("[WARN] basic auth disabled, access to webapi is not protected")
	}

	s.routes(router)

	srv := &http.Server{Addr: s.ListenAddr, Handler: router, ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("[WARN] failed to shutdown webapi server: %v", err)
		} else {
			log.Printf("[INFO] webapi server stopped")
		}
	}()

	log.Printf("[INFO] start webapi server on %s", s.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to run server: %w", err)
	}
	return nil
}

func (s *Server) routes(router *routegroup.Bundle) *routegroup.Bundle {
	authApi := router.Group()
	authApi.Use(s.authMiddleware(rest.BasicAuthWithUserPasswd("rev-tone", s.AuthPasswd)))

	authApi.HandleFunc("POST /classify", s.classifyHandler)            // classify a single review text
	authApi.HandleFunc("POST /classify/batch", s.classifyBatchHandler) // classify multiple lines at once

	authApi.Mount("/update").Route(func(b *routegroup.Bundle) { // update dynamic samples
		b.HandleFunc("POST /positive", s.updateSampleHandler(s.Rater.UpdatePositive))
		b.HandleFunc("POST /negative", s.updateSampleHandler(s.Rater.UpdateNegative))
	})

	authApi.Mount("/delete").Route(func(b *routegroup.Bundle) { // delete dynamic samples
		b.HandleFunc("POST /positive", s.deleteSampleHandler(s.removePositiveSample))
		b.HandleFunc("POST /negative", s.deleteSampleHandler(s.removeNegativeSample))
	})

	authApi.HandleFunc("GET /samples", s.getDynamicSamplesHandler)    // get dynamic samples
	authApi.HandleFunc("PUT /samples", s.reloadDynamicSamplesHandler) // reload samples from files

	authApi.HandleFunc("GET /predictions", s.getPredictionsHandler) // recent prediction log entries
	authApi.HandleFunc("GET /stats", s.getStatsHandler)             // model and samples stats

	authApi.HandleFunc("GET /settings", s.getSettingsHandler)       // settings from db store
	authApi.HandleFunc("PUT /settings", s.updateSettingsHandler)    // save settings to db store
	authApi.HandleFunc("DELETE /settings", s.deleteSettingsHandler) // remove settings from db store

	return router
}

// classifyHandler handles POST /classify request.
// it scores the review text and returns the prediction. Results are cached by
// text hash, the cache is dropped on every retrain.
func (s *Server) classifyHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		log.Printf("[WARN] can't decode request: %v", err)
		return
	}
	if req.Text == "" {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "text is required"})
		return
	}

	key := fmt.Sprintf("%x", sha256.Sum256([]byte(req.Text)))
	if pred, ok := s.cache.Get(key); ok {
		rest.RenderJSON(w, pred)
		return
	}

	pred := s.Engine.Predict(req.Text)
	s.cache.Set(key, pred, 0)

	if s.Predictions != nil {
		entry := storage.PredictionEntry{Text: req.Text, Label: pred.Label,
			Probability: pred.Probability, Details: pred.Details, Source: "api"}
		if _, err := s.Predictions.Write(r.Context(), entry); err != nil {
			log.Printf("[WARN] failed to save prediction: %v", err)
		}
	}

	rest.RenderJSON(w, pred)
}

// classifyBatchHandler handles POST /classify/batch request.
// it classifies multiple review lines in parallel and returns one prediction per line.
func (s *Server) classifyBatchHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lines []string `json:"lines"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
		return
	}

	preds, err := s.Rater.ClassifyBatch(r.Context(), req.Lines)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't classify batch", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"predictions": preds, "count": len(preds)})
}

// updateSampleHandler handles POST /update/positive|negative requests.
// it adds a dynamic sample, retrains the model and drops cached predictions.
func (s *Server) updateSampleHandler(updFn func(msg string) error) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Msg string `json:"msg"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
			return
		}

		if err := updFn(req.Msg); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			rest.RenderJSON(w, rest.JSON{"error": "can't update samples", "details": err.Error()})
			return
		}

		s.cache.Purge() // model retrained, cached predictions are stale
		rest.RenderJSON(w, rest.JSON{"updated": true, "msg": req.Msg})
	}
}

// deleteSampleHandler handles POST /delete/positive|negative requests.
// it removes a dynamic sample, retrains the model and drops cached predictions.
func (s *Server) deleteSampleHandler(delFn func(msg string) (int, error)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Msg string `json:"msg"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "can't decode request", "details": err.Error()})
			return
		}

		count, err := delFn(req.Msg)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			rest.RenderJSON(w, rest.JSON{"error": "can't delete sample", "details": err.Error()})
			return
		}

		s.cache.Purge()
		rest.RenderJSON(w, rest.JSON{"deleted": true, "msg": req.Msg, "count": count})
	}
}

// removePositiveSample is an adapter for deleteSampleHandler delFn
func (s *Server) removePositiveSample(msg string) (int, error) {
	return s.Rater.RemoveDynamicSample(review.Positive, msg)
}

// removeNegativeSample is an adapter for deleteSampleHandler delFn
func (s *Server) removeNegativeSample(msg string) (int, error) {
	return s.Rater.RemoveDynamicSample(review.Negative, msg)
}

// getDynamicSamplesHandler handles GET /samples request. It returns dynamic samples for both labels.
func (s *Server) getDynamicSamplesHandler(w http.ResponseWriter, _ *http.Request) {
	positive, negative, err := s.Rater.DynamicSamples()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't get dynamic samples", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"positive": positive, "negative": negative})
}

// reloadDynamicSamplesHandler handles PUT /samples request. It reloads samples from files
func (s *Server) reloadDynamicSamplesHandler(w http.ResponseWriter, _ *http.Request) {
	if err := s.Rater.ReloadSamples(); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't reload samples", "details": err.Error()})
		return
	}
	s.cache.Purge()
	rest.RenderJSON(w, rest.JSON{"reloaded": true})
}

// getPredictionsHandler handles GET /predictions?limit=N request.
// it returns the most recent entries from the prediction log.
func (s *Server) getPredictionsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Predictions == nil {
		w.WriteHeader(http.StatusNotFound)
		rest.RenderJSON(w, rest.JSON{"error": "predictions store is not configured"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		if limit, err = strconv.Atoi(v); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			rest.RenderJSON(w, rest.JSON{"error": "invalid limit", "details": err.Error()})
			return
		}
	}

	entries, err := s.Predictions.Read(r.Context(), limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't read predictions", "details": err.Error()})
		return
	}
	rest.RenderJSON(w, rest.JSON{"predictions": entries, "count": len(entries)})
}

// getStatsHandler handles GET /stats request. It returns model and samples stats.
func (s *Server) getStatsHandler(w http.ResponseWriter, r *http.Request) {
	positive, negative, err := s.Rater.DynamicSamples()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		rest.RenderJSON(w, rest.JSON{"error": "can't get dynamic samples", "details": err.Error()})
		return
	}

	res := rest.JSON{
		"trained":          s.Engine.Trained(),
		"vocab":            s.Engine.Vocab(),
		"dynamic_positive": len(positive),
		"dynamic_negative": len(negative),
	}
	if s.Predictions != nil {
		count, err := s.Predictions.Count(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			rest.RenderJSON(w, rest.JSON{"error": "can't count predictions", "details": err.Error()})
			return
		}
		res["predictions"] = count
	}
	rest.RenderJSON(w, res)
}

func (s *Server) authMiddleware(mw func(next http.Handler) http.Handler) func(next http.Handler) http.Handler {
	if s.AuthPasswd == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return func(next http.Handler) http.Handler {
		return mw(next)
	}
}
