// Package server exposes the dashboard over HTTP: JSON endpoints for the
// report, filter options and chart configuration, PNG charts, table exports
// and a minimal HTML page.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"influencer-dashboard/charts"
	"influencer-dashboard/models"
	"influencer-dashboard/services"
	"influencer-dashboard/storage"
	"influencer-dashboard/utils"
)

// Server serves the dashboard for one pipeline.
type Server struct {
	pipeline       *services.Pipeline
	renderer       *charts.Renderer
	defaultCountry string
	logger         *utils.Logger
}

func New(pipeline *services.Pipeline, renderer *charts.Renderer, defaultCountry string, logger *utils.Logger) *Server {
	return &Server{
		pipeline:       pipeline,
		renderer:       renderer,
		defaultCountry: defaultCountry,
		logger:         logger,
	}
}

// Routes returns the full router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.page)
	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))
			r.Get("/options", s.options)
			r.Get("/dashboard", s.dashboard)
			r.Get("/charts", s.chartCatalog)
		})
		r.Get("/charts/{chartID}.png", s.chartPNG)
		r.Get("/export.csv", s.exportCSV)
		r.Get("/export.xlsx", s.exportXLSX)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		s.logger.Info("[server] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("[server] %s %s → %d (%s, %s)",
			r.Method, r.URL.RequestURI(), ww.Status(), time.Since(start).Round(time.Microsecond),
			middleware.GetReqID(r.Context()))
	})
}

// selection reads repeatable country and influencer query parameters. An
// absent parameter means the default; a parameter with only blank values is
// an explicit empty selection. The page form also sends the countries it was
// rendered for as "scope": when those differ from the submitted countries the
// influencer list is stale and falls back to everyone in the new countries.
func (s *Server) selection(r *http.Request) (models.Selection, error) {
	q := r.URL.Query()

	countries := []string{s.defaultCountry}
	if vals, ok := q["country"]; ok {
		countries = nonBlank(vals)
	}

	if scope, ok := q["scope"]; ok && !sameSet(nonBlank(scope), countries) {
		return s.pipeline.DefaultSelection(countries...)
	}
	if vals, ok := q["influencer"]; ok {
		return models.Selection{Countries: countries, Influencers: nonBlank(vals)}, nil
	}
	return s.pipeline.DefaultSelection(countries...)
}

func sameSet(a, b []string) bool {
	as, bs := utils.NewKeySet(a...), utils.NewKeySet(b...)
	if as.Size() != bs.Size() {
		return false
	}
	for _, v := range b {
		if !as.Contains(v) {
			return false
		}
	}
	return true
}

func nonBlank(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

type optionsResponse struct {
	Countries   []string         `json:"countries"`
	Influencers []string         `json:"influencers"`
	Selection   models.Selection `json:"selection"`
}

func (s *Server) options(w http.ResponseWriter, r *http.Request) {
	sel, err := s.selection(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	countries, influencers, err := s.pipeline.Options(sel.Countries)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, optionsResponse{Countries: countries, Influencers: influencers, Selection: sel})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	report, err := s.report(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

type catalogResponse struct {
	Tabs       []charts.Tab  `json:"tabs"`
	Charts     []charts.Spec `json:"charts"`
	ColorScale []string      `json:"color_scale"`
	StaticPNGs []string      `json:"static_pngs"`
}

func (s *Server) chartCatalog(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, catalogResponse{
		Tabs:       charts.Tabs,
		Charts:     charts.Catalog,
		ColorScale: charts.Magenta,
		StaticPNGs: charts.Renderable,
	})
}

func (s *Server) chartPNG(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "chartID")
	if _, ok := charts.Lookup(id); !ok {
		render.Render(w, r, ErrNotFound(fmt.Errorf("unknown chart %q", id)))
		return
	}

	report, err := s.report(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.renderer.Plot(id, report)
	if err != nil {
		if errors.Is(err, charts.ErrNotRenderable) {
			render.Render(w, r, ErrNotFound(err))
			return
		}
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := s.renderer.Encode(w, p); err != nil {
		s.logger.Error("[server] Encode chart %s: %v", id, err)
	}
}

func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := s.selected(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="influencers.csv"`)
	if err := storage.WriteCSV(w, records); err != nil {
		s.logger.Error("[server] Export CSV: %v", err)
	}
}

func (s *Server) exportXLSX(w http.ResponseWriter, r *http.Request) {
	records, err := s.selected(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	f, err := storage.BuildWorkbook(records)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="influencers.xlsx"`)
	if err := f.Write(w); err != nil {
		s.logger.Error("[server] Export XLSX: %v", err)
	}
}

func (s *Server) report(r *http.Request) (*models.DashboardReport, error) {
	sel, err := s.selection(r)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Report(sel)
}

func (s *Server) selected(r *http.Request) ([]*models.Influencer, error) {
	sel, err := s.selection(r)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Selected(sel)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("[server] %s %s: %v", r.Method, r.URL.Path, err)
	render.Render(w, r, ErrInternal(err))
}
