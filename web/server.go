// Package web serves a localhost-only single-user UI; it intentionally has no
// auth/CSRF protection in this mode.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"daytiles/config"
	"daytiles/importer"
	"daytiles/internal/timeutil"
	"daytiles/layout"
	"daytiles/palette"
	"daytiles/reconcile"
	"daytiles/schedule"
	"daytiles/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	store  *storage.SQLiteStore
	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time

	mux *http.ServeMux

	mu       sync.RWMutex
	dayCache map[string][]schedule.Entry
	// dayGen counts invalidations per day; a load only caches its result
	// when no write invalidated the day while it was reading.
	dayGen map[string]uint64

	loadMu sync.Mutex
}

type dayPageView struct {
	Title    string
	Day      string
	Previous string
	Next     string
	Height   float64
	View     DayView
}

type layoutResponse struct {
	Date   string         `json:"date"`
	Window layout.Window  `json:"window"`
	Styles []layout.Style `json:"styles"`
}

type entryMutationRequest struct {
	ID       string `json:"id"`
	Start    string `json:"start"`
	Duration int    `json:"duration"`
}

type entryPatchRequest struct {
	Start    *string `json:"start"`
	Duration *int    `json:"duration"`
}

type reconcileRequest struct {
	Pinned []string `json:"pinned"`
}

type reconcileResponse struct {
	EntriesChecked int `json:"entriesChecked"`
	OverlapsBefore int `json:"overlapsBefore"`
	OverlapsAfter  int `json:"overlapsAfter"`
	EntriesMoved   int `json:"entriesMoved"`
}

type importResponse struct {
	FilesProcessed int `json:"filesProcessed"`
	RowsRead       int `json:"rowsRead"`
	RowsMapped     int `json:"rowsMapped"`
	RowsSkipped    int `json:"rowsSkipped"`
	RowsPersisted  int `json:"rowsPersisted"`
}

var errInvalidRequest = errors.New("invalid request")

// NewServer returns the UI and JSON API handler. A nil logger discards logs.
func NewServer(store *storage.SQLiteStore, cfg config.Config, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := &Server{
		store:    store,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		dayCache: make(map[string][]schedule.Entry),
		dayGen:   make(map[string]uint64),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", server.handleIndex)
	mux.HandleFunc("GET /day/{date}", server.handleDay)
	mux.HandleFunc("GET /api/day/{date}/layout", server.handleAPILayout)
	mux.HandleFunc("GET /api/day/{date}/entries", server.handleAPIEntries)
	mux.HandleFunc("POST /api/day/{date}/entries", server.handleAPIEntryCreate)
	mux.HandleFunc("PATCH /api/day/{date}/entries/{id}", server.handleAPIEntryPatch)
	mux.HandleFunc("DELETE /api/day/{date}/entries/{id}", server.handleAPIEntryDelete)
	mux.HandleFunc("POST /api/day/{date}/reconcile", server.handleAPIReconcile)
	mux.HandleFunc("POST /api/import", server.handleAPIImport)
	server.mux = mux

	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(recorder, r)
	s.logger.Info("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", recorder.status),
		zap.Duration("duration", time.Since(started)),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/day/"+timeutil.FormatDay(s.now()), http.StatusFound)
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	window, ok := s.requestWindow(w, r)
	if !ok {
		return
	}

	entries, err := s.loadDay(day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view, err := BuildDayView(day, entries, window, s.colors())
	if err != nil {
		s.writeError(w, err)
		return
	}

	dayISO := timeutil.FormatDay(day)
	page := dayPageView{
		Title:    "daytiles - " + dayISO,
		Day:      dayISO,
		Previous: timeutil.FormatDay(day.AddDate(0, 0, -1)),
		Next:     timeutil.FormatDay(day.AddDate(0, 0, 1)),
		Height:   window.ScreenHeight,
		View:     view,
	}
	if err := renderTemplate(w, "day.html", page); err != nil {
		s.logger.Error("render day page", zap.String("day", dayISO), zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleAPILayout(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	window, ok := s.requestWindow(w, r)
	if !ok {
		return
	}

	entries, err := s.loadDay(day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	sorted, err := schedule.Sort(entries)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := layout.Compute(sorted, window, s.colors())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, layoutResponse{
		Date:   timeutil.FormatDay(day),
		Window: window,
		Styles: result.Styles(),
	})
}

func (s *Server) handleAPIEntries(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	entries, err := s.loadDay(day)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAPIEntryCreate(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}

	var body entryMutationRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := schedule.Entry{
		ID:       strings.TrimSpace(body.ID),
		Start:    strings.TrimSpace(body.Start),
		Duration: body.Duration,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	inserted, err := s.store.InsertEntry(day, entry)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !inserted {
		http.Error(w, fmt.Sprintf("entry %q already exists on %s", entry.ID, timeutil.FormatDay(day)), http.StatusConflict)
		return
	}

	s.invalidateDay(day)
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleAPIEntryPatch(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))

	existing, found, err := s.store.GetEntry(day, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !found {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}

	var body entryPatchRequest
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Start != nil {
		existing.Start = strings.TrimSpace(*body.Start)
	}
	if body.Duration != nil {
		existing.Duration = *body.Duration
	}

	if err := s.store.UpdateEntry(day, existing); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		s.writeError(w, err)
		return
	}

	s.invalidateDay(day)
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleAPIEntryDelete(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteEntry(day, strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}

	s.invalidateDay(day)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIReconcile(w http.ResponseWriter, r *http.Request) {
	day, ok := s.pathDay(w, r)
	if !ok {
		return
	}

	var body reconcileRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	result, err := reconcile.Run(s.store, day, reconcile.Options{Pinned: body.Pinned})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.invalidateDay(day)
	writeJSON(w, http.StatusOK, reconcileResponse{
		EntriesChecked: result.EntriesChecked,
		OverlapsBefore: result.OverlapsBefore,
		OverlapsAfter:  result.OverlapsAfter,
		EntriesMoved:   result.EntriesMoved,
	})
}

func (s *Server) handleAPIImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var fallback time.Time
	if raw := strings.TrimSpace(r.FormValue("date")); raw != "" {
		fallback, err = timeutil.ParseDay(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	var mapper importer.Mapper
	if name := strings.TrimSpace(r.FormValue("mapper")); name != "" {
		mapper, err = importer.MapperByName(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	tmp, err := os.CreateTemp("", tempUploadPattern(header.Filename))
	if err != nil {
		s.writeError(w, fmt.Errorf("create temp upload: %w", err))
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		s.writeError(w, fmt.Errorf("save upload: %w", err))
		return
	}
	if err := tmp.Close(); err != nil {
		s.writeError(w, fmt.Errorf("close upload temp file: %w", err))
		return
	}

	source := importer.Source{Path: tmpPath, Name: filepath.Base(header.Filename)}
	result, err := importer.RunSources([]importer.Source{source}, strings.TrimSpace(r.FormValue("format")), mapper, s.cfg)
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: %w", errInvalidRequest, err))
		return
	}

	rows := make([]storage.DayEntry, 0, len(result.Entries))
	touched := make(map[string]time.Time)
	for _, mapped := range result.Entries {
		day, err := importer.ResolveDay(mapped, fallback)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rows = append(rows, storage.DayEntry{Day: day, Entry: mapped.Entry, SourceFile: header.Filename})
		touched[timeutil.FormatDay(day)] = day
	}

	inserted, err := s.store.InsertEntries(rows)
	if err != nil {
		s.writeError(w, err)
		return
	}

	for _, day := range touched {
		s.invalidateDay(day)
	}
	s.logger.Info("import",
		zap.String("file", header.Filename),
		zap.Int("rows_mapped", result.RowsMapped),
		zap.Int("rows_persisted", inserted),
	)
	writeJSON(w, http.StatusOK, importResponse{
		FilesProcessed: result.FilesProcessed,
		RowsRead:       result.RowsRead,
		RowsMapped:     result.RowsMapped,
		RowsSkipped:    result.RowsSkipped,
		RowsPersisted:  inserted,
	})
}

// loadDay returns the stored entries of day. Misses are serialized so
// concurrent requests don't query the same day twice.
func (s *Server) loadDay(day time.Time) ([]schedule.Entry, error) {
	key := timeutil.FormatDay(day)
	if entries, ok := s.cachedDay(key); ok {
		return entries, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if entries, ok := s.cachedDay(key); ok {
		return entries, nil
	}

	gen := s.dayGeneration(key)
	entries, err := s.store.ListDay(day)
	if err != nil {
		return nil, fmt.Errorf("list entries of %s: %w", key, err)
	}

	cached := s.storeDay(key, gen, entries)
	s.logger.Debug("day loaded", zap.String("day", key), zap.Int("entries", len(entries)), zap.Bool("cached", cached))

	return slices.Clone(entries), nil
}

func (s *Server) cachedDay(key string) ([]schedule.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.dayCache[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(entries), true
}

func (s *Server) dayGeneration(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dayGen[key]
}

// storeDay caches entries read at generation gen. It reports false and
// leaves the cache alone when the day was invalidated since.
func (s *Server) storeDay(key string, gen uint64, entries []schedule.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dayGen[key] != gen {
		return false
	}
	s.dayCache[key] = entries
	return true
}

func (s *Server) invalidateDay(day time.Time) {
	key := timeutil.FormatDay(day)
	s.mu.Lock()
	delete(s.dayCache, key)
	s.dayGen[key]++
	s.mu.Unlock()
}

// colors returns a fresh palette so equal requests get equal colors.
func (s *Server) colors() layout.ColorSource {
	return palette.NewSeeded(s.cfg.Palette.Seed, s.cfg.Palette.MinChannel)
}

func (s *Server) pathDay(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	day, err := parseISODate(r.PathValue("date"))
	if err != nil {
		http.Error(w, "invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return time.Time{}, false
	}
	return day, true
}

func (s *Server) requestWindow(w http.ResponseWriter, r *http.Request) (layout.Window, bool) {
	window := layout.Window{
		StartHour:    s.cfg.Window.StartHour,
		EndHour:      s.cfg.Window.EndHour,
		ScreenHeight: s.cfg.Window.ScreenHeight,
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("height")); raw != "" {
		height, err := strconv.ParseFloat(raw, 64)
		if err != nil || height <= 0 {
			http.Error(w, "invalid height (expected a positive number)", http.StatusBadRequest)
			return layout.Window{}, false
		}
		window.ScreenHeight = height
	}

	if err := window.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return layout.Window{}, false
	}
	return window, true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, schedule.ErrMalformedTime):
		return http.StatusUnprocessableEntity
	case errors.Is(err, schedule.ErrInvalidEntry),
		errors.Is(err, layout.ErrInvalidWindow),
		errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	tmpl, err := template.New("base.html").Funcs(template.FuncMap{
		"px": func(value float64) string {
			return strconv.FormatFloat(value, 'f', 2, 64) + "px"
		},
		"hours": func(minutes int) string {
			return fmt.Sprintf("%.2f", float64(minutes)/60)
		},
	}).ParseFS(templateFS, "templates/base.html", "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render template %s: %w", pageTemplate, err)
	}
	return nil
}

func parseISODate(value string) (time.Time, error) {
	parsed, err := timeutil.ParseDay(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return timeutil.StartOfDay(parsed), nil
}

func decodeJSON(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func tempUploadPattern(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." {
		return "upload-*"
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" {
		stem = "upload"
	}
	if ext == "" {
		return stem + "-*"
	}
	return stem + "-*" + ext
}
