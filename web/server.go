package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"usmweek/config"
	"usmweek/presenter"
	"usmweek/semester"
	"usmweek/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	router      *mux.Router
	semester    semester.Config
	loc         *time.Location
	sourceURL   string
	selections  *SelectionStore
	broadcaster *TodayBroadcaster
	pages       map[string]*template.Template
	now         func() time.Time
}

type PageData struct {
	Title        string
	View         presenter.View
	DateLabel    string
	LongDate     string
	SelectedDate string // value of the date input
	Today        string
	IsToday      bool
	Notices      []string
	MinDate      string
	MaxDate      string
	Year         int
	SourceURL    string
}

func NewServer(sem semester.Config, settings config.Config, broadcaster *TodayBroadcaster) *Server {
	s := &Server{
		router:      mux.NewRouter().StrictSlash(true),
		semester:    sem,
		loc:         settings.Location,
		sourceURL:   settings.SourceURL,
		selections:  NewSelectionStore(settings.SessionSecret, settings.IsProduction()),
		broadcaster: broadcaster,
		pages:       make(map[string]*template.Template),
		now:         time.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}

	s.parseTemplates("index.html")
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Live rollover feed; kept off the compressing subrouter so the
	// connection can be hijacked.
	s.router.HandleFunc("/ws/today", s.broadcaster.HandleWebSocket)

	// Pages
	pages := s.router.PathPrefix("").Subrouter()
	pages.Use(s.selections.LoadSelection)
	pages.Use(handlers.CompressHandler)

	pages.HandleFunc("/", s.handleIndex).Methods("GET")
	pages.HandleFunc("/date", s.handleSelectDate).Methods("POST")
	pages.HandleFunc("/reset", s.handleReset).Methods("POST")
	pages.HandleFunc("/api/week", s.handleAPIWeek).Methods("GET")
	pages.HandleFunc("/favicon.ico", s.handleFavicon).Methods("GET")
	pages.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// Handler returns the router wrapped with CORS and panic recovery.
func (s *Server) Handler() http.Handler {
	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
	)
	recovery := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))
	return recovery(corsHandler(s.router))
}

func (s *Server) today() time.Time {
	return utils.DateOf(s.now().In(s.loc))
}

// effectiveDate resolves the date to show: a valid ?date query, else the
// stored selection, else today. The returned notice is non-empty when the
// query was rejected for being outside the accepted year.
func (s *Server) effectiveDate(r *http.Request, today time.Time) (time.Time, string) {
	effective := today
	if stored := GetSelectionFromContext(r.Context()); stored != "" {
		date, err := parseSelection(stored, semester.AcceptedYear)
		if err != nil {
			log.Printf("Ignoring stored selection: %v", err)
		} else {
			effective = date
		}
	}

	raw := r.URL.Query().Get("date")
	if raw == "" {
		return effective, ""
	}

	date, err := parseSelection(raw, semester.AcceptedYear)
	switch {
	case err == nil:
		return date, ""
	case errors.Is(err, ErrOutsideAcceptedYear):
		return effective, yearNotice(semester.AcceptedYear)
	default:
		log.Printf("Unparseable date, showing today: %v", err)
		return today, ""
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	today := s.today()
	effective, notice := s.effectiveDate(r, today)

	notices, err := s.selections.TakeNotices(w, r)
	if err != nil {
		log.Printf("Error reading notices: %v", err)
	}
	if notice != "" {
		notices = append(notices, notice)
	}

	isToday := effective.Equal(today)
	view := presenter.Describe(semester.Classify(effective, s.semester), s.semester, isToday)

	data := PageData{
		Title:        view.Title,
		View:         view,
		DateLabel:    presenter.DateLabel(isToday),
		LongDate:     presenter.FormatLongDate(effective),
		SelectedDate: utils.FormatDate(effective),
		Today:        utils.FormatDate(today),
		IsToday:      isToday,
		Notices:      notices,
		MinDate:      strconv.Itoa(semester.AcceptedYear) + "-01-01",
		MaxDate:      strconv.Itoa(semester.AcceptedYear) + "-12-31",
		Year:         semester.AcceptedYear,
		SourceURL:    s.sourceURL,
	}
	if data.Title == "" {
		data.Title = presenter.DefaultTitle
	}

	s.renderTemplate(w, "index.html", data)
}

func (s *Server) handleSelectDate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	raw := strings.TrimSpace(r.FormValue("date"))
	if raw == "" {
		s.handleReset(w, r)
		return
	}

	date, err := parseSelection(raw, semester.AcceptedYear)
	switch {
	case err == nil:
		err = s.selections.SaveSelection(w, r, utils.FormatDate(date))
	case errors.Is(err, ErrOutsideAcceptedYear):
		// Keep the previous selection and tell the visitor why.
		err = s.selections.AddNotice(w, r, yearNotice(semester.AcceptedYear))
	default:
		log.Printf("Unparseable date, falling back to today: %v", err)
		err = s.selections.ClearSelection(w, r)
	}
	if err != nil {
		log.Printf("Error saving session: %v", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.selections.ClearSelection(w, r); err != nil {
		log.Printf("Error clearing selection: %v", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleAPIWeek(w http.ResponseWriter, r *http.Request) {
	date := s.today()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseSelection(raw, semester.AcceptedYear)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		date = parsed
	}

	writeJSON(w, http.StatusOK, presenter.NewReport(semester.Classify(date, s.semester), s.semester))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	faviconSVG := `<svg xmlns="http://www.w3.org/2000/svg" width="32" height="32" viewBox="0 0 32 32">
		<rect width="32" height="32" rx="6" fill="#3b82f6"/>
		<text x="16" y="22" font-family="Helvetica, Arial, sans-serif" font-size="18" font-weight="bold" text-anchor="middle" fill="#FFFFFF">W</text>
	</svg>`

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=31536000") // Cache for 1 year
	w.Write([]byte(faviconSVG))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

// parseTemplates pairs each page with the base layout.
func (s *Server) parseTemplates(names ...string) {
	for _, name := range names {
		s.pages[name] = template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+name))
	}
}

func (s *Server) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	tmpl, ok := s.pages[templateName]
	if !ok {
		log.Printf("Template %s not found", templateName)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Template execution error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Start serves on port until ctx is cancelled, then shuts the server down,
// letting in-flight requests finish.
func (s *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting web server on port %s", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
