package web

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

type ContextKey string

const SelectionContextKey ContextKey = "selection"

const (
	sessionName  = "usmweek-session"
	selectionKey = "date"
)

// SelectionStore keeps the visitor's chosen date and pending notices in a
// cookie session. The cookie has no Max-Age, so it ends with the browser
// session.
type SelectionStore struct {
	store *sessions.CookieStore
}

func NewSelectionStore(secret []byte, secure bool) *SelectionStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   secure, // Only secure cookies in production (HTTPS)
		SameSite: http.SameSiteLaxMode,
	}
	return &SelectionStore{store: store}
}

// LoadSelection puts the stored date string, if any, into the request context.
func (ss *SelectionStore) LoadSelection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := ss.store.Get(r, sessionName)
		if err != nil {
			// Unreadable cookie, e.g. after a key change; behave as a new visitor
			next.ServeHTTP(w, r)
			return
		}

		selected, ok := session.Values[selectionKey].(string)
		if !ok || selected == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SelectionContextKey, selected)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SaveSelection stores date (YYYY-MM-DD) as the visitor's selection.
func (ss *SelectionStore) SaveSelection(w http.ResponseWriter, r *http.Request, date string) error {
	session, _ := ss.store.Get(r, sessionName)
	session.Values[selectionKey] = date
	return session.Save(r, w)
}

// ClearSelection drops the selection so the page shows today again.
func (ss *SelectionStore) ClearSelection(w http.ResponseWriter, r *http.Request) error {
	session, _ := ss.store.Get(r, sessionName)
	delete(session.Values, selectionKey)
	return session.Save(r, w)
}

// AddNotice queues a message for the next page render.
func (ss *SelectionStore) AddNotice(w http.ResponseWriter, r *http.Request, notice string) error {
	session, _ := ss.store.Get(r, sessionName)
	session.AddFlash(notice)
	return session.Save(r, w)
}

// TakeNotices returns and removes the queued messages.
func (ss *SelectionStore) TakeNotices(w http.ResponseWriter, r *http.Request) ([]string, error) {
	session, err := ss.store.Get(r, sessionName)
	if err != nil {
		return nil, err
	}

	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil, nil
	}

	notices := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if s, ok := f.(string); ok {
			notices = append(notices, s)
		}
	}
	return notices, session.Save(r, w)
}

// GetSelectionFromContext returns the stored date string, or "".
func GetSelectionFromContext(ctx context.Context) string {
	selected, _ := ctx.Value(SelectionContextKey).(string)
	return selected
}
