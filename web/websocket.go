package web

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"usmweek/presenter"
	"usmweek/semester"
	"usmweek/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Read-only feed, any origin may listen
	},
}

// TodayBroadcaster pushes today's classification to open pages so they can
// refresh when the date rolls over. A page that connects is sent today as
// read from the broadcaster's own clock, so it agrees with the page it was
// served with even before the scheduled rollover has run.
type TodayBroadcaster struct {
	cfg semester.Config
	loc *time.Location
	now func() time.Time

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

type todayMessage struct {
	Type   string           `json:"type"`
	Report presenter.Report `json:"report"`
}

func NewTodayBroadcaster(cfg semester.Config, loc *time.Location) *TodayBroadcaster {
	if loc == nil {
		loc = time.UTC
	}
	return &TodayBroadcaster{
		cfg:     cfg,
		loc:     loc,
		now:     time.Now,
		clients: make(map[*websocket.Conn]bool),
	}
}

func (tb *TodayBroadcaster) today() semester.Classification {
	return semester.Classify(utils.DateOf(tb.now().In(tb.loc)), tb.cfg)
}

// ViewerCount returns the number of connected pages.
func (tb *TodayBroadcaster) ViewerCount() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.clients)
}

// HandleWebSocket registers a page and sends it today's classification.
func (tb *TodayBroadcaster) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket: Upgrade failed from %s: %v", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	initial, err := tb.encode(tb.today())
	if err != nil {
		log.Printf("WebSocket: Failed to marshal today: %v", err)
		return
	}

	tb.mu.Lock()
	tb.clients[conn] = true
	viewers := len(tb.clients)
	err = conn.WriteMessage(websocket.TextMessage, initial)
	tb.mu.Unlock()

	if err != nil {
		log.Printf("WebSocket: Failed to send initial state: %v", err)
		tb.remove(conn)
		return
	}
	log.Printf("WebSocket: Page connected (total: %d)", viewers)

	defer func() {
		tb.remove(conn)
		log.Printf("WebSocket: Page disconnected")
	}()

	// The feed is one way; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket: Unexpected close error: %v", err)
			}
			return
		}
	}
}

// BroadcastToday sends c to every connected page. Broken connections are
// dropped.
func (tb *TodayBroadcaster) BroadcastToday(c semester.Classification) {
	message, err := tb.encode(c)
	if err != nil {
		log.Printf("Failed to marshal today: %v", err)
		return
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	for conn := range tb.clients {
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Failed to send today: %v", err)
			delete(tb.clients, conn)
			conn.Close()
		}
	}

	if len(tb.clients) > 0 {
		log.Printf("Broadcasted %s to %d pages", c.Date.Format("2006-01-02"), len(tb.clients))
	}
}

func (tb *TodayBroadcaster) encode(c semester.Classification) ([]byte, error) {
	return json.Marshal(todayMessage{
		Type:   "today",
		Report: presenter.NewReport(c, tb.cfg),
	})
}

func (tb *TodayBroadcaster) remove(conn *websocket.Conn) {
	tb.mu.Lock()
	delete(tb.clients, conn)
	tb.mu.Unlock()
}
