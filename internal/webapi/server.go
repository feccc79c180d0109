// Package webapi provides the dashboard's HTTP API: REST resources for
// todos, horizons, key events, holidays and the meal plan, the agenda
// feed, and a WebSocket stream of resource changes.
package webapi

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"dayboard/internal/agenda"
	"dayboard/internal/db"
)

// Server is the dashboard API server.
type Server struct {
	db        *db.DB
	agenda    *agenda.Service
	addr      string
	logger    *log.Logger
	wsHub     *WebSocketHub
	devMode   bool
	devOrigin string
}

// Config holds server configuration.
type Config struct {
	Addr      string
	DB        *db.DB
	Agenda    *agenda.Service
	DevMode   bool   // Enable CORS for local development
	DevOrigin string // Allowed origin in dev mode (e.g., "http://localhost:5173")
}

// New creates a new API server and registers it as the database's
// change listener so mutations stream out over the WebSocket feed.
func New(cfg Config) *Server {
	s := &Server{
		db:        cfg.DB,
		agenda:    cfg.Agenda,
		addr:      cfg.Addr,
		logger:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "webapi"}),
		wsHub:     NewWebSocketHub(),
		devMode:   cfg.DevMode,
		devOrigin: cfg.DevOrigin,
	}
	cfg.DB.SetChangeListener(s)
	return s
}

// ResourceChanged implements db.ChangeListener.
func (s *Server) ResourceChanged(kind, action string, id int64) {
	s.wsHub.Broadcast(Message{
		Type: "resource_change",
		Data: map[string]interface{}{"kind": kind, "action": action, "id": id},
	})
}

// BroadcastAgenda pushes a refreshed agenda to all connected clients.
func (s *Server) BroadcastAgenda(events []agenda.Event) {
	s.wsHub.Broadcast(Message{
		Type: "agenda_refresh",
		Data: map[string]interface{}{"count": len(events)},
	})
}

// Handler builds the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Agenda
	mux.HandleFunc("GET /agenda", s.handleAgenda)
	mux.HandleFunc("POST /agenda/refresh", s.handleAgendaRefresh)
	mux.HandleFunc("GET /calendar.ics", s.handleCalendarICS)

	// Todos
	mux.HandleFunc("GET /todos", s.handleListTodos)
	mux.HandleFunc("POST /todos", s.handleCreateTodo)
	mux.HandleFunc("GET /todos/{id}", s.handleGetTodo)
	mux.HandleFunc("PUT /todos/{id}", s.handleUpdateTodo)
	mux.HandleFunc("DELETE /todos/{id}", s.handleDeleteTodo)
	mux.HandleFunc("POST /todos/{id}/toggle", s.handleToggleTodo)
	mux.HandleFunc("POST /todos/reorder", s.handleReorderTodos)

	// Horizons
	mux.HandleFunc("GET /horizons", s.handleListHorizons)
	mux.HandleFunc("POST /horizons", s.handleCreateHorizon)
	mux.HandleFunc("GET /horizons/{id}", s.handleGetHorizon)
	mux.HandleFunc("PUT /horizons/{id}", s.handleUpdateHorizon)
	mux.HandleFunc("DELETE /horizons/{id}", s.handleDeleteHorizon)
	mux.HandleFunc("POST /horizons/reorder", s.handleReorderHorizons)

	// Key events
	mux.HandleFunc("GET /keyevents", s.handleListKeyEvents)
	mux.HandleFunc("POST /keyevents", s.handleCreateKeyEvent)
	mux.HandleFunc("PUT /keyevents/{id}", s.handleUpdateKeyEvent)
	mux.HandleFunc("DELETE /keyevents/{id}", s.handleDeleteKeyEvent)

	// Holidays
	mux.HandleFunc("GET /holidays", s.handleListHolidays)
	mux.HandleFunc("GET /holidays/upcoming", s.handleUpcomingHolidays)
	mux.HandleFunc("POST /holidays", s.handleCreateHoliday)
	mux.HandleFunc("PUT /holidays/{id}", s.handleUpdateHoliday)
	mux.HandleFunc("DELETE /holidays/{id}", s.handleDeleteHoliday)

	// Meal plan
	mux.HandleFunc("GET /mealplan/{week}", s.handleGetMealPlan)
	mux.HandleFunc("PUT /mealplan/{week}/{weekday}", s.handleSetMealSlot)
	mux.HandleFunc("DELETE /mealplan/{week}/{weekday}", s.handleClearMealSlot)
	mux.HandleFunc("GET /mealplan/{week}/ingredients", s.handleListIngredients)
	mux.HandleFunc("POST /mealplan/{week}/ingredients", s.handleCreateIngredient)
	mux.HandleFunc("POST /ingredients/{id}/check", s.handleCheckIngredient)
	mux.HandleFunc("DELETE /ingredients/{id}", s.handleDeleteIngredient)

	// Settings
	mux.HandleFunc("GET /settings", s.handleGetSettings)
	mux.HandleFunc("PUT /settings", s.handleUpdateSettings)

	// WebSocket
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	var handler http.Handler = mux
	if s.devMode {
		handler = s.corsMiddleware(handler)
	}
	handler = s.loggingMiddleware(handler)
	return handler
}

// Start starts the API server and blocks until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start WebSocket hub
	go s.wsHub.Run()

	s.logger.Info("starting API server", "addr", s.addr)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// corsMiddleware adds CORS headers for local development.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := s.devOrigin
		if origin == "" {
			origin = "http://localhost:5173"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// JSON response helpers
func jsonResponse(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

func parseJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// getIDParam extracts an ID from the URL path.
func getIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleGetSettings handles GET /settings
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.db.ListSettings()
	if err != nil {
		s.logger.Error("list settings failed", "error", err)
		jsonError(w, "Failed to list settings", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, settings, http.StatusOK)
}

// handleUpdateSettings handles PUT /settings
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := parseJSON(r, &req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	for k, v := range req {
		if err := s.db.SetSetting(k, v); err != nil {
			s.logger.Error("set setting failed", "key", k, "error", err)
			jsonError(w, "Failed to update settings", http.StatusInternalServerError)
			return
		}
	}

	settings, err := s.db.ListSettings()
	if err != nil {
		jsonError(w, "Failed to list settings", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, settings, http.StatusOK)
}

// WebSocketHub manages WebSocket connections.
type WebSocketHub struct {
	clients    map[*WebSocketClient]bool
	broadcast  chan Message
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	mu         sync.RWMutex
}

// WebSocketClient represents a connected WebSocket client.
type WebSocketClient struct {
	hub  *WebSocketHub
	conn *websocket.Conn
	send chan []byte
}

// Message represents a WebSocket message.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewWebSocketHub creates a new WebSocket hub.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*WebSocketClient]bool),
		broadcast:  make(chan Message, 16),
		register:   make(chan *WebSocketClient),
		unregister: make(chan *WebSocketClient),
	}
}

// Run starts the WebSocket hub.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					h.mu.RUnlock()
					h.mu.Lock()
					close(client.send)
					delete(h.clients, client)
					h.mu.Unlock()
					h.mu.RLock()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast sends a message to all connected clients.
func (h *WebSocketHub) Broadcast(msg Message) {
	h.broadcast <- msg
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins (we're behind the proxy)
	},
}

// handleWebSocket handles WebSocket connections.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &WebSocketClient{
		hub:  s.wsHub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	s.wsHub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(64 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
