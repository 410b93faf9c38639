package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/room"
)

// Server hosts the configured tables behind a websocket endpoint. Each
// seated player gets their own projection of the table state; hole cards
// never cross a connection they do not belong to before showdown.
type Server struct {
	cfg      *Config
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	rooms       map[string]*room.Room
	connections map[string]*Connection // player id -> connection
	httpServer  *http.Server
}

// New creates a server and a room per configured table.
func New(cfg *Config, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		rooms:       make(map[string]*room.Room),
		connections: make(map[string]*Connection),
	}

	for _, t := range cfg.Tables {
		s.rooms[t.Name] = room.New(t.Name, logger,
			room.WithBlinds(t.SmallBlind, t.BigBlind),
			room.WithActionTimeout(time.Duration(t.ActionTimeoutSeconds)*time.Second),
			room.WithBroadcaster(s),
		)
		s.logger.Info("table created", "table", t.Name,
			"stakes", fmt.Sprintf("%d/%d", t.SmallBlind, t.BigBlind))
	}
	return s
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{Addr: s.cfg.ListenAddress(), Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.ListenAddress())
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// BroadcastState implements room.Broadcaster by routing each per-viewer
// snapshot to exactly that viewer's connection.
func (s *Server) BroadcastState(roomID, playerID string, view game.PublicView) {
	s.mu.RLock()
	conn := s.connections[playerID]
	s.mu.RUnlock()
	if conn == nil {
		return
	}

	msg, err := NewStateMessage(view)
	if err != nil {
		s.logger.Error("encoding state", "error", err)
		return
	}
	conn.Send(msg)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger, s)
	conn.Start()

	go func() {
		<-conn.Done()
		s.dropConnection(conn)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// handleMessage dispatches one client frame. All replies go back on the
// same connection.
func (s *Server) handleMessage(c *Connection, msg *Message) {
	switch msg.Type {
	case MessageTypeJoin:
		s.handleJoin(c, msg)
	case MessageTypeLeave:
		s.handleLeave(c)
	case MessageTypeStart:
		s.handleStart(c)
	case MessageTypeAction:
		s.handleAction(c, msg)
	default:
		c.Send(NewErrorMessage(fmt.Errorf("unknown message type %q", msg.Type)))
	}
}

func (s *Server) handleJoin(c *Connection, msg *Message) {
	var req JoinRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.Send(NewErrorMessage(err))
		return
	}
	if c.PlayerID() != "" {
		c.Send(NewErrorMessage(fmt.Errorf("already seated")))
		return
	}

	rm, buyIn := s.roomFor(req.Table)
	if rm == nil {
		c.Send(NewErrorMessage(fmt.Errorf("unknown table %q", req.Table)))
		return
	}

	playerID := uuid.NewString()
	if err := rm.Join(playerID, req.Name, buyIn); err != nil {
		c.Send(NewErrorMessage(err))
		return
	}

	c.SetIdentity(playerID, rm.ID)
	s.mu.Lock()
	s.connections[playerID] = c
	s.mu.Unlock()

	reply, err := NewMessage(MessageTypeJoined, JoinedData{
		PlayerID: playerID,
		Table:    rm.ID,
		Chips:    buyIn,
	})
	if err != nil {
		c.Send(NewErrorMessage(err))
		return
	}
	c.Send(reply)
}

func (s *Server) handleLeave(c *Connection) {
	rm := s.roomOf(c)
	if rm == nil {
		c.Send(NewErrorMessage(room.ErrUnknownPlayer))
		return
	}
	if err := rm.Leave(c.PlayerID()); err != nil {
		c.Send(NewErrorMessage(err))
	}
}

func (s *Server) handleStart(c *Connection) {
	rm := s.roomOf(c)
	if rm == nil {
		c.Send(NewErrorMessage(room.ErrUnknownPlayer))
		return
	}
	if err := rm.StartHand(); err != nil {
		c.Send(NewErrorMessage(err))
	}
}

func (s *Server) handleAction(c *Connection, msg *Message) {
	rm := s.roomOf(c)
	if rm == nil {
		c.Send(NewErrorMessage(room.ErrUnknownPlayer))
		return
	}

	var req ActionRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.Send(NewErrorMessage(err))
		return
	}
	action, ok := game.ParseAction(req.Action)
	if !ok {
		c.Send(NewErrorMessage(fmt.Errorf("unknown action %q", req.Action)))
		return
	}

	view, err := rm.SubmitAction(c.PlayerID(), action, req.Amount)
	if err != nil {
		// Recoverable rejection: state is unchanged, the client may retry.
		c.Send(NewErrorMessage(err))
		return
	}
	if reply, err := NewStateMessage(view); err == nil {
		c.Send(reply)
	}
}

// dropConnection folds and unseats a player whose socket went away.
func (s *Server) dropConnection(c *Connection) {
	playerID := c.PlayerID()
	if playerID == "" {
		return
	}

	s.mu.Lock()
	delete(s.connections, playerID)
	s.mu.Unlock()

	if rm := s.roomOf(c); rm != nil {
		s.logger.Info("player disconnected", "player", playerID, "table", rm.ID)
		if err := rm.Leave(playerID); err != nil {
			s.logger.Debug("disconnect cleanup", "player", playerID, "error", err)
		}
	}
}

func (s *Server) roomFor(table string) (*room.Room, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rm := s.rooms[table]
	if rm == nil {
		return nil, 0
	}
	for _, t := range s.cfg.Tables {
		if t.Name == table {
			buyIn := t.BuyIn
			if buyIn == 0 {
				buyIn = 1000
			}
			return rm, buyIn
		}
	}
	return rm, 1000
}

func (s *Server) roomOf(c *Connection) *room.Room {
	if c.PlayerID() == "" || c.Table() == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[c.Table()]
}
