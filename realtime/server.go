package realtime

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"stockgrow/database"
	"stockgrow/services"
	"stockgrow/utils"

	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/socket"
)

// Server pushes store changes and live bet totals to connected dashboard
// clients over Socket.IO. It runs on its own port next to the REST API.
type Server struct {
	store  *database.Store
	ledger *services.LedgerService
	game   *services.GameService

	io   *socketio.Server
	http *http.Server

	mu      sync.Mutex
	clients map[socketio.SocketId]*socketio.Socket
}

func NewServer(store *database.Store, ledger *services.LedgerService, game *services.GameService) *Server {
	return &Server{
		store:   store,
		ledger:  ledger,
		game:    game,
		clients: make(map[socketio.SocketId]*socketio.Socket),
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, port int) error {
	s.io = socketio.NewServer(nil, nil)

	s.io.On("connection", func(conn ...any) {
		if len(conn) == 0 {
			return
		}
		socket := conn[0].(*socketio.Socket)
		clientID := socket.Id()

		s.mu.Lock()
		s.clients[clientID] = socket
		total := len(s.clients)
		s.mu.Unlock()
		logrus.Infof("✅ Socket connected: %s | Total: %d", clientID, total)

		socket.Emit("connected", map[string]interface{}{
			"id":        clientID,
			"timestamp": time.Now().Unix(),
		})

		socket.On("ping", func(data ...any) {
			socket.Emit("pong", map[string]interface{}{
				"message":   "pong",
				"timestamp": time.Now().Unix(),
			})
		})

		socket.On("live_bets", func(data ...any) {
			socket.Emit("live_bets", map[string]interface{}{
				"Status":        200,
				"StatusCode":    0,
				"Data":          s.game.ReadLiveBets(),
				"StatusMessage": "Success",
			})
		})

		socket.On("pending_count", func(data ...any) {
			socket.Emit("pending_count", map[string]interface{}{
				"Status":        200,
				"StatusCode":    0,
				"Count":         len(s.ledger.PendingTransactions()),
				"StatusMessage": "Success",
			})
		})

		socket.On("user", func(data ...any) {
			if len(data) == 0 {
				return
			}

			var tokenString string
			switch v := data[0].(type) {
			case map[string]interface{}:
				if token, ok := v["token"].(string); ok {
					tokenString = token
				}
			case string:
				tokenString = v
			}
			if tokenString == "" {
				socket.Emit("error", map[string]interface{}{
					"Status":        false,
					"StatusCode":    1,
					"StatusMessage": "missing token",
				})
				return
			}

			claims, err := utils.VerifyJWTToken(tokenString)
			if err != nil {
				socket.Emit("error", map[string]interface{}{
					"Status":        false,
					"StatusCode":    1,
					"StatusMessage": err.Error(),
				})
				return
			}

			mobile, _ := claims["sub"].(string)
			user, err := s.ledger.UserByMobile(mobile)
			if err != nil {
				socket.Emit("error", map[string]interface{}{
					"Status":        false,
					"StatusCode":    1,
					"StatusMessage": err.Error(),
				})
				return
			}
			user.Password = ""

			socket.Emit("user_info", map[string]interface{}{
				"Status":        200,
				"StatusCode":    0,
				"Data":          user,
				"StatusMessage": "Success",
			})
		})

		socket.On("disconnect", func(reason ...any) {
			s.mu.Lock()
			delete(s.clients, clientID)
			remaining := len(s.clients)
			s.mu.Unlock()
			logrus.Infof("🔌 Socket disconnected: %s | Remaining: %d", clientID, remaining)
		})
	})

	// Fan out a store_update whenever a write commits, so dashboards can
	// refetch instead of polling.
	subID, updates := s.store.Subscribe()
	go func() {
		defer s.store.Unsubscribe(subID)
		for {
			select {
			case <-ctx.Done():
				return
			case <-updates:
				s.broadcast("store_update", map[string]interface{}{
					"timestamp": time.Now().Unix(),
				})
			}
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", s.io.ServeHandler(nil))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"healthy","connected_clients":%d}`, s.clientCount())
	})

	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("🚀 Socket server starting on :%d", port)
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.io.Close(nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) clientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) broadcast(event string, payload map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, socket := range s.clients {
		socket.Emit(event, payload)
	}
}
