package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/irblaster/internal/aeha"
	"github.com/muurk/irblaster/internal/discovery"
	"github.com/muurk/irblaster/internal/logging"
	"github.com/muurk/irblaster/internal/transmit"
	"github.com/muurk/irblaster/internal/version"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	// DefaultPollTimeout bounds the wait for the peripheral to finish a frame
	DefaultPollTimeout = 2 * time.Second
)

// Config holds the bridge server configuration
type Config struct {
	Host         string
	Port         int
	Path         string              // Websocket endpoint (default /ws)
	Peripheral   transmit.Peripheral // Local transmitter
	Timing       aeha.Timing         // Used for command requests (zero = default)
	PollTimeout  time.Duration       // Zero = DefaultPollTimeout
	Advertise    bool                // Register the service over mDNS
	InstanceName string              // mDNS instance name (default hostname)
}

// Server exposes a local IR peripheral over a websocket
type Server struct {
	config *Config
	id     string

	driver *transmit.Driver
	sendMu sync.Mutex // one transmission at a time across all connections
	sent   atomic.Uint64

	httpServer *http.Server
	listener   net.Listener
	mdns       *zeroconf.Server

	ctx    context.Context
	cancel context.CancelFunc

	wg          sync.WaitGroup
	mu          sync.Mutex
	activeConns map[*websocket.Conn]string
}

// New creates a new Server instance
func New(config *Config) (*Server, error) {
	if config.Peripheral == nil {
		return nil, errors.New("bridge: no peripheral configured")
	}
	if config.Path == "" {
		config.Path = discovery.DefaultPath
	}
	if config.Timing == (aeha.Timing{}) {
		config.Timing = aeha.DefaultTiming
	}
	if err := config.Timing.Validate(); err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}
	if config.PollTimeout == 0 {
		config.PollTimeout = DefaultPollTimeout
	}

	driver := transmit.NewDriver(config.Peripheral)
	driver.Timing = config.Timing
	driver.PollTimeout = config.PollTimeout

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:      config,
		id:          BridgeID(),
		driver:      driver,
		ctx:         ctx,
		cancel:      cancel,
		activeConns: make(map[*websocket.Conn]string),
	}
	driver.OnFrame = func(transmit.FrameEvent) { s.sent.Add(1) }
	return s, nil
}

// ID returns the bridge identifier advertised over mDNS
func (s *Server) ID() string {
	return s.id
}

// Handler returns the HTTP handler serving the websocket and health endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start listens, optionally advertises over mDNS, and serves until ctx is
// cancelled or the server fails.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprintf("%d", s.config.Port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener
	port := listener.Addr().(*net.TCPAddr).Port

	logging.Info("Starting irblaster bridge",
		zap.String("addr", listener.Addr().String()),
		zap.String("id", s.id),
		zap.String("path", s.config.Path),
		zap.String("version", version.Version),
	)

	if s.config.Advertise {
		if err := s.advertise(port); err != nil {
			_ = listener.Close()
			return err
		}
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		logging.Info("Shutdown requested, stopping bridge...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) advertise(port int) error {
	instance := s.config.InstanceName
	if instance == "" {
		instance = "irblaster-" + s.id
	}

	txt := discovery.TXTRecords(s.id, version.Version, s.config.Path)
	server, err := zeroconf.Register(instance, discovery.ServiceType, discovery.ServiceDomain, port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	s.mdns = server

	logging.Info("Advertising bridge over mDNS",
		zap.String("instance", instance),
		zap.String("service", discovery.ServiceType),
		zap.Int("port", port),
	)
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down bridge...")

	// Abort any transmission in progress
	s.cancel()

	if s.mdns != nil {
		s.mdns.Shutdown()
		s.mdns = nil
	}

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	// Hijacked websocket connections are not tracked by http.Server
	s.mu.Lock()
	for conn, addr := range s.activeConns {
		logging.Info("Closing active connection", zap.String("remote_addr", addr))
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logging.Info("All connections closed gracefully")
	case <-ctx.Done():
		logging.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// ActiveConnections returns the number of connected clients
func (s *Server) ActiveConnections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeConns)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Health{
		Status:      "ok",
		ID:          s.id,
		Version:     version.Version,
		Connections: s.ActiveConnections(),
		Sent:        s.sent.Load(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := r.RemoteAddr
	s.mu.Lock()
	s.activeConns[conn] = remoteAddr
	s.mu.Unlock()
	s.wg.Add(1)

	defer func() {
		_ = conn.Close()
		s.mu.Lock()
		delete(s.activeConns, conn)
		s.mu.Unlock()
		s.wg.Done()
		logging.LogConnection(remoteAddr, "websocket_closed")
	}()

	logging.LogConnection(remoteAddr, "websocket_upgraded")
	s.serveConn(conn, remoteAddr)
}

// serveConn handles requests on one connection in order
func (s *Server) serveConn(conn *websocket.Conn, remoteAddr string) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var writeMu sync.Mutex
	write := func(reply Reply) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(reply)
	}

	stopPing := make(chan struct{})
	defer close(stopPing)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-stopPing:
				return
			case <-ticker.C:
				writeMu.Lock()
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Info("Connection closed with error",
					zap.String("remote_addr", remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.TextMessage {
			logging.Warn("Ignoring non-text message", zap.String("remote_addr", remoteAddr))
			continue
		}
		logging.LogRawBytes("Bridge request", data)

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			if werr := write(errorReply(0, fmt.Errorf("malformed request: %w", err))); werr != nil {
				return
			}
			continue
		}

		reply := s.handleRequest(s.ctx, req)
		if err := write(reply); err != nil {
			logging.Error("Failed to write reply",
				zap.String("remote_addr", remoteAddr),
				zap.Error(err),
			)
			return
		}
	}
}

// handleRequest executes one request and builds its reply
func (s *Server) handleRequest(ctx context.Context, req Request) Reply {
	var err error

	switch req.Type {
	case TypePulses:
		var frame aeha.PulseFrame
		frame, err = req.Frame()
		if err == nil {
			s.sendMu.Lock()
			err = s.driver.SendFrame(ctx, frame)
			s.sendMu.Unlock()
			if err == nil {
				s.sent.Add(1)
			}
		}

	case TypeCommand:
		s.sendMu.Lock()
		err = s.driver.SendCommand(ctx, req.Command())
		s.sendMu.Unlock()

	default:
		err = fmt.Errorf("unknown request type %q", req.Type)
	}

	if err != nil {
		logging.Warn("Bridge request failed",
			zap.String("type", req.Type),
			zap.Uint64("id", req.ID),
			zap.Error(err),
		)
		return errorReply(req.ID, err)
	}

	logging.Debug("Bridge request complete",
		zap.String("type", req.Type),
		zap.Uint64("id", req.ID),
	)
	return doneReply(req.ID)
}
