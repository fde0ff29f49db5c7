// Package server exposes the engine's queries over HTTP for the dashboard.
// It serves JSON only; rendering belongs to the dashboard client. Every
// request recomputes the snapshot from the log, so the server never holds
// stale state and never needs locks around the data.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quillhq/quill/internal/config"
	"github.com/quillhq/quill/internal/graph"
	"github.com/quillhq/quill/internal/resolve"
	"github.com/quillhq/quill/internal/state"
	"github.com/quillhq/quill/internal/storage"
	"github.com/quillhq/quill/internal/types"
)

// Server serves the dashboard API for one event log.
type Server struct {
	logPath  string
	settings config.Settings
	router   *gin.Engine

	mu          sync.Mutex
	subscribers map[string]chan struct{}
	changed     chan struct{}
}

// New creates a dashboard server for the given event log.
func New(logPath string, settings config.Settings) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		logPath:     logPath,
		settings:    settings,
		subscribers: make(map[string]chan struct{}),
		changed:     make(chan struct{}, 1),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.GET("/issues", s.handleIssues)
	api.GET("/issues/:id", s.handleIssue)
	api.GET("/issues/:id/tree", s.handleTree)
	api.GET("/issues/:id/neighborhood", s.handleNeighborhood)
	api.GET("/ready", s.handleReady)
	api.GET("/blocked", s.handleBlocked)
	api.GET("/graph", s.handleGraph)
	api.GET("/stream", s.handleStream)
	return router
}

// Run serves HTTP and watches the log for changes until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	watchErr := make(chan error, 1)
	go func() { watchErr <- s.watch(ctx) }()

	httpServer := &http.Server{Addr: s.settings.Dashboard, Handler: s.router}
	serveErr := make(chan error, 1)
	go func() { serveErr <- httpServer.ListenAndServe() }()

	shutdown := func() error {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}

	select {
	case <-ctx.Done():
		return shutdown()
	case err := <-serveErr:
		return err
	case err := <-watchErr:
		// Cancellation reaches the watcher before this select; it still
		// gets the graceful shutdown, not an early return.
		if err == nil || errors.Is(err, context.Canceled) {
			return shutdown()
		}
		return err
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) snapshot() (types.Snapshot, error) {
	evs, err := storage.NewFileSource(s.logPath).Events()
	if err != nil {
		return nil, err
	}
	return state.Compute(evs), nil
}

func (s *Server) handleIssues(c *gin.Context) {
	snapshot, err := s.snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	issues := make([]*types.Issue, 0, len(snapshot))
	for _, issue := range graph.Ready(snapshot) {
		issues = append(issues, issue)
	}
	for _, issue := range graph.Blocked(snapshot) {
		issues = append(issues, issue)
	}
	for _, issue := range snapshot {
		if issue.Status == types.StatusClosed {
			issues = append(issues, issue)
		}
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues, "count": len(issues)})
}

func (s *Server) handleIssue(c *gin.Context) {
	snapshot, issue, ok := s.resolveParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"issue":         issue,
		"level":         graph.Level(snapshot, issue.ID),
		"open_blockers": graph.OpenBlockers(issue, snapshot),
		"children":      graph.ChildrenOf(issue.ID, snapshot),
	})
}

func (s *Server) handleTree(c *gin.Context) {
	snapshot, issue, ok := s.resolveParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dependencies": graph.DependencyTree(issue.ID, snapshot),
		"hierarchy":    graph.HierarchyTree(issue.ID, snapshot),
	})
}

func (s *Server) handleNeighborhood(c *gin.Context) {
	snapshot, issue, ok := s.resolveParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": graph.Neighborhood(issue.ID, snapshot)})
}

func (s *Server) handleReady(c *gin.Context) {
	snapshot, err := s.snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": graph.Ready(snapshot)})
}

func (s *Server) handleBlocked(c *gin.Context) {
	snapshot, err := s.snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"issues": graph.Blocked(snapshot)})
}

func (s *Server) handleGraph(c *gin.Context) {
	snapshot, err := s.snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"adjacency": graph.Build(snapshot),
		"levels":    graph.Levels(snapshot),
	})
}

// resolveParam resolves the :id path parameter against a fresh snapshot.
func (s *Server) resolveParam(c *gin.Context) (types.Snapshot, *types.Issue, bool) {
	snapshot, err := s.snapshot()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	id, err := resolve.Resolve(c.Param("id"), snapshot)
	if err != nil {
		var ambiguous *types.AmbiguousError
		if errors.As(err, &ambiguous) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "candidates": ambiguous.Candidates})
			return nil, nil, false
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return snapshot, snapshot[id], true
}

// handleStream is the SSE endpoint: one "change" event per (debounced) log
// change, plus an initial "ready" event so clients can render immediately.
func (s *Server) handleStream(c *gin.Context) {
	id := uuid.New().String()
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.subscribers[id] = ch
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.SSEvent("ready", gin.H{"subscriber": id})
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-ch:
			c.SSEvent("change", gin.H{"at": time.Now().UTC().Format(time.RFC3339)})
			c.Writer.Flush()
		}
	}
}

func (s *Server) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
			// Subscriber already has a pending notification.
		}
	}
}
