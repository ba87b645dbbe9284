// Package server exposes the HTTP surface of SmoothOperator: the passcode
// authentication gate, session/thread management and the SSE chat endpoint
// that streams orchestrator events to the browser.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hupe1980/smoothoperator/config"
	"github.com/hupe1980/smoothoperator/core"
	"github.com/hupe1980/smoothoperator/logging"
	"github.com/hupe1980/smoothoperator/session"
)

const sessionCookie = "session_id"

// ctxSessionKey is the gin context key the session middleware stores the
// resolved session under.
const ctxSessionKey = "smoothoperator/session"

// TurnRunner abstracts the orchestrator for the chat endpoint so tests can
// substitute scripted turns.
type TurnRunner interface {
	RunTurn(ctx context.Context, sessionID, userMessage string) (<-chan core.Event, error)
}

// Options configure the server.
type Options struct {
	Logger logging.Logger
}

// Server wires the gin router to the session store and turn runner.
type Server struct {
	cfg      *config.Config
	sessions *session.Store
	runner   TurnRunner
	logger   logging.Logger
	router   *gin.Engine
}

// New constructs the server and registers all routes.
func New(cfg *config.Config, sessions *session.Store, runner TurnRunner, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		runner:   runner,
		logger:   opts.Logger,
		router:   router,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Use(s.corsMiddleware())

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": s.cfg.AppName, "status": "healthy"})
	})
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "api"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/login", s.handleLogin)
		api.POST("/set-key", s.requireSession(), s.handleSetKey)
		api.POST("/logout", s.handleLogout)
		api.GET("/session-status", s.requireSession(), s.handleSessionStatus)

		api.POST("/chatkit", s.requireAuthenticated(), s.handleChat)
		api.GET("/chatkit/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "endpoint": "chatkit"})
		})

		threads := api.Group("/threads", s.requireAuthenticated())
		threads.POST("/new", s.handleCreateThread)
		threads.GET("/:id", s.handleGetThread)
	}
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    net.JoinHostPort(s.cfg.Host, s.cfg.Port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// corsMiddleware reflects allowed origins with credentials support, since
// the session cookie may cross domains between API and web deployments.
func (s *Server) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]bool, len(s.cfg.AllowedOrigins))
	for _, origin := range s.cfg.AllowedOrigins {
		allowed[origin] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-ID, Cache-Control")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// sessionID extracts the session id from the cookie, falling back to the
// X-Session-ID header for cross-domain requests where cookies are blocked.
func sessionID(c *gin.Context) string {
	if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
		return id
	}
	return c.GetHeader("X-Session-ID")
}

// resolveSession looks up the request's session and stores it on the
// context. On failure it aborts with 401 and reports false. It never calls
// c.Next(); chain advancement is left to the middleware wrappers so auth
// checks always run before the protected handler.
func (s *Server) resolveSession(c *gin.Context) (*session.Session, bool) {
	id := sessionID(c)
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no session cookie found"})
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
		return nil, false
	}
	c.Set(ctxSessionKey, sess)
	return sess, true
}

// requireSession resolves a valid session or aborts with 401.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := s.resolveSession(c); !ok {
			return
		}
		c.Next()
	}
}

// requireAuthenticated additionally demands passcode verification plus an
// attached provider API key.
func (s *Server) requireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.resolveSession(c)
		if !ok {
			return
		}
		if !sess.Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "session not fully authenticated, please provide API key",
			})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}
