package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nixysoftware/authbridge/internal/adapter"
	"github.com/nixysoftware/authbridge/internal/provider"
)

var (
	errMissingDatabase = errors.New("database dependency required")
	errMissingAdapter  = errors.New("adapter dependency required")
)

// AuthContext bundles what the authentication middleware needs to
// handle one request: the persistence adapter and the full provider
// set, statically configured providers first, global ones appended.
type AuthContext struct {
	Adapter   *adapter.Adapter
	Providers []provider.Runtime
}

// Dispatch hands a routed auth request to the authentication
// middleware's internal router.
type Dispatch func(c *gin.Context, auth AuthContext)

// Dependencies wires the HTTP handler. Dispatch may be nil, in which
// case a minimal built-in dispatcher serves the provider listing.
type Dependencies struct {
	Database      *gorm.DB
	Adapter       *adapter.Adapter
	BaseProviders []provider.Runtime
	Dispatch      Dispatch
	Logger        *zap.Logger
}

// NewHTTPHandler builds the gin handler exposing the auth sub-paths.
// Both GET and POST map to the same handler; on every request the
// globally enabled providers are fetched and merged with the static
// base set before dispatching.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Database == nil {
		return nil, errMissingDatabase
	}
	if deps.Adapter == nil {
		return nil, errMissingAdapter
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatch := deps.Dispatch
	if dispatch == nil {
		dispatch = providerListingDispatch
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		db:            deps.Database,
		adapter:       deps.Adapter,
		baseProviders: deps.BaseProviders,
		dispatch:      dispatch,
		logger:        logger,
	}

	router.GET("/api/auth/*action", handler.handleAuth)
	router.POST("/api/auth/*action", handler.handleAuth)

	return router, nil
}

type httpHandler struct {
	db            *gorm.DB
	adapter       *adapter.Adapter
	baseProviders []provider.Runtime
	dispatch      Dispatch
	logger        *zap.Logger
}

func (h *httpHandler) handleAuth(c *gin.Context) {
	global, err := provider.GlobalProviders(c.Request.Context(), h.db)
	if err != nil {
		h.logger.Error("global provider resolution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "provider_resolution_failed"})
		return
	}

	providers := make([]provider.Runtime, 0, len(h.baseProviders)+len(global))
	providers = append(providers, h.baseProviders...)
	providers = append(providers, global...)

	h.dispatch(c, AuthContext{Adapter: h.adapter, Providers: providers})
}

// providerListingDispatch is the built-in fallback used when no
// middleware router is injected. It only serves the provider listing,
// enough for operational smoke checks.
func providerListingDispatch(c *gin.Context, auth AuthContext) {
	if c.Request.Method == http.MethodGet && c.Param("action") == "/providers" {
		listing := make(map[string]gin.H, len(auth.Providers))
		for _, runtime := range auth.Providers {
			listing[runtime.ID] = gin.H{
				"id":   runtime.ID,
				"name": runtime.Name,
				"type": string(runtime.Kind),
			}
		}
		c.JSON(http.StatusOK, listing)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
}
