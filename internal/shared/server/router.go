package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lease-backend/internal/analyses"
	"lease-backend/internal/documents"
	"lease-backend/internal/export"
	"lease-backend/internal/qa"
	"lease-backend/internal/shared/config"
	"lease-backend/internal/shared/server/middleware"
	"lease-backend/internal/shared/server/respond"
	"lease-backend/internal/valuation"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config           config.Config
	DocumentHandler  *documents.Handler
	AnalysisHandler  *analyses.Handler
	QAHandler        *qa.Handler
	ValuationHandler *valuation.Handler
	ExportHandler    *export.Handler
}

// Oracle-backed routes share one rate-limit group; everything else gets the
// default bucket.
var oracleRoutes = map[string]bool{
	"/api/v1/analyses":   true,
	"/api/v1/qa":         true,
	"/api/v1/valuations": true,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 20, Burst: 40},
				"ORACLE":  {Rate: 0.5, Burst: 5},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && oracleRoutes[c.FullPath()] {
					return "ORACLE"
				}
				if strings.HasSuffix(c.FullPath(), "/summary.pdf") {
					return "ORACLE"
				}
				return ""
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.DocumentHandler.RegisterRoutes(api)
	deps.AnalysisHandler.RegisterRoutes(api)
	deps.QAHandler.RegisterRoutes(api)
	deps.ValuationHandler.RegisterRoutes(api)
	deps.ExportHandler.RegisterRoutes(api)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
