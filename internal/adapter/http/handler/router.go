package handler

import (
	"hashlock-escrow/internal/adapter/http/middleware"
	"hashlock-escrow/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	VaultSvc       ports.VaultService
	ProtocolSvc    ports.ProtocolService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check (deep — verifies store + ledger)
	r.GET("/healthz", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// API v1 routes — read-only operator views
	statusHandler := NewStatusHandler(deps.VaultSvc, deps.ProtocolSvc)
	v1 := r.Group("/api/v1")
	{
		v1.GET("/deposits", statusHandler.ListDeposits)
		v1.GET("/deposits/:commitment", statusHandler.GetDeposit)
		v1.GET("/balances", statusHandler.GetBalances)
	}

	return r
}
