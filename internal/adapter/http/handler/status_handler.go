package handler

import (
	"net/http"
	"regexp"
	"time"

	"hashlock-escrow/internal/adapter/http/dto"
	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"
	"hashlock-escrow/pkg/apperror"
	"hashlock-escrow/pkg/response"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

var commitmentRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// StatusHandler serves the read-only operator views over the vault and the
// ledger. All mutation goes through the console; nothing here writes.
type StatusHandler struct {
	vaultSvc    ports.VaultService
	protocolSvc ports.ProtocolService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(vaultSvc ports.VaultService, protocolSvc ports.ProtocolService) *StatusHandler {
	return &StatusHandler{vaultSvc: vaultSvc, protocolSvc: protocolSvc}
}

// ListDeposits handles GET /api/v1/deposits.
func (h *StatusHandler) ListDeposits(c *gin.Context) {
	summaries, err := h.vaultSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.DepositResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, toSummaryResponse(summary))
	}

	response.OK(c, dto.DepositListResponse{Items: items, Total: len(items)})
}

// GetDeposit handles GET /api/v1/deposits/:commitment.
func (h *StatusHandler) GetDeposit(c *gin.Context) {
	raw := c.Param("commitment")
	if !commitmentRe.MatchString(raw) {
		response.Error(c, apperror.Validation("commitment must be a 0x-prefixed 32-byte hex hash"))
		return
	}

	record, err := h.vaultSvc.Lookup(c.Request.Context(), common.HexToHash(raw))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toDepositResponse(record))
}

// GetBalances handles GET /api/v1/balances.
func (h *StatusHandler) GetBalances(c *gin.Context) {
	balances, err := h.protocolSvc.Balances(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalancesResponse{
		Account:      balances.Account.Hex(),
		Native:       balances.Native.String(),
		TokenBalance: balances.Token.String(),
		Allowance:    balances.Allowance.String(),
		FeeAmount:    balances.FeeAmount.String(),
	})
}

func toSummaryResponse(summary domain.DepositSummary) dto.DepositResponse {
	return dto.DepositResponse{
		Commitment: summary.Commitment.Hex(),
		Amount:     summary.Amount.String(),
		Status:     string(summary.Status),
		CreatedAt:  summary.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toDepositResponse(record *domain.DepositRecord) dto.DepositResponse {
	resp := dto.DepositResponse{
		Commitment: record.Commitment.Hex(),
		Amount:     record.Amount.String(),
		Status:     string(record.Status()),
		CreatedAt:  record.CreatedAt.UTC().Format(time.RFC3339),
	}
	if record.Spent {
		tx := record.SpentTx.Hex()
		resp.SpentTx = &tx
		if record.SpentAt != nil {
			at := record.SpentAt.UTC().Format(time.RFC3339)
			resp.SpentAt = &at
		}
	}
	return resp
}

// HealthCheck handles GET /healthz — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}
