package integration

import (
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpHandler "hashlock-escrow/internal/adapter/http/handler"
	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"
	"hashlock-escrow/internal/service"
	"hashlock-escrow/pkg/apperror"
	"hashlock-escrow/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires the real services (vault, protocol, audit) over the in-memory
// store and the scripted ledger, plus the real HTTP layer via httptest. Write
// operations are driven through the protocol service the way the console
// drives them; the HTTP layer is read-only.

type testApp struct {
	server *httptest.Server
	store  *inMemoryDepositStore
	audit  *inMemoryAuditStore
	ledger *fakeLedger

	vaultSvc    ports.VaultService
	protocolSvc ports.ProtocolService
}

type staticHealth struct {
	name string
	err  error
}

func (h staticHealth) Ping(ctx context.Context) error { return h.err }
func (h staticHealth) Name() string                   { return h.name }

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := newInMemoryDepositStore()
	auditStore := newInMemoryAuditStore()
	ledger := newFakeLedger()

	log := logger.New("debug", false)

	vaultSvc := service.NewVaultService(store, log)
	auditSvc := service.NewAuditService(auditStore, log)
	protocolSvc := service.NewProtocolService(vaultSvc, ledger, auditSvc, domain.DefaultDenominations(), log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		VaultSvc:       vaultSvc,
		ProtocolSvc:    protocolSvc,
		HealthCheckers: []ports.HealthChecker{staticHealth{name: "store"}, staticHealth{name: "ledger"}},
		Logger:         log,
	})

	server := httptest.NewServer(router)

	return &testApp{
		server:      server,
		store:       store,
		audit:       auditStore,
		ledger:      ledger,
		vaultSvc:    vaultSvc,
		protocolSvc: protocolSvc,
	}
}

func (a *testApp) close() {
	a.server.Close()
}

func (a *testApp) commit(t *testing.T, amount int64) *ports.CommitResult {
	t.Helper()
	result, err := a.protocolSvc.Commit(context.Background(), ports.CommitRequest{Amount: big.NewInt(amount)})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// --- Integration Tests ---

func TestIntegration_HealthCheck(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	deps := body["dependencies"].(map[string]interface{})
	assert.Len(t, deps, 2)
}

func TestIntegration_DepositStoresExactlyOneRecord(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	result := app.commit(t, 1000)

	// Exactly one ledger deposit, carrying the returned commitment and amount.
	require.Equal(t, 1, app.ledger.depositCount())
	dep := app.ledger.lastDeposit()
	assert.Equal(t, result.Commitment, dep.commitment)
	assert.Equal(t, int64(1000), dep.amount.Int64())

	// Exactly one stored record, keyed by that commitment, holding a secret
	// that hashes back to it.
	require.Equal(t, 1, app.store.count())
	record, err := app.store.Get(context.Background(), result.Commitment)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Verify())
	assert.Equal(t, result.SecretHex, record.Secret.Hex())
	assert.Equal(t, int64(1000), record.Amount.Int64())
	assert.False(t, record.Spent)
}

func TestIntegration_DepositRejectedAmountLeavesStoreUntouched(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	result, err := app.protocolSvc.Commit(context.Background(), ports.CommitRequest{Amount: big.NewInt(1500)})
	assert.Nil(t, result)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_002", appErr.Code)

	// The ledger never saw a deposit and the store holds nothing.
	assert.Equal(t, 0, app.ledger.depositCount())
	assert.Equal(t, 0, app.store.count())
}

func TestIntegration_PersistLookupRoundTrip(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	result := app.commit(t, 100000)

	record, err := app.vaultSvc.Lookup(context.Background(), result.Commitment)
	require.NoError(t, err)
	assert.Equal(t, result.SecretHex, record.Secret.Hex())
	assert.Equal(t, "100000", record.Amount.String())
	assert.Equal(t, domain.DepositStatusCommitted, record.Status())
	assert.False(t, record.CreatedAt.IsZero())
}

func TestIntegration_RevealReleasesDeposit(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	first := app.commit(t, 1000)
	second := app.commit(t, 100)
	recipient := common.HexToAddress("0x3333333333333333333333333333333333333333")

	result, err := app.protocolSvc.Reveal(context.Background(), ports.RevealRequest{
		Commitment: first.Commitment,
		Recipient:  recipient,
	})
	require.NoError(t, err)
	assert.Equal(t, first.Commitment, result.Commitment)
	assert.Equal(t, int64(1000), result.Amount.Int64())

	// The withdrawal carried the preimage of the commitment, to the chosen
	// recipient.
	require.Equal(t, 1, app.ledger.withdrawalCount())
	w := app.ledger.lastWithdrawal()
	assert.True(t, domain.VerifyCommitment(first.Commitment, w.secret))
	assert.Equal(t, recipient, w.recipient)

	// The revealed record is marked spent and kept; the other record is not
	// touched.
	revealed, err := app.store.Get(context.Background(), first.Commitment)
	require.NoError(t, err)
	assert.True(t, revealed.Spent)
	assert.Equal(t, result.WithdrawTx, revealed.SpentTx)
	require.NotNil(t, revealed.SpentAt)

	other, err := app.store.Get(context.Background(), second.Commitment)
	require.NoError(t, err)
	assert.False(t, other.Spent)
	assert.Equal(t, int64(100), other.Amount.Int64())
	assert.Equal(t, 2, app.store.count())
}

func TestIntegration_SecondRevealBlocked(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	result := app.commit(t, 1000)
	recipient := common.HexToAddress("0x3333333333333333333333333333333333333333")

	_, err := app.protocolSvc.Reveal(context.Background(), ports.RevealRequest{
		Commitment: result.Commitment,
		Recipient:  recipient,
	})
	require.NoError(t, err)

	_, err = app.protocolSvc.Reveal(context.Background(), ports.RevealRequest{
		Commitment: result.Commitment,
		Recipient:  recipient,
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_007", appErr.Code)

	// The second attempt never reached the ledger.
	assert.Equal(t, 1, app.ledger.withdrawalCount())
}

func TestIntegration_RevealUnknownCommitment(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.commit(t, 1000)

	_, err := app.protocolSvc.Reveal(context.Background(), ports.RevealRequest{
		Commitment: common.HexToHash("0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"),
		Recipient:  common.HexToAddress("0x3333333333333333333333333333333333333333"),
	})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VLT_001", appErr.Code)
	assert.Equal(t, 0, app.ledger.withdrawalCount())
}

func TestIntegration_StatusAPI_ListNeverExposesSecrets(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	first := app.commit(t, 100)
	second := app.commit(t, 10000)

	resp, err := http.Get(app.server.URL + "/api/v1/deposits")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	body := string(raw)

	// Commitments are public, secrets never leave the store.
	assert.Contains(t, body, strings.ToLower(first.Commitment.Hex()))
	assert.Contains(t, body, strings.ToLower(second.Commitment.Hex()))
	assert.NotContains(t, body, first.SecretHex[2:])
	assert.NotContains(t, body, second.SecretHex[2:])

	var envelope struct {
		Data struct {
			Items []struct {
				Commitment string `json:"commitment"`
				Amount     string `json:"amount"`
				Status     string `json:"status"`
				CreatedAt  string `json:"created_at"`
			} `json:"items"`
			Total int `json:"total"`
		} `json:"data"`
		RequestID string `json:"request_id"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.Equal(t, 2, envelope.Data.Total)
	assert.NotEmpty(t, envelope.RequestID)

	// Oldest first, timestamps never decrease.
	prev := ""
	for _, item := range envelope.Data.Items {
		assert.Equal(t, "COMMITTED", item.Status)
		if prev != "" {
			assert.LessOrEqual(t, prev, item.CreatedAt)
		}
		prev = item.CreatedAt
	}
}

func TestIntegration_StatusAPI_ListEmptyStore(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/api/v1/deposits")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VLT_003", body["error_code"])
}

func TestIntegration_StatusAPI_GetDeposit(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	result := app.commit(t, 1000)

	resp, err := http.Get(app.server.URL + "/api/v1/deposits/" + result.Commitment.Hex())
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			Commitment string `json:"commitment"`
			Amount     string `json:"amount"`
			Status     string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, result.Commitment.Hex(), envelope.Data.Commitment)
	assert.Equal(t, "1000", envelope.Data.Amount)
	assert.Equal(t, "COMMITTED", envelope.Data.Status)
}

func TestIntegration_StatusAPI_GetDepositUnknown(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	app.commit(t, 1000)

	resp, err := http.Get(app.server.URL + "/api/v1/deposits/0xdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VLT_001", body["error_code"])
}

func TestIntegration_StatusAPI_GetDepositMalformed(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/api/v1/deposits/not-a-hash")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VAL_001", body["error_code"])
}

func TestIntegration_StatusAPI_Balances(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	resp, err := http.Get(app.server.URL + "/api/v1/balances")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Data struct {
			Account      string `json:"account"`
			Native       string `json:"native_balance"`
			TokenBalance string `json:"token_balance"`
			Allowance    string `json:"allowance"`
			FeeAmount    string `json:"fee_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, app.ledger.Account().Hex(), envelope.Data.Account)
	assert.Equal(t, "10000000", envelope.Data.Native)
	assert.Equal(t, "1000000", envelope.Data.TokenBalance)
	assert.Equal(t, "0", envelope.Data.Allowance)
	assert.Equal(t, "5", envelope.Data.FeeAmount)
}

func TestIntegration_AuditTrailRecorded(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	result := app.commit(t, 1000)
	_, err := app.protocolSvc.Reveal(context.Background(), ports.RevealRequest{
		Commitment: result.Commitment,
		Recipient:  common.HexToAddress("0x3333333333333333333333333333333333333333"),
	})
	require.NoError(t, err)

	// Audit events are fire-and-forget; approve + deposit + withdraw land
	// once their goroutines run.
	require.Eventually(t, func() bool {
		return app.audit.count() == 3
	}, 2*time.Second, 10*time.Millisecond)
}
