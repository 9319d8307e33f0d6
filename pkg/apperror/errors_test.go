package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			appErr:   New("ESC_002", "Amount not allowed", http.StatusBadRequest),
			expected: "[ESC_002] Amount not allowed",
		},
		{
			name:     "with wrapped error",
			appErr:   Wrap("VLT_005", "Store write failed", http.StatusInternalServerError, fmt.Errorf("disk full")),
			expected: "[VLT_005] Store write failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("inner error")
	appErr := Wrap("SYS_001", "wrapped", http.StatusInternalServerError, inner)

	assert.True(t, errors.Is(appErr, inner))
}

func TestAppError_IsNilUnwrap(t *testing.T) {
	appErr := New("ESC_002", "test", http.StatusBadRequest)
	assert.Nil(t, appErr.Unwrap())
}

func TestProtocolErrors(t *testing.T) {
	inner := fmt.Errorf("execution reverted")
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"InsufficientFee", ErrInsufficientFee("5", "1"), "ESC_001", 402},
		{"InvalidAmount", ErrInvalidAmount("100, 1000"), "ESC_002", 400},
		{"InsufficientBalance", ErrInsufficientBalance("1000", "500"), "ESC_003", 402},
		{"ApprovalFailed", ErrApprovalFailed(inner), "ESC_004", 502},
		{"DepositRejected", ErrDepositRejected(inner), "ESC_005", 502},
		{"WithdrawalRejected", ErrWithdrawalRejected(inner), "ESC_006", 502},
		{"AlreadySpent", ErrAlreadySpent("0xaa"), "ESC_007", 409},
		{"SecretNotPersisted", ErrSecretNotPersisted(inner), "ESC_010", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestVaultErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       string
		httpStatus int
	}{
		{"UnknownCommitment", ErrUnknownCommitment("0xaa"), "VLT_001", 404},
		{"CorruptRecord", ErrCorruptRecord("0xaa"), "VLT_002", 500},
		{"EmptyStore", ErrEmptyStore(), "VLT_003", 404},
		{"StoreNotFound", ErrStoreNotFound(), "VLT_004", 404},
		{"StoreIO", ErrStoreIO(fmt.Errorf("permission denied")), "VLT_005", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
		})
	}
}

func TestInsufficientFeeMessage(t *testing.T) {
	err := ErrInsufficientFee("5", "1")
	assert.Contains(t, err.Message, "need 5")
	assert.Contains(t, err.Message, "have 1")
}

func TestInvalidAmountNamesAllowedSet(t *testing.T) {
	err := ErrInvalidAmount("100, 1000, 10000, 100000")
	assert.Contains(t, err.Message, "100, 1000, 10000, 100000")
}

func TestSystemErrors(t *testing.T) {
	inner := fmt.Errorf("read /dev/urandom: bad file descriptor")

	entErr := ErrEntropyFailure(inner)
	assert.Equal(t, "SYS_002", entErr.Code)
	assert.True(t, errors.Is(entErr, inner))

	intErr := InternalError(inner)
	assert.Equal(t, "SYS_001", intErr.Code)
	assert.Equal(t, 500, intErr.HTTPStatus)

	lgrErr := ErrLedgerUnavailable(inner)
	assert.Equal(t, "LGR_001", lgrErr.Code)
	assert.Equal(t, 502, lgrErr.HTTPStatus)
}

func TestSecretNotPersistedIsLoud(t *testing.T) {
	err := ErrSecretNotPersisted(fmt.Errorf("write: no space left on device"))
	assert.Contains(t, err.Message, "CRITICAL")
	assert.Contains(t, err.Message, "NOT persisted")
}

func TestValidation(t *testing.T) {
	err := Validation("commitment must be a 32-byte hex hash")
	assert.Equal(t, "VAL_001", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Contains(t, err.Message, "32-byte hex hash")
}
