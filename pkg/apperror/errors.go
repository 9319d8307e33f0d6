package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error with a stable code. The code is what tests
// and the status API match on; HTTPStatus only matters when the error crosses
// the status API boundary.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to clients)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Escrow Protocol (ESC) ----

func ErrInsufficientFee(required, balance string) *AppError {
	return New("ESC_001", fmt.Sprintf("Insufficient fee token balance: need %s, have %s", required, balance), http.StatusPaymentRequired)
}

func ErrInvalidAmount(allowed string) *AppError {
	return New("ESC_002", fmt.Sprintf("Amount is not an allowed denomination (allowed: %s)", allowed), http.StatusBadRequest)
}

func ErrInsufficientBalance(required, balance string) *AppError {
	return New("ESC_003", fmt.Sprintf("Insufficient native balance: need %s, have %s", required, balance), http.StatusPaymentRequired)
}

func ErrApprovalFailed(err error) *AppError {
	return Wrap("ESC_004", "Fee token approval transaction failed", http.StatusBadGateway, err)
}

func ErrDepositRejected(err error) *AppError {
	return Wrap("ESC_005", "Deposit transaction was rejected or timed out", http.StatusBadGateway, err)
}

func ErrWithdrawalRejected(err error) *AppError {
	return Wrap("ESC_006", "Withdrawal transaction was rejected or timed out", http.StatusBadGateway, err)
}

func ErrAlreadySpent(commitment string) *AppError {
	return New("ESC_007", fmt.Sprintf("Commitment %s has already been revealed", commitment), http.StatusConflict)
}

// ErrSecretNotPersisted is the critical asymmetric failure: the deposit is
// confirmed on-chain but the secret could not be written to the store. The
// secret exists only in memory at this point; callers must surface it to the
// operator before anything else.
func ErrSecretNotPersisted(err error) *AppError {
	return Wrap("ESC_010", "CRITICAL: deposit confirmed on-chain but secret was NOT persisted", http.StatusInternalServerError, err)
}

// ---- Vault & Store (VLT) ----

func ErrUnknownCommitment(commitment string) *AppError {
	return New("VLT_001", fmt.Sprintf("No record for commitment %s", commitment), http.StatusNotFound)
}

func ErrCorruptRecord(commitment string) *AppError {
	return New("VLT_002", fmt.Sprintf("Stored secret does not hash to commitment %s", commitment), http.StatusInternalServerError)
}

func ErrEmptyStore() *AppError {
	return New("VLT_003", "Deposit store has no entries", http.StatusNotFound)
}

func ErrStoreNotFound() *AppError {
	return New("VLT_004", "Deposit store has not been created yet", http.StatusNotFound)
}

func ErrStoreIO(err error) *AppError {
	return Wrap("VLT_005", "Deposit store read/write failure", http.StatusInternalServerError, err)
}

// ---- Ledger (LGR) ----

func ErrLedgerUnavailable(err error) *AppError {
	return Wrap("LGR_001", "Ledger query failed", http.StatusBadGateway, err)
}

// ---- Validation (VAL) ----

// Validation creates a request validation error with a custom message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ---- System (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal error", http.StatusInternalServerError, err)
}

// ErrEntropyFailure is fatal: a failed CSPRNG read means no secret can be
// generated safely and the process must not continue committing.
func ErrEntropyFailure(err error) *AppError {
	return Wrap("SYS_002", "Entropy source failure", http.StatusInternalServerError, err)
}
