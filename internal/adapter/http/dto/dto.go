package dto

// DepositResponse is one vault record as exposed by the status API. Secrets
// never appear here.
type DepositResponse struct {
	Commitment string  `json:"commitment"`
	Amount     string  `json:"amount"`
	Status     string  `json:"status"`
	CreatedAt  string  `json:"created_at"`
	SpentTx    *string `json:"spent_tx,omitempty"`
	SpentAt    *string `json:"spent_at,omitempty"`
}

// DepositListResponse wraps the vault listing.
type DepositListResponse struct {
	Items []DepositResponse `json:"items"`
	Total int               `json:"total"`
}

// BalancesResponse is the operator account snapshot.
type BalancesResponse struct {
	Account      string `json:"account"`
	Native       string `json:"native_balance"`
	TokenBalance string `json:"token_balance"`
	Allowance    string `json:"allowance"`
	FeeAmount    string `json:"fee_amount"`
}
