// Package eth implements the ledger port against an Ethereum JSON-RPC
// endpoint. Transactions are signed locally with the operator key, carry
// EIP-1559 fee fields and a fixed gas ceiling, and block until mined or the
// confirmation window runs out. Nothing here retries: a dropped or reverted
// transaction surfaces as an error and resubmission is a fresh operator
// action.
package eth

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"hashlock-escrow/config"
	"hashlock-escrow/internal/core/domain"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
)

// Client implements ports.LedgerClient over ethclient.
type Client struct {
	eth       *ethclient.Client
	chainID   *big.Int
	key       *ecdsa.PrivateKey
	account   common.Address
	escrow    common.Address
	feeToken  common.Address
	escrowABI abi.ABI
	erc20ABI  abi.ABI

	gasLimit       uint64
	confirmTimeout time.Duration
	log            zerolog.Logger
}

// NewClient connects to the configured endpoint and verifies the node is on
// the configured chain before anything is signed against it.
func NewClient(ctx context.Context, cfg config.LedgerConfig, log zerolog.Logger) (*Client, error) {
	if !common.IsHexAddress(cfg.EscrowAddress) {
		return nil, fmt.Errorf("invalid escrow address: %q", cfg.EscrowAddress)
	}
	if !common.IsHexAddress(cfg.FeeTokenAddress) {
		return nil, fmt.Errorf("invalid fee token address: %q", cfg.FeeTokenAddress)
	}

	keyHex := cfg.PrivateKey
	if len(keyHex) >= 2 && keyHex[:2] == "0x" {
		keyHex = keyHex[2:]
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("parsing operator key: %w", err)
	}

	escrowABI, erc20ABI, err := parseABIs()
	if err != nil {
		return nil, err
	}

	var rpcClient *rpc.Client
	if cfg.JWTSecret != "" {
		rpcClient, err = rpc.DialOptions(ctx, cfg.RPCURL, rpc.WithHTTPAuth(newJWTAuth(cfg.JWTSecret)))
	} else {
		rpcClient, err = rpc.DialContext(ctx, cfg.RPCURL)
	}
	if err != nil {
		return nil, fmt.Errorf("dialing ledger rpc: %w", err)
	}
	eth := ethclient.NewClient(rpcClient)

	nodeChainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("querying chain id: %w", err)
	}
	if nodeChainID.Cmp(big.NewInt(cfg.ChainID)) != 0 {
		eth.Close()
		return nil, fmt.Errorf("chain id mismatch: node reports %s, configured %d", nodeChainID, cfg.ChainID)
	}

	client := &Client{
		eth:            eth,
		chainID:        nodeChainID,
		key:            key,
		account:        crypto.PubkeyToAddress(key.PublicKey),
		escrow:         common.HexToAddress(cfg.EscrowAddress),
		feeToken:       common.HexToAddress(cfg.FeeTokenAddress),
		escrowABI:      escrowABI,
		erc20ABI:       erc20ABI,
		gasLimit:       cfg.GasLimit,
		confirmTimeout: cfg.ConfirmTimeout,
		log:            log,
	}

	log.Info().
		Str("endpoint", cfg.RPCURL).
		Int64("chain_id", cfg.ChainID).
		Str("account", client.account.Hex()).
		Str("escrow", client.escrow.Hex()).
		Msg("ledger client connected")

	return client, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// Account returns the operator address the client signs with.
func (c *Client) Account() common.Address {
	return c.account
}

// EscrowAddress returns the escrow contract address.
func (c *Client) EscrowAddress() common.Address {
	return c.escrow
}

// FeeAmount reads the escrow's current per-deposit fee.
func (c *Client) FeeAmount(ctx context.Context) (*big.Int, error) {
	return c.callUint(ctx, c.escrow, c.escrowABI, "feeAmount")
}

// TokenBalance reads the operator's fee-token balance.
func (c *Client) TokenBalance(ctx context.Context) (*big.Int, error) {
	return c.callUint(ctx, c.feeToken, c.erc20ABI, "balanceOf", c.account)
}

// NativeBalance reads the operator's native-coin balance.
func (c *Client) NativeBalance(ctx context.Context) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, c.account, nil)
	if err != nil {
		return nil, fmt.Errorf("querying native balance: %w", err)
	}
	return balance, nil
}

// Allowance reads the fee-token allowance granted by the operator to the
// escrow contract.
func (c *Client) Allowance(ctx context.Context) (*big.Int, error) {
	return c.callUint(ctx, c.feeToken, c.erc20ABI, "allowance", c.account, c.escrow)
}

// Approve grants the escrow contract a fee-token allowance.
func (c *Client) Approve(ctx context.Context, amount *big.Int) (*domain.TxReceipt, error) {
	data, err := c.erc20ABI.Pack("approve", c.escrow, amount)
	if err != nil {
		return nil, fmt.Errorf("packing approve: %w", err)
	}
	return c.transact(ctx, "approve", c.feeToken, nil, data)
}

// Deposit locks amount native coins under commitment.
func (c *Client) Deposit(ctx context.Context, commitment common.Hash, amount *big.Int) (*domain.TxReceipt, error) {
	data, err := c.escrowABI.Pack("deposit", commitment)
	if err != nil {
		return nil, fmt.Errorf("packing deposit: %w", err)
	}
	return c.transact(ctx, "deposit", c.escrow, amount, data)
}

// Withdraw reveals secret on-chain, releasing the matching deposit to
// recipient. The secret itself is never logged; the commitment stands in
// for it in log fields.
func (c *Client) Withdraw(ctx context.Context, secret domain.Secret, recipient common.Address) (*domain.TxReceipt, error) {
	data, err := c.escrowABI.Pack("withdraw", secret, recipient)
	if err != nil {
		return nil, fmt.Errorf("packing withdraw: %w", err)
	}
	receipt, err := c.transact(ctx, "withdraw", c.escrow, nil, data)
	if err != nil {
		return nil, err
	}
	c.log.Info().
		Str("commitment", secret.Commitment().Hex()).
		Str("recipient", recipient.Hex()).
		Str("tx_hash", receipt.TxHash.Hex()).
		Msg("withdrawal confirmed")
	return receipt, nil
}

// callUint executes a read-only contract call returning a single uint256.
func (c *Client) callUint(ctx context.Context, to common.Address, contract abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s: %w", method, err)
	}

	res, err := c.eth.CallContract(ctx, ethereum.CallMsg{
		From: c.account,
		To:   &to,
		Data: data,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}

	out, err := contract.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("decoding %s result: %w", method, err)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decoding %s result: unexpected type %T", method, out[0])
	}
	return value, nil
}

// transact signs, submits and waits out one transaction. value may be nil
// for non-payable calls.
func (c *Client) transact(ctx context.Context, label string, to common.Address, value *big.Int, data []byte) (*domain.TxReceipt, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.account)
	if err != nil {
		return nil, fmt.Errorf("querying nonce: %w", err)
	}
	tipCap, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying gas tip: %w", err)
	}
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("querying head block: %w", err)
	}

	// Standard headroom of twice the current base fee on top of the tip.
	// Dev chains without a base fee fall back to the tip alone.
	feeCap := new(big.Int).Set(tipCap)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	tx, err := types.SignNewTx(c.key, types.LatestSignerForChainID(c.chainID), &types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       c.gasLimit,
		To:        &to,
		Value:     value,
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("signing %s: %w", label, err)
	}

	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("submitting %s: %w", label, err)
	}

	c.log.Debug().
		Str("label", label).
		Str("to", to.Hex()).
		Uint64("nonce", nonce).
		Str("tx_hash", tx.Hash().Hex()).
		Msg("transaction submitted")

	waitCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("%s %s not confirmed within %s: %w", label, tx.Hash().Hex(), c.confirmTimeout, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%s transaction reverted: %s", label, tx.Hash().Hex())
	}

	c.log.Info().
		Str("label", label).
		Str("tx_hash", receipt.TxHash.Hex()).
		Uint64("block", receipt.BlockNumber.Uint64()).
		Uint64("gas_used", receipt.GasUsed).
		Msg("transaction confirmed")

	return &domain.TxReceipt{
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}
