package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"os"
	"regexp"
	"strings"
	"time"

	"hashlock-escrow/config"
	ethLedger "hashlock-escrow/internal/adapter/ledger/eth"
	fileStorage "hashlock-escrow/internal/adapter/storage/file"
	pgStorage "hashlock-escrow/internal/adapter/storage/postgres"
	redisStorage "hashlock-escrow/internal/adapter/storage/redis"
	"hashlock-escrow/internal/core/domain"
	"hashlock-escrow/internal/core/ports"
	"hashlock-escrow/internal/service"
	"hashlock-escrow/pkg/apperror"
	"hashlock-escrow/pkg/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// Build metadata, injected via -ldflags.
var (
	version   = "N/A"
	buildDate = "N/A"
)

var (
	flagset    = flag.NewFlagSet("", flag.ExitOnError)
	configFlag = flagset.String("config", "", "path to config file (default: ./config.yaml)")
)

var commitmentRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

func init() {
	flagset.Usage = func() {
		fmt.Println("Usage: escrowctl [flags] cmd [cmd args]")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  deposit <amount>                   commit a new deposit under a fresh secret")
		fmt.Println("  withdraw <commitment> [recipient]  reveal the secret and release a deposit")
		fmt.Println("  list                               show stored deposits (never secrets)")
		fmt.Println("  balances                           show operator balances, allowance and fee")
		fmt.Println("  validate                           re-hash every stored secret against its key")
		fmt.Println("  serve                              run the read-only status API")
		fmt.Println("  console                            interactive menu over the commands above")
		fmt.Println("  version                            print build information")
		fmt.Println()
		fmt.Println("Flags:")
		flagset.PrintDefaults()
	}
}

func main() {
	err, showUsage := run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if showUsage {
		flagset.Usage()
	}
	if err != nil || showUsage {
		os.Exit(1)
	}
}

func run() (err error, showUsage bool) {
	flagset.Parse(os.Args[1:])
	args := flagset.Args()
	if len(args) == 0 {
		return nil, true
	}
	cmd, cmdArgs := args[0], args[1:]

	switch cmd {
	case "version":
		fmt.Printf("escrowctl %s (build date: %s)\n", version, buildDate)
		return nil, false
	case "deposit", "withdraw":
		if len(cmdArgs) < 1 {
			return fmt.Errorf("%s: too few arguments", cmd), true
		}
	case "list", "balances", "validate", "serve", "console":
	default:
		return fmt.Errorf("unknown command %q", cmd), true
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err), false
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	// list and validate only touch the store; everything else needs the chain.
	withLedger := cmd == "deposit" || cmd == "withdraw" || cmd == "balances" ||
		cmd == "serve" || cmd == "console"

	ctx := context.Background()
	app, err := newApp(ctx, cfg, log, withLedger)
	if err != nil {
		return err, false
	}
	defer app.close()

	switch cmd {
	case "deposit":
		return cmdDeposit(ctx, app, cmdArgs[0]), false
	case "withdraw":
		recipient := cfg.Escrow.Recipient
		if len(cmdArgs) > 1 {
			recipient = cmdArgs[1]
		}
		return cmdWithdraw(ctx, app, cmdArgs[0], recipient), false
	case "list":
		return cmdList(ctx, app), false
	case "balances":
		return cmdBalances(ctx, app), false
	case "validate":
		return cmdValidate(ctx, app), false
	case "serve":
		return runServe(app), false
	case "console":
		return runConsole(ctx, app), false
	}
	return nil, false
}

// app bundles the dependencies wired for one invocation. The protocol service
// and the ledger health checker exist only when the ledger was dialed.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	denoms   domain.Denominations
	vault    ports.VaultService
	protocol ports.ProtocolService
	health   []ports.HealthChecker
	closers  []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, withLedger bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	// Deposit store backend. The file store is the default; postgres and
	// redis additionally persist audit events.
	var store ports.DepositStore
	var auditStore ports.AuditStore
	switch cfg.Store.Backend {
	case config.BackendFile:
		fs, err := fileStorage.NewDepositStore(cfg.Store.Path, log)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		store = fs
		a.health = append(a.health, fileStorage.NewHealthCheck(cfg.Store.Path))
	case config.BackendPostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		store = pgStorage.NewDepositStore(pool)
		auditStore = pgStorage.NewAuditStore(pool)
		a.health = append(a.health, pgStorage.NewHealthCheck(pool))
	case config.BackendRedis:
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		store = redisStorage.NewDepositStore(rdb)
		auditStore = redisStorage.NewAuditStore(rdb)
		a.health = append(a.health, redisStorage.NewHealthCheck(rdb))
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	a.vault = service.NewVaultService(store, log)

	a.denoms = domain.DefaultDenominations()
	if len(cfg.Escrow.Denominations) > 0 {
		denoms, ok := domain.ParseDenominations(cfg.Escrow.Denominations)
		if !ok {
			return nil, fmt.Errorf("invalid escrow.denominations %v: want positive decimal integers", cfg.Escrow.Denominations)
		}
		a.denoms = denoms
	}

	if withLedger {
		client, err := ethLedger.NewClient(ctx, cfg.Ledger, log)
		if err != nil {
			return nil, fmt.Errorf("connect ledger: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		a.health = append(a.health, ethLedger.NewHealthCheck(client))

		auditSvc := service.NewAuditService(auditStore, log)
		a.protocol = service.NewProtocolService(a.vault, client, auditSvc, a.denoms, log)
	}

	return a, nil
}

func cmdDeposit(ctx context.Context, a *app, amountArg string) error {
	amount, ok := new(big.Int).SetString(amountArg, 10)
	if !ok || amount.Sign() <= 0 {
		return fmt.Errorf("invalid amount %q: want a positive integer in minor units", amountArg)
	}

	result, err := a.protocol.Commit(ctx, ports.CommitRequest{Amount: amount})
	if err != nil {
		// A confirmed deposit whose record failed to persist still comes
		// back with a result. Show the secret before reporting failure;
		// this output is the last remaining copy.
		var appErr *apperror.AppError
		if result != nil && errors.As(err, &appErr) && appErr.Code == "ESC_010" {
			printRecoveryBanner(result)
		}
		return err
	}

	fmt.Println("Deposit confirmed.")
	fmt.Println()
	if result.ApproveTx != nil {
		fmt.Printf("Approve tx:  %s\n", result.ApproveTx.Hex())
	}
	fmt.Printf("Deposit tx:  %s\n", result.DepositTx.Hex())
	fmt.Printf("Amount:      %s\n", result.Amount)
	fmt.Printf("Fee paid:    %s\n", result.FeePaid)
	fmt.Printf("Commitment:  %s\n", result.Commitment.Hex())
	fmt.Printf("Secret:      %s\n", result.SecretHex)
	fmt.Println()
	fmt.Println("The secret above is shown this one time only. It is saved in the")
	fmt.Println("deposit store, but write it down as a backup against store loss.")
	return nil
}

// printRecoveryBanner is the only output path for a secret whose record was
// never written. Losing this output means losing the deposited funds.
func printRecoveryBanner(result *ports.CommitResult) {
	line := strings.Repeat("!", 72)
	fmt.Println()
	fmt.Println(line)
	fmt.Println("!! CRITICAL: the deposit confirmed on-chain but the secret was NOT")
	fmt.Println("!! saved to the store. The lines below are the ONLY remaining copy.")
	fmt.Println("!! Record them now; without the secret this deposit cannot be")
	fmt.Println("!! withdrawn.")
	fmt.Println(line)
	fmt.Printf("Deposit tx:  %s\n", result.DepositTx.Hex())
	fmt.Printf("Commitment:  %s\n", result.Commitment.Hex())
	fmt.Printf("Secret:      %s\n", result.SecretHex)
	fmt.Println(line)
	fmt.Println()
}

func cmdWithdraw(ctx context.Context, a *app, commitmentArg, recipientArg string) error {
	if !commitmentRe.MatchString(commitmentArg) {
		return fmt.Errorf("invalid commitment %q: want 0x followed by 64 hex chars", commitmentArg)
	}
	if recipientArg == "" {
		return errors.New("no recipient: pass one or set escrow.recipient in config")
	}
	if !common.IsHexAddress(recipientArg) {
		return fmt.Errorf("invalid recipient address %q", recipientArg)
	}

	result, err := a.protocol.Reveal(ctx, ports.RevealRequest{
		Commitment: common.HexToHash(commitmentArg),
		Recipient:  common.HexToAddress(recipientArg),
	})
	if err != nil {
		return err
	}

	fmt.Println("Withdrawal confirmed.")
	fmt.Println()
	fmt.Printf("Withdraw tx: %s\n", result.WithdrawTx.Hex())
	fmt.Printf("Commitment:  %s\n", result.Commitment.Hex())
	fmt.Printf("Amount:      %s\n", result.Amount)
	fmt.Printf("Recipient:   %s\n", result.Recipient.Hex())
	return nil
}

func cmdList(ctx context.Context, a *app) error {
	summaries, err := a.vault.List(ctx)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && (appErr.Code == "VLT_003" || appErr.Code == "VLT_004") {
			fmt.Println("No deposits recorded.")
			return nil
		}
		return err
	}

	fmt.Printf("%-66s  %-10s  %-9s  %s\n", "COMMITMENT", "AMOUNT", "STATUS", "CREATED")
	for _, s := range summaries {
		fmt.Printf("%-66s  %-10s  %-9s  %s\n",
			s.Commitment.Hex(), s.Amount, s.Status, s.CreatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Printf("\n%d deposit(s)\n", len(summaries))
	return nil
}

func cmdBalances(ctx context.Context, a *app) error {
	balances, err := a.protocol.Balances(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Account:     %s\n", balances.Account.Hex())
	fmt.Printf("Native:      %s\n", balances.Native)
	fmt.Printf("Fee token:   %s\n", balances.Token)
	fmt.Printf("Allowance:   %s\n", balances.Allowance)
	fmt.Printf("Fee amount:  %s\n", balances.FeeAmount)
	return nil
}

func cmdValidate(ctx context.Context, a *app) error {
	report, err := a.vault.Validate(ctx)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "VLT_004" {
			fmt.Println("No deposits recorded.")
			return nil
		}
		return err
	}

	fmt.Printf("Checked %d record(s): %d intact, %d corrupt.\n",
		report.Total, report.Intact, len(report.Corrupt))
	for _, c := range report.Corrupt {
		fmt.Printf("  corrupt: %s\n", c.Hex())
	}
	if len(report.Corrupt) > 0 {
		return fmt.Errorf("%d record(s) failed the integrity check", len(report.Corrupt))
	}
	return nil
}
