package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// runConsole drives the protocol interactively: one numbered menu, one
// blocking operation at a time. Ledger calls are the only waits, and the
// next menu is not offered until the current operation has settled.
func runConsole(ctx context.Context, a *app) error {
	fmt.Printf("escrowctl console (store: %s, denominations: %s)\n",
		a.cfg.Store.Backend, a.denoms)
	printMenu()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("escrow> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		choice := strings.TrimSpace(scanner.Text())
		if choice == "" {
			continue
		}

		var err error
		switch choice {
		case "1", "deposit":
			err = consoleDeposit(ctx, a, scanner)
		case "2", "withdraw":
			err = consoleWithdraw(ctx, a, scanner)
		case "3", "list":
			err = cmdList(ctx, a)
		case "4", "balances":
			err = cmdBalances(ctx, a)
		case "5", "validate":
			err = cmdValidate(ctx, a)
		case "help", "menu", "?":
			printMenu()
		case "0", "exit", "quit":
			fmt.Println("Bye.")
			return nil
		default:
			fmt.Printf("Unknown choice %q. Type \"help\" for the menu.\n", choice)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

func printMenu() {
	fmt.Println()
	fmt.Println("  1) deposit    commit a new deposit under a fresh secret")
	fmt.Println("  2) withdraw   reveal a secret and release a deposit")
	fmt.Println("  3) list       show stored deposits")
	fmt.Println("  4) balances   show operator balances, allowance and fee")
	fmt.Println("  5) validate   check store integrity")
	fmt.Println("  0) exit")
	fmt.Println()
}

func consoleDeposit(ctx context.Context, a *app, scanner *bufio.Scanner) error {
	amount, ok := prompt(scanner, fmt.Sprintf("amount (%s): ", a.denoms))
	if !ok || amount == "" {
		fmt.Println("Cancelled.")
		return nil
	}
	return cmdDeposit(ctx, a, amount)
}

func consoleWithdraw(ctx context.Context, a *app, scanner *bufio.Scanner) error {
	commitment, ok := prompt(scanner, "commitment (0x...): ")
	if !ok || commitment == "" {
		fmt.Println("Cancelled.")
		return nil
	}
	recipient, ok := prompt(scanner, fmt.Sprintf("recipient [%s]: ", a.cfg.Escrow.Recipient))
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}
	if recipient == "" {
		recipient = a.cfg.Escrow.Recipient
	}
	return cmdWithdraw(ctx, a, commitment, recipient)
}

// prompt reads one trimmed line; ok is false once stdin is closed.
func prompt(scanner *bufio.Scanner, label string) (value string, ok bool) {
	fmt.Print(label)
	if !scanner.Scan() {
		fmt.Println()
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}
