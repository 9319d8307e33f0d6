package eth

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Minimal hand-held ABIs. The adapter only ever calls these six methods, so
// the fragments are kept inline instead of binding generated contract code.
const (
	escrowABIJSON = `[
		{"type":"function","name":"deposit","stateMutability":"payable","inputs":[{"name":"commitment","type":"bytes32"}],"outputs":[]},
		{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"secret","type":"bytes32"},{"name":"recipient","type":"address"}],"outputs":[]},
		{"type":"function","name":"feeAmount","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
	]`

	erc20ABIJSON = `[
		{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"allowance","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
		{"type":"function","name":"approve","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
	]`
)

func parseABIs() (escrow abi.ABI, erc20 abi.ABI, err error) {
	escrow, err = abi.JSON(strings.NewReader(escrowABIJSON))
	if err != nil {
		return abi.ABI{}, abi.ABI{}, fmt.Errorf("parsing escrow ABI: %w", err)
	}
	erc20, err = abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return abi.ABI{}, abi.ABI{}, fmt.Errorf("parsing erc20 ABI: %w", err)
	}
	return escrow, erc20, nil
}
