package app

import (
	"fmt"
	"io"
)

// Wallet prints the tracked wallet resolved from configuration.
func (a *App) Wallet(out io.Writer) error {
	wallet, err := a.resolveWallet()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, wallet)
	return nil
}
