package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"grimm.is/nftjson/cmd"
	"grimm.is/nftjson/internal/brand"
	"grimm.is/nftjson/internal/nft"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", brand.BinaryName, err)

	// Mirror nft's exit status so scripts can tell a rejected ruleset
	// from a usage error.
	var pf *nft.ProcessFailedError
	if errors.As(err, &pf) && pf.ExitCode > 0 {
		os.Exit(pf.ExitCode)
	}
	os.Exit(1)
}
