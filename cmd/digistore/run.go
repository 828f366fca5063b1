package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/pkg/auth"
)

const hashCommand = "hash-admin-key"

func run(ctx context.Context, app *fx.App) {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start application: %v\n", err)
		os.Exit(1)
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to stop application: %v\n", err)
		os.Exit(1)
	}
}

// hashAdminKey reads a key from in and prints its bcrypt hash for ADMIN_KEY_HASH.
func hashAdminKey(in io.Reader, out, errOut io.Writer) int {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		fmt.Fprintf(errOut, "read admin key: %v\n", err)
		return 1
	}
	key := strings.TrimSpace(line)
	if key == "" {
		fmt.Fprintln(errOut, "admin key must not be empty")
		return 1
	}

	hash, err := auth.NewBcryptHasher(0).Hash(key)
	if err != nil {
		fmt.Fprintf(errOut, "hash admin key: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, hash)
	return 0
}
