package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/myoungji/website/cmd/cli/cases"
	"github.com/myoungji/website/cmd/cli/inquiries"
	"github.com/myoungji/website/cmd/cli/store"
	"github.com/myoungji/website/internal/errors"
	"github.com/spf13/cobra"
)

func newRootCommand(lookupEnv func(string) (string, bool)) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "myoungji-cli",
		Long:          `Command line utilities for the MYOUNGJI website`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	sqliteURL, ok := lookupEnv("MYOUNGJI_SQLITE_URL")
	if !ok {
		sqliteURL = "./myoungji.sqlite"
	}
	rootCmd.PersistentFlags().String(store.SqliteURLFlag, sqliteURL, "path to the website database")

	rootCmd.AddGroup(cases.Group, inquiries.Group)
	rootCmd.AddCommand(cases.NewCommand(), inquiries.NewCommand())
	return rootCmd
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.LookupEnv).ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
