package main

import (
	"fmt"

	"scopeport/cmd/scopeport/commands"
	"scopeport/cmd/scopeport/config"
	"scopeport/internal/database"
	"scopeport/version"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "scopeport",
	Short: "SSH transport client for remote component scopes",
	Long: `scopeport executes registry operations (list, fetch, push, delete and more) against a remote versioned-component scope over a single SSH session.

Scope addresses take the form [ssh://][username@]hostname[:port]/path, e.g.:

scopeport list dev@hub.example.com:22/remote/my-scope

Authentication is negotiated over an ordered list of strategies: stored registry token, ssh-agent, private key file, then interactive username/password (read operations also try anonymous access before prompting). Store a token once with 'scopeport login' to skip the prompt.`,
	Version: fmt.Sprintf("%s (db path: %s)", version.Version, config.Config.DatabasePath),
}

func main() {
	db, err := database.InitDB(config.Config.DatabasePath)

	if err != nil {
		rootCmd.PrintErrf("Failed to initialize database at %s: %v\n", config.Config.DatabasePath, err)
	}

	commands.RegisterCommands(rootCmd, db)

	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrf("%v\n", err)
	}

	defer func() {
		if err := database.CloseDB(db); err != nil {
			rootCmd.PrintErrf("Failed to close database: %v\n", err)
		}
	}()
}
