package commands

import (
	"scopeport/cmd/scopeport/config"
	"scopeport/internal/tokens"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	dbInstance       *gorm.DB
	tokensRepository *tokens.Repository
)

// sshKeyPath overrides the default private key lookup for every command.
var sshKeyPath = ""

func RegisterCommands(rootCmd *cobra.Command, db *gorm.DB) {
	dbInstance = db
	tokensRepository = tokens.NewRepository(db)

	rootCmd.PersistentFlags().StringVar(&sshKeyPath, "ssh-key-path", config.Config.PrivateKeyPath, "Path to SSH private key file (for passwordless authentication)")

	rootCmd.AddCommand(LoginCmd)
	rootCmd.AddCommand(LogoutCmd)
	rootCmd.AddCommand(DescribeCmd)
	rootCmd.AddCommand(ListCmd)
	rootCmd.AddCommand(LatestCmd)
	rootCmd.AddCommand(SearchCmd)
	rootCmd.AddCommand(ShowCmd)
	rootCmd.AddCommand(LogCmd)
	rootCmd.AddCommand(GraphCmd)
	rootCmd.AddCommand(FetchCmd)
	rootCmd.AddCommand(PushCmd)
	rootCmd.AddCommand(RemoveCmd)
	rootCmd.AddCommand(DeprecateCmd)
	rootCmd.AddCommand(UndeprecateCmd)
}
