package commands

import (
	"scopeport/internal/terminal"

	"github.com/spf13/cobra"
)

var loginUsername = ""
var loginToken = ""

var LoginCmd = &cobra.Command{
	Use:   "login [hostname]",
	Short: "Store a registry token for a remote scope host",
	Long:  `Store a registry authentication token for a remote scope host. The token is tried first during authentication negotiation, before ssh-agent, private key and password strategies.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		host := args[0]
		token := loginToken

		if token == "" {
			prompted, err := terminal.NewPrompt().ReadPassword("registry token: ")

			if err != nil {
				cmd.PrintErrf("❌ Error: %v\n", err)
				return
			}

			token = prompted
		}

		if token == "" {
			cmd.PrintErrf("❌ Error: token cannot be empty\n")
			return
		}

		if _, err := tokensRepository.Save(host, loginUsername, token); err != nil {
			cmd.PrintErrf("❌ Error: failed to store token: %v\n", err)
			return
		}

		cmd.Printf("✅ Token stored for %s\n", host)
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout [hostname]",
	Short: "Remove the stored registry token for a remote scope host",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			if err := tokensRepository.DeleteAll(); err != nil {
				cmd.PrintErrf("❌ Error: %v\n", err)
				return
			}

			cmd.Printf("✅ All stored tokens removed\n")
			return
		}

		if err := tokensRepository.Delete(args[0]); err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Printf("✅ Token removed for %s\n", args[0])
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username associated with the token")
	LoginCmd.Flags().StringVarP(&loginToken, "token", "t", "", "Token value (prompted securely when omitted)")
}
