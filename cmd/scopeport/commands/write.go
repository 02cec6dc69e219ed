package commands

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var fetchNoDependencies = false

var FetchCmd = &cobra.Command{
	Use:   "fetch [scope-address] [ids]",
	Short: "Fetch raw component objects (comma-separated ids)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		objects, err := remote.session.Fetch(splitIDs(args[1]), fetchNoDependencies)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		encoded, err := json.Marshal(objects)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Println(string(encoded))
	},
}

var pushFile = ""

var PushCmd = &cobra.Command{
	Use:   "push [scope-address]",
	Short: "Upload pre-serialized component objects to a remote scope",
	Long:  `Upload pre-serialized component objects to a remote scope. The objects are read from --file (or stdin) and streamed to the remote process's input rather than packed into the command line.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var body []byte
		var err error

		if pushFile != "" {
			body, err = os.ReadFile(pushFile)
		} else {
			body, err = io.ReadAll(cmd.InOrStdin())
		}

		if err != nil {
			cmd.PrintErrf("❌ Error: failed to read objects: %v\n", err)
			return
		}

		if len(body) == 0 {
			cmd.PrintErrf("❌ Error: nothing to push\n")
			return
		}

		remote, err := openSession(args[0], false)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		ids, err := remote.session.PushMany(body)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Printf("✅ Pushed %d component(s):\n", len(ids))

		for _, id := range ids {
			cmd.Printf("  %s\n", id)
		}
	},
}

var removeForce = false

var RemoveCmd = &cobra.Command{
	Use:   "remove [scope-address] [ids]",
	Short: "Delete components from a remote scope (comma-separated ids)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], false)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		result, err := remote.session.DeleteMany(splitIDs(args[1]), removeForce)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Printf("✅ Removed: %s\n", strings.Join(result.RemovedIDs, ", "))

		if len(result.MissingIDs) > 0 {
			cmd.Printf("⚠️ Missing: %s\n", strings.Join(result.MissingIDs, ", "))
		}
	},
}

var DeprecateCmd = &cobra.Command{
	Use:   "deprecate [scope-address] [ids]",
	Short: "Deprecate components on a remote scope (comma-separated ids)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runDeprecation(cmd, args, true)
	},
}

var UndeprecateCmd = &cobra.Command{
	Use:   "undeprecate [scope-address] [ids]",
	Short: "Undeprecate components on a remote scope (comma-separated ids)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runDeprecation(cmd, args, false)
	},
}

func runDeprecation(cmd *cobra.Command, args []string, deprecate bool) {
	remote, err := openSession(args[0], false)

	if err != nil {
		cmd.PrintErrf("❌ Error: %v\n", err)
		return
	}

	defer remote.Close()

	var ids []string

	if deprecate {
		ids, err = remote.session.DeprecateMany(splitIDs(args[1]))
	} else {
		ids, err = remote.session.UndeprecateMany(splitIDs(args[1]))
	}

	if err != nil {
		cmd.PrintErrf("❌ Error: %v\n", err)
		return
	}

	cmd.Printf("✅ Updated: %s\n", strings.Join(ids, ", "))
}

func init() {
	FetchCmd.Flags().BoolVar(&fetchNoDependencies, "no-deps", false, "Fetch only the named components, without dependencies")
	PushCmd.Flags().StringVarP(&pushFile, "file", "f", "", "Read the serialized objects from a file instead of stdin")
	RemoveCmd.Flags().BoolVar(&removeForce, "force", false, "Remove even when other components depend on the targets")
}
