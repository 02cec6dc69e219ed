package commands

import (
	"strings"

	"github.com/spf13/cobra"
)

var listNamespaces = ""

var DescribeCmd = &cobra.Command{
	Use:   "describe [scope-address]",
	Short: "Resolve a remote scope's descriptor",
	Long:  `Resolve the descriptor of a remote scope. Any remote failure past authentication reports the scope as not found.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		descriptor, err := remote.session.DescribeScope()

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Printf("scope: %s\n", descriptor.Name)

		if descriptor.Version != "" {
			cmd.Printf("version: %s\n", descriptor.Version)
		}
	},
}

var ListCmd = &cobra.Command{
	Use:   "list [scope-address]",
	Short: "List the components of a remote scope",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		items, err := remote.session.List(listNamespaces)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		rows := make([]map[string]interface{}, 0, len(items))

		for _, item := range items {
			rows = append(rows, map[string]interface{}{
				"id":         item.ID,
				"deprecated": item.Deprecated,
				"versions":   strings.Join(item.Versions, ", "),
			})
		}

		err = renderTemplate(cmd.OutOrStdout(), listTemplate, map[string]interface{}{
			"scope": args[0],
			"items": rows,
		})

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
		}
	},
}

var LatestCmd = &cobra.Command{
	Use:   "latest [scope-address] [ids]",
	Short: "Resolve the latest versions of components (comma-separated ids)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		latest, err := remote.session.LatestVersions(splitIDs(args[1]))

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		for _, id := range latest {
			cmd.Println(id)
		}
	},
}

var searchReindex = false

var SearchCmd = &cobra.Command{
	Use:   "search [scope-address] [query]",
	Short: "Search components on a remote scope",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		hits, err := remote.session.Search(args[1], searchReindex)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Println(string(hits))
	},
}

var ShowCmd = &cobra.Command{
	Use:   "show [scope-address] [id]",
	Short: "Show one component of a remote scope",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		component, err := remote.session.Show(args[1])

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Println(string(component))
	},
}

var LogCmd = &cobra.Command{
	Use:   "log [scope-address] [id]",
	Short: "Show the version history of a component",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		entries, err := remote.session.Log(args[1])

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		rows := make([]map[string]interface{}, 0, len(entries))

		for _, entry := range entries {
			rows = append(rows, map[string]interface{}{
				"version":  entry.Version,
				"message":  entry.Message,
				"username": entry.Username,
				"email":    entry.Email,
				"date":     entry.Date,
			})
		}

		err = renderTemplate(cmd.OutOrStdout(), logTemplate, map[string]interface{}{
			"id":      args[1],
			"entries": rows,
		})

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
		}
	},
}

var graphID = ""

var GraphCmd = &cobra.Command{
	Use:   "graph [scope-address]",
	Short: "Fetch the dependency graph of a remote scope",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		remote, err := openSession(args[0], true)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		defer remote.Close()

		graph, err := remote.session.Graph(graphID)

		if err != nil {
			cmd.PrintErrf("❌ Error: %v\n", err)
			return
		}

		cmd.Println(string(graph))
	},
}

func init() {
	ListCmd.Flags().StringVarP(&listNamespaces, "namespaces", "n", "", "Filter by namespaces (wildcards allowed)")
	SearchCmd.Flags().BoolVar(&searchReindex, "reindex", false, "Rebuild the remote search index before querying")
	GraphCmd.Flags().StringVar(&graphID, "id", "", "Restrict the graph to one component id")
}
