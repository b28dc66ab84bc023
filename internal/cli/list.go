package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"

	"github.com/stencil-ui/stencil/internal/config"
	"github.com/stencil-ui/stencil/internal/registry"
)

var (
	listRegistry string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List components available in the registry",
	Long:  `Fetch the registry index and print the available items.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listRegistry, "registry", "", "Registry base URL (defaults to config)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	registryURL := listRegistry
	if registryURL == "" {
		registryURL = config.RegistryURL()
	}

	client := registry.NewClient(registryURL, nil)
	entries, err := client.FetchIndex(cmd.Context())
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Registry index is empty.")
		return nil
	}

	if listJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling index: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tVERSION\tDESCRIPTION")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.Name, entry.Type, displayVersion(entry.Version), entry.Description)
	}
	return w.Flush()
}

// displayVersion normalizes an index version for display. Anything semver
// cannot parse is shown as-is; an absent version renders as "-".
func displayVersion(raw string) string {
	if raw == "" {
		return "-"
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return raw
	}
	return v.String()
}
