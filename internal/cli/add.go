package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/stencil-ui/stencil/internal/branding"
	"github.com/stencil-ui/stencil/internal/config"
	"github.com/stencil-ui/stencil/internal/installer"
	"github.com/stencil-ui/stencil/internal/project"
	"github.com/stencil-ui/stencil/internal/registry"
)

var (
	addRegistry string
	addYes      bool
	addNoDeps   bool
	addSkipNpm  bool
	addCwd      string
	addFlatten  bool
)

var addCmd = &cobra.Command{
	Use:   "add <component>...",
	Short: "Add components and their dependencies to your project",
	Long: `Add one or more registry items to your project. Each argument may be a
registry item name, a direct URL, or a local .json/.yaml file path.

Registry dependencies are resolved recursively and installed dependency-first.
Import paths inside the installed files are rewritten to the aliases in your
components.json. Conflicting files are listed and confirmed once per item.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addRegistry, "registry", "",
		"Registry base URL (defaults to "+branding.EnvVar("REGISTRY")+" or config)")
	addCmd.Flags().BoolVarP(&addYes, "yes", "y", false, "Overwrite conflicting files without prompting")
	addCmd.Flags().BoolVar(&addNoDeps, "no-deps", false, "Install only the named items, skip registry dependencies")
	addCmd.Flags().BoolVar(&addSkipNpm, "skip-npm", false, "Skip npm dependency installation")
	addCmd.Flags().StringVar(&addCwd, "cwd", ".", "Project directory to install into")
	addCmd.Flags().BoolVar(&addFlatten, "flatten", false, "Flatten unmatched registry paths to their base name")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := project.Load(addCwd)
	if err != nil {
		return err
	}
	if !cfg.FromFile {
		fmt.Fprintln(out, "No components.json found, using default aliases.")
	}

	registryURL := addRegistry
	if registryURL == "" {
		registryURL = config.RegistryURL()
	}
	client := registry.NewClient(registryURL, nil)

	// Without a schema, items are only structurally checked.
	schema, err := client.FetchSchema(ctx, "")
	if err != nil {
		fmt.Fprintf(out, "warning: registry schema unavailable: %v\n", err)
		schema = nil
	}

	var confirmer installer.Confirmer = &installer.TerminalConfirmer{In: cmd.InOrStdin(), Out: out}
	if addYes {
		confirmer = installer.AutoApprove{}
	}
	proc := installer.NewProcessor(cfg, nil, confirmer, out)

	opts := installer.Options{
		SkipConflicts: addYes,
		InstallDeps:   !addSkipNpm,
		PreserveDirs:  !addFlatten,
	}

	for _, ref := range args {
		if err := addOne(ctx, out, client, schema, proc, ref, opts); err != nil {
			if errors.Is(err, installer.ErrUserCancelled) {
				fmt.Fprintln(out, "Installation cancelled.")
				return nil
			}
			var verr *registry.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(out, "Validation failed for %s:\n", verr.Name)
				for _, msg := range verr.Errors {
					fmt.Fprintf(out, "  - %s\n", msg)
				}
			}
			var ierr *installer.InstallError
			if errors.As(err, &ierr) && ierr.Output != "" {
				fmt.Fprintln(out, ierr.Output)
			}
			return err
		}
	}

	return nil
}

// addOne resolves and installs a single requested item (plus its registry
// dependencies unless --no-deps).
func addOne(ctx context.Context, out io.Writer, client *registry.Client, schema *registry.ItemSchema, proc *installer.Processor, ref string, opts installer.Options) error {
	fmt.Fprintf(out, "Resolving %s...\n", ref)

	var items []*registry.RegistryItem
	var root *registry.RegistryItem

	if addNoDeps {
		item, err := fetchValidated(ctx, out, client, schema, ref)
		if err != nil {
			return err
		}
		items = []*registry.RegistryItem{item}
		root = item
	} else {
		builder := registry.NewTreeBuilder(client, schema, out)
		tree, err := builder.Build(ctx, ref)
		if err != nil {
			return err
		}

		registry.PrintTree(out, tree, "", true)
		fmt.Fprintln(out)

		byName := make(map[string]*registry.RegistryItem)
		for _, item := range registry.FlattenTree(tree) {
			byName[item.Name] = item
		}
		for _, name := range registry.InstallationOrder(tree) {
			items = append(items, byName[name])
		}
		root = tree.Item
	}

	for _, item := range items {
		fmt.Fprintf(out, "Installing %s...\n", item.Name)
		if _, err := proc.ProcessItem(item, opts); err != nil {
			return err
		}
	}

	// CSS variables are appended once, for the requested root item.
	if err := proc.ProcessCSSVars(root.CSSVars); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ %s installed.\n", root.Name)
	return nil
}

// fetchValidated fetches one item and runs schema validation on it before
// decoding. Validation warnings are printed, errors are fatal.
func fetchValidated(ctx context.Context, out io.Writer, client *registry.Client, schema *registry.ItemSchema, ref string) (*registry.RegistryItem, error) {
	raw, err := client.FetchRaw(ctx, ref)
	if err != nil {
		return nil, err
	}

	if schema != nil {
		report := registry.ValidateItem(schema, raw)
		if !report.Valid() {
			return nil, &registry.ValidationError{Name: ref, Errors: report.Errors}
		}
		for _, w := range report.Warnings {
			fmt.Fprintf(out, "  warning: %s: %s\n", ref, w)
		}
	}

	return registry.DecodeItem(raw)
}
