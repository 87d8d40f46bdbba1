package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the docref command tree: one *cobra.Command per
// subcommand, RunE functions named Run<Verb>, flags declared alongside
// command construction, in the style of the example pack's own root
// command builder.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docref",
		Short: "Keep markdown links to code anchored to what the code actually says",
		Long: `docref scans markdown for links of the form [text](path#symbol), resolves
each target through a tree-sitter grammar, and tracks a semantic hash of
its body in .docref.lock. Reformatting or re-commenting the target never
trips a check; a changed signature or body does.`,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create .docref.yml and an initial .docref.lock",
		RunE:  RunInit,
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Verify every reference against .docref.lock and exit non-zero if any is stale or broken",
		RunE:  RunCheck,
	}
	checkCmd.Flags().Bool("json", false, "Print machine-readable check output")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the same classification as check without failing the exit code",
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	updateCmd := &cobra.Command{
		Use:   "update [source]",
		Short: "Recompute hashes and rewrite .docref.lock for stale or untracked references",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunUpdate,
	}
	updateCmd.Flags().String("from", "", "Only update references found in this markdown source file")
	updateCmd.Flags().Bool("all", false, "Rewrite every reference, including ones already fresh")
	updateCmd.Flags().String("reference", "", "Update only the lock entries tracked under this \"target#symbol\" key; errors if untracked")
	updateCmd.Flags().Bool("json", false, "Print machine-readable update output")

	fixCmd := &cobra.Command{
		Use:   "fix [source] [symbol]",
		Short: "Rewrite broken references to their closest surviving candidate symbol",
		Args:  cobra.MaximumNArgs(2),
		RunE:  RunFix,
	}
	fixCmd.Flags().Bool("json", false, "Print machine-readable fix output")
	fixCmd.Flags().String("to", "", "Rewrite <target>#<old_symbol> (the single positional arg) to this exact new symbol instead of auto-suggesting")

	resolveCmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "List the symbols docref can resolve a reference against in file",
		Args:  cobra.ExactArgs(1),
		RunE:  RunResolve,
	}
	resolveCmd.Flags().String("parent", "", "List this scoped symbol's children instead of top-level symbols")

	refsCmd := &cobra.Command{
		Use:   "refs <file>",
		Short: "List every tracked reference whose target is file",
		Args:  cobra.ExactArgs(1),
		RunE:  RunRefs,
	}
	refsCmd.Flags().Bool("json", false, "Print machine-readable refs output")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the tree and reprint check's classification whenever it changes",
		RunE:  RunWatch,
	}
	watchCmd.Flags().Duration("interval", 2*time.Second, "Poll interval")

	namespaceCmd := &cobra.Command{
		Use:   "namespace",
		Short: "Inspect or mutate the namespace map in .docref.yml",
	}
	namespaceAddCmd := &cobra.Command{
		Use:   "add <name> <path>",
		Short: "Register a new namespace -> directory mapping",
		Args:  cobra.ExactArgs(2),
		RunE:  RunNamespaceAdd,
	}
	namespaceListCmd := &cobra.Command{
		Use:   "list",
		Short: "List configured namespaces",
		RunE:  RunNamespaceList,
	}
	namespaceRenameCmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a namespace and rewrite lockfile targets under it",
		Args:  cobra.ExactArgs(2),
		RunE:  RunNamespaceRename,
	}
	namespaceRemoveCmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a namespace",
		Args:  cobra.ExactArgs(1),
		RunE:  RunNamespaceRemove,
	}
	namespaceRemoveCmd.Flags().Bool("force", false, "Remove even if tracked references still resolve through it")
	namespaceCmd.AddCommand(namespaceAddCmd, namespaceListCmd, namespaceRenameCmd, namespaceRemoveCmd)

	buildVersion = version
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print a reference summary: grammars, namespaces, exit codes, and version",
		RunE:  RunInfo,
	}
	infoCmd.Flags().Bool("json", false, "Print a machine-readable reference document")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("docref %s\n", version)
		},
	}

	rootCmd.AddCommand(
		initCmd,
		checkCmd,
		statusCmd,
		updateCmd,
		fixCmd,
		resolveCmd,
		refsCmd,
		watchCmd,
		namespaceCmd,
		infoCmd,
		versionCmd,
	)

	return rootCmd
}
