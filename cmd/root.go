package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kubepane/internal/app"
)

// Flag values
var (
	noTUI         bool
	debugMode     bool
	logFile       string
	configPath    string
	kubeconfig    string
	contextName   string
	namespaces    []string
	allNamespaces bool
	resources     []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kubepane",
	Short: "Live terminal dashboard for a Kubernetes cluster",
	Long: `kubepane watches one kubeconfig context and a set of namespaces and shows
pods, events, ConfigMaps and Secrets, Services, Ingresses and NetworkPolicies,
plus any API resource kinds you select, refreshed continuously.

Switching the context, the namespaces or the selected kinds restarts every
watcher for the new scope; results that belong to the previous scope are
discarded instead of shown.

It can run in two modes:

1. Interactive TUI Mode (default): panes for every area, container log
   following, YAML and summaries of single objects.

2. Non-TUI / CLI Mode (--no-tui): the same watchers run headlessly and
   every update is logged, until Ctrl+C.`,
	Args: cobra.NoArgs,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. unreachable cluster, bad configuration)
	SilenceUsage: true,
	RunE:         runRoot,
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(noTUI, debugMode)
	cfg.LogFile = logFile
	cfg.ConfigPath = configPath
	cfg.Kubeconfig = kubeconfig
	cfg.Context = contextName
	cfg.Namespaces = namespaces
	cfg.AllNamespaces = allNamespaces
	cfg.Resources = resources

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kubepane version %s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	flags := rootCmd.Flags()
	flags.BoolVar(&noTUI, "no-tui", false, "Run headless and log every update instead of starting the TUI")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging and the debug status bar")
	flags.StringVar(&logFile, "log-file", "", "Append a copy of the log to this file")
	flags.StringVar(&configPath, "config", "", "Load configuration from this file instead of the user and project config")
	flags.StringVar(&kubeconfig, "kubeconfig", "", "Path to the kubeconfig file (default: KUBECONFIG or ~/.kube/config)")
	flags.StringVar(&contextName, "context", "", "Kubeconfig context to watch (default: current-context)")
	flags.StringSliceVarP(&namespaces, "namespace", "n", nil, "Namespace to watch; repeatable (default: all namespaces)")
	flags.BoolVarP(&allNamespaces, "all-namespaces", "A", false, "Watch all namespaces, ignoring configured ones")
	flags.StringSliceVarP(&resources, "resource", "r", nil, "API resource kind to watch as resource.group, e.g. deployments.apps; repeatable")
}
