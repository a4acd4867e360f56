package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/cli/config"
	"github.com/Bembelbots/BembelSoccer-sub000/internal/cli/ui"
	"github.com/Bembelbots/BembelSoccer-sub000/internal/logging"
	"github.com/Bembelbots/BembelSoccer-sub000/internal/web/introspect"
	"github.com/Bembelbots/BembelSoccer-sub000/internal/web/websocket"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

var (
	runDuration   time.Duration
	runLimit      int
	runIntrospect bool
	runAddr       string
)

// pollInterval is how often run checks whether every module hit its run
// limit.
const pollInterval = 50 * time.Millisecond

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the demo pipeline",
		Long: `Compile the demo pipeline and run every module on its own goroutine.

The run command will:
  1. Load rt.yaml (or --config) and RT_* environment overrides
  2. Compile the module graph and report every dependency error
  3. Start the kernel and, if enabled, the introspection server
  4. Stop on Ctrl+C, after --duration, or when all modules hit --run-limit

Examples:
  rtctl run
  rtctl run --duration 10s
  rtctl run --introspect --addr :8090
  rtctl run --run-limit 100`,
		Args: cobra.NoArgs,
		RunE: runRun,
	}

	cmd.Flags().DurationVarP(&runDuration, "duration", "d", 0, "Stop after this long (0 runs until interrupted)")
	cmd.Flags().IntVar(&runLimit, "run-limit", -1, "Cycles per module before its goroutine exits (-1 for unlimited)")
	cmd.Flags().BoolVar(&runIntrospect, "introspect", false, "Serve the introspection API")
	cmd.Flags().StringVar(&runAddr, "addr", "", "Introspection listen address")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	if noColor {
		successColor.DisableColor()
		infoColor.DisableColor()
	}
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	var (
		hub  *websocket.Hub
		sink func(rt.LogData)
	)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Introspect.Enabled {
		hub = websocket.NewHub(ctx, logger.Named("websocket"))
		hub.Start()
		defer hub.Shutdown()
		sink = introspect.LogDataSink(hub, logger)
	}

	k, _, err := buildPipeline(cfg, logger.Named("rt"), sink)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.CompileError(err, noColor))
		return err
	}
	successColor.Fprintf(out, "✓ Module graph compiled (%d modules)\n", len(k.Stats()))

	if cfg.Introspect.Enabled {
		srv, err := introspect.NewServer(cfg.Introspect.Addr, introspect.NewRouter(k, hub, logger.Named("introspect")), logger)
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Kernel.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("introspection server shutdown failed", zap.Error(err))
			}
		}()
		infoColor.Fprintf(out, "Introspection API on http://%s\n", srv.Addr())
	}

	if err := k.Start(); err != nil {
		return err
	}
	infoColor.Fprintln(out, "Kernel running, press Ctrl+C to stop")

	waitForStop(ctx, k, cfg.Kernel.RunLimit)

	stopErr := k.Stop()
	if errors.Is(stopErr, rt.ErrShutdownTimeout) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ShutdownWarning(stopErr, noColor))
	}

	fmt.Fprintln(out)
	ui.RenderStats(out, k.Stats(), k.TaskStats(), noColor)
	return stopErr
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("run-limit") {
		cfg.Kernel.RunLimit = runLimit
	}
	if cmd.Flags().Changed("introspect") {
		cfg.Introspect.Enabled = runIntrospect
	}
	if cmd.Flags().Changed("addr") {
		cfg.Introspect.Addr = runAddr
	}
}

// waitForStop blocks until interrupted, the run duration passed, or every
// module goroutine exited on its run limit.
func waitForStop(parent context.Context, k *rt.Kernel, limit int) {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if runDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runDuration)
		defer cancel()
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if limit >= 0 && k.Running() == 0 {
				return
			}
		}
	}
}
