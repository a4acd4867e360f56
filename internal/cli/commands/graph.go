package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/cli/config"
	"github.com/Bembelbots/BembelSoccer-sub000/internal/cli/ui"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
)

var graphOutput string

// NewGraphCommand creates the graph command
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the compiled module graph",
		Long: `Compile the demo pipeline without running it and print its module graph.

Output formats:
  text     modules with their endpoints, followed by the channel table
  modules  the kernel's module listing
  json     graph snapshot as JSON
  yaml     graph snapshot as YAML

Examples:
  rtctl graph
  rtctl graph -o yaml
  rtctl graph --config robot.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: runGraph,
	}

	cmd.Flags().StringVarP(&graphOutput, "output", "o", "text", "Output format (text, modules, json, yaml)")

	return cmd
}

func runGraph(cmd *cobra.Command, args []string) error {
	switch graphOutput {
	case "text", "modules", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", graphOutput)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// A sink keeps the data logger in the graph.
	k, _, err := buildPipeline(cfg, zap.NewNop(), func(rt.LogData) {})
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.CompileError(err, noColor))
		return err
	}

	out := cmd.OutOrStdout()
	snap := k.Snapshot()
	switch graphOutput {
	case "json":
		data, err := snap.JSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := snap.YAML()
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
	case "modules":
		fmt.Fprint(out, k.PrintModules())
	default:
		ui.Header(out, "Modules", noColor)
		ui.RenderGraph(out, snap, noColor)
		fmt.Fprintln(out)
		ui.Header(out, "Channels", noColor)
		ui.RenderChannels(out, snap, noColor)
	}
	return nil
}
