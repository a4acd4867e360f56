package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Bembelbots/BembelSoccer-sub000/runtime/metadata"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/rt"
	"github.com/Bembelbots/BembelSoccer-sub000/runtime/tasks"
)

// RenderGraph renders every module of a graph snapshot with its endpoints
// and dependents.
func RenderGraph(w io.Writer, snap metadata.GraphSnapshot, noColor bool) {
	name := newColor(noColor, color.Bold, color.FgCyan)
	kind := newColor(noColor, color.FgGreen)
	gray := newColor(noColor, color.FgHiBlack)

	for _, m := range snap.Modules {
		name.Fprint(w, m.Name)
		gray.Fprintf(w, " [id = %d, %s]\n", m.ID, m.Tags)

		for _, ep := range m.Endpoints {
			fmt.Fprintf(w, "  %s %s", kind.Sprint(endpointVerb(ep)), ep.DataType)
			if ep.Required {
				gray.Fprint(w, " (required)")
			}
			fmt.Fprintln(w)
		}
		for _, r := range m.RequiredBy {
			gray.Fprintf(w, "  required by %s\n", r)
		}
	}
}

func endpointVerb(ep metadata.EndpointSnapshot) string {
	in := ep.Direction == metadata.In.String()
	switch ep.Kind {
	case metadata.KindCommand.String():
		if in {
			return "handles"
		}
		return "issues"
	case metadata.KindContext.String():
		if in {
			return "reads"
		}
		return "writes"
	default:
		if in {
			return "consumes"
		}
		return "provides"
	}
}

// RenderChannels renders the channel table of a graph snapshot.
func RenderChannels(w io.Writer, snap metadata.GraphSnapshot, noColor bool) {
	t := NewTable(w, []string{"ID", "KIND", "TYPE", "PRODUCERS", "CONSUMERS"}, &TableOptions{NoColor: noColor})
	for _, ch := range snap.Channels {
		t.AddRow(
			strconv.Itoa(ch.ID),
			ch.Kind,
			ch.DataType,
			orDash(ch.Producers),
			orDash(ch.Consumers),
		)
	}
	t.Render()
}

// RenderStats renders module run counts and task pool statistics.
func RenderStats(w io.Writer, modules []rt.ModuleStats, taskStats []tasks.Stats, noColor bool) {
	t := NewTable(w, []string{"ID", "MODULE", "TAGS", "THREAD", "RUNS"}, &TableOptions{NoColor: noColor})
	for _, m := range modules {
		thread := "-"
		if m.Threaded {
			thread = "stopped"
			if m.Running {
				thread = "running"
			}
		}
		t.AddRow(strconv.Itoa(int(m.ID)), m.Name, m.Tags, thread, strconv.FormatUint(m.Runs, 10))
	}
	t.Render()

	if len(taskStats) == 0 {
		return
	}
	fmt.Fprintln(w)
	tt := NewTable(w, []string{"TASK", "PROCESSED", "FAILED", "AVG"}, &TableOptions{NoColor: noColor})
	for _, s := range taskStats {
		tt.AddRow(s.Kind, strconv.FormatInt(s.Processed, 10), strconv.FormatInt(s.Failed, 10), s.AvgDuration.String())
	}
	tt.Render()
}

func orDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
