// Package main is the entry point for the marblereplay CLI
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/james-see/marblereplay/pkg/api"
	"github.com/james-see/marblereplay/pkg/loader"
	"github.com/james-see/marblereplay/pkg/machine"
	"github.com/james-see/marblereplay/pkg/render"
	"github.com/james-see/marblereplay/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	targetTick int64
	fromTick   int64
	toTick     int64
	serverPort int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "marblereplay",
	Short: "Reconstruct marble machine state from performance documents",
	Long: `marblereplay replays the programmed and performed event streams of a
marble-actuated musical instrument and reconstructs the exact machine
state at any tick.

A performance document layers operator events (mutes, tempo changes,
manual drops, capo moves) over the program's authored drop sequence on
the same 61440-tick wheel clock.

Examples:
  marblereplay state gig.performance.json --tick 480
  marblereplay deltas gig.performance.json --from 0 --to 960
  marblereplay render gig.performance.json -o gig.mid
  marblereplay tui
  marblereplay serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var stateCmd = &cobra.Command{
	Use:   "state <performance.json>",
	Short: "Print the machine state at a tick",
	Args:  cobra.ExactArgs(1),
	RunE:  runState,
}

var deltasCmd = &cobra.Command{
	Use:   "deltas <performance.json>",
	Short: "Print every state transition over a tick range",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeltas,
}

var renderCmd = &cobra.Command{
	Use:   "render <performance.json>",
	Short: "Replay a performance and write a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	stateCmd.Flags().Int64VarP(&targetTick, "tick", "t", 0, "Target tick")

	deltasCmd.Flags().Int64Var(&fromTick, "from", 0, "Range start tick")
	deltasCmd.Flags().Int64Var(&toTick, "to", machine.WheelTicks-1, "Range end tick")

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	renderCmd.Flags().Int64Var(&fromTick, "from", 0, "Range start tick")
	renderCmd.Flags().Int64Var(&toTick, "to", machine.WheelTicks-1, "Range end tick")

	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	rootCmd.AddCommand(stateCmd)
	rootCmd.AddCommand(deltasCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runState(cmd *cobra.Command, args []string) error {
	perf, err := loader.LoadPerformance(args[0])
	if err != nil {
		return err
	}

	state, err := machine.StateAt(perf, targetTick)
	if err != nil {
		return err
	}

	rotation, local := machine.ToLocal(targetTick)
	fmt.Printf("State at tick %d (rotation %d, wheel tick %d):\n", targetTick, rotation, local)

	out, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runDeltas(cmd *cobra.Command, args []string) error {
	perf, err := loader.LoadPerformance(args[0])
	if err != nil {
		return err
	}

	deltas, err := machine.DeltasBetween(perf, fromTick, toTick)
	if err != nil {
		return err
	}

	fmt.Printf("%d transitions between tick %d and %d:\n", len(deltas), fromTick, toTick)
	for _, d := range deltas {
		if d.Fired != nil {
			fmt.Printf("  %8d  drop %-10s (%s)\n", d.Tick, d.Fired.Drop.Channel(), d.Fired.Origin)
			continue
		}
		for _, c := range d.Changes {
			fmt.Printf("  %8d  %-28s %s -> %s\n", d.Tick, c.Field, c.From, c.To)
		}
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".mid")

	perf, err := loader.LoadPerformance(input)
	if err != nil {
		return err
	}

	if err := render.New().RenderFile(perf, fromTick, toTick, output); err != nil {
		return err
	}

	fmt.Printf("Rendered %s -> %s\n", input, output)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
