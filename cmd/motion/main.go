package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/motion/internal/analysis"
	"github.com/san-kum/motion/internal/automation"
	"github.com/san-kum/motion/internal/config"
	"github.com/san-kum/motion/internal/export"
	"github.com/san-kum/motion/internal/sim"
	"github.com/san-kum/motion/internal/storage"
	"github.com/san-kum/motion/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir       string
	debug         bool
	preset        string
	integrator    string
	targetFPS     float64
	frameInterval time.Duration
	maxDuration   time.Duration
	addr          string
	column        int
	outFile       string
	braille       bool
	sweepParam    string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	logFile       *os.File
)

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs root and closes the debug log afterwards. Cobra skips
// PersistentPostRun when RunE fails, so the close cannot live there.
func execute(root *cobra.Command) error {
	defer closeLog()
	return root.Execute()
}

func closeLog() {
	if logFile == nil {
		return
	}
	log.SetOutput(io.Discard)
	logFile.Close()
	logFile = nil
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "motion",
		Short: "spring and tween animation lab",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logFile = setupLogging(debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(viz.NewPicker(config.ListPresets(), describePreset, launchPreset))
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".motion", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log under logs/")

	runCmd := &cobra.Command{
		Use:   "run [config.yaml]",
		Short: "run an animation headless and save its trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnimation,
	}
	engineFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot every component of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "oscillation analysis of one component",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&column, "column", 0, "component index to analyze")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in animations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-10s %s\n", name, describePreset(name))
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset|config.yaml] [integrator1] [integrator2] ...",
		Short: "compare spring integrators on the same animation",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	engineFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live [config.yaml]",
		Short: "play an animation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	engineFlags(liveCmd)

	serveCmd := &cobra.Command{
		Use:   "serve [config.yaml]",
		Short: "stream an animation over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	engineFlags(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run curves to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal braille plot instead of vector paths")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run every step of a scenario and save the traces",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset|config.yaml]",
		Short: "sweep one spring parameter and compare the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "damping", "spring parameter ("+strings.Join(automation.SweepParams, ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 40, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportSVGCmd, presetsCmd, compareCmd, liveCmd, serveCmd, batchCmd, sweepCmd)
	return rootCmd
}

// engineFlags registers the engine overrides. They only replace file or
// preset values when set explicitly.
func engineFlags(cmd *cobra.Command) {
	def := config.DefaultEngine()
	cmd.Flags().StringVar(&preset, "preset", "", "use a built-in animation")
	cmd.Flags().StringVar(&integrator, "integrator", def.Integrator, "spring integrator (euler, verlet, analytic)")
	cmd.Flags().Float64Var(&targetFPS, "fps", def.TargetFPS, "target frame rate, 0 for unthrottled")
	cmd.Flags().DurationVar(&frameInterval, "frame-interval", def.FrameInterval, "host frame interval")
	cmd.Flags().DurationVar(&maxDuration, "max-duration", def.MaxDuration, "stop a run after this long")
}

// loadConfig resolves the animation file, preset or default, applies explicit
// flag overrides and validates the result. The returned name labels the run.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		name string
		err  error
	)
	switch {
	case len(args) > 0:
		cfg, err = config.Load(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	case preset != "":
		cfg, err = config.GetPreset(preset)
		if err != nil {
			return nil, "", err
		}
		name = preset
	default:
		cfg, name = config.DefaultConfig(), "default"
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Engine.Integrator = integrator
	}
	if flags.Changed("fps") {
		cfg.Engine.TargetFPS = targetFPS
	}
	if flags.Changed("frame-interval") {
		cfg.Engine.FrameInterval = frameInterval
	}
	if flags.Changed("max-duration") {
		cfg.Engine.MaxDuration = maxDuration
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

// resolve treats arg as a config file when it has a YAML extension and as a
// preset name otherwise.
func resolve(arg string) (*config.Config, error) {
	switch filepath.Ext(arg) {
	case ".yaml", ".yml":
		return config.Load(arg)
	default:
		return config.GetPreset(arg)
	}
}

func describePreset(name string) string {
	cfg, err := config.GetPreset(name)
	if err != nil {
		return ""
	}
	segs := cfg.Animation.Segments
	modes := make([]string, len(segs))
	for i, s := range segs {
		switch {
		case s.Spring != nil:
			modes[i] = "spring"
		case s.Tween != nil:
			modes[i] = "tween"
		}
		if s.Loop != "" {
			modes[i] += "×" + s.Loop
		}
	}
	return fmt.Sprintf("%s: %s", cfg.Animation.Kind, strings.Join(modes, " → "))
}

func launchPreset(name string) (viz.Model, error) {
	cfg, err := config.GetPreset(name)
	if err != nil {
		return viz.Model{}, err
	}
	r, err := newRunner(cfg)
	if err != nil {
		return viz.Model{}, err
	}
	return r.live(name)
}

func runAnimation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	start := time.Now()
	runID, r, result, err := saveRun(cmd.Context(), st, name, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("run: %s\n", runID)
	fmt.Printf("ticks: %d (%.3fs simulated, %s wall)\n", result.Ticks, result.Duration(), elapsed.Round(time.Microsecond))
	fmt.Printf("completed: %v\n", result.Completed)
	fmt.Printf("final: %s\n", formatComponents(r.columns(), result.Final()))
	for _, k := range sortedKeys(result.Metrics) {
		fmt.Printf("%s: %.6g\n", k, result.Metrics[k])
	}
	return nil
}

// saveRun runs cfg headless and stores the trace under name.
func saveRun(ctx context.Context, st *storage.Store, name string, cfg *config.Config) (string, runner, *sim.Result, error) {
	r, err := newRunner(cfg)
	if err != nil {
		return "", nil, nil, err
	}
	result, err := r.run(ctx)
	if err != nil {
		return "", nil, nil, err
	}
	for _, e := range result.Events {
		log.Printf("run %s: %s", name, e)
	}

	runID, err := st.Save(storage.RunMetadata{
		Name:          name,
		Kind:          cfg.Animation.Kind,
		Integrator:    cfg.Engine.Integrator,
		TargetFPS:     cfg.Engine.TargetFPS,
		FrameInterval: float64(cfg.Engine.FrameInterval) / float64(time.Millisecond),
		Segments:      r.segments(),
		Columns:       r.columns(),
	}, result)
	if err != nil {
		return "", nil, nil, err
	}
	return runID, r, result, nil
}

func formatComponents(cols []string, values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		label := fmt.Sprintf("v%d", i)
		if i < len(cols) {
			label = cols[i]
		}
		parts[i] = fmt.Sprintf("%s=%.4g", label, v)
	}
	return strings.Join(parts, " ")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tKIND\tTIME\tTICKS\tINTEG\tDONE")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%v\n",
			run.ID,
			run.Name,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.Integrator,
			run.Completed,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(trace.Values) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("samples: %d\n\n", len(trace.Values))

	const maxPlots = 6
	for i, col := range meta.Columns {
		if i == maxPlots {
			break
		}
		graph := asciigraph.Plot(trace.Column(i),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if column < 0 || column >= len(meta.Columns) {
		return fmt.Errorf("column %d out of range (run has %d)", column, len(meta.Columns))
	}
	if len(trace.Times) < 4 {
		return fmt.Errorf("no data")
	}

	// Offsets are taken from the final value, which is the last target for a
	// completed run.
	xs := trace.Column(column)
	rest := xs[len(xs)-1]
	offsets := make([]float64, len(xs))
	velocities := make([]float64, len(xs))
	for i, x := range xs {
		offsets[i] = x - rest
		if column < len(trace.Velocities[i]) {
			velocities[i] = trace.Velocities[i][column]
		}
	}
	dt := trace.Times[len(trace.Times)-1] / float64(len(trace.Times)-1)

	fmt.Printf("oscillation analysis: %s\n", meta.ID)
	fmt.Printf("component: %s\n\n", meta.Columns[column])

	_, power := analysis.Spectrum(offsets, dt)
	if len(power) > 8 {
		fmt.Println(asciigraph.Plot(power[:len(power)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+meta.Columns[column]+")"),
		))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(offsets, dt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1/freq)
	}
	if zeta, ok := analysis.DampingRatio(offsets); ok {
		fmt.Printf("damping ratio: %.3f\n", zeta)
	} else {
		fmt.Println("damping ratio: n/a (fewer than two peaks)")
	}
	crossings := analysis.Crossings(trace.Times, offsets)
	fmt.Printf("rest crossings: %d", len(crossings))
	if len(crossings) > 0 {
		fmt.Printf(" (first at %.3fs)", crossings[0])
	}
	fmt.Println()

	fmt.Println()
	fmt.Println("phase portrait (offset vs velocity):")
	fmt.Println(analysis.PhasePortrait(offsets, velocities, 60, 20))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if outFile == "" {
		return storage.ExportJSON(os.Stdout, meta, trace)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(f, meta, trace); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, outFile)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolve(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fps") {
		cfg.Engine.TargetFPS = targetFPS
	}
	if cmd.Flags().Changed("frame-interval") {
		cfg.Engine.FrameInterval = frameInterval
	}
	if cmd.Flags().Changed("max-duration") {
		cfg.Engine.MaxDuration = maxDuration
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	r, err := newRunner(cfg)
	if err != nil {
		return err
	}

	integrators := args[1:]
	start := time.Now()
	results, err := r.compare(cmd.Context(), integrators)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (frame=%s, %d runs in %s)\n\n",
		args[0], cfg.Engine.FrameInterval, len(results), time.Since(start).Round(time.Microsecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "integrator\tticks\tsettle_s\tovershoot\tpeak_vel\tenergy_drift\t")
	for i, res := range results {
		drift := "-"
		if v, ok := res.Metrics["energy_drift"]; ok {
			drift = fmt.Sprintf("%.2e", v)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.4f\t%.4g\t%s\t\n",
			integrators[i],
			res.Ticks,
			formatSettle(res.Metrics["settle_time"]),
			res.Metrics["overshoot"],
			res.Metrics["peak_velocity"],
			drift,
		)
	}
	return w.Flush()
}

func formatSettle(v float64) string {
	if v < 0 || math.IsNaN(v) {
		return "never"
	}
	return fmt.Sprintf("%.3f", v)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	r, err := newRunner(cfg)
	if err != nil {
		return err
	}
	m, err := r.live(name)
	if err != nil {
		return err
	}
	return viz.Run(m)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	r, err := newRunner(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return r.serve(ctx, name, addr)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	series := make([]export.Series, len(meta.Columns))
	for i, col := range meta.Columns {
		series[i] = export.Series{Name: col, X: trace.Times, Y: trace.Column(i)}
	}

	theme := viz.Themes[0]
	var svg string
	if braille {
		svg = export.CanvasSVG(export.Rasterize(series, 80, 20), 4, string(theme.Primary))
	} else {
		svg = export.TraceSVG(series, 800, 400, theme)
	}
	if svg == "" {
		return fmt.Errorf("no data to export")
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", runID, path)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tINTEG\tTICKS\tDONE")
	n, err := automation.RunScenario(cmd.Context(), sc, func(ctx context.Context, name string, cfg *config.Config) error {
		runID, _, result, err := saveRun(ctx, st, name, cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%v\n", runID, cfg.Animation.Kind, cfg.Engine.Integrator, result.Ticks, result.Completed)
		return nil
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	fmt.Printf("\n%d/%d steps completed\n", n, len(sc.Steps))
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolve(args[0])
	if err != nil {
		return err
	}
	sweep := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	cfgs, values, err := sweep.Apply(base)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s of %s over [%g, %g]\n\n", sweep.Param, args[0], sweep.Min, sweep.Max)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "%s\tzeta\tticks\tsettle_s\tovershoot\tpeak_vel\t\n", sweep.Param)
	for i, cfg := range cfgs {
		r, err := newRunner(cfg)
		if err != nil {
			return err
		}
		res, err := r.run(cmd.Context())
		if err != nil {
			return fmt.Errorf("%s=%g: %w", sweep.Param, values[i], err)
		}
		fmt.Fprintf(w, "%.4g\t%s\t%d\t%s\t%.4f\t%.4g\t\n",
			values[i],
			dampingRatio(cfg),
			res.Ticks,
			formatSettle(res.Metrics["settle_time"]),
			res.Metrics["overshoot"],
			res.Metrics["peak_velocity"],
		)
	}
	return w.Flush()
}

// dampingRatio formats the damping ratio of the first spring segment.
func dampingRatio(cfg *config.Config) string {
	for _, seg := range cfg.Animation.Segments {
		if seg.Spring == nil {
			continue
		}
		c, err := seg.Spring.Resolve()
		if err != nil {
			break
		}
		return fmt.Sprintf("%.3f", c.DampingRatio())
	}
	return "-"
}
