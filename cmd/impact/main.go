package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/impact/internal/collision"
	"github.com/san-kum/impact/internal/config"
	"github.com/san-kum/impact/internal/metrics"
	"github.com/san-kum/impact/internal/sim"
	"github.com/san-kum/impact/internal/storage"
	"github.com/san-kum/impact/internal/stream"
	"github.com/san-kum/impact/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	configFile string
	preset     string
	frameRate  int
	addr       string
	logLevel   string
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "impact",
		Short: "one-dimensional inelastic collision lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".impact", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and record the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "watch a scenario in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	liveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "stream a scenario to websocket clients",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&configFile, "config", "", "scenario file (yaml)")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "simulation tick rate")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write a position-vs-time SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVar(&outFile, "out", "trajectory.svg", "output file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPARTICLES\tDT\tDURATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.4fs\t%.1fs\n", name, len(cfg.Particles), cfg.Dt, cfg.Duration)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, serveCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, svgCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScenario resolves the scenario in priority order: config file,
// then preset argument, then defaults; --dt/--time flags override.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if len(args) > 0 {
		p := config.GetPreset(args[0])
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newSimulation(cfg *config.Config) (*collision.Simulation, error) {
	s := collision.New()
	if err := s.SetInitial(cfg.Initial()); err != nil {
		return nil, err
	}
	return s, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}

	runner := sim.New(s)
	runner.AddMetric(metrics.NewMomentumDrift())
	runner.AddMetric(metrics.NewKineticEnergy())
	runner.AddMetric(metrics.NewDissipatedEnergy())

	simCfg := sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}

	fmt.Printf("running %s scenario...\n", cfg.Scenario)
	start := time.Now()

	result, err := runner.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scenario, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if result.CollisionTime >= 0 {
		fmt.Printf("collision at t=%.4fs, %.4f J dissipated\n", result.CollisionTime, result.EnergyLost)
	} else {
		fmt.Println("no collision")
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(s, cfg.Scenario, cfg.FPS)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(viz.Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := stream.NewServer(addr, cfg.Scenario, cfg.FPS, s, stream.NewLogger(logLevel))
	if err := srv.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tCOLLISION")

	for _, run := range runs {
		collided := "-"
		if run.CollisionTime >= 0 {
			collided = fmt.Sprintf("%.3fs", run.CollisionTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			collided,
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

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(frames))

	maxIdx := 0
	for _, f := range frames {
		if len(f.Particles) > maxIdx {
			maxIdx = len(f.Particles)
		}
	}

	for idx := 0; idx < maxIdx; idx++ {
		data := make([]float64, 0, len(frames))
		for _, f := range frames {
			if idx < len(f.Particles) {
				data = append(data, f.Particles[idx].Position)
			}
		}
		caption := fmt.Sprintf("particle %d position (m)", idx)
		if idx == 0 && maxIdx > 1 {
			caption = "particle 0 position (m, continues as merged body)"
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	momenta := make([]float64, len(frames))
	for i, f := range frames {
		momenta[i] = f.Momentum
	}
	graph := asciigraph.Plot(momenta,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("total momentum (kg·m/s)"),
	)
	fmt.Println(graph)

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	maxParticles := 0
	for _, f := range frames {
		if len(f.Particles) > maxParticles {
			maxParticles = len(f.Particles)
		}
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "count"}
	for i := 0; i < maxParticles; i++ {
		header = append(header,
			fmt.Sprintf("mass%d", i),
			fmt.Sprintf("velocity%d", i),
			fmt.Sprintf("position%d", i),
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.Time, 'f', 6, 64),
			strconv.Itoa(len(f.Particles)),
		}
		for i := 0; i < maxParticles; i++ {
			var p collision.Particle
			if i < len(f.Particles) {
				p = f.Particles[i]
			}
			row = append(row,
				strconv.FormatFloat(p.Mass, 'f', 6, 64),
				strconv.FormatFloat(p.Velocity, 'f', 6, 64),
				strconv.FormatFloat(p.Position, 'f', 6, 64),
			)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSONStdout(meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}

	svg := viz.TrajectorySVG(frames, 800, 400)
	if svg == "" {
		return fmt.Errorf("not enough data for an SVG")
	}

	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}
