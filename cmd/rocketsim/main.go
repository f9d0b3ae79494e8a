package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/globalpizza/Reto-Cohete/internal/analysis"
	"github.com/globalpizza/Reto-Cohete/internal/config"
	"github.com/globalpizza/Reto-Cohete/internal/experiment"
	"github.com/globalpizza/Reto-Cohete/internal/export"
	"github.com/globalpizza/Reto-Cohete/internal/flight"
	"github.com/globalpizza/Reto-Cohete/internal/metrics"
	"github.com/globalpizza/Reto-Cohete/internal/optim"
	"github.com/globalpizza/Reto-Cohete/internal/physics"
	"github.com/globalpizza/Reto-Cohete/internal/tui"
)

var (
	configFile  string
	presetName  string
	dt          float64
	integrator  string
	airModel    string
	maxDuration float64
	outFile     string
	plot        bool
	sweepParam  string
	sweepValues []float64
	saveFile    string
	gridParams  []string
	metricName  string
	minimize    bool
	benchRuns   int
	phasePlane  bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rocketsim",
		Short: "water rocket flight simulator",
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "YAML config file")
	pf.StringVarP(&presetName, "preset", "p", "", "start from a named preset")
	pf.Float64Var(&dt, "dt", config.DefaultDt, "time step (s)")
	reg := experiment.NewRegistry()
	pf.StringVarP(&integrator, "integrator", "i", config.DefaultIntegrator,
		"integrator ("+strings.Join(reg.ListIntegrators(), ", ")+")")
	pf.StringVar(&airModel, "air-model", string(physics.AirNone),
		"post-water gas model ("+strings.Join(reg.ListAirModels(), ", ")+")")
	pf.Float64Var(&maxDuration, "max-duration", config.DefaultMaxDuration, "give up after this much simulated time (s)")
	addParamFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly one rocket and print its metrics",
		RunE:  runFlight,
	}
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot altitude and speed")
	runCmd.Flags().StringVar(&saveFile, "save", "", "write the resolved configuration to a YAML file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal view",
		RunE:  runLive,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list launch presets",
		RunE:  listPresets,
	}

	csvCmd := &cobra.Command{
		Use:   "export-csv",
		Short: "write the sampled trajectory as CSV",
		RunE:  exportCSV,
	}
	csvCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	jsonCmd := &cobra.Command{
		Use:   "export-json",
		Short: "write the run as a JSON document",
		RunE:  exportJSON,
	}
	jsonCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	compareCmd := &cobra.Command{
		Use:   "compare [integrators...]",
		Short: "fly the same rocket under several integrators",
		RunE:  compareIntegrators,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "fly the same rocket at several values of one parameter",
		Example: "  rocketsim sweep --values 30,45,60\n" +
			"  rocketsim sweep --param water_volume_l --values 0.2,0.4,0.6,0.8,1.0\n" +
			"  rocketsim sweep --param pressure_psi --values 40,60,80,100",
		RunE:  sweepValuesCmd,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "launch_angle_deg", "rocket parameter to vary")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", []float64{15, 30, 45, 60, 75, 90}, "parameter values, in user units")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search rocket parameters for the best metric",
		Example: "  rocketsim optimize --param water_volume_l=0.2:1.2:0.1 --metric max_altitude\n" +
			"  rocketsim optimize --param launch_angle_deg=20:70:5 --metric range",
		RunE: optimize,
	}
	optimizeCmd.Flags().StringArrayVar(&gridParams, "param", nil, "name=from:to:step, repeatable")
	optimizeCmd.Flags().StringVarP(&metricName, "metric", "m", "max_altitude", "metric to optimize")
	optimizeCmd.Flags().BoolVar(&minimize, "minimize", false, "look for the smallest value")
	if err := optimizeCmd.MarkFlagRequired("param"); err != nil {
		panic(err)
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "phase timeline, apex and trajectory portrait",
		RunE:  analyze,
	}
	analyzeCmd.Flags().BoolVar(&phasePlane, "phase-plane", false, "also draw vertical velocity against altitude")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time full flights at several step sizes",
		RunE:  bench,
	}
	benchCmd.Flags().IntVarP(&benchRuns, "runs", "n", 5, "flights per step size")

	rootCmd.AddCommand(runCmd, liveCmd, presetsCmd, csvCmd, jsonCmd, compareCmd, sweepCmd, optimizeCmd, analyzeCmd, benchCmd)
	return rootCmd
}

func runFlight(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if saveFile != "" {
		if err := config.Save(saveFile, cfg); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s\n", saveFile)
	}

	exp := experiment.New(cfg)
	start := time.Now()
	res, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	rows := [][2]string{
		{"integrator", cfg.Integrator},
		{"air model", cfg.AirModel},
		{"dt", fmt.Sprintf("%gs", cfg.Dt)},
		{"steps", strconv.Itoa(res.Steps)},
		{"wall time", elapsed.Round(time.Microsecond).String()},
	}
	for _, name := range metrics.Names() {
		rows = append(rows, [2]string{name, fmt.Sprintf("%.3f", res.Metrics[name])})
	}
	title := "flight"
	if cfg.Name != "" {
		title = cfg.Name
	}
	fmt.Print(tui.Summary(title, rows))

	if plot {
		plotHistory(res.History)
	}
	return nil
}

func plotHistory(history []flight.Snapshot) {
	if len(history) < 2 {
		return
	}
	alt := make([]float64, len(history))
	speed := make([]float64, len(history))
	for i, s := range history {
		alt[i] = s.Position.Y
		speed[i] = s.Speed()
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(alt,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption("altitude (m) vs sample"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(speed,
		asciigraph.Height(8),
		asciigraph.Width(72),
		asciigraph.Caption("speed (m/s) vs sample"),
	))
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := tui.NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPSI\tWATER\tDRY MASS\tCD\tNOZZLE\tANGLE")
	for _, name := range config.ListPresets() {
		r := config.GetPreset(name).Rocket
		fmt.Fprintf(w, "%s\t%.0f\t%.2fL\t%.0fg\t%.2f\t%.1fcm²\t%.0f°\n",
			name, r.PressurePSI, r.WaterVolumeL, r.DryMassG, r.DragCoeff, r.NozzleAreaCm2, r.LaunchAngleDeg)
	}
	return w.Flush()
}

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	res, err := experiment.New(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}
	return withOutput(func(f *os.File) error {
		return export.WriteCSV(f, res.History)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	res, err := experiment.New(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}
	meta := export.Meta{
		Name:       cfg.Name,
		Integrator: cfg.Integrator,
		AirModel:   cfg.AirModel,
		Dt:         cfg.Dt,
		Rocket:     cfg.Rocket,
	}
	return withOutput(func(f *os.File) error {
		return export.WriteJSON(f, meta, res)
	})
}

func withOutput(write func(f *os.File) error) error {
	if outFile == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outFile)
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = experiment.NewRegistry().ListIntegrators()
	}
	summaries, err := experiment.Compare(cmd.Context(), cfg, names)
	if err != nil {
		return err
	}
	fmt.Printf("comparing integrators (dt=%g)\n\n", cfg.Dt)
	return printSummaries("INTEGRATOR", summaries)
}

func sweepValuesCmd(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("param") && !cmd.Flags().Changed("values") {
		return fmt.Errorf("--values is required with --param")
	}

	var summaries []experiment.Summary
	if sweepParam == "launch_angle_deg" {
		summaries, err = experiment.Sweep(cmd.Context(), cfg, sweepValues)
	} else {
		summaries, err = experiment.SweepParam(cmd.Context(), cfg, sweepParam, sweepValues)
	}
	if err != nil {
		return err
	}
	fmt.Printf("sweeping %s (%s)\n\n", sweepParam, cfg.Integrator)
	return printSummaries(strings.ToUpper(sweepParam), summaries)
}

func printSummaries(label string, summaries []experiment.Summary) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tAPEX\tRANGE\tMAX SPEED\tBURNOUT\tFLIGHT TIME\tSTEPS\n", label)
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%.2fm\t%.2fm\t%.2fm/s\t%.3fs\t%.2fs\t%d\n",
			s.Label,
			s.Metrics["max_altitude"],
			s.Metrics["range"],
			s.Metrics["max_speed"],
			s.Metrics["burnout_time"],
			s.Metrics["flight_time"],
			s.Steps,
		)
	}
	return w.Flush()
}

func optimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(gridParams))
	ranges := make([][]float64, 0, len(gridParams))
	for _, arg := range gridParams {
		name, values, err := parseGridParam(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	gs := optim.NewGridSearch(names, ranges)
	if minimize {
		gs.Minimize()
	}

	start := time.Now()
	out, err := gs.Search(cmd.Context(), cfg, metricName)
	if err != nil {
		return err
	}

	feasible := 0
	for _, p := range out.Points {
		if p.Feasible {
			feasible++
		}
	}

	rows := [][2]string{
		{"metric", metricName},
		{"best", fmt.Sprintf("%.3f", out.Best.Value)},
		{"evaluated", fmt.Sprintf("%d (%d feasible)", len(out.Points), feasible)},
		{"elapsed", time.Since(start).Round(time.Millisecond).String()},
	}
	keys := make([]string, 0, len(out.Best.Params))
	for k := range out.Best.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, [2]string{k, strconv.FormatFloat(out.Best.Params[k], 'g', 6, 64)})
	}
	if err := printPoints(names, out.Points); err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(tui.Summary("grid search", rows))
	return nil
}

// printPoints lists every evaluated combination in grid order.
func printPoints(names []string, points []optim.Point) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, p := range points {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", p.Params[n])
		}
		if p.Feasible {
			fmt.Fprintf(w, "%.3f\n", p.Value)
		} else {
			fmt.Fprintln(w, "infeasible")
		}
	}
	return w.Flush()
}

// parseGridParam reads name=from:to:step, or name=value for a single value.
func parseGridParam(s string) (string, []float64, error) {
	name, rng, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid --param %q, want name=from:to:step", s)
	}
	parts := strings.Split(rng, ":")
	nums := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid --param %q: %w", s, err)
		}
		nums[i] = v
	}
	switch len(nums) {
	case 1:
		return name, nums, nil
	case 3:
		if nums[2] <= 0 || nums[1] < nums[0] {
			return "", nil, fmt.Errorf("invalid --param %q: need from <= to and step > 0", s)
		}
		return name, optim.Steps(nums[0], nums[1], nums[2]), nil
	default:
		return "", nil, fmt.Errorf("invalid --param %q, want name=from:to:step", s)
	}
}

func analyze(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	f, err := experiment.New(cfg).Build()
	if err != nil {
		return err
	}
	tl := analysis.Attach(f)
	re := analysis.AttachRocketEquation(f)
	res, err := f.Run(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHASE\tSTART\tEND\tDURATION")
	for _, s := range tl.Spans() {
		fmt.Fprintf(w, "%s\t%.3fs\t%.3fs\t%.3fs\n", s.Phase, s.Start, s.End, s.Duration())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if apex, ok := tl.Apex(); ok {
		fmt.Printf("\napex %.2fm at t=%.3fs, %.2fm downrange\n", apex.Altitude, apex.Time, apex.Range)
	}
	if b, ok := re.Burnout(); ok && b.Simulated > 0 {
		fmt.Printf("burnout at t=%.3fs: %.2fm/s simulated, %.2fm/s rocket equation (u_e %.1fm/s, %+.1f%%)\n",
			b.Time, b.Simulated, b.Estimate, re.ExhaustVelocity(), re.RelativeError()*100)
	}

	fmt.Println()
	fmt.Print(analysis.Trajectory(res.History).Render(72, 18))
	if phasePlane {
		fmt.Println()
		fmt.Print(analysis.PhasePlane(res.History).Render(72, 14))
	}
	return nil
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if benchRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}

	fmt.Printf("benchmarking %s\n\n", cfg.Integrator)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tAPEX\tTIME/FLIGHT\tSTEPS/SEC")

	for _, step := range []float64{0.02, 0.01, 0.005, 0.001} {
		c := cfg.Clone()
		c.Dt = step

		var res *flight.Result
		start := time.Now()
		for range benchRuns {
			res, err = experiment.New(c).Run(cmd.Context())
			if err != nil {
				return err
			}
		}
		per := time.Since(start) / time.Duration(benchRuns)

		fmt.Fprintf(w, "%.3fs\t%d\t%.3fm\t%v\t%.0f\n",
			step, res.Steps, res.Metrics["max_altitude"], per, float64(res.Steps)/per.Seconds())
	}
	return w.Flush()
}
