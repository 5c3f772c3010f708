package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spinlab/internal/config"
	"github.com/san-kum/spinlab/internal/dataset"
	"github.com/san-kum/spinlab/internal/ising"
	"github.com/san-kum/spinlab/internal/lattice"
	"github.com/san-kum/spinlab/internal/mc"
	"github.com/san-kum/spinlab/internal/meanfield"
	"github.com/san-kum/spinlab/internal/storage"
	"github.com/san-kum/spinlab/internal/sweep"
	"github.com/san-kum/spinlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	rows       int
	cols       int
	sampler    string
	topology   string
	steps      int
	maxTc      float64
	tStep      float64
	seed       int64
	fixedSeed  bool
	workers    int
	coupling   float64
	boltzmann  float64
	coordNum   int
	temp       float64
	configFile string
	preset     string
	// dataset generation
	halfCount int
	outDir    string
	// mean-field solve
	initM          float64
	iters          int
	selfConsistent bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spinlab",
		Short: "Ising model Monte Carlo lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".spinlab", "data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the temperature axis and record average spin",
		RunE:  runSweep,
	}
	addLatticeFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&maxTc, "max-tc", 4.0, "sweep upper bound in units of Tc")
	sweepCmd.Flags().Float64Var(&tStep, "t-step", 0.005, "temperature increment")
	sweepCmd.Flags().BoolVar(&fixedSeed, "fixed-seed", false, "reseed every point and run both ordered starts")
	sweepCmd.Flags().IntVar(&workers, "workers", 1, "parallel sweep workers")
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "relax a single lattice at one temperature",
		RunE:  runRelax,
	}
	addLatticeFlags(runCmd)
	runCmd.Flags().Float64Var(&temp, "temp", 0.1, "temperature")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "mean-field magnetization by gradient descent",
		RunE:  runSolve,
	}
	solveCmd.Flags().Float64Var(&maxTc, "max-tc", 3.0, "sweep upper bound in units of Tc")
	solveCmd.Flags().Float64Var(&tStep, "t-step", 0.002, "temperature increment")
	solveCmd.Flags().Float64Var(&initM, "init-m", 1e-2, "descent starting magnetization")
	solveCmd.Flags().IntVar(&iters, "iters", 0, "descent iterations (0 for default)")
	solveCmd.Flags().BoolVar(&selfConsistent, "self-consistent", false, "solve m = tanh(Tc/T m) instead of minimizing free energy")

	datasetCmd := &cobra.Command{
		Use:   "dataset",
		Short: "generate labelled spin configurations for phase classification",
		RunE:  runDataset,
	}
	addLatticeFlags(datasetCmd)
	datasetCmd.Flags().IntVar(&halfCount, "half-count", 10, "samples per phase per split")
	datasetCmd.Flags().StringVar(&outDir, "out", "dataset", "output directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the magnetization curve of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a lattice relax interactively",
		RunE:  runLive,
	}
	addLatticeFlags(liveCmd)
	liveCmd.Flags().Float64Var(&temp, "temp", 0.1, "temperature")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available sweep presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(sweepCmd, runCmd, solveCmd, datasetCmd, listCmd, plotCmd, exportJSONCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLatticeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rows, "rows", 20, "lattice rows")
	cmd.Flags().IntVar(&cols, "cols", 20, "lattice columns")
	cmd.Flags().StringVar(&sampler, "sampler", "metropolis", "update rule (metropolis, heatbath)")
	cmd.Flags().StringVar(&topology, "topology", "square", "lattice topology (heat-bath only)")
	cmd.Flags().IntVar(&steps, "steps", 100000, "update steps per point")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&coupling, "j", 1.0, "exchange coupling J")
	cmd.Flags().Float64Var(&boltzmann, "kb", 1.0, "Boltzmann constant")
	cmd.Flags().IntVar(&coordNum, "z", 1, "coordination number")
}

// sweepConfig resolves the effective sweep configuration: preset values
// first, then the config file, then any flag the user changed.
func sweepConfig(cmd *cobra.Command) (sweep.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return sweep.Config{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return sweep.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("sampler") {
		cfg.Sampler = sampler
	}
	if flags.Changed("topology") {
		cfg.Topology = topology
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("max-tc") {
		cfg.MaxTc = maxTc
	}
	if flags.Changed("t-step") {
		cfg.TStep = tStep
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if flags.Changed("fixed-seed") {
		cfg.FixedSeed = fixedSeed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("j") {
		cfg.Params.J = coupling
	}
	if flags.Changed("kb") {
		cfg.Params.Kb = boltzmann
	}
	if flags.Changed("z") {
		cfg.Params.Z = coordNum
	}
	return cfg.SweepConfig(), nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := sweepConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	total := len(sweep.Temperatures(cfg))
	fmt.Printf("sweeping %d temperatures (%s, %s, %dx%d, %d steps)...\n",
		total, cfg.Sampler, cfg.Topology, cfg.Rows, cfg.Cols, cfg.Steps)
	start := time.Now()

	done := 0
	result, err := sweep.RunWithCallback(ctx, cfg, func(p sweep.Point) {
		done++
		if done%50 == 0 || done == total {
			fmt.Printf("  %d/%d points\n", done, total)
		}
	})
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	if cat, err := openCatalog(ctx); err == nil {
		meta, loadErr := st.Load(runID)
		if loadErr == nil {
			if recErr := cat.Record(ctx, *meta); recErr != nil {
				fmt.Fprintf(os.Stderr, "warning: catalog update failed: %v\n", recErr)
			}
		}
		cat.Close()
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("points: %d\n", len(result.Points))
	fmt.Println()
	printCurve(result.Points)
	return nil
}

func runRelax(cmd *cobra.Command, args []string) error {
	state, err := lattice.New[bool](rows, cols, seed)
	if err != nil {
		return err
	}

	params := ising.DefaultParams()
	params.J, params.Kb, params.Z, params.T = coupling, boltzmann, coordNum, temp
	model := ising.New(params, seed+1)

	s, err := buildSampler(model, seed+2)
	if err != nil {
		return err
	}

	state.InitRand(lattice.UniformBool())
	fmt.Printf("initial: energy %.2f, <s> %+.4f\n", model.Energy(state), ising.AverageSpin(state))

	// sample the trajectory at ~80 points for the chart
	chunk := steps / 80
	if chunk < 1 {
		chunk = 1
	}
	trajectory := []float64{ising.AverageSpin(state)}

	start := time.Now()
	for remaining := steps; remaining > 0; remaining -= chunk {
		n := chunk
		if n > remaining {
			n = remaining
		}
		s.Optimize(state, n)
		trajectory = append(trajectory, ising.AverageSpin(state))
	}
	elapsed := time.Since(start)

	fmt.Printf("relaxed: energy %.2f, <s> %+.4f\n", model.Energy(state), ising.AverageSpin(state))
	fmt.Printf("%d steps in %v (T/Tc = %.4f)\n\n", steps, elapsed, temp/model.Tc())
	fmt.Println(asciigraph.Plot(trajectory,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("<s> vs steps"),
	))
	return nil
}

func runSolve(cmd *cobra.Command, args []string) error {
	model := ising.New(ising.DefaultParams(), seed)
	cfg := meanfield.Config{InitM: initM, MaxTc: maxTc, TStep: tStep, MaxIters: iters}

	var points []meanfield.Point
	if selfConsistent {
		points = meanfield.SolveSelfConsistent(model, cfg)
	} else {
		points = meanfield.SolveFreeEnergy(model, cfg)
	}

	curve := make([]float64, len(points))
	for i, p := range points {
		curve[i] = p.SGD
	}
	fmt.Println(asciigraph.Plot(curve,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("m vs T/Tc (sgd)"),
	))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T/TC\tSGD\tMOMENTUM\tADAGRAD")
	for i, p := range points {
		// every tenth row keeps the table readable
		if i%10 != 0 && i != len(points)-1 {
			continue
		}
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.4f\n", p.ReducedT, p.SGD, p.Momentum, p.AdaGrad)
	}
	return w.Flush()
}

func runDataset(cmd *cobra.Command, args []string) error {
	topo, err := mc.ParseTopology(topology)
	if err != nil {
		return err
	}

	params := ising.DefaultParams()
	params.J, params.Kb, params.Z = coupling, boltzmann, coordNum

	cfg := dataset.Config{
		Rows: rows, Cols: cols,
		Topology:  topo,
		HalfCount: halfCount,
		Steps:     steps,
		Seed:      seed,
		Params:    params,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("generating %d configurations (%dx%d, %d heat-bath steps each)...\n",
		4*halfCount, rows, cols, steps)
	start := time.Now()

	set, err := dataset.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	if err := set.Save(outDir); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("wrote %d train and %d test samples to %s\n", len(set.Train), len(set.Test), outDir)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var runs []storage.RunMetadata
	if cat, err := openCatalog(ctx); err == nil {
		runs, err = cat.Runs(ctx)
		cat.Close()
		if err != nil {
			return err
		}
	}
	if len(runs) == 0 {
		st := storage.New(dataDir)
		var err error
		runs, err = st.List()
		if err != nil {
			return err
		}
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSAMPLER\tTOPOLOGY\tSIZE\tSTEPS\tPOINTS\tTIME")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\t%s\n",
			run.ID,
			run.Sampler,
			run.Topology,
			run.Rows, run.Cols,
			run.Steps,
			run.Points,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	points, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("sampler: %s (%s)\n", meta.Sampler, meta.Topology)
	fmt.Printf("samples: %d\n\n", len(points))

	printCurve(points)

	if meta.FixedSeed {
		down := make([]float64, len(points))
		for i, p := range points {
			down[i] = p.AverageSpinDown
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(down,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("<s> vs T/Tc (all-down start)"),
		))
	}
	return nil
}

func printCurve(points []sweep.Point) {
	up := make([]float64, len(points))
	for i, p := range points {
		up[i] = p.AverageSpin
	}
	fmt.Println(asciigraph.Plot(up,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("<s> vs T/Tc"),
	))
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	points, err := st.LoadPoints(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, points)
}

func runLive(cmd *cobra.Command, args []string) error {
	state, err := lattice.New[bool](rows, cols, seed)
	if err != nil {
		return err
	}

	params := ising.DefaultParams()
	params.J, params.Kb, params.Z, params.T = coupling, boltzmann, coordNum, temp
	model := ising.New(params, seed+1)

	s, err := buildSampler(model, seed+2)
	if err != nil {
		return err
	}

	return viz.Run(viz.NewModel(state, model, s, sampler, seed))
}

func buildSampler(model *ising.Model, samplerSeed int64) (mc.Sampler, error) {
	switch sampler {
	case sweep.SamplerMetropolis:
		return mc.NewMetropolis(model), nil
	case sweep.SamplerHeatBath:
		topo, err := mc.ParseTopology(topology)
		if err != nil {
			return nil, err
		}
		return mc.NewHeatBath(model, topo, samplerSeed), nil
	default:
		return nil, fmt.Errorf("%w: %s (available: %v)", sweep.ErrUnknownSampler, sampler, sweep.Samplers())
	}
}

func openCatalog(ctx context.Context) (*storage.Catalog, error) {
	cat := storage.NewCatalog(filepath.Join(dataDir, "catalog.db"))
	if err := cat.Init(ctx); err != nil {
		return nil, err
	}
	return cat, nil
}
