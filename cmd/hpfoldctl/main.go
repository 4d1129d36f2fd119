package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"hpfold/internal/energy"
	"hpfold/internal/evo"
	"hpfold/internal/hp"
	"hpfold/internal/storage"
	hpapi "hpfold/pkg/hpfold"
)

const (
	benchmarksDir = "benchmarks"
	exportsDir    = "exports"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "show":
		return runShow(ctx, args[1:])
	case "score":
		return runScore(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "diagnostics":
		return runDiagnostics(ctx, args[1:])
	case "render":
		return runRender(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	case "operators":
		return runOperators(ctx, args[1:])
	case "samples":
		return runSamples(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

// newLogger writes text to a terminal and JSON otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func newClient(storeKind, dbPath, samplesPath string, logger *slog.Logger) (*hpapi.Client, error) {
	return hpapi.New(hpapi.Options{
		StoreKind:     storeKind,
		DBPath:        dbPath,
		BenchmarksDir: benchmarksDir,
		ExportsDir:    exportsDir,
		SamplesPath:   samplesPath,
		Logger:        logger,
	})
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "optional run config JSON path")
	sequence := fs.String("seq", "", "HP string, protein sequence, or 1-based line number in the samples file")
	samplesPath := fs.String("samples", hp.DefaultSamplesPath, "samples file used for numeric --seq")
	runID := fs.String("run-id", "", "explicit run id (optional)")
	continuePopID := fs.String("continue-pop-id", "", "seed the initial population from a stored population id")
	energyName := fs.String("energy", "custodio", "energy function: berger|custodio")
	w1 := fs.Float64("w1", energy.DefaultWeights.HH, "custodio weight for HH contacts")
	w2 := fs.Float64("w2", energy.DefaultWeights.HP, "custodio weight for HP contacts")
	w3 := fs.Float64("w3", energy.DefaultWeights.HS, "custodio weight for H-solvent contacts")
	population := fs.Int("pop", hpapi.DefaultPopulationSize, "population size")
	generations := fs.Int("gens", hpapi.DefaultGenerations, "generation limit (0 scores the initial population only)")
	epsilon := fs.Float64("eps", hpapi.DefaultEpsilon, "stop when mean fitness changes by less than eps (0 disables)")
	seed := fs.Int64("seed", 0, "rng seed (0 seeds from the clock)")
	workers := fs.Int("workers", 1, "fitness evaluation workers")
	selectionName := fs.String("selection", hpapi.DefaultSelection, "parent selection operator")
	tournamentSize := fs.Int("tournament-size", evo.DefaultTournamentSize, "tournament size K")
	crossoverName := fs.String("crossover", hpapi.DefaultCrossover, "crossover operator: one_point|two_point")
	mutationName := fs.String("mutation", hpapi.DefaultMutation, "mutation operator")
	maxOffspring := fs.Int("max-offspring-attempts", 0, "crossover attempts per generation (0 uses 100*pop)")
	logGenerations := fs.Bool("log", false, "log mean fitness per generation")
	logEvery := fs.Int("log-every", evo.DefaultLogEvery, "generation logging cadence")
	plot := fs.Bool("plot", false, "write lattice.png and fitness.png into the run directory")
	verbose := fs.Bool("verbose", false, "debug logging")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})
	if *sequence == "" && fs.NArg() > 0 {
		*sequence = fs.Arg(0)
		setFlags["seq"] = true
	}
	explicitWeights := setFlags["w1"] || setFlags["w2"] || setFlags["w3"]

	req, err := loadOrDefaultRunRequest(*configPath)
	if err != nil {
		return err
	}
	flagValues := map[string]any{
		"seq":                    *sequence,
		"run-id":                 *runID,
		"continue-pop-id":        *continuePopID,
		"energy":                 *energyName,
		"w1":                     *w1,
		"w2":                     *w2,
		"w3":                     *w3,
		"pop":                    *population,
		"gens":                   *generations,
		"eps":                    *epsilon,
		"seed":                   *seed,
		"workers":                *workers,
		"selection":              *selectionName,
		"tournament-size":        *tournamentSize,
		"crossover":              *crossoverName,
		"mutation":               *mutationName,
		"max-offspring-attempts": *maxOffspring,
		"log":                    *logGenerations,
		"log-every":              *logEvery,
		"plot":                   *plot,
	}
	if *configPath == "" {
		// Without a config every flag applies, defaults included. Weights
		// stay opt-in so the berger scorer can run without them.
		for name := range flagValues {
			switch name {
			case "w1", "w2", "w3":
				if !explicitWeights {
					continue
				}
			}
			setFlags[name] = true
		}
	}
	if err := overrideFromFlags(&req, setFlags, flagValues); err != nil {
		return err
	}
	if req.Sequence == "" {
		return errors.New("run requires --seq or a sequence argument")
	}

	client, err := newClient(*storeKind, *dbPath, *samplesPath, newLogger(os.Stderr, *verbose))
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	started := time.Now()
	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("run completed run_id=%s population_id=%s energy=%s seed=%d\n", summary.RunID, summary.PopulationID, summary.Energy, summary.Seed)
	fmt.Printf("sequence=%s\n", summary.Sequence)
	fmt.Printf("fold=%s fitness=%.4f\n", summary.Best.Fold, summary.Best.Fitness)
	fmt.Printf("generations=%d converged=%t evaluations=%s elapsed=%s\n",
		summary.GenerationsRun,
		summary.Converged,
		humanize.Comma(int64(summary.Evaluations)),
		time.Since(started).Round(time.Millisecond),
	)
	if summary.LatticePlot != "" {
		fmt.Printf("lattice_plot=%s fitness_plot=%s\n", summary.LatticePlot, summary.FitnessPlot)
	}
	fmt.Printf("artifacts_dir=%s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(storage.DefaultStoreKind(), storage.DefaultDBPath, "", nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, hpapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		return writeJSON(items)
	}

	for _, item := range items {
		age := item.CreatedAtUTC
		if created, err := time.Parse(time.RFC3339Nano, item.CreatedAtUTC); err == nil {
			age = humanize.Time(created)
		}
		fmt.Printf("run_id=%s created=%q energy=%s seed=%d pop=%d gens=%d/%d converged=%t fitness=%.4f fold=%s\n",
			item.RunID,
			age,
			item.Energy,
			item.Seed,
			item.Population,
			item.GenerationsRun,
			item.Generations,
			item.Converged,
			item.FinalBestFitness,
			item.Fold,
		)
	}
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show the most recent run from run index")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "", nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	shown, err := client.Show(ctx, hpapi.ShowRequest{RunID: *runID, Latest: *latest})
	if err != nil {
		return err
	}
	fmt.Printf("run_id=%s energy=%s fitness=%.4f\n", shown.Run.ID, shown.Run.Energy, shown.Run.Fitness)
	fmt.Printf("protein=%s\n", shown.Run.Protein)
	fmt.Printf("sequence=%s\n", shown.Run.Sequence)
	fmt.Printf("fold=%s\n", shown.Run.Fold)
	fmt.Printf("contacts hh=%d hp=%d hs=%d\n", shown.Contacts.HH, shown.Contacts.HP, shown.Contacts.HS)
	fmt.Print(shown.Rendering)
	return nil
}

func runScore(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	sequence := fs.String("seq", "", "HP string, protein sequence, or 1-based line number in the samples file")
	fold := fs.String("fold", "", "fold string over -, L, R, F")
	samplesPath := fs.String("samples", hp.DefaultSamplesPath, "samples file used for numeric --seq")
	energyName := fs.String("energy", "custodio", "energy function: berger|custodio")
	w1 := fs.Float64("w1", energy.DefaultWeights.HH, "custodio weight for HH contacts")
	w2 := fs.Float64("w2", energy.DefaultWeights.HP, "custodio weight for HP contacts")
	w3 := fs.Float64("w3", energy.DefaultWeights.HS, "custodio weight for H-solvent contacts")
	jsonOut := fs.Bool("json", false, "emit the score as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sequence == "" || *fold == "" {
		return errors.New("score requires --seq and --fold")
	}

	client, err := newClient(storage.DefaultStoreKind(), storage.DefaultDBPath, *samplesPath, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := hpapi.ScoreRequest{Sequence: *sequence, Fold: *fold, Energy: *energyName}
	if kind, err := energy.ParseKind(*energyName); err == nil && kind == energy.Custodio {
		req.Weights = &energy.Weights{HH: *w1, HP: *w2, HS: *w3}
	}
	result, err := client.Score(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		return writeJSON(result)
	}
	fmt.Printf("energy=%s fitness=%.4f self_avoiding=%t\n", result.Energy, result.Fitness, result.SelfAvoiding)
	fmt.Printf("contacts hh=%d hp=%d hs=%d\n", result.Contacts.HH, result.Contacts.HP, result.Contacts.HS)
	fmt.Print(result.Rendering)
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show fitness history for the most recent run from run index")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit fitness history as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("fitness requires --run-id or --latest")
	}
	if *limit < 0 {
		*limit = 0
	}

	client, err := newClient(*storeKind, *dbPath, "", nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, hpapi.FitnessHistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no fitness history")
		return nil
	}
	if *jsonOut {
		return writeJSON(history)
	}

	for i, mean := range history {
		fmt.Printf("generation=%d mean_fitness=%.6f\n", i, mean)
	}
	return nil
}

func runDiagnostics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diagnostics", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show diagnostics for the most recent run from run index")
	limit := fs.Int("limit", 50, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit diagnostics as JSON")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("diagnostics requires --run-id or --latest")
	}
	if *limit < 0 {
		*limit = 0
	}

	client, err := newClient(*storeKind, *dbPath, "", nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	diagnostics, err := client.Diagnostics(ctx, hpapi.DiagnosticsRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if len(diagnostics) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	if *jsonOut {
		return writeJSON(diagnostics)
	}

	for _, d := range diagnostics {
		fmt.Printf("generation=%d best=%.4f mean=%.4f worst=%.4f population=%d candidates=%d crossovers=%d capped=%t evaluations=%s\n",
			d.Generation,
			d.BestFitness,
			d.MeanFitness,
			d.WorstFitness,
			d.PopulationSize,
			d.Candidates,
			d.CrossoverCalls,
			d.OffspringCapped,
			humanize.Comma(int64(d.Evaluations)),
		)
	}
	return nil
}

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "render the most recent run from run index")
	sequence := fs.String("seq", "", "sequence to render with --fold")
	fold := fs.String("fold", "", "render this fold instead of a stored run")
	samplesPath := fs.String("samples", hp.DefaultSamplesPath, "samples file used for numeric --seq")
	energyName := fs.String("energy", "custodio", "energy function used for the title")
	out := fs.String("out", "", "output PNG path (default: the run directory or ./lattice.png)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", storage.DefaultDBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *fold == "" && *runID == "" && !*latest {
		return errors.New("render requires --run-id, --latest, or --seq with --fold")
	}

	client, err := newClient(*storeKind, *dbPath, *samplesPath, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	path, err := client.Render(ctx, hpapi.RenderRequest{
		RunID:    *runID,
		Latest:   *latest,
		Sequence: *sequence,
		Fold:     *fold,
		Energy:   *energyName,
		OutPath:  *out,
	})
	if err != nil {
		return err
	}
	fmt.Printf("rendered to=%s\n", filepath.Clean(path))
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run from run index")
	outDir := fs.String("out", exportsDir, "export output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID != "" && *latest {
		return errors.New("use either --run-id or --latest, not both")
	}
	if *runID == "" && !*latest {
		return errors.New("export requires --run-id or --latest")
	}

	client, err := newClient(storage.DefaultStoreKind(), storage.DefaultDBPath, "", nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, hpapi.ExportRequest{RunID: *runID, Latest: *latest, OutDir: *outDir})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s to=%s\n", exported.RunID, exported.Directory)
	return nil
}

func runOperators(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("operators", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range evo.ListOperators() {
		fmt.Println(name)
	}
	return nil
}

func runSamples(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("samples", flag.ContinueOnError)
	samplesPath := fs.String("samples", hp.DefaultSamplesPath, "samples file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	samples, err := hp.LoadSamples(*samplesPath)
	if err != nil {
		return err
	}
	for i, protein := range samples {
		seq, err := hp.ParseSequence(protein)
		if err != nil {
			seq, err = hp.FromProtein(protein)
		}
		if err != nil {
			return fmt.Errorf("sample %d: %w", i+1, err)
		}
		fmt.Printf("%d length=%d hydrophobic=%d %s\n", i+1, seq.Len(), seq.CountHydrophobic(), protein)
	}
	return nil
}

func writeJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: hpfoldctl <run|runs|show|score|fitness|diagnostics|render|export|operators|samples> [flags]", msg)
}
