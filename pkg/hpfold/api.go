package hpfold

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"hpfold/internal/energy"
	"hpfold/internal/evo"
	"hpfold/internal/hp"
	"hpfold/internal/lattice"
	"hpfold/internal/model"
	"hpfold/internal/stats"
	"hpfold/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultExportsDir    = "exports"

	DefaultPopulationSize = 1000
	DefaultGenerations    = 500
	DefaultEpsilon        = 1e-5
	DefaultSelection      = "tournament"
	DefaultCrossover      = "two_point"
	DefaultMutation       = "uniform"
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
	ExportsDir    string
	SamplesPath   string
	Logger        *slog.Logger
	// Now is used for run timestamps and clock seeds.
	Now func() time.Time
}

type Client struct {
	store storage.Store

	initOnce sync.Once
	initErr  error

	benchmarksDir string
	exportsDir    string
	samplesPath   string
	logger        *slog.Logger
	now           func() time.Time
}

type RunRequest struct {
	// Sequence is an H/P string, an amino-acid string, or a 1-based line
	// number in the samples file.
	Sequence             string
	RunID                string
	ContinuePopulationID string
	Energy               string
	// Weights applies to the custodio scorer; nil means the defaults.
	Weights        *energy.Weights
	// PopulationSize of 0 means DefaultPopulationSize.
	PopulationSize int
	// Generations nil means DefaultGenerations; 0 scores the initial
	// population only.
	Generations *int
	// Epsilon nil means DefaultEpsilon; 0 disables convergence.
	Epsilon              *float64
	Seed                 int64
	Workers              int
	Selection            string
	TournamentSize       int
	Crossover            string
	Mutation             string
	MaxOffspringAttempts int
	Log                  bool
	LogEvery             int
	Plot                 bool
}

type RunSummary struct {
	RunID            string
	PopulationID     string
	ArtifactsDir     string
	Protein          string
	Sequence         string
	Energy           string
	Best             model.ScoredFold
	Seed             int64
	GenerationsRun   int
	Converged        bool
	Evaluations      int
	MeanByGeneration []float64
	BestByGeneration []float64
	LatticePlot      string
	FitnessPlot      string
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID            string
	CreatedAtUTC     string
	Protein          string
	Sequence         string
	Energy           string
	Seed             int64
	Population       int
	Generations      int
	GenerationsRun   int
	Fold             string
	FinalBestFitness float64
	Converged        bool
}

type ShowRequest struct {
	RunID  string
	Latest bool
}

type ShowResult struct {
	Run       model.RunRecord
	Contacts  energy.Contacts
	Path      lattice.Path
	Rendering string
}

type ScoreRequest struct {
	Sequence string
	Fold     string
	Energy   string
	Weights  *energy.Weights
}

type ScoreResult struct {
	Protein      string
	Sequence     string
	Fold         string
	Energy       string
	Fitness      float64
	SelfAvoiding bool
	Contacts     energy.Contacts
	Rendering    string
}

type FitnessHistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type DiagnosticsRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type RenderRequest struct {
	RunID  string
	Latest bool
	// Sequence and Fold render an arbitrary fold instead of a stored run.
	Sequence string
	Fold     string
	Energy   string
	OutPath  string
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	samplesPath := opts.SamplesPath
	if samplesPath == "" {
		samplesPath = hp.DefaultSamplesPath
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store, err := storage.NewStore(opts.StoreKind, opts.DBPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
		exportsDir:    exportsDir,
		samplesPath:   samplesPath,
		logger:        logger,
		now:           now,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) ensureStore(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.store.Init(ctx)
	})
	return c.initErr
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.PopulationSize < 0 {
		return RunSummary{}, errors.New("population size must be > 0")
	}
	if req.PopulationSize == 0 {
		req.PopulationSize = DefaultPopulationSize
	}
	generations := DefaultGenerations
	if req.Generations != nil {
		generations = *req.Generations
	}
	if generations < 0 {
		return RunSummary{}, errors.New("generations must be >= 0")
	}
	epsilon := DefaultEpsilon
	if req.Epsilon != nil {
		epsilon = *req.Epsilon
	}
	if req.Workers <= 0 {
		req.Workers = 1
	}
	if req.Selection == "" {
		req.Selection = DefaultSelection
	}
	if req.TournamentSize <= 0 {
		req.TournamentSize = evo.DefaultTournamentSize
	}
	if req.Crossover == "" {
		req.Crossover = DefaultCrossover
	}
	if req.Mutation == "" {
		req.Mutation = DefaultMutation
	}
	if req.Seed == 0 {
		req.Seed = c.now().UnixNano()
	}

	protein, seq, err := hp.ResolveSequence(req.Sequence, c.samplesPath)
	if err != nil {
		return RunSummary{}, err
	}
	kind, fitness, weights, err := fitnessFromRequest(req.Energy, req.Weights)
	if err != nil {
		return RunSummary{}, err
	}
	selector, err := evo.ResolveSelector(req.Selection, req.TournamentSize)
	if err != nil {
		return RunSummary{}, err
	}
	crossover, err := evo.ResolveRecombiner(req.Crossover)
	if err != nil {
		return RunSummary{}, err
	}
	mutation, err := evo.ResolveMutator(req.Mutation)
	if err != nil {
		return RunSummary{}, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return RunSummary{}, err
	}

	var initial []lattice.Fold
	if req.ContinuePopulationID != "" {
		initial, err = c.loadInitialFolds(ctx, req.ContinuePopulationID, seq)
		if err != nil {
			return RunSummary{}, err
		}
	}

	runID := req.RunID
	if runID == "" {
		runID = "run-" + uuid.NewString()
	}
	logger := c.logger.With(slog.String("run_id", runID))

	monitor, err := evo.NewPopulationMonitor(evo.MonitorConfig{
		Sequence:             seq,
		Fitness:              fitness,
		Selector:             selector,
		Mutation:             mutation,
		Crossover:            crossover,
		PopulationSize:       req.PopulationSize,
		Generations:          generations,
		Epsilon:              epsilon,
		Workers:              req.Workers,
		Seed:                 req.Seed,
		MaxOffspringAttempts: req.MaxOffspringAttempts,
		Initial:              initial,
		Log:                  req.Log,
		LogEvery:             req.LogEvery,
		Logger:               logger,
	})
	if err != nil {
		return RunSummary{}, err
	}

	logger.Debug("run started",
		slog.String("sequence", seq.String()),
		slog.String("energy", kind.String()),
		slog.Int("population_size", req.PopulationSize),
		slog.Int("generations", generations),
		slog.Int64("seed", req.Seed),
	)
	started := c.now()
	result, err := monitor.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}
	createdAt := c.now().UTC().Format(time.RFC3339Nano)

	history := stats.FitnessHistory{
		MeanByGeneration: result.MeanByGeneration,
		BestByGeneration: result.BestByGeneration,
		FinalBestFitness: result.Best.Fitness,
	}
	record := model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		Protein:         protein,
		Sequence:        seq.String(),
		Fold:            string(result.Best.Fold),
		Fitness:         result.Best.Fitness,
		Energy:          kind.String(),
		PopulationSize:  req.PopulationSize,
		Generations:     generations,
		GenerationsRun:  result.GenerationsRun,
		Epsilon:         epsilon,
		Seed:            req.Seed,
		Converged:       result.Converged,
		Evaluations:     result.Evaluations,
		CreatedAtUTC:    createdAt,
	}
	populationID := "pop-" + uuid.NewString()
	if err := c.persistRun(ctx, record, populationID, result); err != nil {
		return RunSummary{}, err
	}

	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:                runID,
			ContinuePopulationID: req.ContinuePopulationID,
			Protein:              protein,
			Sequence:             seq.String(),
			Energy:               kind.String(),
			W1:                   weights.HH,
			W2:                   weights.HP,
			W3:                   weights.HS,
			PopulationSize:       req.PopulationSize,
			Generations:          generations,
			Epsilon:              epsilon,
			Seed:                 req.Seed,
			Workers:              req.Workers,
			Selection:            selector.Name(),
			TournamentSize:       req.TournamentSize,
			Crossover:            crossover.Name(),
			Mutation:             mutation.Name(),
			Log:                  req.Log,
		},
		History:               history,
		GenerationDiagnostics: result.Diagnostics,
		FinalPopulation:       result.FinalPopulation,
		Summary:               stats.Summarize(runID, result.Best, history, result.GenerationsRun, result.Converged, result.Evaluations),
	})
	if err != nil {
		return RunSummary{}, err
	}

	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:            runID,
		Protein:          protein,
		Sequence:         seq.String(),
		Energy:           kind.String(),
		PopulationSize:   req.PopulationSize,
		Generations:      generations,
		GenerationsRun:   result.GenerationsRun,
		Seed:             req.Seed,
		Workers:          req.Workers,
		Fold:             string(result.Best.Fold),
		FinalBestFitness: result.Best.Fitness,
		Converged:        result.Converged,
		CreatedAtUTC:     createdAt,
	}); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:            runID,
		PopulationID:     populationID,
		ArtifactsDir:     filepath.Clean(runDir),
		Protein:          protein,
		Sequence:         seq.String(),
		Energy:           kind.String(),
		Best:             result.Best,
		Seed:             req.Seed,
		GenerationsRun:   result.GenerationsRun,
		Converged:        result.Converged,
		Evaluations:      result.Evaluations,
		MeanByGeneration: append([]float64(nil), result.MeanByGeneration...),
		BestByGeneration: append([]float64(nil), result.BestByGeneration...),
	}
	if req.Plot {
		summary.LatticePlot = stats.LatticePlotPath(runDir)
		if err := stats.RenderLattice(result.Best.Fold, seq, result.Best.Fitness, summary.LatticePlot); err != nil {
			return RunSummary{}, fmt.Errorf("render lattice: %w", err)
		}
		summary.FitnessPlot = stats.FitnessPlotPath(runDir)
		if err := stats.PlotFitnessHistory(history, seq.String(), summary.FitnessPlot); err != nil {
			return RunSummary{}, fmt.Errorf("plot fitness history: %w", err)
		}
	}

	logger.Info("run complete",
		slog.String("fold", string(result.Best.Fold)),
		slog.Float64("fitness", result.Best.Fitness),
		slog.Int("generations_run", result.GenerationsRun),
		slog.Bool("converged", result.Converged),
		slog.Int("evaluations", result.Evaluations),
		slog.Duration("elapsed", c.now().Sub(started)),
	)
	return summary, nil
}

func (c *Client) persistRun(ctx context.Context, record model.RunRecord, populationID string, result evo.RunResult) error {
	if err := c.store.SaveRun(ctx, record); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	if err := c.store.SavePopulation(ctx, model.Population{
		VersionedRecord: storage.CurrentVersion(),
		ID:              populationID,
		RunID:           record.ID,
		Sequence:        record.Sequence,
		Generation:      result.GenerationsRun,
		Members:         result.FinalPopulation,
	}); err != nil {
		return fmt.Errorf("save population: %w", err)
	}
	if err := c.store.SaveFitnessHistory(ctx, record.ID, result.MeanByGeneration); err != nil {
		return fmt.Errorf("save fitness history: %w", err)
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, record.ID, result.Diagnostics); err != nil {
		return fmt.Errorf("save generation diagnostics: %w", err)
	}
	return nil
}

func (c *Client) loadInitialFolds(ctx context.Context, populationID string, seq hp.Sequence) ([]lattice.Fold, error) {
	population, ok, err := c.store.GetPopulation(ctx, populationID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A run id continues from that run's final population on disk.
		population, ok, err = c.finalPopulationFromArtifacts(populationID)
		if err != nil {
			return nil, err
		}
	}
	if !ok {
		return nil, fmt.Errorf("population not found: %s", populationID)
	}
	if population.Sequence != seq.String() {
		return nil, fmt.Errorf("population %s was evolved for %s, not %s", populationID, population.Sequence, seq)
	}
	folds := make([]lattice.Fold, 0, len(population.Members))
	for _, member := range population.Members {
		fold, err := lattice.ParseFold(string(member.Fold))
		if err != nil {
			return nil, fmt.Errorf("population %s: %w", populationID, err)
		}
		folds = append(folds, fold)
	}
	return folds, nil
}

func (c *Client) finalPopulationFromArtifacts(runID string) (model.Population, bool, error) {
	cfg, ok, err := stats.ReadRunConfig(c.benchmarksDir, runID)
	if err != nil || !ok {
		return model.Population{}, false, err
	}
	members, ok, err := stats.ReadFinalPopulation(c.benchmarksDir, runID)
	if err != nil || !ok {
		return model.Population{}, false, err
	}
	return model.Population{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		RunID:           runID,
		Sequence:        cfg.Sequence,
		Members:         members,
	}, true, nil
}

// Runs lists runs newest first from the run index. When the index is empty
// the store is consulted, which keeps sqlite runs visible after the
// benchmarks directory is removed.
func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return c.runsFromStore(ctx, req.Limit)
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:            e.RunID,
			CreatedAtUTC:     e.CreatedAtUTC,
			Protein:          e.Protein,
			Sequence:         e.Sequence,
			Energy:           e.Energy,
			Seed:             e.Seed,
			Population:       e.PopulationSize,
			Generations:      e.Generations,
			GenerationsRun:   e.GenerationsRun,
			Fold:             e.Fold,
			FinalBestFitness: e.FinalBestFitness,
			Converged:        e.Converged,
		})
	}
	return out, nil
}

func (c *Client) runsFromStore(ctx context.Context, limit int) ([]RunItem, error) {
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	records, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) > limit {
		records = records[:limit]
	}
	out := make([]RunItem, 0, len(records))
	for _, r := range records {
		out = append(out, RunItem{
			RunID:            r.ID,
			CreatedAtUTC:     r.CreatedAtUTC,
			Protein:          r.Protein,
			Sequence:         r.Sequence,
			Energy:           r.Energy,
			Seed:             r.Seed,
			Population:       r.PopulationSize,
			Generations:      r.Generations,
			GenerationsRun:   r.GenerationsRun,
			Fold:             r.Fold,
			FinalBestFitness: r.Fitness,
			Converged:        r.Converged,
		})
	}
	return out, nil
}

// Show reloads a run and re-embeds its winning fold.
func (c *Client) Show(ctx context.Context, req ShowRequest) (ShowResult, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "show")
	if err != nil {
		return ShowResult{}, err
	}
	record, err := c.loadRun(ctx, runID)
	if err != nil {
		return ShowResult{}, err
	}

	fold, err := lattice.ParseFold(record.Fold)
	if err != nil {
		return ShowResult{}, err
	}
	seq, err := hp.ParseSequence(record.Sequence)
	if err != nil {
		return ShowResult{}, err
	}
	lat, path, err := lattice.Embed(fold, seq)
	if err != nil {
		return ShowResult{}, err
	}
	contacts, err := energy.CountContacts(fold, seq)
	if err != nil {
		return ShowResult{}, err
	}
	return ShowResult{
		Run:       record,
		Contacts:  contacts,
		Path:      path,
		Rendering: lattice.Render(lat, path),
	}, nil
}

// loadRun prefers the store and falls back to the run's artifact files, so
// runs made by other processes with the memory store remain visible.
func (c *Client) loadRun(ctx context.Context, runID string) (model.RunRecord, error) {
	if err := c.ensureStore(ctx); err != nil {
		return model.RunRecord{}, err
	}
	record, ok, err := c.store.GetRun(ctx, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if ok {
		return record, nil
	}

	cfg, ok, err := stats.ReadRunConfig(c.benchmarksDir, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run not found: %s", runID)
	}
	summary, ok, err := stats.ReadRunSummary(c.benchmarksDir, runID)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("run summary not found: %s", runID)
	}
	return model.RunRecord{
		VersionedRecord: storage.CurrentVersion(),
		ID:              runID,
		Protein:         cfg.Protein,
		Sequence:        cfg.Sequence,
		Fold:            summary.Fold,
		Fitness:         summary.FinalBest,
		Energy:          cfg.Energy,
		PopulationSize:  cfg.PopulationSize,
		Generations:     cfg.Generations,
		GenerationsRun:  summary.GenerationsRun,
		Epsilon:         cfg.Epsilon,
		Seed:            cfg.Seed,
		Converged:       summary.Converged,
		Evaluations:     summary.Evaluations,
	}, nil
}

// Score evaluates one fold without running the search. Folds that collide are
// scored too and reported with SelfAvoiding=false.
func (c *Client) Score(_ context.Context, req ScoreRequest) (ScoreResult, error) {
	protein, seq, err := hp.ResolveSequence(req.Sequence, c.samplesPath)
	if err != nil {
		return ScoreResult{}, err
	}
	fold, err := lattice.ParseFold(req.Fold)
	if err != nil {
		return ScoreResult{}, err
	}
	kind, fitness, _, err := fitnessFromRequest(req.Energy, req.Weights)
	if err != nil {
		return ScoreResult{}, err
	}

	lat, path, err := lattice.Embed(fold, seq)
	if err != nil {
		return ScoreResult{}, err
	}
	value, err := fitness(fold, seq)
	if err != nil {
		return ScoreResult{}, err
	}
	contacts, err := energy.CountContacts(fold, seq)
	if err != nil {
		return ScoreResult{}, err
	}
	return ScoreResult{
		Protein:      protein,
		Sequence:     seq.String(),
		Fold:         fold.String(),
		Energy:       kind.String(),
		Fitness:      value,
		SelfAvoiding: lat.SelfAvoiding(),
		Contacts:     contacts,
		Rendering:    lattice.Render(lat, path),
	}, nil
}

// FitnessHistory returns the population mean fitness per generation; index 0
// is the initial population.
func (c *Client) FitnessHistory(ctx context.Context, req FitnessHistoryRequest) ([]float64, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest, "fitness history")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		artifact, found, err := stats.ReadFitnessHistory(c.benchmarksDir, runID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
		}
		history = artifact.MeanByGeneration
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return append([]float64(nil), history...), nil
}

func (c *Client) Diagnostics(ctx context.Context, req DiagnosticsRequest) ([]model.GenerationDiagnostics, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	runID, err := c.resolveRunID(req.RunID, req.Latest, "diagnostics")
	if err != nil {
		return nil, err
	}

	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		diagnostics, ok, err = stats.ReadGenerationDiagnostics(c.benchmarksDir, runID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("diagnostics not found for run id: %s", runID)
		}
	}
	if req.Limit > 0 && len(diagnostics) > req.Limit {
		diagnostics = diagnostics[:req.Limit]
	}
	out := make([]model.GenerationDiagnostics, len(diagnostics))
	copy(out, diagnostics)
	return out, nil
}

// Render writes a lattice PNG for a stored run or for an explicit
// sequence/fold pair and returns the output path.
func (c *Client) Render(ctx context.Context, req RenderRequest) (string, error) {
	var (
		seq     hp.Sequence
		fold    lattice.Fold
		fitness float64
		outPath = req.OutPath
	)

	if req.Fold != "" {
		if req.RunID != "" || req.Latest {
			return "", errors.New("use either a fold or a run, not both")
		}
		_, resolved, err := hp.ResolveSequence(req.Sequence, c.samplesPath)
		if err != nil {
			return "", err
		}
		parsed, err := lattice.ParseFold(req.Fold)
		if err != nil {
			return "", err
		}
		_, score, _, err := fitnessFromRequest(req.Energy, nil)
		if err != nil {
			return "", err
		}
		value, err := score(parsed, resolved)
		if err != nil {
			return "", err
		}
		seq, fold, fitness = resolved, parsed, value
		if outPath == "" {
			outPath = "lattice.png"
		}
	} else {
		runID, err := c.resolveRunID(req.RunID, req.Latest, "render")
		if err != nil {
			return "", err
		}
		record, err := c.loadRun(ctx, runID)
		if err != nil {
			return "", err
		}
		if seq, err = hp.ParseSequence(record.Sequence); err != nil {
			return "", err
		}
		if fold, err = lattice.ParseFold(record.Fold); err != nil {
			return "", err
		}
		fitness = record.Fitness
		if outPath == "" {
			outPath = stats.LatticePlotPath(filepath.Join(c.benchmarksDir, runID))
		}
	}

	if err := stats.RenderLattice(fold, seq, fitness, outPath); err != nil {
		return "", err
	}
	return outPath, nil
}

func (c *Client) Export(_ context.Context, req ExportRequest) (ExportSummary, error) {
	runID, err := c.resolveRunID(req.RunID, req.Latest, "export")
	if err != nil {
		return ExportSummary{}, err
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	exportedDir, err := stats.ExportRunArtifacts(c.benchmarksDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(runID string, latest bool, what string) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if latest {
		return stats.LatestRunID(c.benchmarksDir)
	}
	if runID == "" {
		return "", fmt.Errorf("%s requires run id or latest", what)
	}
	return runID, nil
}

func fitnessFromRequest(name string, weights *energy.Weights) (energy.Kind, energy.Function, energy.Weights, error) {
	kind, err := energy.ParseKind(name)
	if err != nil {
		return 0, nil, energy.Weights{}, err
	}
	if kind != energy.Custodio {
		if weights != nil {
			return 0, nil, energy.Weights{}, fmt.Errorf("weights apply only to the %s scorer", energy.Custodio)
		}
		return kind, kind.Function(), energy.Weights{}, nil
	}
	w := energy.DefaultWeights
	if weights != nil {
		w = *weights
	}
	return kind, w.Function(), w, nil
}
