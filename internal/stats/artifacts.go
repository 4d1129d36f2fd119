package stats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"hpfold/internal/model"
)

const (
	runIndexFile       = "run_index.json"
	optimalFoldingFile = "optimal_folding.txt"
	fitnessSeriesFile  = "fitness_series.csv"
)

var runFiles = []string{
	"config.json",
	"fitness_history.json",
	"generation_diagnostics.json",
	"final_population.json",
	"summary.json",
	fitnessSeriesFile,
	optimalFoldingFile,
}

type RunConfig struct {
	RunID                string  `json:"run_id"`
	ContinuePopulationID string  `json:"continue_population_id,omitempty"`
	Protein              string  `json:"protein"`
	Sequence             string  `json:"sequence"`
	Energy               string  `json:"energy"`
	W1                   float64 `json:"w1"`
	W2                   float64 `json:"w2"`
	W3                   float64 `json:"w3"`
	PopulationSize       int     `json:"population_size"`
	Generations          int     `json:"generations"`
	Epsilon              float64 `json:"epsilon"`
	Seed                 int64   `json:"seed"`
	Workers              int     `json:"workers"`
	Selection            string  `json:"selection"`
	TournamentSize       int     `json:"tournament_size"`
	Crossover            string  `json:"crossover"`
	Mutation             string  `json:"mutation"`
	Log                  bool    `json:"log"`
}

type FitnessHistory struct {
	MeanByGeneration []float64 `json:"mean_by_generation"`
	BestByGeneration []float64 `json:"best_by_generation"`
	FinalBestFitness float64   `json:"final_best_fitness"`
}

type RunSummary struct {
	RunID          string  `json:"run_id"`
	Fold           string  `json:"fold"`
	InitialBest    float64 `json:"initial_best"`
	FinalBest      float64 `json:"final_best"`
	InitialMean    float64 `json:"initial_mean"`
	FinalMean      float64 `json:"final_mean"`
	Improvement    float64 `json:"improvement"`
	GenerationsRun int     `json:"generations_run"`
	Converged      bool    `json:"converged"`
	Evaluations    int     `json:"evaluations"`
}

type RunArtifacts struct {
	Config                RunConfig                     `json:"config"`
	History               FitnessHistory                `json:"history"`
	GenerationDiagnostics []model.GenerationDiagnostics `json:"generation_diagnostics,omitempty"`
	FinalPopulation       []model.ScoredFold            `json:"final_population"`
	Summary               RunSummary                    `json:"summary"`
}

type RunIndexEntry struct {
	RunID            string  `json:"run_id"`
	Protein          string  `json:"protein"`
	Sequence         string  `json:"sequence"`
	Energy           string  `json:"energy"`
	PopulationSize   int     `json:"population_size"`
	Generations      int     `json:"generations"`
	GenerationsRun   int     `json:"generations_run"`
	Seed             int64   `json:"seed"`
	Workers          int     `json:"workers"`
	Fold             string  `json:"fold"`
	FinalBestFitness float64 `json:"final_best_fitness"`
	Converged        bool    `json:"converged"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

// Summarize derives the headline numbers of a run from its traces.
func Summarize(runID string, best model.ScoredFold, history FitnessHistory, generationsRun int, converged bool, evaluations int) RunSummary {
	summary := RunSummary{
		RunID:          runID,
		Fold:           string(best.Fold),
		FinalBest:      best.Fitness,
		GenerationsRun: generationsRun,
		Converged:      converged,
		Evaluations:    evaluations,
	}
	if n := len(history.BestByGeneration); n > 0 {
		summary.InitialBest = history.BestByGeneration[0]
	}
	if n := len(history.MeanByGeneration); n > 0 {
		summary.InitialMean = history.MeanByGeneration[0]
		summary.FinalMean = history.MeanByGeneration[n-1]
	}
	summary.Improvement = summary.InitialBest - summary.FinalBest
	return summary
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "fitness_history.json"), artifacts.History); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "generation_diagnostics.json"), artifacts.GenerationDiagnostics); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "final_population.json"), artifacts.FinalPopulation); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "summary.json"), artifacts.Summary); err != nil {
		return "", err
	}
	if err := WriteFitnessSeries(runDir, artifacts.History); err != nil {
		return "", err
	}
	if err := WriteOptimalFolding(runDir, artifacts.Config.Protein, artifacts.Summary.Fold); err != nil {
		return "", err
	}
	return runDir, nil
}

// WriteOptimalFolding writes the two-line result file: the input protein,
// then the winning fold.
func WriteOptimalFolding(runDir, protein, fold string) error {
	content := protein + "\n" + fold + "\n"
	return os.WriteFile(filepath.Join(runDir, optimalFoldingFile), []byte(content), 0o644)
}

func ReadOptimalFolding(baseDir, runID string) (protein, fold string, ok bool, err error) {
	file, err := os.Open(filepath.Join(baseDir, runID, optimalFoldingFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", false, nil
		}
		return "", "", false, err
	}
	defer file.Close()

	lines := make([]string, 0, 2)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() && len(lines) < 2 {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return "", "", false, err
	}
	if len(lines) != 2 {
		return "", "", false, fmt.Errorf("%s: expected 2 lines, got %d", optimalFoldingFile, len(lines))
	}
	return lines[0], lines[1], true, nil
}

func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListRunIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].RunID == entry.RunID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, runIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, runIndexFile), index)
}

func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	path := filepath.Join(baseDir, runIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry RunIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Later appends win ties.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]RunIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

// LatestRunID returns the most recent run in the index.
func LatestRunID(baseDir string) (string, error) {
	entries, err := ListRunIndex(baseDir)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no runs available")
	}
	return entries[0].RunID, nil
}

func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}

	src := filepath.Join(baseDir, runID)
	if _, err := os.Stat(src); err != nil {
		return "", err
	}

	dst := filepath.Join(outDir, runID)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", err
	}

	for _, file := range runFiles {
		if err := copyFile(filepath.Join(src, file), filepath.Join(dst, file)); err != nil {
			return "", err
		}
	}
	for _, optional := range []string{latticePlotFile, fitnessPlotFile} {
		path := filepath.Join(src, optional)
		if _, err := os.Stat(path); err == nil {
			if err := copyFile(path, filepath.Join(dst, optional)); err != nil {
				return "", err
			}
		} else if !os.IsNotExist(err) {
			return "", err
		}
	}
	return dst, nil
}

func ReadRunConfig(baseDir, runID string) (RunConfig, bool, error) {
	var cfg RunConfig
	ok, err := readJSON(filepath.Join(baseDir, runID, "config.json"), &cfg)
	return cfg, ok, err
}

func ReadFitnessHistory(baseDir, runID string) (FitnessHistory, bool, error) {
	var history FitnessHistory
	ok, err := readJSON(filepath.Join(baseDir, runID, "fitness_history.json"), &history)
	return history, ok, err
}

func ReadGenerationDiagnostics(baseDir, runID string) ([]model.GenerationDiagnostics, bool, error) {
	var diagnostics []model.GenerationDiagnostics
	ok, err := readJSON(filepath.Join(baseDir, runID, "generation_diagnostics.json"), &diagnostics)
	return diagnostics, ok, err
}

func ReadFinalPopulation(baseDir, runID string) ([]model.ScoredFold, bool, error) {
	var population []model.ScoredFold
	ok, err := readJSON(filepath.Join(baseDir, runID, "final_population.json"), &population)
	return population, ok, err
}

func ReadRunSummary(baseDir, runID string) (RunSummary, bool, error) {
	var summary RunSummary
	ok, err := readJSON(filepath.Join(baseDir, runID, "summary.json"), &summary)
	return summary, ok, err
}

// WriteFitnessSeries writes one CSV row per generation (0 is the initial
// population) with the mean and best fitness.
func WriteFitnessSeries(runDir string, history FitnessHistory) error {
	file, err := os.Create(filepath.Join(runDir, fitnessSeriesFile))
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "mean_fitness", "best_fitness"}); err != nil {
		return err
	}
	for i, mean := range history.MeanByGeneration {
		best := mean
		if i < len(history.BestByGeneration) {
			best = history.BestByGeneration[i]
		}
		if err := writer.Write([]string{
			strconv.Itoa(i),
			strconv.FormatFloat(mean, 'f', -1, 64),
			strconv.FormatFloat(best, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadFitnessSeries(baseDir, runID string) (FitnessHistory, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, fitnessSeriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return FitnessHistory{}, false, nil
		}
		return FitnessHistory{}, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return FitnessHistory{}, true, nil
		}
		return FitnessHistory{}, false, err
	}
	if len(header) < 3 {
		return FitnessHistory{}, false, fmt.Errorf("fitness series header must have 3 columns")
	}

	var history FitnessHistory
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return FitnessHistory{}, false, err
		}
		if len(record) < 3 {
			return FitnessHistory{}, false, fmt.Errorf("fitness series row must have 3 columns")
		}
		mean, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return FitnessHistory{}, false, err
		}
		best, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return FitnessHistory{}, false, err
		}
		history.MeanByGeneration = append(history.MeanByGeneration, mean)
		history.BestByGeneration = append(history.BestByGeneration, best)
	}
	if n := len(history.BestByGeneration); n > 0 {
		history.FinalBestFitness = history.BestByGeneration[n-1]
	}
	return history, true, nil
}

func readJSON(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
