package stats

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"hpfold/internal/hp"
	"hpfold/internal/lattice"
)

const (
	latticePlotFile = "lattice.png"
	fitnessPlotFile = "fitness.png"

	// cellInches is the drawn size of one lattice cell.
	cellInches = 0.5
	minInches  = 3
)

var (
	hydrophobicColor = color.RGBA{R: 200, G: 40, B: 40, A: 255}
	polarColor       = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	backboneColor    = color.Gray{Y: 90}
)

// LatticePlotPath is where RenderLattice writes inside a run directory.
func LatticePlotPath(runDir string) string {
	return filepath.Join(runDir, latticePlotFile)
}

// FitnessPlotPath is where PlotFitnessHistory writes inside a run directory.
func FitnessPlotPath(runDir string) string {
	return filepath.Join(runDir, fitnessPlotFile)
}

// RenderLattice draws the embedded fold: the backbone as a line through the
// residue centres, H residues in red and P residues in blue. Rows grow
// downward on the lattice, so they are negated for the plot's y axis.
func RenderLattice(fold lattice.Fold, seq hp.Sequence, fitness float64, outPath string) error {
	_, path, err := lattice.Embed(fold, seq)
	if err != nil {
		return err
	}
	if len(path) == 0 {
		return fmt.Errorf("nothing to render for an empty fold")
	}

	backbone := make(plotter.XYs, len(path))
	var hPts, pPts plotter.XYs
	for i, c := range path {
		xy := plotter.XY{X: float64(c.Col), Y: -float64(c.Row)}
		backbone[i] = xy
		if seq.At(i) == hp.Hydrophobic {
			hPts = append(hPts, xy)
		} else {
			pPts = append(pPts, xy)
		}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s  energy=%.2f", fold, fitness)
	p.HideAxes()
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(backbone)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(3)
	line.LineStyle.Color = backboneColor
	p.Add(line)

	for _, group := range []struct {
		name  string
		pts   plotter.XYs
		color color.Color
	}{
		{"H", hPts, hydrophobicColor},
		{"P", pPts, polarColor},
	} {
		if len(group.pts) == 0 {
			continue
		}
		scatter, err := plotter.NewScatter(group.pts)
		if err != nil {
			return err
		}
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Color = group.color
		scatter.GlyphStyle.Radius = vg.Points(7)
		p.Add(scatter)
		p.Legend.Add(group.name, scatter)
	}
	p.Legend.Top = true

	lo, hi := path.Bounds()
	p.X.Min, p.X.Max = float64(lo.Col)-1, float64(hi.Col)+1
	p.Y.Min, p.Y.Max = -float64(hi.Row)-1, -float64(lo.Row)+1

	width := plotSize(hi.Col - lo.Col + 3)
	height := plotSize(hi.Row - lo.Row + 3)
	return p.Save(width, height, outPath)
}

// PlotFitnessHistory draws mean and best fitness against generation; index 0
// is the initial population.
func PlotFitnessHistory(history FitnessHistory, title, outPath string) error {
	if len(history.MeanByGeneration) == 0 {
		return fmt.Errorf("fitness history is empty")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Fitness"

	meanPts := make(plotter.XYs, len(history.MeanByGeneration))
	for i, v := range history.MeanByGeneration {
		meanPts[i] = plotter.XY{X: float64(i), Y: v}
	}
	bestPts := make(plotter.XYs, len(history.BestByGeneration))
	for i, v := range history.BestByGeneration {
		bestPts[i] = plotter.XY{X: float64(i), Y: v}
	}

	meanLine, err := plotter.NewLine(meanPts)
	if err != nil {
		return err
	}
	meanLine.LineStyle.Color = polarColor
	p.Add(meanLine)
	p.Legend.Add("mean", meanLine)

	if len(bestPts) > 0 {
		bestLine, err := plotter.NewLine(bestPts)
		if err != nil {
			return err
		}
		bestLine.LineStyle.Color = hydrophobicColor
		p.Add(bestLine)
		p.Legend.Add("best", bestLine)
	}
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, outPath)
}

func plotSize(cells int) vg.Length {
	inches := float64(cells) * cellInches
	if inches < minInches {
		inches = minInches
	}
	return vg.Length(inches) * vg.Inch
}
