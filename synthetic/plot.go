package synthetic

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/robustgo/line"
	"github.com/YuminosukeSato/robustgo/pkg/errors"
)

// PlotLineFit renders the dataset with the ground-truth and estimated
// lines overlaid and saves it to path (format chosen by extension,
// e.g. .svg or .png). Inliers and outliers of the estimate get
// distinct glyph colors. Purely diagnostic.
func PlotLineFit(path string, xy mat.Matrix, truth, estimate line.Line, inliers []int) error {
	r, n := xy.Dims()
	if r != 2 {
		return errors.NewDimensionError("synthetic.PlotLineFit", 2, r, 0)
	}

	inlierSet := make(map[int]struct{}, len(inliers))
	for _, i := range inliers {
		inlierSet[i] = struct{}{}
	}

	var inlierPts, outlierPts plotter.XYs
	xMin, xMax := xy.At(0, 0), xy.At(0, 0)
	for i := 0; i < n; i++ {
		x, y := xy.At(0, i), xy.At(1, i)
		if x < xMin {
			xMin = x
		}
		if x > xMax {
			xMax = x
		}
		pt := plotter.XY{X: x, Y: y}
		if _, ok := inlierSet[i]; ok {
			inlierPts = append(inlierPts, pt)
		} else {
			outlierPts = append(outlierPts, pt)
		}
	}

	p := plot.New()
	p.Title.Text = "LO-RANSAC line fit"
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	inlierScatter, err := plotter.NewScatter(inlierPts)
	if err != nil {
		return errors.Wrap(err, "PlotLineFit: inlier scatter")
	}
	inlierScatter.GlyphStyle.Color = plotutil.Color(0)

	outlierScatter, err := plotter.NewScatter(outlierPts)
	if err != nil {
		return errors.Wrap(err, "PlotLineFit: outlier scatter")
	}
	outlierScatter.GlyphStyle.Color = plotutil.Color(1)

	truthLine, err := plotter.NewLine(plotter.XYs{
		{X: xMin, Y: truth.At(xMin)},
		{X: xMax, Y: truth.At(xMax)},
	})
	if err != nil {
		return errors.Wrap(err, "PlotLineFit: truth line")
	}
	truthLine.Color = plotutil.Color(2)

	estimateLine, err := plotter.NewLine(plotter.XYs{
		{X: xMin, Y: estimate.At(xMin)},
		{X: xMax, Y: estimate.At(xMax)},
	})
	if err != nil {
		return errors.Wrap(err, "PlotLineFit: estimate line")
	}
	estimateLine.Color = plotutil.Color(3)
	estimateLine.Dashes = plotutil.Dashes(1)

	p.Add(inlierScatter, outlierScatter, truthLine, estimateLine)
	p.Legend.Add("inliers", inlierScatter)
	p.Legend.Add("outliers", outlierScatter)
	p.Legend.Add("ground truth", truthLine)
	p.Legend.Add("estimate", estimateLine)

	if err := p.Save(15*vg.Centimeter, 15*vg.Centimeter, path); err != nil {
		return errors.Wrap(err, "PlotLineFit: save")
	}
	return nil
}
