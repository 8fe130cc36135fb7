package report

import (
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/scamara129/broadband-usage/analysis"
	"github.com/scamara129/broadband-usage/models"
	"github.com/scamara129/broadband-usage/pkg/errors"
)

// ResidualPlot writes a scatter of test-set residuals against predicted
// values for the best model.
func ResidualPlot(path string, result *analysis.Result) error {
	pts := make(plotter.XYs, len(result.TestActual))
	for i := range pts {
		pts[i].X = result.TestPredicted[i]
		pts[i].Y = result.TestActual[i] - result.TestPredicted[i]
	}

	p := plot.New()
	p.Title.Text = "Residuals: " + result.Best.Model
	p.X.Label.Text = "predicted (scaled)"
	p.Y.Label.Text = "residual"
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return errors.Wrap(err, "residual scatter")
	}
	p.Add(scatter)

	return errors.Wrap(p.Save(6*vg.Inch, 4*vg.Inch, path), "save residual plot")
}

// SelectionCurves writes one line plot per hyperparameter search trace into
// dir, named after the trace.
func SelectionCurves(dir string, traces []models.SearchTrace) error {
	for _, trace := range traces {
		if len(trace.Param) == 0 {
			continue
		}

		pts := make(plotter.XYs, len(trace.Param))
		for i := range pts {
			pts[i].X = trace.Param[i]
			pts[i].Y = trace.Score[i]
		}

		p := plot.New()
		p.Title.Text = "Model selection: " + trace.Name
		p.X.Label.Text = "parameter"
		p.Y.Label.Text = "validation error"
		p.Add(plotter.NewGrid())

		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "selection curve %s", trace.Name)
		}
		p.Add(line)

		path := filepath.Join(dir, trace.Name+".png")
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return errors.Wrapf(err, "save selection curve %s", trace.Name)
		}
	}
	return nil
}
