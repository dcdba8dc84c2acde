// Package report exports predictions and run summaries as PNG, CSV and
// JSON files.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	json "github.com/goccy/go-json"
	"go.uber.org/multierr"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"losrisk/internal/risk"
)

const (
	PredictionsPNG = "predictions.png"
	PredictionsCSV = "predictions.csv"
	SummaryJSON    = "summary.json"
)

// Write stores the prediction chart, the per-row CSV and summary as JSON in
// dir. Every file is attempted; failures are combined.
func Write(dir string, summary any, actual, predicted []float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var err error
	err = multierr.Append(err, PlotPredictions(filepath.Join(dir, PredictionsPNG), actual, predicted))
	err = multierr.Append(err, WriteCSV(filepath.Join(dir, PredictionsCSV), actual, predicted))
	err = multierr.Append(err, WriteJSON(filepath.Join(dir, SummaryJSON), summary))
	return err
}

// PlotPredictions draws predicted against actual length of stay with the
// identity line for reference.
func PlotPredictions(path string, actual, predicted []float64) error {
	if len(actual) != len(predicted) {
		return fmt.Errorf("plot: %d actual vs %d predicted", len(actual), len(predicted))
	}
	p := plot.New()
	p.Title.Text = "Length of stay: predicted vs actual"
	p.X.Label.Text = "Actual (days)"
	p.Y.Label.Text = "Predicted (days)"

	pts := make(plotter.XYs, len(actual))
	hi := 1.0
	for i := range actual {
		pts[i].X = actual[i]
		pts[i].Y = predicted[i]
		hi = math.Max(hi, math.Max(actual[i], predicted[i]))
	}
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Radius = vg.Points(2)

	ident := plotter.NewFunction(func(x float64) float64 { return x })
	ident.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(sc, ident, plotter.NewGrid())
	p.Legend.Add("predictions", sc)
	p.Legend.Add("perfect", ident)
	p.X.Min, p.Y.Min = 0, 0
	p.X.Max, p.Y.Max = hi, hi

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 6*vg.Inch, path)
}

// WriteCSV writes one row per sample with the risk score of both values.
func WriteCSV(path string, actual, predicted []float64) error {
	if len(actual) != len(predicted) {
		return fmt.Errorf("csv: %d actual vs %d predicted", len(actual), len(predicted))
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"actual", "predicted", "actual_risk", "predicted_risk"}); err != nil {
		return err
	}
	for i := range actual {
		rec := []string{
			strconv.FormatFloat(actual[i], 'f', 3, 64),
			strconv.FormatFloat(predicted[i], 'f', 3, 64),
			strconv.Itoa(risk.Score(actual[i])),
			strconv.Itoa(risk.Score(predicted[i])),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func WriteJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
