package console

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/mikey/spam-ensemble/internal/core"
)

// Presenter writes results for terminal users
type Presenter struct {
	out io.Writer
}

// NewPresenter creates a presenter writing to out
func NewPresenter(out io.Writer) *Presenter {
	return &Presenter{out: out}
}

// Classification prints the outcome of a single classification
func (p *Presenter) Classification(c *core.Classification) {
	fmt.Fprintf(p.out, "Model: %s\n", c.Model)
	fmt.Fprintf(p.out, "Prediction: %s\n", c.Prediction)
	fmt.Fprintf(p.out, "Spam Probability: %.2f%%\n", c.Percentage)
}

// Report prints the metrics summary, per-sample probabilities and the ensemble table
func (p *Presenter) Report(report *core.BatchReport) {
	evals := report.Models
	if report.Ensemble != nil {
		evals = append(append([]core.ModelEvaluation{}, report.Models...), *report.Ensemble)
	}

	fmt.Fprintf(p.out, "Evaluated %d messages\n\n", len(report.Samples))

	summary := p.table([]string{"Model", "Accuracy", "Precision", "Recall", "F1 Score"})
	for _, eval := range evals {
		summary.Append([]string{
			eval.Model.String(),
			percent(eval.Metrics.Accuracy),
			percent(eval.Metrics.Precision),
			percent(eval.Metrics.Recall),
			percent(eval.Metrics.F1),
		})
	}
	summary.Render()

	fmt.Fprintln(p.out)
	header := []string{"SMS", "Label"}
	for _, eval := range report.Models {
		header = append(header, eval.Model.String())
	}
	if report.Ensemble != nil {
		header = append(header, "Ensemble", "Prediction")
	}

	rows := p.table(header)
	for i, s := range report.Samples {
		row := []string{s.Text, fmt.Sprint(s.Label)}
		for _, eval := range report.Models {
			row = append(row, percent(core.Percentage(eval.Probabilities[i])))
		}
		if report.Ensemble != nil {
			row = append(row,
				percent(core.Percentage(report.Ensemble.Probabilities[i])),
				report.Ensemble.Predictions[i].String())
		}
		rows.Append(row)
	}
	rows.Render()
}

// JSON prints v as indented JSON
func (p *Presenter) JSON(v interface{}) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *Presenter) table(header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(p.out)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	return t
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
