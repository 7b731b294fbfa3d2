package handler

import (
	"embed"
	"encoding/base64"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-ensemble/internal/adapters/selector"
	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/ports"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const indexTemplate = "index.html"

// Templates parses the embedded UI templates
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

type singleView struct {
	Prediction string
	Percentage float64
}

type summaryRow struct {
	Name    string
	Metrics core.Metrics
}

type combinedRow struct {
	SMS           string
	Label         int
	Probabilities []float64
}

type ensembleRow struct {
	SMS        string
	Percentage float64
	Prediction string
}

type chartView struct {
	Name   string
	Source template.URL
}

type bulkView struct {
	Summary    []summaryRow
	ModelNames []string
	Rows       []combinedRow
	Ensemble   []ensembleRow
	Charts     []chartView
}

type pageView struct {
	Choices   []string
	Selected  string
	Text      string
	Single    *singleView
	Bulk      *bulkView
	BulkError string
}

// UIHandler serves the interactive HTML form
type UIHandler struct {
	service        ports.EnsembleService
	reader         ports.BatchReader
	charts         ports.ChartRenderer
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewUIHandler creates a new UI handler
func NewUIHandler(
	service ports.EnsembleService,
	reader ports.BatchReader,
	charts ports.ChartRenderer,
	maxUploadBytes int64,
	logger *zap.Logger,
) *UIHandler {
	return &UIHandler{
		service:        service,
		reader:         reader,
		charts:         charts,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func newPage() pageView {
	return pageView{
		Choices:  selector.UI.Choices(),
		Selected: selector.UI.Literal(core.ModelEnsemble),
	}
}

// Index handles GET /
func (h *UIHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, indexTemplate, newPage())
}

// Classify handles POST /ui/classify
func (h *UIHandler) Classify(c *gin.Context) {
	page := newPage()
	page.Text = c.PostForm("text")
	if literal, ok := c.GetPostForm("model"); ok {
		page.Selected = literal
	}

	page.Single = h.classify(c, page.Text, page.Selected)
	c.HTML(http.StatusOK, indexTemplate, page)
}

func (h *UIHandler) classify(c *gin.Context, text, literal string) *singleView {
	if strings.TrimSpace(text) == "" {
		return &singleView{Prediction: uiMessage(core.ErrEmptyText)}
	}
	model, err := selector.UI.Parse(literal)
	if err == nil {
		var result *core.Classification
		result, err = h.service.ClassifySingle(c.Request.Context(), text, model)
		if err == nil {
			return &singleView{Prediction: result.Prediction.String(), Percentage: result.Percentage}
		}
	}
	return &singleView{Prediction: uiMessage(err)}
}

// Bulk handles POST /ui/bulk
func (h *UIHandler) Bulk(c *gin.Context) {
	page := newPage()

	view, err := h.evaluate(c)
	if err != nil {
		h.logger.Warn("Bulk evaluation from UI failed", zap.Error(err))
		page.BulkError = "Error: " + err.Error()
	} else {
		page.Bulk = view
	}
	c.HTML(http.StatusOK, indexTemplate, page)
}

func (h *UIHandler) evaluate(c *gin.Context) (*bulkView, error) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errNoFile
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	samples, err := h.reader.Read(file)
	if err != nil {
		return nil, err
	}
	report, err := h.service.EvaluateBatch(c.Request.Context(), samples)
	if err != nil {
		return nil, err
	}
	return buildBulkView(report, h.charts)
}

func buildBulkView(report *core.BatchReport, charts ports.ChartRenderer) (*bulkView, error) {
	view := &bulkView{
		Rows: make([]combinedRow, len(report.Samples)),
	}
	for i, s := range report.Samples {
		view.Rows[i] = combinedRow{SMS: s.Text, Label: s.Label}
	}

	evals := report.Models
	if report.Ensemble != nil {
		evals = append(append([]core.ModelEvaluation{}, report.Models...), *report.Ensemble)
	}

	for _, eval := range evals {
		name := eval.Model.String()
		view.Summary = append(view.Summary, summaryRow{Name: name, Metrics: eval.Metrics})

		chartName := name
		if eval.Model == core.ModelEnsemble {
			chartName = EnsembleChartName
		} else {
			view.ModelNames = append(view.ModelNames, name)
			for i := range view.Rows {
				view.Rows[i].Probabilities = append(view.Rows[i].Probabilities, core.Percentage(eval.Probabilities[i]))
			}
		}

		if charts != nil {
			png, err := charts.RenderMetrics(chartName, eval.Metrics)
			if err != nil {
				return nil, err
			}
			view.Charts = append(view.Charts, chartView{
				Name:   chartName,
				Source: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
			})
		}
	}

	if report.Ensemble != nil {
		view.Ensemble = make([]ensembleRow, len(report.Samples))
		for i, s := range report.Samples {
			view.Ensemble[i] = ensembleRow{
				SMS:        s.Text,
				Percentage: core.Percentage(report.Ensemble.Probabilities[i]),
				Prediction: report.Ensemble.Predictions[i].String(),
			}
		}
	}

	return view, nil
}
