package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikey/spam-ensemble/internal/adapters/selector"
	"github.com/mikey/spam-ensemble/internal/core"
	"github.com/mikey/spam-ensemble/internal/ports"
	"go.uber.org/zap"
)

// DefaultAPIModel is used when a request does not name a model
const DefaultAPIModel = "bilstm"

// ClassifyRequest is the body of POST /api/classify
type ClassifyRequest struct {
	Text        string          `json:"text"`
	ModelSelect json.RawMessage `json:"modelSelect"`
}

// ClassifyResponse is the reply of POST /api/classify. Probability is a percentage.
type ClassifyResponse struct {
	Prediction  string  `json:"prediction"`
	Probability float64 `json:"probability"`
}

// APIHandler serves the JSON endpoints
type APIHandler struct {
	service        ports.EnsembleService
	reader         ports.BatchReader
	charts         ports.ChartRenderer
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(
	service ports.EnsembleService,
	reader ports.BatchReader,
	charts ports.ChartRenderer,
	maxUploadBytes int64,
	logger *zap.Logger,
) *APIHandler {
	return &APIHandler{
		service:        service,
		reader:         reader,
		charts:         charts,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Classify handles POST /api/classify
func (h *APIHandler) Classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondError(c, http.StatusBadRequest, MsgNoText)
		return
	}

	model, err := parseModelSelect(req.ModelSelect)
	if err != nil {
		respondError(c, http.StatusBadRequest, MsgInvalidModel)
		return
	}

	result, err := h.service.ClassifySingle(c.Request.Context(), req.Text, model)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ClassifyResponse{
		Prediction:  result.Prediction.String(),
		Probability: result.Percentage,
	})
}

// parseModelSelect resolves the modelSelect field. An absent field selects DefaultAPIModel;
// null and non-string values are invalid selections.
func parseModelSelect(raw json.RawMessage) (core.Model, error) {
	if raw == nil {
		return selector.API.Parse(DefaultAPIModel)
	}
	var literal string
	if err := json.Unmarshal(raw, &literal); err != nil {
		return 0, core.ErrInvalidSelector
	}
	return selector.API.Parse(literal)
}

// BulkClassify handles POST /api/bulk_classify with a multipart "file" field
func (h *APIHandler) BulkClassify(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
			return
		}
		respondError(c, http.StatusBadRequest, MsgNoFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	defer file.Close()

	samples, err := h.reader.Read(file)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	report, err := h.service.EvaluateBatch(c.Request.Context(), samples)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	resp, err := BuildBulkResponse(report, h.charts)
	if err != nil {
		h.logger.Error("Failed to build bulk response", zap.Error(err))
		HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
