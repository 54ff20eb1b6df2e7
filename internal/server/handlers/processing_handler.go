package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emporiumprime/estoque/internal/domain/models"
	"github.com/emporiumprime/estoque/internal/service/processing"
)

// ProcessingHandler adapts the processing run and derived-product endpoints.
type ProcessingHandler struct {
	svc    *processing.Service
	logger *zap.Logger
}

// NewProcessingHandler constructs the HTTP handler adapter.
func NewProcessingHandler(svc *processing.Service, logger *zap.Logger) *ProcessingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcessingHandler{svc: svc, logger: logger}
}

type originBoxRequest struct {
	BoxID       string  `json:"caixa_id" binding:"required"`
	BaseProduct string  `json:"produto_base"`
	UsedKG      float64 `json:"peso_utilizado_kg"`
}

type producedRequest struct {
	Product string              `json:"produto" binding:"required"`
	KG      float64             `json:"peso_kg"`
	Split   *models.ProfitSplit `json:"divisao_lucro"`
}

type createRunRequest struct {
	Date     string             `json:"data_processamento" binding:"required"`
	Origin   []originBoxRequest `json:"caixas_origem" binding:"required"`
	Produced []producedRequest  `json:"produtos_gerados" binding:"required"`
	LossKG   float64            `json:"perda_kg"`
	Notes    string             `json:"observacoes"`
}

// CreateRun records a processing run and registers its derived lots.
func (h *ProcessingHandler) CreateRun(c *gin.Context) {
	var req createRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido"})
		return
	}
	date, ok := parseDate(req.Date)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data_processamento inválida"})
		return
	}

	in := processing.CreateRunInput{
		Date:   date,
		LossKG: req.LossKG,
		Notes:  req.Notes,
	}
	splits := make(map[string]*models.ProfitSplit)
	for _, origin := range req.Origin {
		in.Origin = append(in.Origin, processing.OriginBoxInput{
			BoxID:       origin.BoxID,
			BaseProduct: origin.BaseProduct,
			UsedKG:      origin.UsedKG,
		})
	}
	for _, produced := range req.Produced {
		in.Produced = append(in.Produced, processing.ProducedInput{
			Product: produced.Product,
			KG:      produced.KG,
			Split:   produced.Split,
		})
		if produced.Split != nil {
			splits[produced.Product] = produced.Split
		}
	}

	run, err := h.svc.CreateRun(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.RegisterDerived(c.Request.Context(), run, splits); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, run)
}

// ListRuns returns all processing runs, newest first.
func (h *ProcessingHandler) ListRuns(c *gin.Context) {
	runs, err := h.svc.ListRuns(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun returns one run.
func (h *ProcessingHandler) GetRun(c *gin.Context) {
	run, err := h.svc.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if run == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListDerived returns derived-product lots with stock left.
func (h *ProcessingHandler) ListDerived(c *gin.Context) {
	products, err := h.svc.ListDerived(c.Request.Context(), c.Query("produto"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetDerived returns one derived-product lot.
func (h *ProcessingHandler) GetDerived(c *gin.Context) {
	product, err := h.svc.GetDerived(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if product == nil {
		respondNotFound(c)
		return
	}
	c.JSON(http.StatusOK, product)
}
