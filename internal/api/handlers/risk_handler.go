// backend-go/internal/api/handlers/risk_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/optimizer"
	"github.com/andresuchdata/stockrisk/backend-go/internal/service"
	"github.com/andresuchdata/stockrisk/backend-go/internal/simulation"
	"github.com/gin-gonic/gin"
)

type RiskHandler struct {
	service *service.RiskService
}

func NewRiskHandler(service *service.RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

type simulateRequest struct {
	SKU            string                 `json:"sku"`
	Params         domain.InventoryParams `json:"params"`
	NumSimulations int                    `json:"num_simulations"`
	NumDays        int                    `json:"num_days"`
	Percentiles    []int                  `json:"percentiles"`
	Seed           *int64                 `json:"seed"`
}

type optimizeRequest struct {
	Params            domain.InventoryParams `json:"params"`
	ServiceLevelFloor float64                `json:"service_level_floor"`
	Seed              *int64                 `json:"seed"`
}

// Simulate runs one Monte Carlo call and returns the full assessment:
// aggregated result, risk probabilities, and financial impact.
func (h *RiskHandler) Simulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameters", "details": err.Error()})
		return
	}

	assessment, err := h.service.Assess(c.Request.Context(), service.SimulationRequest{
		SKU:            req.SKU,
		Params:         req.Params,
		NumSimulations: req.NumSimulations,
		NumDays:        req.NumDays,
		Percentiles:    req.Percentiles,
		Seed:           req.Seed,
	})
	if err != nil {
		respondCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

type analyzeRequest struct {
	Result domain.SimulationResult `json:"result"`
	Params domain.InventoryParams  `json:"params"`
}

// Analyze classifies an already-computed simulation result without
// rerunning the Monte Carlo engine.
func (h *RiskHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameters", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.Analyze(&req.Result, req.Params))
}

type impactRequest struct {
	Risk   domain.RiskAnalysis    `json:"risk"`
	Params domain.InventoryParams `json:"params"`
}

// Impact prices an existing risk analysis.
func (h *RiskHandler) Impact(c *gin.Context) {
	var req impactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameters", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.Impact(req.Risk, req.Params))
}

// Optimize recommends a reorder point for the posted parameters.
func (h *RiskHandler) Optimize(c *gin.Context) {
	var req optimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Params.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameters", "details": err.Error()})
		return
	}

	result, err := h.service.Optimize(c.Request.Context(), req.Params, req.ServiceLevelFloor, req.Seed)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OptimizeSKU optimizes a stored product and persists the recommendation.
func (h *RiskHandler) OptimizeSKU(c *gin.Context) {
	sku := strings.TrimSpace(c.Param("sku"))
	if sku == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	seed := parseSeed(c)
	result, err := h.service.OptimizeSKU(c.Request.Context(), sku, seed)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Portfolio optimizes every stored product and returns the entries ranked
// by descending potential savings.
func (h *RiskHandler) Portfolio(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 {
		limit = 100
	}

	seed := parseSeed(c)
	summary, err := h.service.Portfolio(c.Request.Context(), seed, limit)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Optimizations lists the most recent persisted recommendations, across
// all SKUs or for one SKU when the path carries it.
func (h *RiskHandler) Optimizations(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 {
		limit = 20
	}

	var (
		results []domain.OptimizationResult
		err     error
	)
	if sku := strings.TrimSpace(c.Param("sku")); sku != "" {
		results, err = h.service.OptimizationHistory(c.Request.Context(), sku, limit)
	} else {
		results, err = h.service.LatestOptimizations(c.Request.Context(), limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list optimization results", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

func parseSeed(c *gin.Context) *int64 {
	raw := strings.TrimSpace(c.Query("seed"))
	if raw == "" {
		return nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &seed
}

// respondCoreError maps the core's error taxonomy onto HTTP statuses while
// keeping the structured payload intact.
func respondCoreError(c *gin.Context, err error) {
	var invalid *simulation.InvalidParameterError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid parameter",
			"field":   invalid.Field,
			"details": invalid.Reason,
		})
		return
	}

	var unstable *simulation.NumericalInstabilityError
	if errors.As(err, &unstable) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "numerical instability",
			"simulation": unstable.Simulation,
			"day":        unstable.Day,
		})
		return
	}

	var infeasible *optimizer.InfeasibleError
	if errors.As(err, &infeasible) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":                "service level floor not reachable",
			"floor":                infeasible.Floor,
			"steps":                infeasible.Steps,
			"stockout_probability": infeasible.LastProbability,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
}
