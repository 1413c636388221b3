// backend-go/internal/api/handlers/risk_handler_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/stockrisk/backend-go/internal/config"
	"github.com/andresuchdata/stockrisk/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewRiskService(nil, nil, nil, nil, config.SimulationConfig{
		NumSimulations:       20,
		NumDays:              60,
		Percentiles:          []int{10, 50, 90},
		Workers:              2,
		CarryingRate:         0.20,
		OverstockMultiplier:  1.5,
		UnderstockMultiplier: 0.5,
		ServiceLevelFloor:    5.0,
		OptimizerStep:        0.1,
		OptimizerMaxSteps:    50,
	})
	handler := NewRiskHandler(svc)

	router := gin.New()
	router.POST("/simulate", handler.Simulate)
	router.POST("/analyze", handler.Analyze)
	router.POST("/impact", handler.Impact)
	router.POST("/optimize", handler.Optimize)
	return router
}

const validBody = `{
	"params": {
		"current_stock": 200,
		"reorder_point": 60,
		"order_quantity": 120,
		"mean_lead_time": 3,
		"daily_demand_mean": 10,
		"daily_demand_std_dev": 3,
		"unit_cost": 4,
		"selling_price": 9
	},
	"seed": 42
}`

func TestSimulateEndpoint(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Result *struct {
			NumSimulations int   `json:"num_simulations"`
			Seed           int64 `json:"seed"`
		} `json:"result"`
		Risk struct {
			Overall string `json:"overall"`
		} `json:"risk"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Result == nil {
		t.Fatal("response missing simulation result")
	}
	if resp.Result.Seed != 42 {
		t.Errorf("seed = %d, want 42", resp.Result.Seed)
	}
	if resp.Risk.Overall == "" {
		t.Error("response missing overall risk level")
	}
}

func TestSimulateEndpointRejectsBadParams(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"params": `},
		{"std dev above mean", `{
			"params": {
				"current_stock": 200,
				"reorder_point": 60,
				"order_quantity": 120,
				"mean_lead_time": 3,
				"daily_demand_mean": 10,
				"daily_demand_std_dev": 15,
				"unit_cost": 4,
				"selling_price": 9
			}
		}`},
		{"zero order quantity", `{
			"params": {
				"current_stock": 200,
				"reorder_point": 60,
				"order_quantity": 0,
				"mean_lead_time": 3,
				"daily_demand_mean": 10,
				"daily_demand_std_dev": 3,
				"unit_cost": 4,
				"selling_price": 9
			}
		}`},
	}

	router := testRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := testRouter()

	body := `{
		"result": {
			"trajectories": [
				{"levels": [100, 0, 100, 100, 100], "stockout_days": 1},
				{"levels": [10, 10, 10, 10, 10], "stockout_days": 0}
			],
			"mean_inventory": 54,
			"stockout_days": 1,
			"num_simulations": 2,
			"num_days": 5
		},
		"params": {
			"current_stock": 200,
			"reorder_point": 60,
			"order_quantity": 120,
			"mean_lead_time": 3,
			"daily_demand_mean": 10,
			"daily_demand_std_dev": 3,
			"unit_cost": 4,
			"selling_price": 9
		}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		StockoutProbability float64 `json:"stockout_probability"`
		Overall             string  `json:"overall"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.StockoutProbability != 10 {
		t.Errorf("stockout probability = %v, want 10", resp.StockoutProbability)
	}
	if resp.Overall == "" {
		t.Error("response missing overall risk level")
	}
}

func TestImpactEndpoint(t *testing.T) {
	router := testRouter()

	body := `{
		"risk": {
			"mean_inventory": 50,
			"stockout_days": 0
		},
		"params": {
			"current_stock": 200,
			"reorder_point": 60,
			"order_quantity": 120,
			"mean_lead_time": 3,
			"daily_demand_mean": 10,
			"daily_demand_std_dev": 3,
			"unit_cost": 4,
			"selling_price": 9
		}
	}`

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/impact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		CarryingCost float64 `json:"carrying_cost"`
		NetRiskValue float64 `json:"net_risk_value"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CarryingCost != 40 {
		t.Errorf("carrying cost = %v, want 40", resp.CarryingCost)
	}
	if resp.NetRiskValue != 40 {
		t.Errorf("net risk value = %v, want 40", resp.NetRiskValue)
	}
}

func TestOptimizeEndpoint(t *testing.T) {
	router := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		OriginalReorderPoint    float64 `json:"original_reorder_point"`
		RecommendedReorderPoint float64 `json:"recommended_reorder_point"`
		Evaluations             int     `json:"evaluations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OriginalReorderPoint != 60 {
		t.Errorf("original reorder point = %v, want 60", resp.OriginalReorderPoint)
	}
	if resp.Evaluations < 1 {
		t.Errorf("evaluations = %d, want at least 1", resp.Evaluations)
	}
}
