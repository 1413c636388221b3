// backend-go/internal/importer/ingest.go
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockrisk/backend-go/internal/domain"
	"github.com/andresuchdata/stockrisk/backend-go/internal/repository"
	"github.com/andresuchdata/stockrisk/backend-go/pkg/logger"
)

var log = logger.Component("importer")

// requiredColumns are the parameter-sheet columns every row must supply.
var requiredColumns = []string{
	"sku", "name", "current_stock", "reorder_point", "order_quantity",
	"mean_lead_time", "daily_demand_mean", "daily_demand_std_dev",
	"unit_cost", "selling_price",
}

// IngestResult summarizes one sheet ingestion.
type IngestResult struct {
	Saved    int      `json:"saved"`
	Rejected int      `json:"rejected"`
	Errors   []string `json:"errors,omitempty"`
}

// IngestService validates parameter sheets and loads them into the product
// store. The validation here is the gate the simulation core relies on:
// rows that reach the database always satisfy the field rules.
type IngestService struct {
	driveService *DriveService
	products     repository.ProductRepository
}

func NewIngestService(driveService *DriveService, products repository.ProductRepository) *IngestService {
	return &IngestService{
		driveService: driveService,
		products:     products,
	}
}

// IngestFile downloads one Drive file and loads its rows.
func (s *IngestService) IngestFile(ctx context.Context, fileID string) (*IngestResult, error) {
	pr, pw := io.Pipe()
	go func() {
		err := s.driveService.DownloadFile(fileID, pw)
		pw.CloseWithError(err)
	}()

	return s.IngestCSV(ctx, pr)
}

// IngestCSV parses a parameter sheet. Invalid rows are rejected and
// reported; valid rows are upserted in one batch.
func (s *IngestService) IngestCSV(ctx context.Context, r io.Reader) (*IngestResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	result := &IngestResult{}
	var products []domain.Product
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		product, err := parseRow(record, colMap)
		if err != nil {
			result.Rejected++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		products = append(products, product)
	}

	if len(products) > 0 {
		saved, err := s.products.UpsertBatch(ctx, products)
		if err != nil {
			return nil, fmt.Errorf("failed to save products: %w", err)
		}
		result.Saved = saved
	}

	log.Info().
		Int("saved", result.Saved).
		Int("rejected", result.Rejected).
		Msg("parameter sheet ingested")

	return result, nil
}

func parseRow(record []string, colMap map[string]int) (domain.Product, error) {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	getFloat := func(colName string) (float64, error) {
		val := getValue(colName)
		if val == "" {
			return 0, fmt.Errorf("column %s is empty", colName)
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("column %s is not numeric: %q", colName, val)
		}
		return f, nil
	}

	sku := getValue("sku")
	if sku == "" {
		return domain.Product{}, fmt.Errorf("sku is empty")
	}

	var params domain.InventoryParams
	fields := []struct {
		col  string
		dest *float64
	}{
		{"current_stock", &params.CurrentStock},
		{"reorder_point", &params.ReorderPoint},
		{"order_quantity", &params.OrderQuantity},
		{"mean_lead_time", &params.MeanLeadTime},
		{"daily_demand_mean", &params.DailyDemandMean},
		{"daily_demand_std_dev", &params.DailyDemandStdDev},
		{"unit_cost", &params.UnitCost},
		{"selling_price", &params.SellingPrice},
	}
	for _, f := range fields {
		v, err := getFloat(f.col)
		if err != nil {
			return domain.Product{}, err
		}
		*f.dest = v
	}

	if err := params.Validate(); err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		SKU:    sku,
		Name:   getValue("name"),
		Params: params,
	}, nil
}
