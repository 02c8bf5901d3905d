package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/rgckd/hc-self-service-portal/internal/platform/config"
	"github.com/rgckd/hc-self-service-portal/pkg/platform/sentinel"
)

// CSVClient reads sheet tabs through the CSV export endpoints of a
// Google-Sheets-compatible host. It holds no state beyond the HTTP client.
type CSVClient struct {
	client    *resty.Client
	catalogID string
}

// NewCSVClient builds a client against cfg.BaseURL. The catalog ID names the
// document holding the master table; registration lists are addressed by
// their own IDs through ReadFirstSheet.
func NewCSVClient(cfg config.Sheets) *CSVClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)
	return &CSVClient{client: client, catalogID: cfg.CatalogID}
}

func (c *CSVClient) ReadTable(ctx context.Context, name string) ([][]string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("tqx", "out:csv").
		SetQueryParam("sheet", name).
		Get(fmt.Sprintf("/spreadsheets/d/%s/gviz/tq", c.catalogID))
	if err != nil {
		return nil, fmt.Errorf("fetch table %q: %w", name, sentinel.ErrUnavailable)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch table %q: status %d: %w", name, resp.StatusCode(), sentinel.ErrUnavailable)
	}
	return parseCSV(resp.Body())
}

func (c *CSVClient) ReadFirstSheet(ctx context.Context, id string) ([][]string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("format", "csv").
		Get(fmt.Sprintf("/spreadsheets/d/%s/export", id))
	if err != nil {
		return nil, fmt.Errorf("fetch sheet %q: %w", id, sentinel.ErrUnavailable)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("fetch sheet %q: %w", id, sentinel.ErrNotFound)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch sheet %q: status %d: %w", id, resp.StatusCode(), sentinel.ErrUnavailable)
	}
	return parseCSV(resp.Body())
}

func parseCSV(body []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(body))
	// Sheets pad short rows unevenly; validate per-cell, not per-row.
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %v: %w", err, sentinel.ErrMalformed)
	}
	return rows, nil
}
