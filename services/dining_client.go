package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"tableside_server/structs"
)

// DiningAPI is the external table-ordering system orders are pushed to.
type DiningAPI interface {
	ListTables(ctx context.Context) ([]structs.DiningTable, error)
	CreateTableOrder(ctx context.Context, req structs.DiningTableOrderRequest) (*structs.DiningTableOrder, error)
	AddOrderLine(ctx context.Context, orderID string, line structs.DiningOrderLineRequest) error
}

type DiningClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewDiningClient(cfg *structs.DiningConfig) *DiningClient {
	return &DiningClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (dc *DiningClient) ListTables(ctx context.Context) ([]structs.DiningTable, error) {
	var tables []structs.DiningTable
	if err := dc.do(ctx, http.MethodGet, "/dining/tables", nil, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

func (dc *DiningClient) CreateTableOrder(ctx context.Context, req structs.DiningTableOrderRequest) (*structs.DiningTableOrder, error) {
	var order structs.DiningTableOrder
	if err := dc.do(ctx, http.MethodPost, "/dining/tableOrders", req, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, fmt.Errorf("dining api returned an order without id")
	}
	return &order, nil
}

func (dc *DiningClient) AddOrderLine(ctx context.Context, orderID string, line structs.DiningOrderLineRequest) error {
	return dc.do(ctx, http.MethodPost, "/dining/tableOrders/"+url.PathEscape(orderID), line, nil)
}

func (dc *DiningClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, dc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if dc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+dc.apiKey)
	}

	resp, err := dc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s answered %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}
