// Package viacep resolves Brazilian postal codes to street addresses.
package viacep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/movase/bookstore/internal/config"
	"github.com/movase/bookstore/internal/correios"
	"github.com/movase/bookstore/pkg/errors"
)

// Address is the ViaCEP response payload
type Address struct {
	CEP         string `json:"cep"`
	Street      string `json:"logradouro"`
	Complement  string `json:"complemento"`
	District    string `json:"bairro"`
	City        string `json:"localidade"`
	State       string `json:"uf"`
	IBGE        string `json:"ibge,omitempty"`
	DDD         string `json:"ddd,omitempty"`
	NotFoundErr bool   `json:"erro,omitempty"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new ViaCEP lookup client
func NewClient(cfg config.ViaCEPConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Lookup resolves a CEP to an address. Unknown CEPs fail with ErrNotFound
// so callers can fall back to manual entry.
func (c *Client) Lookup(ctx context.Context, cep string) (*Address, error) {
	clean := correios.OnlyDigits(cep)
	if len(clean) != 8 {
		return nil, &errors.ErrInvalidInput{Field: "cep", Message: "CEP deve ter 8 dígitos"}
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, clean)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ViaCEP: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("viaCEP error: status %d", resp.StatusCode)
	}

	var addr Address
	if err := json.NewDecoder(resp.Body).Decode(&addr); err != nil {
		return nil, fmt.Errorf("failed to decode ViaCEP response: %w", err)
	}

	if addr.NotFoundErr {
		return nil, &errors.ErrNotFound{Resource: "cep", ID: clean}
	}

	return &addr, nil
}
