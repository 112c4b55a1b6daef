// Package address resolves Brazilian postal codes (CEP) into street data used
// to pre-fill restaurant addresses.
package address

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cardapio/internal/validator"
)

var (
	ErrInvalidPostalCode = errors.New("postal code must have 8 digits")
	ErrNotFound          = errors.New("postal code not found")
	ErrLookupFailed      = errors.New("postal code lookup failed")
)

// Lookup is the address part a postal code determines.
type Lookup struct {
	PostalCode   string `json:"cep"`
	Street       string `json:"rua"`
	Neighborhood string `json:"bairro"`
	City         string `json:"cidade"`
	State        string `json:"uf"`
}

type Resolver interface {
	Resolve(ctx context.Context, postalCode string) (*Lookup, error)
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       any    `json:"erro"`
}

// notFound reports the "erro" flag, which the service sends as a boolean or
// as the string "true".
func (r viaCEPResponse) notFound() bool {
	switch v := r.Erro.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

type viaCEP struct {
	baseURL string
	client  *http.Client
}

// NewViaCEP returns a Resolver backed by the ViaCEP API at baseURL
// (e.g. https://viacep.com.br/ws).
func NewViaCEP(baseURL string, timeout time.Duration) Resolver {
	return &viaCEP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (v *viaCEP) Resolve(ctx context.Context, postalCode string) (*Lookup, error) {
	digits := validator.Digits(postalCode)
	if len(digits) != 8 {
		return nil, ErrInvalidPostalCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", v.baseURL, digits), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if body.notFound() {
		return nil, ErrNotFound
	}

	return &Lookup{
		PostalCode:   validator.FormatPostalCode(digits),
		Street:       body.Logradouro,
		Neighborhood: body.Bairro,
		City:         body.Localidade,
		State:        body.UF,
	}, nil
}
