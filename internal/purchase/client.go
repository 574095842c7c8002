package purchase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dromero/devicestore-backend/pkg/config"
	"github.com/dromero/devicestore-backend/pkg/logger"
)

// Sale endpoint on the remote sales service. Like the catalog service, the
// upstream keeps its original Spanish resource names and wire fields.
const salePath = "/api/ventas/vender"

var (
	errBaseURLRequired = errors.New("sales base url is required")
	errLoggerRequired  = errors.New("sales logger is required")
)

// SubmitResult is the remote sale endpoint's verdict.
type SubmitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submitter posts assembled purchase records to the remote sales service.
type Submitter interface {
	SubmitSale(ctx context.Context, record Record) (SubmitResult, error)
}

// Client is the HTTP submission collaborator. One attempt per call, no
// automatic retries; retry policy belongs to the caller.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient initializes the sales client and validates its configuration.
func NewClient(ctx context.Context, cfg config.SalesConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing sales base url: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.BearerToken),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}

	logg.Info(ctx, "sales client initialized")
	return c, nil
}

// SubmitSale posts the record and decodes the remote verdict. A non-2xx
// status is an error; a decoded {success:false} verdict is returned as-is for
// the caller to map.
func (c *Client) SubmitSale(ctx context.Context, record Record) (SubmitResult, error) {
	payload, err := json.Marshal(toSaleWire(record))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("encoding sale request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+salePath, bytes.NewReader(payload))
	if err != nil {
		return SubmitResult{}, fmt.Errorf("building sale request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("calling sale endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SubmitResult{}, fmt.Errorf("sale endpoint returned status %d", resp.StatusCode)
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SubmitResult{}, fmt.Errorf("decoding sale response: %w", err)
	}
	return result, nil
}

type saleWire struct {
	IDDispositivo     int64           `json:"idDispositivo"`
	Personalizaciones []saleGroupWire `json:"personalizaciones"`
	Adicionales       []saleAddOnWire `json:"adicionales"`
	PrecioFinal       decimal.Decimal `json:"precioFinal"`
	FechaVenta        string          `json:"fechaVenta"`
}

type saleGroupWire struct {
	ID     int64           `json:"id"`
	Precio decimal.Decimal `json:"precio"`
	Opcion saleOptionWire  `json:"opcion"`
}

type saleOptionWire struct {
	ID int64 `json:"id"`
}

type saleAddOnWire struct {
	ID     int64           `json:"id"`
	Precio decimal.Decimal `json:"precio"`
}

func toSaleWire(record Record) saleWire {
	wire := saleWire{
		IDDispositivo:     record.DeviceID,
		Personalizaciones: make([]saleGroupWire, 0, len(record.Groups)),
		Adicionales:       make([]saleAddOnWire, 0, len(record.AddOns)),
		PrecioFinal:       record.Total,
		FechaVenta:        record.Timestamp,
	}
	for _, line := range record.Groups {
		wire.Personalizaciones = append(wire.Personalizaciones, saleGroupWire{
			ID:     line.GroupID,
			Precio: line.Charged,
			Opcion: saleOptionWire{ID: line.OptionID},
		})
	}
	for _, line := range record.AddOns {
		wire.Adicionales = append(wire.Adicionales, saleAddOnWire{
			ID:     line.AddOnID,
			Precio: line.Charged,
		})
	}
	return wire
}
