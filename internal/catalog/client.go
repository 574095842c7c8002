package catalog

import (
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

// Remote catalog endpoints. The upstream service predates this one and keeps
// its original Spanish resource names; the wire structs below mirror it.
const (
	devicesPath  = "/api/dispositivos/traerDispositivos"
	groupsPath   = "/api/personalizacions"
	optionsPath  = "/api/opcions"
	addOnsPath   = "/api/adicionals"
	featuresPath = "/api/caracteristicas"
)

var (
	errBaseURLRequired = errors.New("catalog base url is required")
	errLoggerRequired  = errors.New("catalog logger is required")
)

// Client fetches the five source collections from the remote catalog service
// with centralized auth and error mapping.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient initializes the catalog client and validates its configuration.
func NewClient(ctx context.Context, cfg config.CatalogConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing catalog base url: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.BearerToken),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logg,
	}

	logg.Info(ctx, "catalog client initialized")
	return c, nil
}

func (c *Client) FetchDevices(ctx context.Context) ([]Device, error) {
	var wire []deviceWire
	if err := c.getJSON(ctx, devicesPath, &wire); err != nil {
		return nil, err
	}
	devices := make([]Device, 0, len(wire))
	for _, w := range wire {
		devices = append(devices, w.toDomain())
	}
	return devices, nil
}

func (c *Client) FetchCustomizationGroups(ctx context.Context) ([]CustomizationGroup, error) {
	var wire []groupWire
	if err := c.getJSON(ctx, groupsPath, &wire); err != nil {
		return nil, err
	}
	groups := make([]CustomizationGroup, 0, len(wire))
	for _, w := range wire {
		groups = append(groups, w.toDomain())
	}
	return groups, nil
}

func (c *Client) FetchOptions(ctx context.Context) ([]Option, error) {
	var wire []optionWire
	if err := c.getJSON(ctx, optionsPath, &wire); err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(wire))
	for _, w := range wire {
		options = append(options, w.toDomain())
	}
	return options, nil
}

func (c *Client) FetchAddOns(ctx context.Context) ([]AddOn, error) {
	var wire []addOnWire
	if err := c.getJSON(ctx, addOnsPath, &wire); err != nil {
		return nil, err
	}
	addOns := make([]AddOn, 0, len(wire))
	for _, w := range wire {
		addOns = append(addOns, w.toDomain())
	}
	return addOns, nil
}

func (c *Client) FetchFeatures(ctx context.Context) ([]Feature, error) {
	var wire []featureWire
	if err := c.getJSON(ctx, featuresPath, &wire); err != nil {
		return nil, err
	}
	features := make([]Feature, 0, len(wire))
	for _, w := range wire {
		features = append(features, w.toDomain())
	}
	return features, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling catalog %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decoding catalog %s: %w", path, err)
	}
	return nil
}

type deviceWire struct {
	ID          int64           `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion string          `json:"descripcion"`
	PrecioBase  decimal.Decimal `json:"precioBase"`
	Moneda      string          `json:"moneda"`
}

func (w deviceWire) toDomain() Device {
	return Device{
		ID:          w.ID,
		Name:        w.Nombre,
		Description: w.Descripcion,
		BasePrice:   w.PrecioBase,
		Currency:    w.Moneda,
	}
}

type deviceRefWire struct {
	ID int64 `json:"id"`
}

type groupWire struct {
	ID          int64          `json:"id"`
	Nombre      string         `json:"nombre"`
	Descripcion string         `json:"descripcion"`
	Dispositivo *deviceRefWire `json:"dispositivo"`
}

func (w groupWire) toDomain() CustomizationGroup {
	group := CustomizationGroup{
		ID:          w.ID,
		Name:        w.Nombre,
		Description: w.Descripcion,
	}
	if w.Dispositivo != nil {
		group.DeviceID = w.Dispositivo.ID
	}
	return group
}

type groupRefWire struct {
	ID int64 `json:"id"`
}

type optionWire struct {
	ID              int64           `json:"id"`
	Nombre          string          `json:"nombre"`
	Descripcion     string          `json:"descripcion"`
	PrecioAdicional decimal.Decimal `json:"precioAdicional"`
	Personalizacion *groupRefWire   `json:"personalizacion"`
}

func (w optionWire) toDomain() Option {
	option := Option{
		ID:              w.ID,
		Name:            w.Nombre,
		Description:     w.Descripcion,
		AdditionalPrice: w.PrecioAdicional,
	}
	if w.Personalizacion != nil {
		groupID := w.Personalizacion.ID
		option.GroupID = &groupID
	}
	return option
}

type addOnWire struct {
	ID           int64           `json:"id"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion"`
	Precio       decimal.Decimal `json:"precio"`
	PrecioGratis decimal.Decimal `json:"precioGratis"`
	Dispositivo  *deviceRefWire  `json:"dispositivo"`
}

func (w addOnWire) toDomain() AddOn {
	addOn := AddOn{
		ID:          w.ID,
		Name:        w.Nombre,
		Description: w.Descripcion,
		Price:       w.Precio,
		FreeAbove:   w.PrecioGratis,
	}
	if w.Dispositivo != nil {
		addOn.DeviceID = w.Dispositivo.ID
	}
	return addOn
}

type featureWire struct {
	ID          int64          `json:"id"`
	Nombre      string         `json:"nombre"`
	Descripcion string         `json:"descripcion"`
	Dispositivo *deviceRefWire `json:"dispositivo"`
}

func (w featureWire) toDomain() Feature {
	feature := Feature{
		ID:          w.ID,
		Name:        w.Nombre,
		Description: w.Descripcion,
	}
	if w.Dispositivo != nil {
		feature.DeviceID = w.Dispositivo.ID
	}
	return feature
}
