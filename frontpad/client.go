package frontpad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://app.frontpad.ru/api/index.php"

const (
	orderTimeout   = 30 * time.Second
	catalogTimeout = 10 * time.Second
)

var (
	// ErrSecretMissing means the API secret is absent or still the
	// placeholder value, so no request can be made.
	ErrSecretMissing = errors.New("frontpad secret is not configured")

	// ErrTimeout means the API did not answer within the deadline.
	ErrTimeout = errors.New("frontpad request timed out")
)

// APIError is a non-success result returned by the API.
type APIError struct {
	Code string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("frontpad: %s", e.Code)
}

// Message translates an API error code into a customer-facing message.
func (e *APIError) Message() string {
	switch e.Code {
	case "cash_close":
		return "К сожалению, смена закрыта. Попробуйте оформить заказ позже."
	case "invalid_product_keys":
		return "Некоторые товары из вашего заказа недоступны. Обновите страницу и попробуйте снова."
	case "invalid_certificate":
		return "Неверный номер сертификата"
	case "invalid_secret":
		return "Ошибка конфигурации системы"
	case "requests_limit":
		return "Превышено количество запросов. Попробуйте через минуту."
	case "api_off":
		return "Система временно недоступна"
	default:
		return fmt.Sprintf("Ошибка: %s", e.Code)
	}
}

// Client talks to the Frontpad restaurant API.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// NewClient creates a Frontpad client. An empty baseURL selects the
// production endpoint.
func NewClient(baseURL, secret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		secret:     secret,
		httpClient: &http.Client{},
	}
}

// Configured reports whether a usable secret is set. The deployment
// placeholder "###" counts as unset.
func (c *Client) Configured() bool {
	return c.secret != "" && c.secret != "###"
}

// OrderResult is the API's acknowledgement of an accepted order.
type OrderResult struct {
	OrderID     string          `json:"frontpadOrderId"`
	OrderNumber string          `json:"frontpadOrderNumber"`
	Warnings    json.RawMessage `json:"warnings,omitempty"`
}

// Product is an item from the API catalog.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	SaleEnabled bool    `json:"saleEnabled"`
}

// Stop is a catalog item currently unavailable for ordering.
type Stop struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// apiResponse covers the fields shared by every API answer. Catalog
// endpoints key their arrays by stringified index.
type apiResponse struct {
	Result      string            `json:"result"`
	Error       string            `json:"error"`
	OrderID     json.Number       `json:"order_id"`
	OrderNumber json.Number       `json:"order_number"`
	Warnings    json.RawMessage   `json:"warnings"`
	ProductIDs  map[string]string `json:"product_id"`
	Names       map[string]string `json:"name"`
	Prices      map[string]string `json:"price"`
	Sales       map[string]string `json:"sale"`
}

// SendOrder relays an order to the restaurant.
func (c *Client) SendOrder(ctx context.Context, order Order) (*OrderResult, error) {
	if !c.Configured() {
		return nil, ErrSecretMissing
	}

	form := order.Encode(c.secret)

	resp, err := c.post(ctx, "new_order", form, orderTimeout)
	if err != nil {
		return nil, err
	}

	if resp.Result != "success" {
		return nil, &APIError{Code: resp.Error}
	}

	return &OrderResult{
		OrderID:     resp.OrderID.String(),
		OrderNumber: resp.OrderNumber.String(),
		Warnings:    resp.Warnings,
	}, nil
}

// GetProducts fetches the full product catalog.
func (c *Client) GetProducts(ctx context.Context) ([]Product, error) {
	if !c.Configured() {
		return nil, ErrSecretMissing
	}

	form := url.Values{"secret": {c.secret}}
	resp, err := c.post(ctx, "get_products", form, catalogTimeout)
	if err != nil {
		return nil, err
	}

	if resp.Result != "success" {
		return nil, &APIError{Code: resp.Error}
	}

	products := make([]Product, 0, len(resp.ProductIDs))
	for _, key := range sortedKeys(resp.ProductIDs) {
		products = append(products, Product{
			ID:          resp.ProductIDs[key],
			Name:        resp.Names[key],
			Price:       parsePrice(resp.Prices[key]),
			SaleEnabled: resp.Sales[key] == "1",
		})
	}
	return products, nil
}

// GetStops fetches the stop list, the products temporarily unavailable.
func (c *Client) GetStops(ctx context.Context) ([]Stop, error) {
	if !c.Configured() {
		return nil, ErrSecretMissing
	}

	form := url.Values{"secret": {c.secret}}
	resp, err := c.post(ctx, "get_stops", form, catalogTimeout)
	if err != nil {
		return nil, err
	}

	if resp.Result != "success" {
		return nil, &APIError{Code: resp.Error}
	}

	// An empty stop list is reported as an error code on a success result.
	if resp.Error == "no_stops" {
		return []Stop{}, nil
	}

	stops := make([]Stop, 0, len(resp.ProductIDs))
	for _, key := range sortedKeys(resp.ProductIDs) {
		stops = append(stops, Stop{
			ID:    resp.ProductIDs[key],
			Name:  resp.Names[key],
			Price: parsePrice(resp.Prices[key]),
		})
	}
	return stops, nil
}

func (c *Client) post(ctx context.Context, action string, form url.Values, timeout time.Duration) (*apiResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := c.baseURL + "?" + action
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("frontpad request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read frontpad response: %w", err)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode frontpad response: %w", err)
	}
	return &resp, nil
}

// sortedKeys orders index-keyed map keys numerically where possible.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	return keys
}

func parsePrice(s string) float64 {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return price
}
