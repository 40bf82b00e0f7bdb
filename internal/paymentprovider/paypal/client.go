// Package paypal implementa el cliente REST de la API de órdenes v2 de
// PayPal: obtención del token OAuth, creación de órdenes y captura.
package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Client struct {
	clientID   string
	secret     string
	apiURL     string
	currency   string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient crea un nuevo cliente de PayPal.
func NewClient(clientID, secret, apiURL, currency string) *Client {
	return &Client{
		clientID:   clientID,
		secret:     secret,
		apiURL:     apiURL,
		currency:   currency,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// token devuelve un token OAuth válido, renovándolo si ha expirado.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.secret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("unexpected status: " + resp.Status)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", err
	}
	c.accessToken = tok.AccessToken
	// Renovación un minuto antes del vencimiento nominal.
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)
	return c.accessToken, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateOrder crea una orden de pago por el importe indicado (en la unidad
// mínima de la moneda configurada).
func (c *Client) CreateOrder(ctx context.Context, amount int) (*OrderResponse, error) {
	reqBody := CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []PurchaseUnit{
			{Amount: Amount{
				CurrencyCode: c.currency,
				Value:        formatAmount(amount),
			}},
		},
	}
	req, err := c.newRequest(ctx, "POST", "/v2/checkout/orders", reqBody)
	if err != nil {
		return nil, err
	}
	return c.doOrder(req)
}

// CaptureOrder captura una orden previamente aprobada por el comprador.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*OrderResponse, error) {
	req, err := c.newRequest(ctx, "POST", "/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return nil, err
	}
	return c.doOrder(req)
}

func (c *Client) doOrder(req *http.Request) (*OrderResponse, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var orderResp OrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, err
	}
	return &orderResp, nil
}

// formatAmount convierte el importe en unidad mínima al formato decimal
// que espera PayPal (por ejemplo 1050 -> "10.50").
func formatAmount(amount int) string {
	return strconv.Itoa(amount/100) + "." + fmt.Sprintf("%02d", amount%100)
}
