package utils

import (
	"errors"
	"fmt"
	"log"
	"time"

	"learnhub/config"

	"github.com/go-resty/resty/v2"
)

// Gateway failure modes. ErrGatewayUnavailable means the gateway could not be
// reached or errored; no local state should be mutated and the caller may
// retry. ErrPaymentDeclined means the gateway answered and refused the
// payment; it must not be retried automatically.
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrPaymentDeclined    = errors.New("payment declined by gateway")
)

// GatewayHandoff is the result of creating a payment intent: the gateway's
// payment id and the URL the payer must approve the payment at.
type GatewayHandoff struct {
	PaymentID   string `json:"payment_id"`
	ApprovalURL string `json:"approval_url"`
}

// PayPalGateway is the outbound payment collaborator. Tests swap Gateway for
// a fake; production uses the REST client below.
type PayPalGateway interface {
	CreatePayment(amount float64, currency, returnURL, cancelURL, description string) (*GatewayHandoff, error)
	ExecutePayment(paymentID, payerID string) error
}

// Gateway is the process-wide PayPal client.
var Gateway PayPalGateway = &payPalClient{}

type payPalClient struct{}

func newRestClient() *resty.Client {
	return resty.New().
		SetBaseURL(config.AppConfig.PayPalBaseURL).
		SetTimeout(10 * time.Second)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (p *payPalClient) accessToken() (string, error) {
	var tok tokenResponse
	resp, err := newRestClient().R().
		SetBasicAuth(config.AppConfig.PayPalClientID, config.AppConfig.PayPalClientSecret).
		SetFormData(map[string]string{"grant_type": "client_credentials"}).
		SetResult(&tok).
		Post("/v1/oauth2/token")
	if err != nil {
		log.Printf("PayPal auth error: %v", err)
		return "", ErrGatewayUnavailable
	}
	if resp.StatusCode() != 200 || tok.AccessToken == "" {
		log.Printf("PayPal auth failed: %d %s", resp.StatusCode(), resp.String())
		return "", ErrGatewayUnavailable
	}
	return tok.AccessToken, nil
}

type paymentResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
	Links []struct {
		Href   string `json:"href"`
		Rel    string `json:"rel"`
		Method string `json:"method"`
	} `json:"links"`
}

// CreatePayment creates a sale-intent payment and returns the approval URL
// the payer is redirected to.
func (p *payPalClient) CreatePayment(amount float64, currency, returnURL, cancelURL, description string) (*GatewayHandoff, error) {
	token, err := p.accessToken()
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"intent": "sale",
		"payer":  map[string]string{"payment_method": "paypal"},
		"redirect_urls": map[string]string{
			"return_url": returnURL,
			"cancel_url": cancelURL,
		},
		"transactions": []map[string]interface{}{{
			"amount": map[string]string{
				"total":    fmt.Sprintf("%.2f", amount),
				"currency": currency,
			},
			"description": description,
		}},
	}

	var payment paymentResponse
	resp, err := newRestClient().R().
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&payment).
		Post("/v1/payments/payment")
	if err != nil {
		log.Printf("PayPal create payment error: %v", err)
		return nil, ErrGatewayUnavailable
	}
	if resp.StatusCode() != 201 || payment.ID == "" {
		log.Printf("PayPal create payment failed: %d %s", resp.StatusCode(), resp.String())
		return nil, ErrGatewayUnavailable
	}

	handoff := &GatewayHandoff{PaymentID: payment.ID}
	for _, link := range payment.Links {
		if link.Rel == "approval_url" {
			handoff.ApprovalURL = link.Href
			break
		}
	}
	if handoff.ApprovalURL == "" {
		log.Printf("PayPal create payment response missing approval_url: %s", resp.String())
		return nil, ErrGatewayUnavailable
	}

	return handoff, nil
}

// ExecutePayment captures an approved payment. The payer id comes from the
// gateway redirect.
func (p *payPalClient) ExecutePayment(paymentID, payerID string) error {
	token, err := p.accessToken()
	if err != nil {
		return err
	}

	var payment paymentResponse
	resp, err := newRestClient().R().
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"payer_id": payerID}).
		SetResult(&payment).
		Post("/v1/payments/payment/" + paymentID + "/execute")
	if err != nil {
		log.Printf("PayPal execute payment error: %v", err)
		return ErrGatewayUnavailable
	}
	if resp.StatusCode() >= 500 {
		log.Printf("PayPal execute payment gateway error: %d %s", resp.StatusCode(), resp.String())
		return ErrGatewayUnavailable
	}
	if resp.StatusCode() != 200 || payment.State != "approved" {
		log.Printf("PayPal execute payment declined: %d state=%s", resp.StatusCode(), payment.State)
		return ErrPaymentDeclined
	}

	return nil
}
