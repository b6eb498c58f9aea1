package gatewayrepo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Mantas-M/NFTBookRental/util/httpx"
)

type httpRepo struct {
	baseURL       string
	apiKey        string
	callbackToken string
	client        *http.Client
}

func NewHTTP(baseURL, apiKey, callbackToken string) Repo {
	return &httpRepo{
		baseURL:       baseURL,
		apiKey:        apiKey,
		callbackToken: callbackToken,
		client:        httpx.Client(),
	}
}

func (r *httpRepo) CreateInvoice(req CreateInvoiceReq) (*CreateInvoiceResp, error) {
	body := map[string]any{
		"external_id":      req.ExternalID,
		"amount":           req.Amount,
		"description":      req.Description,
		"payer_email":      req.PayerEmail,
		"invoice_duration": req.ExpirySec,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequest(http.MethodPost, r.baseURL+"/v2/invoices", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.apiKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway create invoice failed: %s", resp.Status)
	}

	var out struct {
		ID         string `json:"id"`
		InvoiceURL string `json:"invoice_url"`
		ExpiryDate string `json:"expiry_date"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("gateway: empty invoice id")
	}
	return &CreateInvoiceResp{InvoiceID: out.ID, InvoiceURL: out.InvoiceURL, ExpiresAt: out.ExpiryDate}, nil
}

// VerifyCallbackToken checks the x-callback-token webhook header.
func (r *httpRepo) VerifyCallbackToken(header string) error {
	return verifyToken(r.callbackToken, header)
}
