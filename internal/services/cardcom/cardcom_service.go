package cardcom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Service talks to the Cardcom LowProfile v11 API: a hosted payment page is
// created per charge and the result is re-fetched server side with the
// merchant credentials, so webhook bodies are never trusted on their own.
type Service struct {
	Client   *http.Client
	Terminal int
	APIName  string
	BaseURL  string
}

func NewService() *Service {
	terminal, _ := strconv.Atoi(os.Getenv("CARDCOM_TERMINAL_NUMBER"))

	baseURL := os.Getenv("CARDCOM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://secure.cardcom.solutions"
	}

	return &Service{
		Client:   &http.Client{Timeout: 15 * time.Second},
		Terminal: terminal,
		APIName:  os.Getenv("CARDCOM_API_NAME"),
		BaseURL:  baseURL,
	}
}

type Product struct {
	Description string `json:"Description"`
	UnitCost    int64  `json:"UnitCost"`
}

type Document struct {
	Name     string    `json:"Name"`
	Email    string    `json:"Email,omitempty"`
	Products []Product `json:"Products"`
}

type createRequest struct {
	TerminalNumber     int      `json:"TerminalNumber"`
	ApiName            string   `json:"ApiName"`
	ReturnValue        string   `json:"ReturnValue"`
	Amount             int64    `json:"Amount"`
	SuccessRedirectUrl string   `json:"SuccessRedirectUrl"`
	FailedRedirectUrl  string   `json:"FailedRedirectUrl"`
	WebHookUrl         string   `json:"WebHookUrl"`
	Document           Document `json:"Document"`
}

type CreateResponse struct {
	ResponseCode int    `json:"ResponseCode"`
	Description  string `json:"Description"`
	LowProfileId string `json:"LowProfileId"`
	Url          string `json:"Url"`
}

type CreateInput struct {
	ReturnValue        string // our correlation id, echoed back on GetLpResult
	Amount             int64
	CustomerName       string
	CustomerEmail      string
	ProductDescription string
	SuccessRedirectUrl string
	FailedRedirectUrl  string
	WebHookUrl         string
}

// CreateLowProfile opens a hosted payment page and returns its URL together
// with the gateway-assigned LowProfileId.
func (s *Service) CreateLowProfile(in CreateInput) (*CreateResponse, error) {
	reqBody := createRequest{
		TerminalNumber:     s.Terminal,
		ApiName:            s.APIName,
		ReturnValue:        in.ReturnValue,
		Amount:             in.Amount,
		SuccessRedirectUrl: in.SuccessRedirectUrl,
		FailedRedirectUrl:  in.FailedRedirectUrl,
		WebHookUrl:         in.WebHookUrl,
		Document: Document{
			Name:  in.CustomerName,
			Email: in.CustomerEmail,
			Products: []Product{
				{Description: in.ProductDescription, UnitCost: in.Amount},
			},
		},
	}

	var resp CreateResponse
	if err := s.post("/api/v11/LowProfile/Create", reqBody, &resp); err != nil {
		return nil, err
	}
	if resp.ResponseCode != 0 {
		return nil, fmt.Errorf("cardcom error %d: %s", resp.ResponseCode, resp.Description)
	}
	if resp.Url == "" {
		return nil, fmt.Errorf("cardcom returned no payment url")
	}
	return &resp, nil
}

type resultRequest struct {
	TerminalNumber int    `json:"TerminalNumber"`
	ApiName        string `json:"ApiName"`
	LowProfileId   string `json:"LowProfileId"`
}

type ResultResponse struct {
	ResponseCode  int    `json:"ResponseCode"`
	Description   string `json:"Description"`
	LowProfileId  string `json:"LowProfileId"`
	TranzactionId int64  `json:"TranzactionId"`
	ReturnValue   string `json:"ReturnValue"`
	Amount        int64  `json:"Amount"`
	OperationCode int    `json:"OperationResponse"`
}

// GetResult fetches the outcome of a LowProfile transaction directly from
// the gateway. This is the trust anchor for webhook handling.
func (s *Service) GetResult(lowProfileID string) (*ResultResponse, error) {
	reqBody := resultRequest{
		TerminalNumber: s.Terminal,
		ApiName:        s.APIName,
		LowProfileId:   lowProfileID,
	}

	var resp ResultResponse
	if err := s.post("/api/v11/LowProfile/GetLpResult", reqBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) post(path string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cardcom http status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse cardcom response: %w", err)
	}
	return nil
}
