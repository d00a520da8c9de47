package cardcom

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(baseURL string) *Service {
	return &Service{
		Client:   &http.Client{Timeout: 2 * time.Second},
		Terminal: 1000,
		APIName:  "test-api",
		BaseURL:  baseURL,
	}
}

func TestCreateLowProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v11/LowProfile/Create", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 1000, req["TerminalNumber"])
		assert.Equal(t, "test-api", req["ApiName"])
		assert.Equal(t, "req-123", req["ReturnValue"])
		assert.EqualValues(t, 50, req["Amount"])

		json.NewEncoder(w).Encode(CreateResponse{
			ResponseCode: 0,
			LowProfileId: "lp-abc",
			Url:          "https://pay.example/lp-abc",
		})
	}))
	defer srv.Close()

	resp, err := testService(srv.URL).CreateLowProfile(CreateInput{
		ReturnValue:        "req-123",
		Amount:             50,
		CustomerName:       "Dana",
		ProductDescription: "Contact unlock fee",
	})
	require.NoError(t, err)
	assert.Equal(t, "lp-abc", resp.LowProfileId)
	assert.Equal(t, "https://pay.example/lp-abc", resp.Url)
}

func TestCreateLowProfileGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CreateResponse{ResponseCode: 501, Description: "terminal blocked"})
	}))
	defer srv.Close()

	_, err := testService(srv.URL).CreateLowProfile(CreateInput{Amount: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "501")
	assert.Contains(t, err.Error(), "terminal blocked")
}

func TestCreateLowProfileMissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(CreateResponse{ResponseCode: 0})
	}))
	defer srv.Close()

	_, err := testService(srv.URL).CreateLowProfile(CreateInput{Amount: 50})
	assert.Error(t, err)
}

func TestCreateLowProfileHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testService(srv.URL).CreateLowProfile(CreateInput{Amount: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGetResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v11/LowProfile/GetLpResult", r.URL.Path)

		var req resultRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "lp-abc", req.LowProfileId)

		json.NewEncoder(w).Encode(ResultResponse{
			ResponseCode: 0,
			LowProfileId: "lp-abc",
			ReturnValue:  "req-123",
			Amount:       50,
		})
	}))
	defer srv.Close()

	res, err := testService(srv.URL).GetResult("lp-abc")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ResponseCode)
	assert.Equal(t, "req-123", res.ReturnValue)
	assert.EqualValues(t, 50, res.Amount)
}

func TestGetResultDeclined(t *testing.T) {
	// Declines come back as data, not transport errors; the caller decides.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ResultResponse{ResponseCode: 701, Description: "declined"})
	}))
	defer srv.Close()

	res, err := testService(srv.URL).GetResult("lp-abc")
	require.NoError(t, err)
	assert.Equal(t, 701, res.ResponseCode)
}
