package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/planlens/internal/app"
	"github.com/bobmcallan/planlens/internal/common"
	"github.com/bobmcallan/planlens/internal/server"
)

// Scheme is a fund served by the fake NAV provider.
type Scheme struct {
	Code  string
	Name  string
	Start time.Time
	Days  int
	// Rate is the daily NAV growth rate.
	Rate float64
}

// testEnv runs the full server stack in process against a fake NAV provider.
type testEnv struct {
	t        *testing.T
	provider *httptest.Server
	api      *httptest.Server
	app      *app.App
}

// newTestEnv starts a provider serving schemes and a planlens API backed by file storage.
func newTestEnv(t *testing.T, schemes ...Scheme) *testEnv {
	t.Helper()
	return startEnv(t, "", schemes)
}

// newSecuredEnv is newTestEnv with bearer token auth enabled.
func newSecuredEnv(t *testing.T, secret string, schemes ...Scheme) *testEnv {
	t.Helper()
	return startEnv(t, secret, schemes)
}

func startEnv(t *testing.T, secret string, schemes []Scheme) *testEnv {
	t.Helper()

	provider := httptest.NewServer(providerHandler(schemes))

	config := common.NewDefaultConfig()
	config.Storage.Backend = "file"
	config.Storage.Path = t.TempDir()
	config.Clients.MFAPI.BaseURL = provider.URL
	config.Clients.MFAPI.RateLimit = 100
	config.Auth.JWTSecret = secret

	a, err := app.New(config, common.NewSilentLogger())
	if err != nil {
		provider.Close()
		t.Fatalf("Failed to build app: %v", err)
	}

	srv := server.NewServer(a)
	return &testEnv{
		t:        t,
		provider: provider,
		api:      httptest.NewServer(srv.Handler()),
		app:      a,
	}
}

// Cleanup stops both servers and closes storage.
func (e *testEnv) Cleanup() {
	e.api.Close()
	e.provider.Close()
	e.app.Close()
}

// HTTPGet issues a GET against the API.
func (e *testEnv) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.api.URL + path)
}

// HTTPDo issues a request with an optional JSON body.
func (e *testEnv) HTTPDo(method, path string, body interface{}) (*http.Response, error) {
	return e.HTTPDoWithToken(method, path, "", body)
}

// HTTPDoWithToken is HTTPDo with an optional bearer token.
func (e *testEnv) HTTPDoWithToken(method, path, token string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequest(method, e.api.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

// providerHandler mimics the mfapi.in endpoints the client uses.
func providerHandler(schemes []Scheme) http.Handler {
	byCode := make(map[string]Scheme, len(schemes))
	for _, s := range schemes {
		byCode[s.Code] = s
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/mf/search", func(w http.ResponseWriter, r *http.Request) {
		q := strings.ToLower(r.URL.Query().Get("q"))
		results := []map[string]interface{}{}
		for _, s := range schemes {
			if strings.Contains(strings.ToLower(s.Name), q) {
				results = append(results, map[string]interface{}{"schemeCode": s.Code, "schemeName": s.Name})
			}
		}
		json.NewEncoder(w).Encode(results)
	})
	mux.HandleFunc("/mf/", func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/mf/")
		s, ok := byCode[code]
		if !ok {
			json.NewEncoder(w).Encode(map[string]interface{}{"meta": map[string]string{}, "data": []string{}, "status": "SUCCESS"})
			return
		}

		// newest first, like the real provider
		data := make([]map[string]string, 0, s.Days)
		for i := s.Days - 1; i >= 0; i-- {
			nav := 10 * math.Pow(1+s.Rate, float64(i))
			data = append(data, map[string]string{
				"date": s.Start.AddDate(0, 0, i).Format("02-01-2006"),
				"nav":  fmt.Sprintf("%.5f", nav),
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"meta": map[string]interface{}{
				"fund_house":  "Test AMC",
				"scheme_type": "Open Ended Schemes",
				"scheme_name": s.Name,
				"scheme_code": s.Code,
			},
			"data":   data,
			"status": "SUCCESS",
		})
	})
	return mux
}
