package server

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkstash/internal/handlers"
)

// mockDBService is a stand-in for database.Service in handler tests.
type mockDBService struct{}

func (m *mockDBService) Health() map[string]string {
	return map[string]string{"message": "It's healthy"}
}

func (m *mockDBService) DB() *sql.DB { return nil }

func (m *mockDBService) Close() error { return nil }

func TestHelloHandler(t *testing.T) {
	ch := handlers.NewCommonHandler(&mockDBService{})
	srv := httptest.NewServer(http.HandlerFunc(ch.HelloHandler))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("error making request to server. Err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK; got %v", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("error reading response body. Err: %v", err)
	}
	expected := "{\"message\":\"linkstash is running\"}\n"
	if string(body) != expected {
		t.Errorf("expected response body to be %v; got %v", expected, string(body))
	}
}

func TestHealthHandler(t *testing.T) {
	ch := handlers.NewCommonHandler(&mockDBService{})
	srv := httptest.NewServer(http.HandlerFunc(ch.HealthHandler))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("error making request to server. Err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status OK; got %v", resp.Status)
	}
}
