// Package integration holds black-box tests run against a deployed
// service instance. Set BASE_URL to point at it; the tests are skipped
// when it is unset.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL(t *testing.T) string {
	t.Helper()
	v := os.Getenv("BASE_URL")
	if v == "" {
		t.Skip("BASE_URL not set")
	}
	return v
}

func waitReady(t *testing.T, u string) {
	t.Helper()
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(u + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("service not ready")
}

func TestIntegration_OpenAPIServed(t *testing.T) {
	u := baseURL(t)
	waitReady(t, u)
	resp, err := http.Get(u + "/openapi.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_DocsServed(t *testing.T) {
	u := baseURL(t)
	waitReady(t, u)
	resp, err := http.Get(u + "/docs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(b), "swagger-ui") {
		t.Fatalf("expected swagger-ui in docs page")
	}
}

func TestIntegration_SessionRoundTrip(t *testing.T) {
	u := baseURL(t)
	waitReady(t, u)

	resp, err := http.Post(u+"/sessions", "application/json",
		bytes.NewBufferString(`{"account_id":"ACC-1001","user_id":"USR-MGR-1"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var sr struct {
		SessionID string `json:"session_id"`
		ItemCount int    `json:"item_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sr.SessionID == "" || sr.ItemCount == 0 {
		t.Fatalf("unexpected session: %+v", sr)
	}
	base := u + "/sessions/" + sr.SessionID

	add, err := http.Post(base+"/cart", "application/json",
		bytes.NewBufferString(`{"item_id":"ITM-0001"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer add.Body.Close()
	if add.StatusCode != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", add.StatusCode)
	}

	co, err := http.Post(base+"/checkout", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer co.Body.Close()
	if co.StatusCode != http.StatusOK {
		t.Fatalf("checkout: expected 200, got %d", co.StatusCode)
	}
	var cr struct {
		PurchaseID string `json:"purchase_id"`
	}
	if err := json.NewDecoder(co.Body).Decode(&cr); err != nil {
		t.Fatalf("decode checkout: %v", err)
	}
	if cr.PurchaseID == "" {
		t.Fatalf("missing purchase id")
	}
}
