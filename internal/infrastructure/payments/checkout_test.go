package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

func TestClient_CreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk_test" {
			t.Fatalf("missing api key header: %q", r.Header.Get("Authorization"))
		}

		var req sessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Amount != 100 || req.Currency != "usd" {
			t.Fatalf("unexpected charge: %d %s", req.Amount, req.Currency)
		}
		if req.Metadata["type"] != "boost" || req.Metadata["issue_id"] != "issue-1" {
			t.Fatalf("metadata not forwarded: %v", req.Metadata)
		}

		json.NewEncoder(w).Encode(sessionResponse{ID: "cs_123", URL: "https://pay.example.com/cs_123"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	session, err := client.CreateSession(context.Background(), ports.ProviderSessionRequest{
		Type:      domain.PaymentBoost,
		IssueID:   "issue-1",
		UserEmail: "maria@example.com",
		UserName:  "Maria",
		Amount:    100,
		Currency:  "usd",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if session.SessionID != "cs_123" || session.RedirectURL != "https://pay.example.com/cs_123" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestClient_VerifySession_StatusMapping(t *testing.T) {
	cases := []struct {
		provider string
		want     domain.CheckoutStatus
	}{
		{"paid", domain.CheckoutPaid},
		{"complete", domain.CheckoutPaid},
		{"cancelled", domain.CheckoutCancelled},
		{"expired", domain.CheckoutCancelled},
		{"requires_payment", domain.CheckoutFailed},
		{"", domain.CheckoutFailed},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/checkout/sessions/cs_123/verify" {
				t.Fatalf("unexpected path: %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(verifyResponse{
				Status:        tc.provider,
				TransactionID: "txn_9",
				AmountPaid:    100,
				Metadata: map[string]string{
					"type":       "boost",
					"issue_id":   "issue-1",
					"user_email": "maria@example.com",
				},
			})
		}))

		client := NewClient(srv.URL, "sk_test")
		v, err := client.VerifySession(context.Background(), "cs_123")
		srv.Close()
		if err != nil {
			t.Fatalf("verify %q failed: %v", tc.provider, err)
		}
		if v.Status != tc.want {
			t.Errorf("status %q mapped to %s, want %s", tc.provider, v.Status, tc.want)
		}
		if v.TransactionID != "txn_9" || v.Type != domain.PaymentBoost || v.IssueID != "issue-1" {
			t.Errorf("metadata lost on verify: %+v", v)
		}
		if v.UserEmail != "maria@example.com" {
			t.Errorf("user email lost on verify: %q", v.UserEmail)
		}
	}
}

func TestClient_VerifySession_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "sk_test")
	if _, err := client.VerifySession(context.Background(), "cs_404"); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
