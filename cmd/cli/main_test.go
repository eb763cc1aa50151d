package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func withTestServer(t *testing.T, h http.HandlerFunc) func() {
	t.Helper()

	srv := httptest.NewServer(h)
	origURL, origTimeout := baseURL, timeout
	baseURL = srv.URL
	timeout = 2 * time.Second

	return func() {
		srv.Close()
		baseURL = origURL
		timeout = origTimeout
	}
}

func TestCheckConsistencyPasses(t *testing.T) {
	cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/ledger/consistency" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"consistent":true,"results":[]}`))
	})
	defer cleanup()

	out := captureOutput(t, checkConsistency)

	if !strings.Contains(out, "PASSED") || !strings.Contains(out, "Consistent: true") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestShowBalances(t *testing.T) {
	cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"currency":"PYG","balance":"1500000"},{"currency":"USD","balance":"320"}]`))
	})
	defer cleanup()

	out := captureOutput(t, showBalances)

	if !strings.Contains(out, "PYG: 1500000") || !strings.Contains(out, "USD: 320") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSubmitCountBuildsLines(t *testing.T) {
	var gotBody []byte
	cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"arq-1"}`))
	})
	defer cleanup()

	origUser := userID
	userID = "tesorero-1"
	defer func() { userID = origUser }()

	out := captureOutput(t, func() { submitCount([]string{"PYG=4500000", "USD=120"}) })

	if !strings.Contains(string(gotBody), `"currency":"PYG"`) || !strings.Contains(string(gotBody), `"counted_total":"120"`) {
		t.Fatalf("unexpected request body: %s", gotBody)
	}
	if !strings.Contains(out, "arq-1") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestTransitionWithdrawalSendsUserHeader(t *testing.T) {
	var gotUser, gotPath string
	cleanup := withTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("X-User-ID")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ret-1","status":"RECIBIDO"}`))
	})
	defer cleanup()

	origUser := userID
	userID = "cajero-9"
	defer func() { userID = origUser }()

	out := captureOutput(t, func() { transitionWithdrawal("ret-1", "receive") })

	if gotUser != "cajero-9" {
		t.Fatalf("expected X-User-ID header, got %q", gotUser)
	}
	if gotPath != "/api/v1/withdrawals/ret-1/receive" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if !strings.Contains(out, "RECIBIDO") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
