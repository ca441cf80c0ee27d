package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/polaron/polaron/internal/catalog"
	"github.com/polaron/polaron/internal/events"
	"github.com/polaron/polaron/internal/sim"
)

// setupTestServer creates a server backed by an embedded event bus.
func setupTestServer(t *testing.T) (*Server, *events.Bus) {
	t.Helper()

	bus, err := events.Start(context.Background(), events.Options{})
	if err != nil {
		t.Fatalf("failed to start event bus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close() })

	srv := New(Options{
		Publisher: bus,
		Activity:  bus,
		Rand:      sim.FixedRand(1000),
		Version:   "test",
	})
	return srv, bus
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestHandleEstimateQuote_KnownRoute(t *testing.T) {
	srv, _ := setupTestServer(t)

	result, err := srv.handleEstimateQuote(context.Background(), call("estimate-quote", map[string]any{
		"origin":         "New York",
		"destination":    "Los Angeles",
		"shippingMethod": "open",
		"timeframe":      "standard",
	}))
	if err != nil {
		t.Fatalf("handleEstimateQuote returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", extractText(result))
	}

	text := extractText(result)
	if !strings.Contains(text, "$2,142 – $2,618") {
		t.Errorf("missing range in result: %s", text)
	}
	if !strings.Contains(text, "2,800 mi, known route") {
		t.Errorf("missing distance in result: %s", text)
	}
}

func TestHandleEstimateQuote_UnknownRoute(t *testing.T) {
	srv, _ := setupTestServer(t)

	result, _ := srv.handleEstimateQuote(context.Background(), call("estimate-quote", map[string]any{
		"origin":      "Boston",
		"destination": "Denver",
	}))
	text := extractText(result)
	if !strings.Contains(text, "1,500 mi, estimated distance") {
		t.Errorf("expected fallback distance, got: %s", text)
	}
}

func TestHandleEstimateQuote_InvalidRoute(t *testing.T) {
	srv, _ := setupTestServer(t)

	tests := []map[string]any{
		nil,
		{"origin": "NY", "destination": "Miami"},
		{"origin": "Miami"},
	}
	for _, args := range tests {
		result, err := srv.handleEstimateQuote(context.Background(), call("estimate-quote", args))
		if err != nil {
			t.Fatalf("handleEstimateQuote returned error: %v", err)
		}
		if !result.IsError {
			t.Errorf("expected tool error for %v, got: %s", args, extractText(result))
		}
	}
}

func TestHandleBookingDeposit(t *testing.T) {
	srv, _ := setupTestServer(t)

	tests := []struct {
		args map[string]any
		want string
	}{
		{args: map[string]any{}, want: "Deposit $375 (×1.0, no add-ons)"},
		{args: map[string]any{"expedited": true}, want: "Deposit $488 (×1.3, Expedited Shipping)"},
		{args: map[string]any{"expedited": true, "enclosed": true}, want: "Deposit $675 (×1.8, Enclosed Transport, Expedited Shipping)"},
	}
	for _, tt := range tests {
		result, err := srv.handleBookingDeposit(context.Background(), call("booking-deposit", tt.args))
		if err != nil {
			t.Fatalf("handleBookingDeposit returned error: %v", err)
		}
		if got := extractText(result); got != tt.want {
			t.Errorf("args %v: got %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestHandleValidateStep(t *testing.T) {
	srv, _ := setupTestServer(t)

	result, _ := srv.handleValidateStep(context.Background(), call("validate-step", map[string]any{
		"flow": "booking",
		"step": float64(5),
		"fields": map[string]any{
			"cardNumber": "4242424242424242",
			"cardName":   "Ada Lovelace",
			"expiryDate": "12/29",
			"cvv":        "123",
		},
	}))
	text := extractText(result)
	if !strings.HasPrefix(text, "booking invalid") {
		t.Errorf("expected invalid without terms: %s", text)
	}
	if !strings.Contains(text, "5. Payment: incomplete") {
		t.Errorf("missing step line: %s", text)
	}

	result, _ = srv.handleValidateStep(context.Background(), call("validate-step", map[string]any{
		"flow":   "contact",
		"fields": map[string]any{"firstName": "Ada", "lastName": "L", "email": "a@b.c", "subject": "General Inquiry", "message": "Hello"},
	}))
	if text := extractText(result); !strings.HasPrefix(text, "contact valid") {
		t.Errorf("expected valid contact form: %s", text)
	}
}

func TestHandleValidateStep_Errors(t *testing.T) {
	srv, _ := setupTestServer(t)

	result, _ := srv.handleValidateStep(context.Background(), call("validate-step", map[string]any{"flow": "club"}))
	if !result.IsError || !strings.Contains(extractText(result), "unknown flow") {
		t.Errorf("expected unknown flow error, got: %s", extractText(result))
	}

	result, _ = srv.handleValidateStep(context.Background(), call("validate-step", map[string]any{"flow": "quote", "step": float64(6)}))
	if !result.IsError || !strings.Contains(extractText(result), "between 0 and 5") {
		t.Errorf("expected step range error, got: %s", extractText(result))
	}
}

func TestHandleListCatalog(t *testing.T) {
	srv, _ := setupTestServer(t)

	result, _ := srv.handleListCatalog(context.Background(), call("list-catalog", nil))
	var got catalog.Catalog
	if err := json.Unmarshal([]byte(extractText(result)), &got); err != nil {
		t.Fatalf("catalog is not JSON: %v", err)
	}
	if len(got.Routes) == 0 || len(got.AddOns) != 4 {
		t.Errorf("unexpected catalog: %+v", got)
	}
}

func TestHandleRecentActivity(t *testing.T) {
	srv, bus := setupTestServer(t)
	ctx := context.Background()

	result, _ := srv.handleRecentActivity(ctx, call("recent-activity", nil))
	if text := extractText(result); text != "No activity" {
		t.Errorf("expected no activity, got: %s", text)
	}

	_, _ = srv.handleEstimateQuote(ctx, call("estimate-quote", map[string]any{"origin": "Miami", "destination": "Chicago"}))
	_, _ = srv.handleBookingDeposit(ctx, call("booking-deposit", map[string]any{"enclosed": true}))
	if err := bus.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	result, _ = srv.handleRecentActivity(ctx, call("recent-activity", map[string]any{"keep": float64(1)}))
	text := extractText(result)
	if !strings.HasPrefix(text, "2 event(s):") {
		t.Errorf("unexpected total: %s", text)
	}
	if !strings.Contains(text, "booking.deposit: 1") || !strings.Contains(text, "quote.estimated: 1") {
		t.Errorf("missing counts: %s", text)
	}
	if strings.Count(text, "] ") != 1 {
		t.Errorf("expected one recent event: %s", text)
	}
}

func TestHandleRecentActivity_NoSource(t *testing.T) {
	srv := New(Options{})
	result, _ := srv.handleRecentActivity(context.Background(), call("recent-activity", nil))
	if !result.IsError {
		t.Errorf("expected error without history, got: %s", extractText(result))
	}
}

func TestServer_StartStop(t *testing.T) {
	srv := New(Options{})
	addr, err := srv.Start("127.0.0.1:0")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = srv.Stop(context.Background()) }()

	if _, err := srv.Start("127.0.0.1:0"); err == nil {
		t.Error("second start should fail")
	}
	if !strings.HasSuffix(srv.URL(), addr+"/mcp") {
		t.Errorf("unexpected URL %s", srv.URL())
	}

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	req, _ := http.NewRequest(http.MethodPost, srv.URL(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("tools/list: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	for _, tool := range []string{"estimate-quote", "booking-deposit", "validate-step", "list-catalog", "recent-activity"} {
		if !strings.Contains(string(raw), tool) {
			t.Errorf("tools/list missing %s: %s", tool, raw)
		}
	}
}
