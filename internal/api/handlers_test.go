package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"sentracker/internal/analysis"
	"sentracker/internal/config"
	"sentracker/internal/service/tracker"
	"sentracker/internal/storage"
)

// neutralPolarity keeps scores exactly computable from the lexicon.
type neutralPolarity struct{}

func (neutralPolarity) Polarity(string) (float64, error) { return 0, nil }

func newTestServer(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}

	svc := tracker.NewService(db, tracker.Options{
		Scorer: analysis.NewScorer(analysis.DefaultLexicon(), neutralPolarity{}),
	})
	handler := NewHandler(svc)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router, db
}

func doJSONRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode json: %v", err)
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("unexpected status %d, body: %s", rec.Code, rec.Body.String())
	}
}

func TestAnalyzeEndpointEndToEnd(t *testing.T) {
	router, _ := newTestServer(t)

	resp := doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-1/analyze", map[string]any{
		"context_type": "customer",
		"messages": []map[string]string{
			{"text": "I love your product"},
			{"text": "but the price is too high"},
			{"text": "I'm looking at alternatives"},
		},
	})
	assertStatus(t, resp, http.StatusOK)

	var body struct {
		ConversationID  int64   `json:"conversation_id"`
		Trend           string  `json:"trend"`
		ChurnRisk       float64 `json:"churn_risk"`
		PredictedAction string  `json:"predicted_action"`
		Signals         []struct {
			Category string `json:"category"`
		} `json:"signals"`
		Alert *struct {
			ID int64 `json:"id"`
		} `json:"alert"`
	}
	decodeJSON(t, resp.Body.Bytes(), &body)

	if body.ConversationID <= 0 {
		t.Fatalf("expected conversation id, got %d", body.ConversationID)
	}
	if body.Trend != "DECLINING" {
		t.Fatalf("trend = %q, want DECLINING", body.Trend)
	}
	if body.PredictedAction != "ESCALATION" {
		t.Fatalf("action = %q, want ESCALATION", body.PredictedAction)
	}
	if math.Abs(body.ChurnRisk-0.68) > 1e-9 {
		t.Fatalf("churn risk = %v, want 0.68", body.ChurnRisk)
	}
	if len(body.Signals) != 2 ||
		body.Signals[0].Category != "PRICING_PRESSURE" ||
		body.Signals[1].Category != "COMPETITOR_MENTION" {
		t.Fatalf("signals = %+v", body.Signals)
	}
	if body.Alert != nil {
		t.Fatalf("risk below threshold must not alert")
	}
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	router, _ := newTestServer(t)

	resp := doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-1/analyze", map[string]any{
		"messages": []map[string]string{},
	})
	assertStatus(t, resp, http.StatusBadRequest)

	resp = doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-1/analyze", "not an object")
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestRecordAnalysisEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	resp := doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-2/analysis", map[string]any{
		"messages":         []string{"external text"},
		"sentiment_score":  20,
		"trend":            "STABLE",
		"predicted_action": "CHURN",
		"confidence":       0.8,
	})
	assertStatus(t, resp, http.StatusCreated)

	var body struct {
		ConversationID int64 `json:"conversation_id"`
		Alert          *struct {
			Severity string `json:"severity"`
		} `json:"alert"`
	}
	decodeJSON(t, resp.Body.Bytes(), &body)
	if body.ConversationID <= 0 {
		t.Fatalf("expected conversation id, got %d", body.ConversationID)
	}
	if body.Alert == nil || body.Alert.Severity != "HIGH" {
		t.Fatalf("alert = %+v, want HIGH severity", body.Alert)
	}

	resp = doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-2/analysis", map[string]any{
		"messages":         []string{"external text"},
		"sentiment_score":  150,
		"trend":            "STABLE",
		"predicted_action": "CHURN",
		"confidence":       0.8,
	})
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestHistoryEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	resp := doJSONRequest(t, router, http.MethodGet, "/api/customers/ghost/history", nil)
	assertStatus(t, resp, http.StatusNotFound)

	analyzeResp := doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-3/analyze", map[string]any{
		"messages": []map[string]string{{"text": "great service"}},
	})
	assertStatus(t, analyzeResp, http.StatusOK)

	resp = doJSONRequest(t, router, http.MethodGet, "/api/customers/cust-3/history", nil)
	assertStatus(t, resp, http.StatusOK)

	var body struct {
		Profile struct {
			CustomerID string `json:"customer_id"`
		} `json:"profile"`
		Conversations []struct {
			Messages []string `json:"messages"`
		} `json:"conversations"`
	}
	decodeJSON(t, resp.Body.Bytes(), &body)
	if body.Profile.CustomerID != "cust-3" {
		t.Fatalf("profile customer = %q", body.Profile.CustomerID)
	}
	if len(body.Conversations) != 1 || len(body.Conversations[0].Messages) != 1 {
		t.Fatalf("conversations = %+v", body.Conversations)
	}
}

func TestHighRiskEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	seed := func(customerID string, score float64, trend string) {
		t.Helper()
		resp := doJSONRequest(t, router, http.MethodPost,
			fmt.Sprintf("/api/customers/%s/analysis", customerID),
			map[string]any{
				"messages":         []string{"seed"},
				"sentiment_score":  score,
				"trend":            trend,
				"predicted_action": "MONITOR_CLOSELY",
				"confidence":       0.5,
			})
		assertStatus(t, resp, http.StatusCreated)
	}
	seed("steady", 80, "STABLE")   // risk 0.2
	seed("slipping", 20, "STABLE") // risk 0.8

	resp := doJSONRequest(t, router, http.MethodGet, "/api/high-risk", nil)
	assertStatus(t, resp, http.StatusOK)
	var body struct {
		Customers []struct {
			CustomerID string  `json:"customer_id"`
			ChurnRisk  float64 `json:"churn_risk"`
		} `json:"customers"`
	}
	decodeJSON(t, resp.Body.Bytes(), &body)
	if len(body.Customers) != 1 || body.Customers[0].CustomerID != "slipping" {
		t.Fatalf("customers = %+v", body.Customers)
	}

	resp = doJSONRequest(t, router, http.MethodGet, "/api/high-risk?threshold=0.1", nil)
	assertStatus(t, resp, http.StatusOK)
	decodeJSON(t, resp.Body.Bytes(), &body)
	if len(body.Customers) != 2 {
		t.Fatalf("got %d customers at threshold 0.1, want 2", len(body.Customers))
	}

	resp = doJSONRequest(t, router, http.MethodGet, "/api/high-risk?threshold=nope", nil)
	assertStatus(t, resp, http.StatusBadRequest)
}

func TestStatisticsEndpoint(t *testing.T) {
	router, _ := newTestServer(t)

	resp := doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-4/analysis", map[string]any{
		"messages":         []string{"seed"},
		"sentiment_score":  60,
		"trend":            "STABLE",
		"predicted_action": "RESOLUTION",
		"confidence":       0.5,
	})
	assertStatus(t, resp, http.StatusCreated)

	resp = doJSONRequest(t, router, http.MethodGet, "/api/statistics", nil)
	assertStatus(t, resp, http.StatusOK)
	var body struct {
		CustomerCount     int     `json:"customer_count"`
		ConversationCount int     `json:"conversation_count"`
		MeanSentiment     float64 `json:"mean_sentiment"`
	}
	decodeJSON(t, resp.Body.Bytes(), &body)
	if body.CustomerCount != 1 || body.ConversationCount != 1 {
		t.Fatalf("counts = %+v", body)
	}
	if math.Abs(body.MeanSentiment-60) > 1e-9 {
		t.Fatalf("mean sentiment = %v, want 60", body.MeanSentiment)
	}
}

func TestResolveAlertEndpoint(t *testing.T) {
	router, db := newTestServer(t)

	resp := doJSONRequest(t, router, http.MethodPost, "/api/customers/cust-5/analysis", map[string]any{
		"messages":         []string{"seed"},
		"sentiment_score":  5,
		"trend":            "DECLINING",
		"predicted_action": "CHURN",
		"confidence":       0.6,
	})
	assertStatus(t, resp, http.StatusCreated)
	var created struct {
		Alert *struct {
			ID int64 `json:"id"`
		} `json:"alert"`
	}
	decodeJSON(t, resp.Body.Bytes(), &created)
	if created.Alert == nil {
		t.Fatalf("expected alert in response: %s", resp.Body.String())
	}

	resp = doJSONRequest(t, router, http.MethodPost,
		fmt.Sprintf("/api/alerts/%d/resolve", created.Alert.ID),
		map[string]string{"note": "handled"})
	assertStatus(t, resp, http.StatusNoContent)

	var resolved bool
	var note string
	if err := db.QueryRow(`SELECT resolved, note FROM risk_alerts WHERE id = ?`, created.Alert.ID).Scan(&resolved, &note); err != nil {
		t.Fatalf("query alert: %v", err)
	}
	if !resolved || note != "handled" {
		t.Fatalf("alert state = %v/%q", resolved, note)
	}

	resp = doJSONRequest(t, router, http.MethodPost, "/api/alerts/99999/resolve", nil)
	assertStatus(t, resp, http.StatusNotFound)

	resp = doJSONRequest(t, router, http.MethodPost, "/api/alerts/zero/resolve", nil)
	assertStatus(t, resp, http.StatusBadRequest)
}
