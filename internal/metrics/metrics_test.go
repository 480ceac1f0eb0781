package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordStudyMinutes_AddsToCounter は勉強分数カウンタが加算されることを検証する。
func TestRecordStudyMinutes_AddsToCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStudyMinutes(25)
	c.RecordStudyMinutes(5)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == "homeru_study_minutes_total" {
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 30 {
				t.Errorf("study minutes total = %v, want 30", got)
			}
			return
		}
	}
	t.Error("homeru_study_minutes_total not found")
}

// TestRecordPurchase_LabeledByKind は購入カウンタが種別ラベル付きで増加することを検証する。
func TestRecordPurchase_LabeledByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPurchase("font")
	c.RecordPurchase("font")
	c.RecordPurchase("wallpaper")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != "homeru_purchases_total" {
			continue
		}
		if len(mf.GetMetric()) != 2 {
			t.Fatalf("label combinations = %d, want 2", len(mf.GetMetric()))
		}
		return
	}
	t.Error("homeru_purchases_total not found")
}

// TestSetupMetricsRoute_ServesMetrics は/metricsパスでメトリクスが返ることを検証する。
func TestSetupMetricsRoute_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordTaskCompleted()

	handler := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "homeru_tasks_completed_total") {
		t.Error("response should contain homeru_tasks_completed_total metric")
	}
}
