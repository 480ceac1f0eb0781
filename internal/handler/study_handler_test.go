package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mikan/homeru/internal/model"
	"github.com/mikan/homeru/internal/study"
)

// --- モック定義 ---

// mockStudyService はStudyServiceInterfaceのモック実装。
type mockStudyService struct {
	startFn         func(ctx context.Context, username, subject string, now time.Time) (study.Stopwatch, error)
	currentFn       func(username string, now time.Time) (*study.CurrentState, error)
	stopFn          func(ctx context.Context, username string, now time.Time) (*study.StopResult, error)
	logsFn          func(ctx context.Context, username string) ([]model.StudyLog, error)
	deleteLogFn     func(ctx context.Context, username string, logID int64) (*model.RewardGrant, error)
	weeklyRankingFn func(ctx context.Context, now time.Time) ([]model.RankingEntry, error)
}

func (m *mockStudyService) Start(ctx context.Context, username, subject string, now time.Time) (study.Stopwatch, error) {
	if m.startFn != nil {
		return m.startFn(ctx, username, subject, now)
	}
	return study.Stopwatch{}, nil
}

func (m *mockStudyService) Current(username string, now time.Time) (*study.CurrentState, error) {
	if m.currentFn != nil {
		return m.currentFn(username, now)
	}
	return nil, nil
}

func (m *mockStudyService) Stop(ctx context.Context, username string, now time.Time) (*study.StopResult, error) {
	if m.stopFn != nil {
		return m.stopFn(ctx, username, now)
	}
	return nil, nil
}

func (m *mockStudyService) Logs(ctx context.Context, username string) ([]model.StudyLog, error) {
	if m.logsFn != nil {
		return m.logsFn(ctx, username)
	}
	return nil, nil
}

func (m *mockStudyService) DeleteLog(ctx context.Context, username string, logID int64) (*model.RewardGrant, error) {
	if m.deleteLogFn != nil {
		return m.deleteLogFn(ctx, username, logID)
	}
	return nil, nil
}

func (m *mockStudyService) WeeklyRanking(ctx context.Context, now time.Time) ([]model.RankingEntry, error) {
	if m.weeklyRankingFn != nil {
		return m.weeklyRankingFn(ctx, now)
	}
	return nil, nil
}

// --- テスト ---

func TestStudyHandler_StartStudy_Returns201(t *testing.T) {
	started := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	svc := &mockStudyService{
		startFn: func(ctx context.Context, username, subject string, now time.Time) (study.Stopwatch, error) {
			if subject != "数学" {
				t.Errorf("subject = %q, want 数学", subject)
			}
			return study.Stopwatch{Subject: subject, StartedAt: started}, nil
		},
	}

	h := NewStudyHandler(svc)

	body := `{"subject": "数学"}`
	req := httptest.NewRequest(http.MethodPost, "/api/study/start", bytes.NewBufferString(body))
	req = withUsername(req, "mikan")
	w := httptest.NewRecorder()

	h.StartStudy(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Result().StatusCode)
	}
}

func TestStudyHandler_StartStudy_AlreadyRunning_Returns409(t *testing.T) {
	svc := &mockStudyService{
		startFn: func(ctx context.Context, username, subject string, now time.Time) (study.Stopwatch, error) {
			return study.Stopwatch{}, model.NewStopwatchRunningError("数学")
		},
	}

	h := NewStudyHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/study/start", bytes.NewBufferString(`{"subject": "英語"}`))
	req = withUsername(req, "mikan")
	w := httptest.NewRecorder()

	h.StartStudy(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Result().StatusCode)
	}
	if got := parseAPIErrorResponse(t, w); got["code"] != model.ErrCodeStopwatchRunning {
		t.Errorf("code = %q, want STOPWATCH_ALREADY_RUNNING", got["code"])
	}
}

func TestStudyHandler_CurrentStudy_ReturnsElapsed(t *testing.T) {
	svc := &mockStudyService{
		currentFn: func(username string, now time.Time) (*study.CurrentState, error) {
			return &study.CurrentState{Subject: "数学", ElapsedSeconds: 95}, nil
		},
	}

	h := NewStudyHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/study/current", nil)
	req = withUsername(req, "mikan")
	w := httptest.NewRecorder()

	h.CurrentStudy(w, req)

	var got study.CurrentState
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ElapsedSeconds != 95 {
		t.Errorf("elapsed = %d, want 95", got.ElapsedSeconds)
	}
}

func TestStudyHandler_StopStudy_ReturnsResult(t *testing.T) {
	svc := &mockStudyService{
		stopFn: func(ctx context.Context, username string, now time.Time) (*study.StopResult, error) {
			return &study.StopResult{
				Subject:   "数学",
				Minutes:   25,
				Grant:     model.RewardGrant{XP: 25, Coins: 25},
				Message:   "25分お疲れ様！",
				Celebrate: true,
			}, nil
		},
	}

	h := NewStudyHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/study/stop", nil)
	req = withUsername(req, "mikan")
	w := httptest.NewRecorder()

	h.StopStudy(w, req)

	var got study.StopResult
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Minutes != 25 || got.Grant.XP != 25 || !got.Celebrate {
		t.Errorf("response = %+v", got)
	}
}

func TestStudyHandler_StopStudy_NotRunning_Returns409(t *testing.T) {
	svc := &mockStudyService{
		stopFn: func(ctx context.Context, username string, now time.Time) (*study.StopResult, error) {
			return nil, model.NewStopwatchNotRunningError()
		},
	}

	h := NewStudyHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/study/stop", nil)
	req = withUsername(req, "mikan")
	w := httptest.NewRecorder()

	h.StopStudy(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Result().StatusCode)
	}
}

func TestStudyHandler_DeleteLog_MissingLog_Returns204(t *testing.T) {
	svc := &mockStudyService{
		deleteLogFn: func(ctx context.Context, username string, logID int64) (*model.RewardGrant, error) {
			return nil, nil
		},
	}

	h := NewStudyHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/study/logs/99", nil)
	req = withUsername(req, "mikan")
	req = withChiURLParam(req, "id", "99")
	w := httptest.NewRecorder()

	h.DeleteLog(w, req)

	if w.Result().StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204 for no-op delete", w.Result().StatusCode)
	}
}

func TestStudyHandler_DeleteLog_ReturnsReversal(t *testing.T) {
	svc := &mockStudyService{
		deleteLogFn: func(ctx context.Context, username string, logID int64) (*model.RewardGrant, error) {
			return &model.RewardGrant{XP: -10, Coins: -10}, nil
		},
	}

	h := NewStudyHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/study/logs/5", nil)
	req = withUsername(req, "mikan")
	req = withChiURLParam(req, "id", "5")
	w := httptest.NewRecorder()

	h.DeleteLog(w, req)

	var got map[string]model.RewardGrant
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got["reversal"].XP != -10 {
		t.Errorf("reversal = %+v, want -10/-10", got["reversal"])
	}
}

func TestStudyHandler_WeeklyRanking_EmptyIsJSONArray(t *testing.T) {
	h := NewStudyHandler(&mockStudyService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ranking", nil)
	req = withUsername(req, "mikan")
	w := httptest.NewRecorder()

	h.WeeklyRanking(w, req)

	if body := w.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}
