package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mikan/homeru/internal/model"
	"github.com/mikan/homeru/internal/study"
)

// StudyServiceInterface は勉強セッションハンドラーが必要とするサービスインターフェース。
type StudyServiceInterface interface {
	Start(ctx context.Context, username, subject string, now time.Time) (study.Stopwatch, error)
	Current(username string, now time.Time) (*study.CurrentState, error)
	Stop(ctx context.Context, username string, now time.Time) (*study.StopResult, error)
	Logs(ctx context.Context, username string) ([]model.StudyLog, error)
	DeleteLog(ctx context.Context, username string, logID int64) (*model.RewardGrant, error)
	WeeklyRanking(ctx context.Context, now time.Time) ([]model.RankingEntry, error)
}

// StudyHandler は勉強セッションと週間ランキングのHTTPハンドラー。
type StudyHandler struct {
	service StudyServiceInterface

	// now は現在時刻の供給源。テストで固定できるようにしてある。
	now func() time.Time
}

// NewStudyHandler はStudyHandlerを生成する。
func NewStudyHandler(service StudyServiceInterface) *StudyHandler {
	return &StudyHandler{
		service: service,
		now:     time.Now,
	}
}

// startStudyRequest は計測開始リクエストのボディ。
type startStudyRequest struct {
	Subject string `json:"subject"`
}

// studyLogResponse は勉強記録のAPIレスポンス。
type studyLogResponse struct {
	ID              int64  `json:"id"`
	Subject         string `json:"subject"`
	DurationMinutes int    `json:"duration_minutes"`
	StudyDate       string `json:"study_date"`
}

// StartStudy は勉強セッションの計測を開始する。
// POST /api/study/start
func (h *StudyHandler) StartStudy(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	var req startStudyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	sw, err := h.service.Start(r.Context(), username, req.Subject, h.now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"subject":    sw.Subject,
		"started_at": sw.StartedAt.Format(time.RFC3339),
	})
}

// CurrentStudy は計測中セッションの経過秒数を返す。UIが1秒周期で呼ぶ。
// GET /api/study/current
func (h *StudyHandler) CurrentStudy(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	state, err := h.service.Current(username, h.now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

// StopStudy は計測を終了し、記録の保存と報酬付与の結果を返す。
// POST /api/study/stop
func (h *StudyHandler) StopStudy(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	result, err := h.service.Stop(r.Context(), username, h.now())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ListLogs は勉強記録の一覧を返す。
// GET /api/study/logs
func (h *StudyHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	logs, err := h.service.Logs(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]studyLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, studyLogResponse{
			ID:              l.ID,
			Subject:         l.Subject,
			DurationMinutes: l.DurationMinutes,
			StudyDate:       l.StudyDate.In(model.JST).Format("2006-01-02"),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

// DeleteLog は勉強記録を削除し、巻き戻した報酬を返す。
// DELETE /api/study/logs/:id
func (h *StudyHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	logID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("勉強記録IDが不正です。"))
		return
	}

	reversal, err := h.service.DeleteLog(r.Context(), username, logID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	// 存在しない記録の削除もno-opで204
	if reversal == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]*model.RewardGrant{"reversal": reversal})
}

// WeeklyRanking は直近7日間の勉強分数ランキングを返す。
// GET /api/ranking
func (h *StudyHandler) WeeklyRanking(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUsername(w, r); !ok {
		return
	}

	entries, err := h.service.WeeklyRanking(r.Context(), h.now())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.RankingEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}
