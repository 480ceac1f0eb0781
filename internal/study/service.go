// Package study は勉強セッションの計測・記録・週間ランキングのドメインロジックを提供する。
package study

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mikan/homeru/internal/model"
	"github.com/mikan/homeru/internal/repository"
)

// rankingWindow は週間ランキングの集計期間。
const rankingWindow = 7 * 24 * time.Hour

// InputSanitizer は表示用文字列のサニタイズインターフェース。
type InputSanitizer interface {
	SanitizeDisplayString(input string) string
}

// MetricsRecorder は勉強関連メトリクスの記録インターフェース。
type MetricsRecorder interface {
	RecordStudyMinutes(minutes int)
}

// Service は勉強セッションのサービス層。
// ストップウォッチの一時状態はRegistryに持ち、保存と報酬付与は
// 停止時に1トランザクションで行う。
type Service struct {
	logRepo   repository.StudyLogRepository
	registry  *Registry
	sanitizer InputSanitizer
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilでもよい（記録をスキップする）。
func NewService(
	logRepo repository.StudyLogRepository,
	registry *Registry,
	sanitizer InputSanitizer,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		logRepo:   logRepo,
		registry:  registry,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// StopResult は勉強セッション終了の結果をUIへ一度だけ伝えるイベント。
// Messageはそのままトースト表示できる労いの文言。
type StopResult struct {
	Subject   string            `json:"subject"`
	Minutes   int               `json:"minutes"`
	Grant     model.RewardGrant `json:"grant"`
	Message   string            `json:"message"`
	Celebrate bool              `json:"celebrate"`
}

// CurrentState は計測中セッションのポーリング応答。
type CurrentState struct {
	Subject        string `json:"subject"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
}

// Start は勉強セッションの計測を開始する。
// 勉強内容が空の場合は検証エラー、すでに計測中の場合は競合エラーを返す。
// この時点ではストレージへ何も書き込まない。
func (s *Service) Start(ctx context.Context, username, subject string, now time.Time) (Stopwatch, error) {
	subject = strings.TrimSpace(subject)
	if s.sanitizer != nil {
		subject = s.sanitizer.SanitizeDisplayString(subject)
	}
	if subject == "" {
		return Stopwatch{}, model.NewValidationError("勉強内容を入力してください。")
	}

	sw, started := s.registry.Start(username, subject, now)
	if !started {
		return Stopwatch{}, model.NewStopwatchRunningError(sw.Subject)
	}

	slog.Info("study session started",
		slog.String("username", username),
		slog.String("subject", subject),
	)
	return sw, nil
}

// Current は計測中セッションの経過秒数を返す。
// UIが1秒周期で呼び出し、サーバ側では時刻の差分を計算するだけ。
func (s *Service) Current(username string, now time.Time) (*CurrentState, error) {
	sw, ok := s.registry.Current(username)
	if !ok {
		return nil, model.NewStopwatchNotRunningError()
	}
	return &CurrentState{
		Subject:        sw.Subject,
		ElapsedSeconds: int(Elapsed(now, sw.StartedAt) / time.Second),
	}, nil
}

// Stop は計測を終了し、勉強記録の保存と報酬付与を行う。
// 分数は max(1, floor(経過秒/60))。記録の作成と
// XP・コインへの加算は同一トランザクションで適用される。
func (s *Service) Stop(ctx context.Context, username string, now time.Time) (*StopResult, error) {
	sw, ok := s.registry.Stop(username)
	if !ok {
		return nil, model.NewStopwatchNotRunningError()
	}

	minutes := MinutesFor(Elapsed(now, sw.StartedAt))

	log := &model.StudyLog{
		Username:        username,
		Subject:         sw.Subject,
		DurationMinutes: minutes,
		StudyDate:       now.In(model.JST),
		CreatedAt:       now,
	}

	if _, err := s.logRepo.InsertWithReward(ctx, log); err != nil {
		return nil, fmt.Errorf("勉強記録の保存に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordStudyMinutes(minutes)
	}
	slog.Info("study session finished",
		slog.String("username", username),
		slog.String("subject", sw.Subject),
		slog.Int("minutes", minutes),
	)

	return &StopResult{
		Subject:   sw.Subject,
		Minutes:   minutes,
		Grant:     model.RewardGrant{XP: minutes, Coins: minutes},
		Message:   fmt.Sprintf("%d分お疲れ様！", minutes),
		Celebrate: true,
	}, nil
}

// Logs はユーザーの勉強記録を新しい順に返す。
func (s *Service) Logs(ctx context.Context, username string) ([]model.StudyLog, error) {
	logs, err := s.logRepo.ListByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("勉強記録の取得に失敗しました: %w", err)
	}
	return logs, nil
}

// DeleteLog は勉強記録を削除し、保存されていた分数だけ報酬を巻き戻す。
// 巻き戻し量はリポジトリが行を再読込して決める。存在しない記録はno-op。
func (s *Service) DeleteLog(ctx context.Context, username string, logID int64) (*model.RewardGrant, error) {
	minutes, err := s.logRepo.DeleteWithReversal(ctx, username, logID)
	if err != nil {
		return nil, fmt.Errorf("勉強記録の削除に失敗しました: %w", err)
	}
	if minutes == 0 {
		return nil, nil
	}
	return &model.RewardGrant{XP: -minutes, Coins: -minutes}, nil
}

// WeeklyRanking は直近7日間（境界含む、JST基準）の勉強分数ランキングを返す。
// 合計降順、同値はユーザー名昇順。
func (s *Service) WeeklyRanking(ctx context.Context, now time.Time) ([]model.RankingEntry, error) {
	since := now.In(model.JST).Add(-rankingWindow)
	entries, err := s.logRepo.SumDurationsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("ランキングの集計に失敗しました: %w", err)
	}
	return entries, nil
}
