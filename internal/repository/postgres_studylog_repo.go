package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mikan/homeru/internal/model"
)

// PostgresStudyLogRepo はPostgreSQLを使用した勉強記録リポジトリ。
// 報酬の付与・巻き戻しを記録の作成・削除と同一トランザクションで行い、
// 「記録1件 = 報酬1回」の不変条件を保つ。
type PostgresStudyLogRepo struct {
	db *sql.DB
}

// NewPostgresStudyLogRepo はPostgresStudyLogRepoを生成する。
func NewPostgresStudyLogRepo(db *sql.DB) *PostgresStudyLogRepo {
	return &PostgresStudyLogRepo{db: db}
}

// ListByUsername はユーザーの勉強記録を新しい順に返す。
func (r *PostgresStudyLogRepo) ListByUsername(ctx context.Context, username string) ([]model.StudyLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, subject, duration_minutes, study_date, created_at
		 FROM study_logs WHERE username = $1
		 ORDER BY created_at DESC, id DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list study logs: %w", err)
	}
	defer rows.Close()

	var logs []model.StudyLog
	for rows.Next() {
		var log model.StudyLog
		if err := rows.Scan(&log.ID, &log.Username, &log.Subject, &log.DurationMinutes, &log.StudyDate, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan study log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate study logs: %w", err)
	}

	return logs, nil
}

// InsertWithReward は勉強記録を作成し、同一トランザクションで
// XPとコインにduration_minutes分を加算する。
func (r *PostgresStudyLogRepo) InsertWithReward(ctx context.Context, log *model.StudyLog) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO study_logs (username, subject, duration_minutes, study_date, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		log.Username, log.Subject, log.DurationMinutes, log.StudyDate, log.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert study log: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET xp = xp + $2, coins = coins + $2 WHERE username = $1`,
		log.Username, log.DurationMinutes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to grant reward: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

// DeleteWithReversal は勉強記録を削除し、保存されていた分数だけ報酬を巻き戻す。
// 巻き戻し量は削除対象行の再読込で決め、呼び出し側の値は信用しない。
// 記録が存在しない場合は(0, nil)を返すno-op。
func (r *PostgresStudyLogRepo) DeleteWithReversal(ctx context.Context, username string, id int64) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var minutes int
	err = tx.QueryRowContext(ctx,
		`SELECT duration_minutes FROM study_logs
		 WHERE id = $1 AND username = $2
		 FOR UPDATE`,
		id, username,
	).Scan(&minutes)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read study log for reversal: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM study_logs WHERE id = $1 AND username = $2`,
		id, username,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete study log: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users
		 SET xp = GREATEST(0, xp - $2), coins = GREATEST(0, coins - $2)
		 WHERE username = $1`,
		username, minutes,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reverse reward: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return minutes, nil
}

// SumDurationsSince はsince以降の勉強分数をユーザーごとに合計して返す。
// 合計降順・同値はユーザー名昇順で安定させる。
func (r *PostgresStudyLogRepo) SumDurationsSince(ctx context.Context, since time.Time) ([]model.RankingEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.username, u.nickname, SUM(l.duration_minutes) AS total
		 FROM study_logs l
		 JOIN users u ON u.username = l.username
		 WHERE l.study_date >= $1
		 GROUP BY l.username, u.nickname
		 ORDER BY total DESC, l.username ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sum study durations: %w", err)
	}
	defer rows.Close()

	var entries []model.RankingEntry
	for rows.Next() {
		var e model.RankingEntry
		if err := rows.Scan(&e.Username, &e.Nickname, &e.TotalMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan ranking entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ranking entries: %w", err)
	}

	return entries, nil
}

// compile-time interface check
var _ StudyLogRepository = (*PostgresStudyLogRepo)(nil)
