package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mikan/homeru/internal/model"
)

// PostgresTaskRepo はPostgreSQLを使用したタスクリポジトリ。
type PostgresTaskRepo struct {
	db *sql.DB
}

// NewPostgresTaskRepo はPostgresTaskRepoを生成する。
func NewPostgresTaskRepo(db *sql.DB) *PostgresTaskRepo {
	return &PostgresTaskRepo{db: db}
}

// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
func (r *PostgresTaskRepo) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	task := &model.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, name, status, due_date, priority, created_at
		 FROM tasks WHERE id = $1`,
		id,
	).Scan(&task.ID, &task.Username, &task.Name, &task.Status, &task.DueDate, &task.Priority, &task.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task by ID: %w", err)
	}

	return task, nil
}

// ListByUsername はユーザーの全タスクを作成順で返す。
// ユーザーに見せる並び順（状態・優先度・期限）はサービス層で決める。
func (r *PostgresTaskRepo) ListByUsername(ctx context.Context, username string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, name, status, due_date, priority, created_at
		 FROM tasks WHERE username = $1
		 ORDER BY created_at, id`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		if err := rows.Scan(&task.ID, &task.Username, &task.Name, &task.Status, &task.DueDate, &task.Priority, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// Create はタスクを作成し、採番されたIDを返す。
func (r *PostgresTaskRepo) Create(ctx context.Context, task *model.Task) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (username, name, status, due_date, priority, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		task.Username, task.Name, task.Status, task.DueDate, task.Priority, task.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	return id, nil
}

// UpdateStatus はタスクの状態のみを更新する。
func (r *PostgresTaskRepo) UpdateStatus(ctx context.Context, id int64, status model.TaskStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = $2 WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return nil
}

// Delete は指定タスクを物理削除する。対象が存在しなくてもエラーにしない。
func (r *PostgresTaskRepo) Delete(ctx context.Context, username string, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND username = $2`,
		id, username,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TaskRepository = (*PostgresTaskRepo)(nil)
