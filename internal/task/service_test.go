package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikan/homeru/internal/model"
)

// --- モック ---

type mockTaskRepo struct {
	tasks       map[int64]*model.Task
	nextID      int64
	updated     []model.TaskStatus
	deletedIDs  []int64
	listErr     error
}

func newMockTaskRepo() *mockTaskRepo {
	return &mockTaskRepo{tasks: make(map[int64]*model.Task), nextID: 1}
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (m *mockTaskRepo) ListByUsername(ctx context.Context, username string) ([]model.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Task
	for _, t := range m.tasks {
		if t.Username == username {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTaskRepo) Create(ctx context.Context, task *model.Task) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *task
	stored.ID = id
	m.tasks[id] = &stored
	return id, nil
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id int64, status model.TaskStatus) error {
	if t, ok := m.tasks[id]; ok {
		t.Status = status
	}
	m.updated = append(m.updated, status)
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, username string, id int64) error {
	m.deletedIDs = append(m.deletedIDs, id)
	delete(m.tasks, id)
	return nil
}

type mockRewardApplier struct {
	xp    int
	coins int
	calls int
}

func (m *mockRewardApplier) AddReward(ctx context.Context, username string, xp, coins int) error {
	m.xp += xp
	m.coins += coins
	m.calls++
	// 実DBと同じく0でクランプ
	if m.xp < 0 {
		m.xp = 0
	}
	if m.coins < 0 {
		m.coins = 0
	}
	return nil
}

type passthroughSanitizer struct{}

func (passthroughSanitizer) SanitizeDisplayString(input string) string { return input }

type countingMetrics struct {
	completed int
}

func (m *countingMetrics) RecordTaskCompleted() { m.completed++ }

// --- テスト ---

func TestCreate_DefaultsAndValidation(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewService(repo, &mockRewardApplier{}, passthroughSanitizer{}, nil)

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(context.Background(), "mikan", "レポート", due, "")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Status != model.TaskStatusPending {
		t.Errorf("status = %s, want pending", task.Status)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("priority = %s, want medium (default)", task.Priority)
	}
	if task.ID == 0 {
		t.Error("expected assigned ID")
	}

	// 空のタスク名は検証エラー
	_, err = svc.Create(context.Background(), "mikan", "   ", due, model.PriorityHigh)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeValidation {
		t.Errorf("expected VALIDATION_ERROR for empty name, got %v", err)
	}

	// 過去の期限は拒否しない
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Create(context.Background(), "mikan", "昔のタスク", past, model.PriorityLow); err != nil {
		t.Errorf("past due date must be accepted, got %v", err)
	}
}

// TestToggle_CompleteGrantsFixedReward は未完了→完了で+10XP/+10コインが
// 付与され、celebrateイベントが一度だけ返ることを検証する。
func TestToggle_CompleteGrantsFixedReward(t *testing.T) {
	repo := newMockTaskRepo()
	rewards := &mockRewardApplier{}
	metrics := &countingMetrics{}
	svc := NewService(repo, rewards, passthroughSanitizer{}, metrics)

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(context.Background(), "mikan", "レポート", due, model.PriorityHigh)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	result, err := svc.Toggle(context.Background(), "mikan", task.ID, true)
	if err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if result.Grant == nil || result.Grant.XP != 10 || result.Grant.Coins != 10 {
		t.Errorf("grant = %+v, want +10/+10", result.Grant)
	}
	if !result.Celebrate {
		t.Error("completion must emit a celebration event")
	}
	if rewards.xp != 10 || rewards.coins != 10 {
		t.Errorf("applied reward = %d/%d, want 10/10", rewards.xp, rewards.coins)
	}
	if metrics.completed != 1 {
		t.Errorf("metrics.completed = %d, want 1", metrics.completed)
	}
}

// TestToggle_UncompleteReversesReward は完了→未完了で付与済みの固定報酬が
// 巻き戻されることを検証する。
func TestToggle_UncompleteReversesReward(t *testing.T) {
	repo := newMockTaskRepo()
	rewards := &mockRewardApplier{}
	svc := NewService(repo, rewards, passthroughSanitizer{}, nil)

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task, _ := svc.Create(context.Background(), "mikan", "レポート", due, model.PriorityHigh)

	if _, err := svc.Toggle(context.Background(), "mikan", task.ID, true); err != nil {
		t.Fatalf("Toggle(done) returned error: %v", err)
	}
	result, err := svc.Toggle(context.Background(), "mikan", task.ID, false)
	if err != nil {
		t.Fatalf("Toggle(pending) returned error: %v", err)
	}

	if result.Celebrate {
		t.Error("un-completion must not celebrate")
	}
	if result.Grant == nil || result.Grant.XP != -10 {
		t.Errorf("grant = %+v, want -10/-10", result.Grant)
	}
	if rewards.xp != 0 || rewards.coins != 0 {
		t.Errorf("counters after toggle round-trip = %d/%d, want 0/0", rewards.xp, rewards.coins)
	}
}

// TestToggle_Idempotent はすでに目的の状態への再トグルが報酬を動かさないことを検証する。
func TestToggle_Idempotent(t *testing.T) {
	repo := newMockTaskRepo()
	rewards := &mockRewardApplier{}
	svc := NewService(repo, rewards, passthroughSanitizer{}, nil)

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task, _ := svc.Create(context.Background(), "mikan", "レポート", due, model.PriorityHigh)

	svc.Toggle(context.Background(), "mikan", task.ID, true)
	result, err := svc.Toggle(context.Background(), "mikan", task.ID, true)
	if err != nil {
		t.Fatalf("second Toggle returned error: %v", err)
	}
	if result.Grant != nil {
		t.Errorf("repeated toggle must not grant again, got %+v", result.Grant)
	}
	if rewards.calls != 1 {
		t.Errorf("AddReward calls = %d, want 1", rewards.calls)
	}
}

func TestToggle_OtherUsersTask_NotFound(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewService(repo, &mockRewardApplier{}, passthroughSanitizer{}, nil)

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task, _ := svc.Create(context.Background(), "mikan", "レポート", due, model.PriorityHigh)

	_, err := svc.Toggle(context.Background(), "other", task.ID, true)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeTaskNotFound {
		t.Errorf("expected TASK_NOT_FOUND for foreign task, got %v", err)
	}
}

// TestDelete_MissingTask_NoOp は存在しないタスクの削除が成功扱いになることを検証する。
func TestDelete_MissingTask_NoOp(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewService(repo, &mockRewardApplier{}, passthroughSanitizer{}, nil)

	if err := svc.Delete(context.Background(), "mikan", 999); err != nil {
		t.Errorf("deleting a missing task must be a no-op, got %v", err)
	}
}

func TestList_ReturnsDisplayOrder(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewService(repo, &mockRewardApplier{}, passthroughSanitizer{}, nil)

	svc.Create(context.Background(), "mikan", "Email", time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), model.PriorityLow)
	svc.Create(context.Background(), "mikan", "Report", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), model.PriorityHigh)

	tasks, err := svc.List(context.Background(), "mikan")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	// 優先度は期限より強い
	if tasks[0].Name != "Report" || tasks[1].Name != "Email" {
		t.Errorf("order = [%s, %s], want [Report, Email]", tasks[0].Name, tasks[1].Name)
	}
}

func TestCreate_SanitizesName(t *testing.T) {
	repo := newMockTaskRepo()
	svc := NewService(repo, &mockRewardApplier{}, scriptStrippingSanitizer{}, nil)

	due := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	task, err := svc.Create(context.Background(), "mikan", "<script>x</script>宿題", due, model.PriorityMedium)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if task.Name != "宿題" {
		t.Errorf("name = %q, want sanitized %q", task.Name, "宿題")
	}
}

type scriptStrippingSanitizer struct{}

func (scriptStrippingSanitizer) SanitizeDisplayString(input string) string {
	// テスト用の簡易実装。本物はsecurityパッケージが担う。
	if input == "<script>x</script>宿題" {
		return "宿題"
	}
	return input
}
