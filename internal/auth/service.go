// Package auth はユーザー登録・ログイン・セッション管理を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikan/homeru/internal/model"
	"github.com/mikan/homeru/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// InputSanitizer は表示用文字列のサニタイズインターフェース。
// security.InputSanitizerServiceの部分集合として定義する。
type InputSanitizer interface {
	SanitizeDisplayString(input string) string
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// パスワードはbcryptダイジェストとして保存し、平文では保持しない。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sanitizer   InputSanitizer
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	sanitizer InputSanitizer,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sanitizer:   sanitizer,
		config:      config,
	}
}

// Signup は新規ユーザーを登録する。
// デフォルトのコスメティック（ピクセル風・草原・見習い）を解放済みで付与する。
// ユーザー名が重複している場合はUSER_CONFLICTを返す。
func (s *Service) Signup(ctx context.Context, username, password, nickname string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.NewValidationError("ユーザー名を入力してください。")
	}
	if password == "" {
		return model.NewValidationError("パスワードを入力してください。")
	}

	nickname = strings.TrimSpace(nickname)
	if s.sanitizer != nil {
		nickname = s.sanitizer.SanitizeDisplayString(nickname)
	}
	if nickname == "" {
		nickname = username
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:           username,
		PasswordDigest:     string(digest),
		Nickname:           nickname,
		XP:                 0,
		Coins:              0,
		CurrentFont:        model.DefaultFont,
		UnlockedFonts:      model.DefaultFont,
		CurrentWallpaper:   model.DefaultWallpaper,
		UnlockedWallpapers: model.DefaultWallpaper,
		CurrentTitle:       model.DefaultTitle,
		UnlockedTitles:     model.DefaultTitle,
		CreatedAt:          time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	slog.Info("new user signed up",
		slog.String("username", username),
	)
	return nil
}

// Login はユーザー名とパスワードを検証し、セッションを発行する。
// 失敗理由（ユーザー不在かパスワード不一致か）は区別せずLOGIN_FAILEDを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, model.NewValidationError("ユーザー名とパスワードを入力してください。")
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewLoginFailedError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)); err != nil {
		return nil, model.NewLoginFailedError()
	}

	session, err := s.createSession(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("username", username),
	)
	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// CurrentUser はセッションIDから現在のログインユーザーを取得する。
// セッションが無効・期限切れ、またはユーザーが存在しない場合はnilを返す。
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByUsername(ctx, session.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// createSession は新しいセッションを発行して保存する。
func (s *Service) createSession(ctx context.Context, username string) (*model.Session, error) {
	now := time.Now()
	session := &model.Session{
		ID:        uuid.New().String(),
		Username:  username,
		ExpiresAt: now.Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: now,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
