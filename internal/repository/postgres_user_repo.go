package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mikan/homeru/internal/model"
)

// pqUniqueViolation はPostgreSQLの一意制約違反のエラーコード。
const pqUniqueViolation = "23505"

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_digest, nickname, xp, coins,
		        current_font, unlocked_fonts,
		        current_wallpaper, unlocked_wallpapers,
		        current_title, unlocked_titles,
		        created_at
		 FROM users WHERE username = $1`,
		username,
	).Scan(
		&user.Username, &user.PasswordDigest, &user.Nickname, &user.XP, &user.Coins,
		&user.CurrentFont, &user.UnlockedFonts,
		&user.CurrentWallpaper, &user.UnlockedWallpapers,
		&user.CurrentTitle, &user.UnlockedTitles,
		&user.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	return user, nil
}

// Create はユーザーを作成する。
// ユーザー名が重複している場合はUSER_CONFLICTのAPIErrorを返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_digest, nickname, xp, coins,
		                    current_font, unlocked_fonts,
		                    current_wallpaper, unlocked_wallpapers,
		                    current_title, unlocked_titles,
		                    created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.Username, user.PasswordDigest, user.Nickname, user.XP, user.Coins,
		user.CurrentFont, user.UnlockedFonts,
		user.CurrentWallpaper, user.UnlockedWallpapers,
		user.CurrentTitle, user.UnlockedTitles,
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return model.NewUserConflictError(user.Username)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// AddReward はXPとコインに増分を加算する。負の増分は0でクランプされる。
func (r *PostgresUserRepo) AddReward(ctx context.Context, username string, xp, coins int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET xp = GREATEST(0, xp + $2), coins = GREATEST(0, coins + $3)
		 WHERE username = $1`,
		username, xp, coins,
	)
	if err != nil {
		return fmt.Errorf("failed to apply reward: %w", err)
	}
	return nil
}

// ApplyPurchase はコインの減算と解放済み集合の更新を1文のUPDATEで適用する。
// 残高がprice未満のときは何も変更せずエラーを返す。
func (r *PostgresUserRepo) ApplyPurchase(ctx context.Context, username string, kind model.CosmeticKind, unlocked string, price int) error {
	column, err := unlockedColumn(kind)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET coins = coins - $2, %s = $3
		             WHERE username = $1 AND coins >= $2`, column),
		username, price, unlocked,
	)
	if err != nil {
		return fmt.Errorf("failed to apply purchase: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("purchase not applied: user missing or insufficient coins")
	}
	return nil
}

// UpdateCurrentCosmetic は該当種別の「現在の選択」を更新する。
func (r *PostgresUserRepo) UpdateCurrentCosmetic(ctx context.Context, username string, kind model.CosmeticKind, item string) error {
	column, err := currentColumn(kind)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE users SET %s = $2 WHERE username = $1`, column),
		username, item,
	)
	if err != nil {
		return fmt.Errorf("failed to update current cosmetic: %w", err)
	}
	return nil
}

// unlockedColumn は種別ごとの解放済み集合カラム名を返す。
// カラム名は固定の列挙から選ぶため、SQLへの文字列連結は安全。
func unlockedColumn(kind model.CosmeticKind) (string, error) {
	switch kind {
	case model.CosmeticFont:
		return "unlocked_fonts", nil
	case model.CosmeticWallpaper:
		return "unlocked_wallpapers", nil
	case model.CosmeticTitle:
		return "unlocked_titles", nil
	}
	return "", fmt.Errorf("unknown cosmetic kind: %s", kind)
}

// currentColumn は種別ごとの現在選択カラム名を返す。
func currentColumn(kind model.CosmeticKind) (string, error) {
	switch kind {
	case model.CosmeticFont:
		return "current_font", nil
	case model.CosmeticWallpaper:
		return "current_wallpaper", nil
	case model.CosmeticTitle:
		return "current_title", nil
	}
	return "", fmt.Errorf("unknown cosmetic kind: %s", kind)
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
