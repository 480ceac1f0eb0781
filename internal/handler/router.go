package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mikan/homeru/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// アクセスログ（nilの場合は出力しない）
	Logger *slog.Logger

	// HTTPステータスメトリクス（nilの場合は記録しない）
	HTTPMetrics middleware.HTTPStatusRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// タスク
	TaskService TaskServiceInterface

	// 勉強セッション・ランキング
	StudyService StudyServiceInterface

	// ショップ
	ShopService ShopServiceInterface

	// Prometheusメトリクスエンドポイント（nilの場合は公開しない）
	Metrics http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → HTTPMetrics → SecurityHeaders → CORS → Session → RateLimit
//
// LoggingとHTTPMetricsは依存が与えられた場合のみ挿入される。
//
// 認証ルート（/auth/*）と/healthはセッションミドルウェアの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewHTTPMetricsMiddleware(deps.HTTPMetrics))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	taskHandler := NewTaskHandler(deps.TaskService)
	studyHandler := NewStudyHandler(deps.StudyService)
	shopHandler := NewShopHandler(deps.ShopService)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.Middleware())

		// タスク管理
		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.CreateTask)

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", taskHandler.ToggleTask)
				r.Delete("/", taskHandler.DeleteTask)

				// GET /api/tasks/{id}/calendar-link - カレンダー追加リンク
				r.Get("/calendar-link", taskHandler.CalendarLink)
			})
		})

		// 勉強セッション
		r.Route("/api/study", func(r chi.Router) {
			r.Post("/start", studyHandler.StartStudy)
			r.Get("/current", studyHandler.CurrentStudy)
			r.Post("/stop", studyHandler.StopStudy)

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", studyHandler.ListLogs)
				r.Delete("/{id}", studyHandler.DeleteLog)
			})
		})

		// 週間ランキング
		r.Get("/api/ranking", studyHandler.WeeklyRanking)

		// ショップ・プロフィール
		r.Route("/api/shop", func(r chi.Router) {
			r.Get("/", shopHandler.ListCatalog)
			r.Post("/purchase", shopHandler.Purchase)
		})
		r.Put("/api/profile/cosmetics", shopHandler.SelectCosmetic)
	})

	return r
}
