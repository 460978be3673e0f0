package httpserver

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"helplink/internal/config"
	"helplink/internal/mailer"
	"helplink/internal/security"
	"helplink/internal/service"
	"helplink/internal/storage"
	"helplink/internal/store/mysql"
)

// NewRouter constructs the main HTTP router and wires routes, services, and middleware.
func NewRouter(
	cfg *config.Config,
	db *sql.DB,
	rdb *redis.Client,
	store storage.ObjectStorage,
	mail mailer.Sender,
	tokens *security.TokenService,
	hasher *security.PasswordHasher,
) http.Handler {
	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	userRepo := mysql.NewUserRepo(db)
	chatRepo := mysql.NewChatRepo(db)
	partRepo := mysql.NewParticipantRepo(db)
	msgRepo := mysql.NewMessageRepo(db)
	postRepo := mysql.NewPostRepo(db)
	reactionRepo := mysql.NewReactionRepo(db)
	commentRepo := mysql.NewCommentRepo(db)
	donationRepo := mysql.NewDonationRepo(db)
	supporterRepo := mysql.NewSupporterRepo(db)
	adminRepo := mysql.NewAdminRepo(db)

	// Services
	otps := service.NewOTPStore(rdb, time.Duration(cfg.OTPTTLMinutes)*time.Minute)
	authSvc := service.NewAuthService(userRepo, tokens, hasher, otps, mail)
	userSvc := service.NewUserService(userRepo)
	chatSvc := service.NewChatService(chatRepo, partRepo, msgRepo, userRepo)
	postSvc := service.NewPostService(postRepo, reactionRepo, commentRepo, donationRepo, supporterRepo)
	adminSvc := service.NewAdminService(adminRepo, userRepo, postRepo, commentRepo, donationRepo)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": cfg.AppName,
			"version": "1.0.0",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Route("/api", func(r chi.Router) {
		// Auth routes (no token required, rate limited)
		r.Group(func(r chi.Router) {
			r.Use(RateLimit(rdb, 10, time.Minute))
			r.Post("/auth/register", handleRegister(authSvc, store, cfg.MaxUploadBytes))
			r.Post("/auth/login", handleLogin(authSvc, store))
			r.Post("/auth/forgot-password", handleForgotPassword(authSvc))
			r.Post("/auth/reset-password", handleResetPassword(authSvc))
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(tokens, userRepo))

			r.Get("/auth/me", handleMe(store))
			r.Post("/auth/change-password", handleChangePassword(authSvc))
			r.Get("/files/url/*", handleResolveFileURL(store))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", handleListUsers(userSvc, store))
				r.Get("/{userID}", handleGetUser(userSvc, store))
				r.Patch("/me", handleUpdateProfile(userSvc, store))
				r.Post("/me/profile-image", handleUploadProfileImage(userSvc, store, cfg.MaxUploadBytes))
				r.Post("/me/credentials", handleSubmitCredentials(userSvc, store, cfg.MaxUploadBytes))
			})

			r.Route("/chats", func(r chi.Router) {
				r.Post("/", handleCreateChat(chatSvc, store))
				r.Get("/", handleListChats(chatSvc, store))
				r.Get("/{chatID}", handleGetChat(chatSvc, store))
				r.Post("/{chatID}/participants", handleAddParticipant(chatSvc))
				r.Post("/{chatID}/seen", handleMarkChatSeen(chatSvc))
				r.Get("/{chatID}/messages", handleListMessages(chatSvc, store))
				r.Post("/{chatID}/messages", handleSendMessage(chatSvc, store, cfg.MaxUploadBytes))
			})
			r.Patch("/messages/{messageID}/status", handleUpdateMessageStatus(chatSvc))

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", handleCreatePost(postSvc, store, cfg.MaxUploadBytes))
				r.Get("/", handleListPosts(postSvc, store))
				r.Get("/{postID}", handleGetPost(postSvc, store))
				r.Patch("/{postID}", handleUpdatePost(postSvc, store))
				r.Patch("/{postID}/status", handleSetPostStatus(postSvc))
				r.Delete("/{postID}", handleDeletePost(postSvc))

				r.Post("/{postID}/reactions", handleReact(postSvc))
				r.Delete("/{postID}/reactions", handleUnreact(postSvc))
				r.Get("/{postID}/reactions", handleListReactions(postSvc, store))

				r.Post("/{postID}/comments", handleAddComment(postSvc, store))
				r.Get("/{postID}/comments", handleListComments(postSvc, store))
			})
			r.Patch("/comments/{commentID}", handleUpdateComment(postSvc, store))
			r.Delete("/comments/{commentID}", handleDeleteComment(postSvc))

			r.Route("/donations", func(r chi.Router) {
				r.Post("/", handleCreateDonation(postSvc, store))
				r.Get("/", handleListDonations(postSvc, store))
				r.Patch("/{donationID}", handleUpdateDonation(postSvc, store))
				r.Post("/{donationID}/proofs", handleAddDonationProof(postSvc, store, cfg.MaxUploadBytes))
			})

			r.Route("/supporters", func(r chi.Router) {
				r.Post("/", handleCreateSupporter(postSvc, store))
				r.Get("/", handleListSupporters(postSvc, store))
				r.Patch("/{supporterID}", handleUpdateSupporter(postSvc, store))
				r.Post("/{supporterID}/proofs", handleAddSupporterProof(postSvc, store, cfg.MaxUploadBytes))
			})

			// Moderation dashboard
			r.Route("/admin", func(r chi.Router) {
				r.Use(AdminOnly(cfg.AdminEmails))
				r.Get("/statistics", handleAdminStatistics(adminSvc))
				r.Get("/activity", handleAdminRecentActivity(adminSvc))
				r.Patch("/users/{userID}/badge", handleAdminSetBadge(adminSvc, store))
				r.Patch("/users/{userID}/account-type", handleAdminSetAccountType(adminSvc, store))
				r.Patch("/posts/{postID}/status", handleAdminSetPostStatus(adminSvc))
				r.Get("/comments", handleAdminListComments(adminSvc, store))
				r.Patch("/comments/{commentID}/status", handleAdminSetCommentStatus(adminSvc))
				r.Patch("/donations/{donationID}/verification", handleAdminSetDonationVerification(adminSvc, store))
			})
		})
	})

	return r
}
