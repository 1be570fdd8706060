package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"caseboard/api/internal/authz"
	"caseboard/api/internal/config"
	"caseboard/api/internal/middleware"
	"caseboard/api/internal/models"
	"caseboard/api/internal/repository"
	"caseboard/api/internal/service"
	"caseboard/api/internal/storage"
)

type HandlerSet struct {
	log zerolog.Logger
	cfg *config.AppConfig
	db  *pgxpool.Pool

	cache *redis.Client
	store *storage.ObjectStore

	users    *repository.UserRepository
	sessions *repository.SessionRepository
	grants   *repository.GrantRepository

	countryLabels *repository.LookupRepository
	intakeLabels  *repository.LookupRepository
	serviceAreas  *repository.LookupRepository
	cities        *repository.LookupRepository

	authService     *service.AuthService
	boardService    *service.BoardService
	cardService     *service.CardService
	activityService *service.ActivityService
	settingsService *service.SettingsService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	resetRepo := repository.NewResetRepository(db)
	grantRepo := repository.NewGrantRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	listRepo := repository.NewListRepository(db)
	cardRepo := repository.NewCardRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	policy := authz.NewPolicy(grantRepo)

	activities := service.NewActivityService(activityRepo, store, cache, cfg, log)
	settings := service.NewSettingsService(settingRepo, cache, log)
	auth := service.NewAuthService(userRepo, sessionRepo, resetRepo, settings, cache, cfg, log)
	boards := service.NewBoardService(boardRepo, listRepo, cardRepo, policy, activities, log)
	cards := service.NewCardService(cardRepo, listRepo, boardRepo, grantRepo, invoiceRepo, policy, activities, log)

	return HandlerSet{
		log:             log,
		cfg:             cfg,
		db:              db,
		cache:           cache,
		store:           store,
		users:           userRepo,
		sessions:        sessionRepo,
		grants:          grantRepo,
		countryLabels:   repository.NewCountryLabelRepository(db),
		intakeLabels:    repository.NewIntakeLabelRepository(db),
		serviceAreas:    repository.NewServiceAreaRepository(db),
		cities:          repository.NewCityRepository(db),
		authService:     auth,
		boardService:    boards,
		cardService:     cards,
		activityService: activities,
		settingsService: settings,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/forgot-password", h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)

	authed := v1.Group("")
	authed.Use(middleware.Auth(h.cfg, h.users, h.sessions))

	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)

	boards := authed.Group("/boards")
	boards.GET("", h.ListBoards)
	boards.POST("", h.CreateBoard)
	boards.GET("/:id", h.GetBoard)
	boards.PUT("/:id", h.UpdateBoard)
	boards.DELETE("/:id", h.DeleteBoard)
	boards.GET("/:id/lists", h.ListBoardLists)
	boards.POST("/:id/lists", h.CreateList)

	lists := authed.Group("/lists")
	lists.PUT("/:id", h.UpdateList)
	lists.DELETE("/:id", h.DeleteList)
	lists.GET("/:id/cards", h.ListCards)
	lists.POST("/:id/cards", h.CreateCard)

	cards := authed.Group("/cards")
	cards.POST("/move", h.MoveCard)
	cards.GET("/:id", h.GetCard)
	cards.PUT("/:id", h.UpdateCard)
	cards.DELETE("/:id", h.DeleteCard)
	cards.PUT("/:id/labels", h.SetCardLabels)
	cards.PUT("/:id/due-date", h.SetCardDueDate)
	cards.PUT("/:id/payment", h.SetCardPayment)
	cards.PUT("/:id/dependant-payment", h.SetCardDependantPayment)
	cards.PUT("/:id/checked", h.SetCardChecked)
	cards.PUT("/:id/archive", h.SetCardArchived)
	cards.PUT("/:id/description", h.SetCardDescription)
	cards.PUT("/:id/members", h.SetCardMembers)
	cards.GET("/:id/activities", h.ListCardActivities)
	cards.POST("/:id/activities", h.CommentOnCard)

	for _, lookup := range []struct {
		path string
		repo *repository.LookupRepository
	}{
		{"/country-labels", h.countryLabels},
		{"/intake-labels", h.intakeLabels},
		{"/service-areas", h.serviceAreas},
		{"/cities", h.cities},
	} {
		h.registerLookup(authed.Group(lookup.path), lookup.repo)
	}

	authed.GET("/roles", h.ListRoles)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.CreateUser)
	admin.GET("/users/:id", h.GetUser)
	admin.PATCH("/users/:id/cities", h.SyncUserCities)
	admin.PATCH("/users/:id/boards", h.SyncUserBoards)
	admin.PATCH("/users/:id/lists", h.SyncUserLists)
	admin.PATCH("/users/:id/toggle-permission", h.ToggleUserPermission)

	super := authed.Group("/admin")
	super.Use(middleware.RequireRoles(models.RoleSuperAdmin))
	super.GET("/settings/ip-allowlist", h.GetIPAllowlist)
	super.PUT("/settings/ip-allowlist", h.SetIPAllowlist)
}
