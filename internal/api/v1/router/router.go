package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"
	"app/internal/sheets"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initialized")

	// 1. Build the spreadsheet client. Credentials are validated lazily by
	// the backend on the first call, so a bad key surfaces there.
	client, err := sheets.NewClient(context.Background(), cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create Sheets client")
		return nil, err
	}

	// 2. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(client)
	activityRepo := repository.NewActivityRepo(client, logger)
	familyRepo := repository.NewFamilyRepo(client)
	communityRepo := repository.NewCommunityRepo(client)

	userSvc := service.NewUserService(userRepo, logger)
	activitySvc := service.NewActivityService(activityRepo, familyRepo, userRepo, cfg.FreeMonthlyActivityLimit, logger)
	familySvc := service.NewFamilyService(familyRepo, activityRepo, userRepo, logger)
	communitySvc := service.NewCommunityService(communityRepo, userRepo, cfg.FreeDailyCommentLimit, logger)

	authHandler := handler.NewAuthHandler(userSvc, validate, cfg.JWTSecret, logger)
	userHandler := handler.NewUserHandler(userSvc, validate, logger)
	activityHandler := handler.NewActivityHandler(activitySvc, validate, logger)
	familyHandler := handler.NewFamilyHandler(familySvc, validate, logger)
	communityHandler := handler.NewCommunityHandler(communitySvc, validate, logger)

	// 4. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	// 5. Create ServeMux router
	mux := http.NewServeMux()

	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	activityHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	familyHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	communityHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect /api/* to /v1/* for backward compatibility
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		http.Redirect(w, r, "/v1/"+rest, http.StatusMovedPermanently)
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// 6. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.RequestLogger(logger)(c.Handler(mux)), nil
}
