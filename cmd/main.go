package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"google.golang.org/grpc/reflection"

	grpcctx "github.com/dtroode/memoria-server/internal/api/grpc/context"
	"github.com/dtroode/memoria-server/internal/api/grpc/router"
	grpcServer "github.com/dtroode/memoria-server/internal/api/grpc/server"
	"github.com/dtroode/memoria-server/internal/api/httpapi"
	"github.com/dtroode/memoria-server/internal/auth"
	"github.com/dtroode/memoria-server/internal/config"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
	"github.com/dtroode/memoria-server/internal/repository/postgres"
	"github.com/dtroode/memoria-server/internal/server"
	"github.com/dtroode/memoria-server/internal/service"
	storage "github.com/dtroode/memoria-server/internal/storage/minio"
	"github.com/dtroode/memoria-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.NewWithFormat(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	postRepo := postgres.NewPostRepository(db)
	timelineRepo := postgres.NewTimelineRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, token.WithTTL(cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL))

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicURL)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	tokenService := service.NewTokenService(tokenManager, refreshTokenRepo, userRepo, cfg.JWT.RefreshTTL, logger)
	services := router.Services{
		Auth:     service.NewAuth(userRepo, tokenService, auth.NewHasher(cfg.Password.BcryptCost), cfg.Admin.Secret, logger),
		Tokens:   tokenService,
		Users:    service.NewUser(userRepo, cfg.Admin.Secret, logger),
		Posts:    service.NewPost(postRepo, userRepo, cfg.Posts.MaxDescriptionLength, logger),
		Timeline: service.NewTimeline(timelineRepo, userRepo, logger),
	}
	imageService := service.NewImage(storageClient, cfg.HTTP.MaxUploadSizeMB<<20, logger)
	ctxMgr := grpcctx.NewManager()

	setupOAuth(cfg.OAuth, logger)

	grpcSrv := registerGRPCServer(services, tokenService, ctxMgr, logger, fmt.Sprintf(":%s", cfg.GRPC.Port))
	httpSrv := httpapi.NewServer(httpapi.NewRouter(httpapi.Deps{
		Resolver:       services.Auth,
		Revoker:        tokenService,
		Uploader:       imageService,
		DB:             db,
		Authenticator:  tokenService,
		ContextManager: ctxMgr,
		RateLimit:      cfg.HTTP.RateLimit,
		Logger:         logger,
	}), fmt.Sprintf(":%s", cfg.HTTP.Port))

	grpcSL := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName, "h2")
	httpSL := server.NewSecurityLayer(cfg.GRPC.EnableHTTPS, cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName, "h2", "http/1.1")

	var wg sync.WaitGroup
	start := func(s model.Server, sl model.SecurityLayer) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				logger.Error("failed to start server", "error", err, "address", s.Address())
				stop()
			}
		}()
	}
	start(grpcSrv, grpcSL)
	start(httpSrv, httpSL)

	wg.Add(1)
	go func() {
		defer wg.Done()
		tokenService.RunJanitor(ctx, cfg.JWT.PruneInterval)
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	for _, s := range []model.Server{httpSrv, grpcSrv} {
		if err := s.Stop(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err, "address", s.Address())
		}
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}

func registerGRPCServer(
	services router.Services,
	authenticator model.Authenticator,
	ctxMgr model.ContextManager,
	logger *logger.Logger,
	addr string,
) *grpcServer.GRPCServer {
	r := router.New(services, authenticator, ctxMgr, logger)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, addr)
}

// setupOAuth registers the configured identity providers and the cookie
// store gothic keeps the OAuth state in.
func setupOAuth(cfg config.OAuth, logger *logger.Logger) {
	var providers []goth.Provider
	if cfg.Google.Enabled() {
		providers = append(providers, google.New(cfg.Google.Key, cfg.Google.Secret, cfg.CallbackBaseURL+"/auth/google/callback", "email", "profile"))
	}
	if cfg.Facebook.Enabled() {
		providers = append(providers, facebook.New(cfg.Facebook.Key, cfg.Facebook.Secret, cfg.CallbackBaseURL+"/auth/facebook/callback", "email", "public_profile"))
	}
	goth.UseProviders(providers...)
	logger.Info("identity providers configured", "count", len(providers))

	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
	}
	gothic.Store = store
}
