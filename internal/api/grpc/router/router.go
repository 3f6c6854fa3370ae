package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/memoria-server/internal/api/grpc/handler"
	"github.com/dtroode/memoria-server/internal/api/grpc/middleware"
	"github.com/dtroode/memoria-server/internal/api/grpc/rpc"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
	"github.com/dtroode/memoria-server/internal/service"
)

// Services groups the application services exposed over gRPC.
type Services struct {
	Auth     *service.Auth
	Tokens   *service.TokenService
	Users    *service.User
	Posts    *service.Post
	Timeline *service.Timeline
}

// Router builds the gRPC server: handlers, authentication and logging.
type Router struct {
	services       Services
	authenticator  model.Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	services Services,
	authenticator model.Authenticator,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		services:       services,
		authenticator:  authenticator,
		contextManager: contextManager,
		logger:         logger,
	}
}

// publicMethods serve anonymous callers. A token, when sent, is still
// validated so that authors and admins see their own pending posts.
var publicMethods = map[string]bool{
	rpc.FullMethod("api.Posts", "ListApprovedPosts"): true,
	rpc.FullMethod("api.Posts", "SearchPosts"):       true,
	rpc.FullMethod("api.Posts", "GetPost"):           true,
	rpc.FullMethod("api.Timeline", "ListEvents"):     true,
}

func isAuthMethod(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/api.Auth/")
}

func requiresToken(_ context.Context, c interceptors.CallMeta) bool {
	m := c.FullMethod()
	return !isAuthMethod(m) && !publicMethods[m]
}

func acceptsToken(_ context.Context, c interceptors.CallMeta) bool {
	return publicMethods[c.FullMethod()]
}

// Register registers all gRPC services and middleware.
//
// Returns the configured gRPC server instance.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticator, r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.recoverPanic)),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(requiresToken),
			),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.OptionalAuthFunc),
				selector.MatchFunc(acceptsToken),
			),
		),
	)

	s := grpc.NewServer(opts...)
	rpc.Register(s,
		handler.NewAuth(r.services.Auth, r.services.Tokens, r.logger),
		handler.NewPosts(r.services.Posts, r.contextManager, r.logger),
		handler.NewUsers(r.services.Users, r.services.Auth, r.contextManager, r.logger),
		handler.NewTimeline(r.services.Timeline, r.contextManager, r.logger),
	)

	return s
}

func (r *Router) recoverPanic(p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", p)
	return status.Error(codes.Internal, "internal server error")
}
