package router

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	grpcctx "github.com/dtroode/memoria-server/internal/api/grpc/context"
	"github.com/dtroode/memoria-server/internal/api/grpc/rpc"
	"github.com/dtroode/memoria-server/internal/mocks"
	"github.com/dtroode/memoria-server/internal/model"
	"github.com/dtroode/memoria-server/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	r := New(Services{}, mocks.NewAuthenticator(t), grpcctx.NewManager(), testutil.MakeNoopLogger())
	s := r.Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	for _, name := range []string{"api.Auth", "api.Posts", "api.Users", "api.Timeline"} {
		assert.Contains(t, info, name)
	}
	assert.Len(t, info["api.Posts"].Methods, 10)
	assert.Len(t, info["api.Users"].Methods, 5)
}

func TestRouter_MethodSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method   string
		requires bool
		accepts  bool
	}{
		{method: "/api.Auth/Login"},
		{method: "/api.Auth/RefreshToken"},
		{method: "/api.Posts/ListApprovedPosts", accepts: true},
		{method: "/api.Posts/GetPost", accepts: true},
		{method: "/api.Timeline/ListEvents", accepts: true},
		{method: "/api.Posts/CreatePost", requires: true},
		{method: "/api.Posts/ApprovePost", requires: true},
		{method: "/api.Users/SetRole", requires: true},
		{method: "/api.Timeline/AddEvent", requires: true},
	}

	for _, tt := range tests {
		meta := interceptors.NewServerCallMeta(tt.method, nil, nil)
		assert.Equal(t, tt.requires, requiresToken(context.Background(), meta), tt.method)
		assert.Equal(t, tt.accepts, acceptsToken(context.Background(), meta), tt.method)
	}
}

func dial(t *testing.T, s *grpc.Server) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestRouter_ProtectedMethodWithoutToken(t *testing.T) {
	t.Parallel()

	r := New(Services{}, mocks.NewAuthenticator(t), grpcctx.NewManager(), testutil.MakeNoopLogger())
	conn := dial(t, r.Register())

	_, err := rpc.Invoke(context.Background(), conn, "api.Posts", "CreatePost", nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = rpc.Invoke(context.Background(), conn, "api.Users", "SetRole", nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRouter_PublicMethodRejectsBadToken(t *testing.T) {
	t.Parallel()

	authenticator := mocks.NewAuthenticator(t)
	authenticator.On("Authenticate", "stale").Return(model.Identity{}, assert.AnError).Once()
	r := New(Services{}, authenticator, grpcctx.NewManager(), testutil.MakeNoopLogger())
	conn := dial(t, r.Register())

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer stale")
	_, err := rpc.Invoke(ctx, conn, "api.Timeline", "ListEvents", nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	t.Parallel()

	authenticator := mocks.NewAuthenticator(t)
	authenticator.On("Authenticate", "good").Return(model.Identity{UserID: uuid.New()}, nil).Once()
	// Services are nil, so reaching a handler panics inside the service.
	r := New(Services{}, authenticator, grpcctx.NewManager(), testutil.MakeNoopLogger())
	conn := dial(t, r.Register())

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer good")
	_, err := rpc.Invoke(ctx, conn, "api.Timeline", "ListEvents", nil)
	assert.Equal(t, codes.Internal, status.Code(err))
}
