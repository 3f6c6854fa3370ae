package handler

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	grpcctx "github.com/dtroode/memoria-server/internal/api/grpc/context"
	"github.com/dtroode/memoria-server/internal/model"
)

func mustStruct(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func asIdentity(identity model.Identity) context.Context {
	return grpcctx.NewManager().SetIdentityToContext(context.Background(), identity)
}

func testIdentity(role model.Role) model.Identity {
	return model.Identity{
		UserID: uuid.New(),
		Email:  "member@example.com",
		Name:   "Member",
		Role:   role,
	}
}
