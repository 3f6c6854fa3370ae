package handler

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/memoria-server/internal/model"
)

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return s, nil
}

func empty() *structpb.Struct {
	return &structpb.Struct{}
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func list[T any](items []T, conv func(T) map[string]any) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, conv(item))
	}
	return out
}

func identityFields(i model.Identity) map[string]any {
	return map[string]any{
		"id":    i.UserID.String(),
		"email": i.Email,
		"name":  i.Name,
		"image": optional(i.Image),
		"role":  string(i.Role),
	}
}

// userFields never exposes the password hash.
func userFields(u model.User) map[string]any {
	return map[string]any{
		"id":        u.ID.String(),
		"email":     u.Email,
		"name":      u.Name,
		"image":     optional(u.Image),
		"provider":  u.Provider,
		"role":      string(u.Role),
		"createdAt": timestamp(u.CreatedAt),
		"updatedAt": timestamp(u.UpdatedAt),
	}
}

func postFields(p model.Post) map[string]any {
	return map[string]any{
		"id":        p.ID.String(),
		"title":     p.Title,
		"desc":      p.Desc,
		"date":      p.Date,
		"imageUrl":  p.ImageURL,
		"approved":  p.Approved,
		"useremail": p.UserEmail,
		"userName":  p.UserName,
		"userImage": optional(p.UserImage),
		"createdAt": timestamp(p.CreatedAt),
		"updatedAt": timestamp(p.UpdatedAt),
	}
}

func eventFields(e model.TimelineEvent) map[string]any {
	return map[string]any{
		"id":          e.ID.String(),
		"year":        e.Year,
		"month":       optional(e.Month),
		"day":         optional(e.Day),
		"title":       e.Title,
		"description": e.Description,
		"image":       optional(e.Image),
		"createdAt":   timestamp(e.CreatedAt),
		"updatedAt":   timestamp(e.UpdatedAt),
	}
}

func sessionFields(s model.SessionResult) map[string]any {
	return map[string]any{
		"user":         identityFields(s.Identity),
		"accessToken":  s.AccessToken,
		"refreshToken": s.RefreshToken,
	}
}
