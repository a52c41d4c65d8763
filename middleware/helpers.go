package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-system/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

var ErrNoClaims = errors.New("user claims not found in context or invalid type")

func GetUserIDFromContext(ctx context.Context) (string, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoClaims
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}

	switch v := userIDClaim.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("empty '%s' claim", jwtClaimUserID)
		}
		return v, nil
	case float64:
		// старые токены хранили числовой id
		if v <= 0 || v != float64(int64(v)) {
			return "", fmt.Errorf("invalid user ID value in '%s' claim: %v", jwtClaimUserID, v)
		}
		return fmt.Sprintf("%d", int64(v)), nil
	default:
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimUserID, userIDClaim)
	}
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", ErrNoClaims
	}

	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing '%s' claim in token", jwtClaimRole)
	}

	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for '%s' claim: expected string, got %T", jwtClaimRole, roleClaim)
	}

	role := models.UserRole(roleStr)
	switch role {
	case models.RoleAdmin, models.RoleOrganizer, models.RolePlayer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}

// GetActorFromContext собирает models.Actor из claims запроса.
func GetActorFromContext(ctx context.Context) (models.Actor, error) {
	id, err := GetUserIDFromContext(ctx)
	if err != nil {
		return models.Actor{}, err
	}
	role, err := GetUserRoleFromContext(ctx)
	if err != nil {
		return models.Actor{}, err
	}
	return models.Actor{UserID: id, Role: role}, nil
}

// WithClaims кладёт claims в контекст в обход Authenticate.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}
