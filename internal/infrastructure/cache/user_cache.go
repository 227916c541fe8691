// Package cache implementa el caché de perfiles de usuario sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jcamargo/invenly-api/internal/application/auth"
	"github.com/jcamargo/invenly-api/internal/application/dto"
	"github.com/redis/go-redis/v9"
)

var _ auth.ProfileCache = (*UserCache)(nil)

const profileTTL = 15 * time.Minute

// UserCache cachea perfiles de usuario serializados como JSON en Redis.
type UserCache struct {
	client *redis.Client
}

// NewUserCache construye el caché sobre un cliente Redis ya conectado.
func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// Get devuelve el perfil cacheado o (nil, nil) en miss.
func (c *UserCache) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	raw, err := c.client.Get(ctx, profileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached profile: %w", err)
	}
	var profile dto.UserResponse
	if err := json.Unmarshal(raw, &profile); err != nil {
		// Entrada corrupta: tratar como miss.
		return nil, nil
	}
	return &profile, nil
}

// Set guarda el perfil con TTL fijo.
func (c *UserCache) Set(ctx context.Context, profile *dto.UserResponse) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, profileKey(profile.ID), raw, profileTTL).Err(); err != nil {
		return fmt.Errorf("set cached profile: %w", err)
	}
	return nil
}

func profileKey(userID string) string {
	return "user:profile:" + userID
}
