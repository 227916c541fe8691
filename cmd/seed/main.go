// seed crea los datos mínimos para arrancar la aplicación: un usuario
// administrador y las categorías base. Es idempotente: si el admin ya existe
// no duplica nada.
//
// Uso: go run ./cmd/seed
// Variables: SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD, SEED_ADMIN_NAME
// (por defecto admin@invenly.local / cambiar-ahora / Administrador).
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jcamargo/invenly-api/internal/domain/entity"
	"github.com/jcamargo/invenly-api/internal/infrastructure/postgres"
	"github.com/jcamargo/invenly-api/pkg/config"
	"github.com/jcamargo/invenly-api/pkg/logger"
)

var baseCategories = []string{"General", "Papelería", "Tecnología", "Limpieza"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)

	email := envOr("SEED_ADMIN_EMAIL", "admin@invenly.local")
	password := envOr("SEED_ADMIN_PASSWORD", "cambiar-ahora")
	name := envOr("SEED_ADMIN_NAME", "Administrador")

	existing, err := userRepo.GetByEmail(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("consultar admin")
	}
	if existing != nil {
		log.Info().Str("email", email).Msg("admin ya existe, nada que hacer")
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hashear password")
		}
		now := time.Now()
		admin := &entity.User{
			ID:           uuid.New().String(),
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			Role:         entity.RoleAdmin,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			log.Fatal().Err(err).Msg("crear admin")
		}
		log.Info().Str("email", email).Msg("admin creado")
	}

	existingCategories, err := categoryRepo.List(ctx, false)
	if err != nil {
		log.Fatal().Err(err).Msg("listar categorías")
	}
	have := make(map[string]bool, len(existingCategories))
	for _, c := range existingCategories {
		have[c.Name] = true
	}
	for _, name := range baseCategories {
		if have[name] {
			continue
		}
		now := time.Now()
		category := &entity.Category{
			ID:        uuid.New().String(),
			Name:      name,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := categoryRepo.Create(ctx, category); err != nil {
			log.Fatal().Err(err).Str("category", name).Msg("crear categoría")
		}
		log.Info().Str("category", name).Msg("categoría creada")
	}

	log.Info().Msg("seed completado")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
