package db

import (
	"context"
	"errors"

	"github.com/coursehub/backend/internal/config"
	"github.com/coursehub/backend/internal/domain/user"
	"github.com/coursehub/backend/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser creates the bootstrap ADMIN account from config if it
// does not exist yet. Further role elevation goes through the
// admin-guarded HTTP operation, never through direct store writes.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, hashPassword func(string) (string, error)) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	users := postgres.NewUsersRepo(pool, nil)

	_, err := users.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = users.Create(ctx, cfg.AdminEmail, hash, cfg.AdminName, user.RoleAdmin)

	return err
}
