// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/opencurio/resourcehub/internal/app/store/users"
	"github.com/opencurio/resourcehub/internal/app/system/apperr"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. The only
// task today is the admin bootstrap: promoting the configured account so a
// fresh deployment has a moderator without manual database edits.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.Docs, appCfg.BcryptCost)
	u, err := users.GetByEmail(ctx, appCfg.AdminEmail)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// The account may simply not have registered yet.
			logger.Warn("admin_email is set but no such account exists yet",
				zap.String("email", appCfg.AdminEmail))
			return nil
		}
		return err
	}
	if u.Role == models.RoleAdmin {
		return nil
	}

	if _, err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("promoted account to admin", zap.String("email", u.Email))
	return nil
}
