package bootstrap

import (
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/neurozen/neurozen/config"
	"github.com/neurozen/neurozen/internal/adapters/authroles"
	"github.com/neurozen/neurozen/internal/adapters/oidc"
	"github.com/neurozen/neurozen/internal/adapters/password"
	redisadapter "github.com/neurozen/neurozen/internal/adapters/redis"
	"github.com/neurozen/neurozen/internal/data"
	"github.com/neurozen/neurozen/internal/ports"
	"github.com/neurozen/neurozen/internal/service"
)

// AuthConfig contains configuration for the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates the auth service. Password login is always
// available; SSO is attached only when the OIDC config is complete.
// Returns nil when the backing stores are missing.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.DB == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: database not configured")
		}
		return nil
	}
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured")
		}
		return nil
	}

	deps := service.AuthServiceDeps{
		Hasher:     buildPasswordHasher(cfg.Auth),
		SessionTTL: cfg.Auth.SessionTTL,
	}

	if provider := buildSSOProvider(cfg.Auth.SSO, cfg.Logger); provider != nil {
		deps.Provider = provider
		deps.Roles = buildRoleMapper(cfg.Auth)
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Users:    data.NewUserRepo(cfg.DB),
		Sessions: redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:"),
		Deps:     deps,
	})
}

//nolint:ireturn // the hasher is injected through the ports.PasswordHasher interface.
func buildPasswordHasher(cfg config.AuthConfig) ports.PasswordHasher {
	if cfg.BcryptCost > 0 {
		return password.NewBcryptHasherWithCost(cfg.BcryptCost)
	}
	return password.NewBcryptHasher()
}

// buildSSOProvider constructs the OIDC provider, or nil when SSO is not
// configured or the discovery fetch fails. A broken identity provider must
// not take password login down with it.
//
//nolint:ireturn // the provider is injected through the ports.SSOProvider interface.
func buildSSOProvider(cfg config.SSOConfig, logger *slog.Logger) ports.SSOProvider {
	if !cfg.Configured() {
		return nil
	}

	provider, err := oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
		LogoutURL:    cfg.LogoutURL,
	})
	if err != nil {
		if logger != nil {
			logger.Warn("failed to create OIDC provider, SSO disabled", "error", err)
		}
		return nil
	}

	return provider
}

// buildRoleMapper returns a group-based role mapper, or nil when no groups
// are configured so SSO users default to the user role.
//
//nolint:ireturn // the mapper is injected through the ports.RoleMapper interface.
func buildRoleMapper(cfg config.AuthConfig) ports.RoleMapper {
	if cfg.AdminGroup == "" && cfg.UserGroup == "" {
		return nil
	}
	return authroles.StaticRoleMapper{
		AdminGroup: cfg.AdminGroup,
		UserGroup:  cfg.UserGroup,
	}
}
