// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	accountsfeature "github.com/opencurio/resourcehub/internal/app/features/accounts"
	adminfeature "github.com/opencurio/resourcehub/internal/app/features/admin"
	assistantfeature "github.com/opencurio/resourcehub/internal/app/features/assistant"
	bookmarksfeature "github.com/opencurio/resourcehub/internal/app/features/bookmarks"
	healthfeature "github.com/opencurio/resourcehub/internal/app/features/health"
	resourcesfeature "github.com/opencurio/resourcehub/internal/app/features/resources"
	searchapifeature "github.com/opencurio/resourcehub/internal/app/features/searchapi"
	"github.com/opencurio/resourcehub/internal/app/search"
	bookmarkstore "github.com/opencurio/resourcehub/internal/app/store/bookmarks"
	resourcestore "github.com/opencurio/resourcehub/internal/app/store/resources"
	userstore "github.com/opencurio/resourcehub/internal/app/store/users"
	"github.com/opencurio/resourcehub/internal/app/suggest"
	"github.com/opencurio/resourcehub/internal/app/system/auth"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the stores and services once,
// installs the bearer-token middleware globally, and mounts one feature
// router per surface: health, auth, catalog CRUD, search, bookmarks,
// moderation, and suggestions.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	issuer, err := auth.NewJWTIssuer(appCfg.JWTSecret, appCfg.JWTTTL)
	if err != nil {
		logger.Error("token issuer init failed", zap.Error(err))
		return nil, err
	}

	resources := resourcestore.New(deps.Docs)
	users := userstore.New(deps.Docs, appCfg.BcryptCost)
	bookmarks := bookmarkstore.New(deps.Docs)
	searcher := search.NewService(deps.Docs, deps.Redis, appCfg.FacetCacheTTL, logger)

	r := chi.NewRouter()

	// Global auth middleware: verifies a bearer token when present and puts
	// its claims into the request context.
	r.Use(auth.LoadBearerUser(issuer))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Docs, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Accounts
	accountsHandler := accountsfeature.NewHandler(users, issuer, logger)
	r.Mount("/auth", accountsfeature.Routes(accountsHandler))

	// Catalog CRUD
	resourcesHandler := resourcesfeature.NewHandler(resources, logger)
	r.Mount("/resources", resourcesfeature.Routes(resourcesHandler))

	// Search, facets, trending
	searchHandler := searchapifeature.NewHandler(searcher, logger)
	r.Mount("/search", searchapifeature.Routes(searchHandler))

	// Bookmarks
	bookmarksHandler := bookmarksfeature.NewHandler(bookmarks, logger)
	r.Mount("/bookmarks", bookmarksfeature.Routes(bookmarksHandler))

	// Moderation and operations
	adminHandler := adminfeature.NewHandler(resources, users, searcher, logger)
	r.Mount("/admin", adminfeature.Routes(adminHandler))

	// Catalog-grounded suggestions
	if appCfg.SuggestEnabled {
		// No completion backend is wired by default; the service degrades
		// to listing the best-matching resources.
		suggestSvc := suggest.New(searcher, nil, logger)
		assistantHandler := assistantfeature.NewHandler(suggestSvc, logger)
		r.Mount("/suggest", assistantfeature.Routes(assistantHandler))
	}

	return r, nil
}
