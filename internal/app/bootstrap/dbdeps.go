// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/opencurio/resourcehub/internal/app/store/docstore"
	"github.com/redis/go-redis/v9"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as the app evolves.
type DBDeps struct {
	Docs  *docstore.Store
	Redis *redis.Client // nil when the facet cache is disabled
}
