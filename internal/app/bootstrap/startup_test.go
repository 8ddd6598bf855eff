package bootstrap

import (
	"testing"

	userstore "github.com/opencurio/resourcehub/internal/app/store/users"
	"github.com/opencurio/resourcehub/internal/app/system/indexes"
	"github.com/opencurio/resourcehub/internal/domain/models"
	"github.com/opencurio/resourcehub/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestStartup_PromotesConfiguredAdmin(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, docs.Database()); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	users := userstore.New(docs, 4)
	u, err := users.Register(ctx, "boss@test.example", "correct-horse", "Boss")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	appCfg := AppConfig{AdminEmail: "boss@test.example", BcryptCost: 4}
	if err := Startup(ctx, nil, appCfg, DBDeps{Docs: docs}, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}

	got, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", got.Role)
	}
}

func TestStartup_UnknownAdminEmailIsNotFatal(t *testing.T) {
	docs := testutil.SetupTestStore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	appCfg := AppConfig{AdminEmail: "nobody@test.example", BcryptCost: 4}
	if err := Startup(ctx, nil, appCfg, DBDeps{Docs: docs}, testLogger()); err != nil {
		t.Errorf("Startup should tolerate a not-yet-registered admin account: %v", err)
	}
}

func TestStartup_NoAdminEmailConfigured(t *testing.T) {
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := Startup(ctx, nil, AppConfig{}, DBDeps{}, testLogger()); err != nil {
		t.Errorf("Startup with no admin email: %v", err)
	}
}
