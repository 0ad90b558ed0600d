package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	handler "github.com/vncsmyrnk/eforms/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/eforms/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/eforms/internal/core/ports"
	"github.com/vncsmyrnk/eforms/internal/core/services"
)

const jwtSecret = "test-secret"

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	SummarySvc  ports.SummaryService
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

// applyMigrations runs every *.up.sql file in name order.
func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	require.NoError(t, applyMigrations(db))

	log := zap.NewNop()
	formRepo := repo.NewFormRepository(db)
	responseRepo := repo.NewResponseRepository(db)
	resultRepo := repo.NewFormResultRepository(db)
	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)

	formSvc := services.NewFormService(formRepo)
	responseSvc := services.NewResponseService(formSvc, responseRepo, resultRepo, log)
	analyticsSvc := services.NewAnalyticsService(formSvc, responseRepo, resultRepo)
	summarySvc := services.NewSummaryService(formRepo, resultRepo)
	authSvc := services.NewAuthService(userRepo, authRepo, services.AuthOptions{JWTSecret: []byte(jwtSecret)})

	router := handler.NewHandler(handler.Handlers{
		Forms:     handler.NewFormHandler(formSvc, analyticsSvc, log),
		Responses: handler.NewResponseHandler(responseSvc, nil, log),
		Auth: handler.NewAuthHandler(authSvc, handler.CookieOptions{
			SameSite:   http.SameSiteLaxMode,
			AccessTTL:  services.DefaultAccessTokenTTL,
			RefreshTTL: services.DefaultRefreshTokenTTL,
		}, log),
		Users:       handler.NewUserHandler(services.NewUserService(userRepo), log),
		RequireAuth: handler.NewAuthMiddleware(authSvc),
	}, handler.RouterOptions{AllowedOrigins: []string{"*"}, Logger: log})

	server := httptest.NewServer(router)

	app := &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		SummarySvc:  summarySvc,
		DBContainer: dbContainer,
	}
	t.Cleanup(func() { app.Teardown(t) })
	return app
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// APIURL is the base the REST client expects.
func (app *TestApp) APIURL() string {
	return app.Server.URL + "/api"
}

// createUserAndToken inserts a user directly and signs an access token for it.
func (app *TestApp) createUserAndToken(t *testing.T) (uuid.UUID, string) {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	name := fmt.Sprintf("User %s", userID)
	_, err := app.DB.Exec("INSERT INTO users (id, email, full_name) VALUES ($1, $2, $3)", userID, email, name)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return userID, signedToken
}
