// Package integration exercises the full HTTP stack against PostgreSQL
// running in a testcontainer.
package integration

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"sport-shop/internal/auth"
	"sport-shop/internal/database"
	"sport-shop/internal/delivery"
	"sport-shop/internal/handler"
	"sport-shop/internal/notification"
	"sport-shop/internal/payment"
	"sport-shop/internal/repository"
	"sport-shop/internal/router"
	"sport-shop/internal/service"
	"sport-shop/internal/telemetry"
)

const testJWTSecret = "integration-secret-0123456789abcdef"

// TestDB represents a migrated test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the migrations
// and opens a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.Migrate(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	pool, err := database.NewPoolFromURL(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes all rows except the seeded roles.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"TRUNCATE order_items, orders, customers, products, user_roles, users RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
}

// GrantRole adds role to an existing user.
func GrantRole(t *testing.T, pool *pgxpool.Pool, username, role string) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		INSERT INTO user_roles (user_id, role_id)
		SELECT u.id, r.id FROM users u, roles r
		WHERE u.username = $1 AND r.name = $2
		ON CONFLICT DO NOTHING`, username, role)
	if err != nil {
		t.Fatalf("failed to grant %s to %s: %v", role, username, err)
	}
}

// Transition is one observed order status change.
type Transition struct {
	OrderID   int64
	OldStatus string
	NewStatus string
}

// recordingNotifier captures every event the dispatcher delivers.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Transition
}

func (n *recordingNotifier) Name() string { return "recorder" }

func (n *recordingNotifier) Notify(_ context.Context, e notification.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Transition{OrderID: e.Order.ID, OldStatus: e.OldStatus, NewStatus: e.NewStatus})
	return nil
}

func (n *recordingNotifier) Transitions() []Transition {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Transition(nil), n.events...)
}

// TestServer is the wired application under test.
type TestServer struct {
	Handler  http.Handler
	Recorder *recordingNotifier
}

// NewTestServer wires repositories, services and handlers the same way the
// API binary does, with a recording notifier appended to the defaults.
func NewTestServer(t *testing.T, testDB *TestDB) *TestServer {
	t.Helper()

	logger := zerolog.Nop()
	pool := testDB.Pool
	metrics := telemetry.NewMetrics()
	tokens := auth.NewTokenManager(testJWTSecret, time.Hour)

	productRepo := repository.NewProductRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	deliveryResolver := delivery.NewResolver()
	paymentResolver := payment.NewResolver(logger)

	recorder := &recordingNotifier{}
	notifiers := append(notification.Defaults(logger), recorder)
	dispatcher := notification.NewDispatcher(time.Second, metrics.NotificationFailures, logger, notifiers...)

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(pool, logger),
		Auth:     handler.NewAuthHandler(service.NewAuthService(userRepo, tokens, logger), logger),
		Product:  handler.NewProductHandler(service.NewProductService(productRepo, logger), logger),
		Customer: handler.NewCustomerHandler(service.NewCustomerService(customerRepo, logger), logger),
		Order: handler.NewOrderHandler(service.NewOrderService(service.OrderDeps{
			Orders:        orderRepo,
			Products:      productRepo,
			Customers:     customerRepo,
			Users:         userRepo,
			Delivery:      deliveryResolver,
			Payment:       paymentResolver,
			Notifier:      dispatcher,
			OrdersCreated: metrics.OrdersCreated,
		}, logger), logger),
		Delivery: handler.NewDeliveryHandler(deliveryResolver, logger),
		Payment:  handler.NewPaymentHandler(paymentResolver, metrics.PaymentDecisions, logger),
	}

	return &TestServer{
		Handler: router.New(handlers, router.Options{
			Tokens:             tokens,
			Metrics:            metrics,
			CORSAllowedOrigins: []string{"*"},
		}, logger),
		Recorder: recorder,
	}
}
