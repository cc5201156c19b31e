package orders

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *PostgresRepository {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations",
	}

	repo, err := NewPostgresRepository(creds)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations(creds))

	t.Cleanup(func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return repo
}

func newTestOrder(userID string, placed time.Time) *domain.Order {
	return &domain.Order{
		ID:             uuid.NewString(),
		UserID:         userID,
		Date:           placed,
		Status:         domain.OrderStatusPending,
		Total:          decimal.RequireFromString("323.97"),
		ShippingMethod: "standard",
		Items:          testItems(),
	}
}

func TestPostgres_CreateAndGet(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	order := newTestOrder("user-1", time.Now().UTC().Truncate(time.Millisecond))

	require.NoError(t, repo.CreateOrder(ctx, order))

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.UserID, got.UserID)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.True(t, order.Total.Equal(got.Total))
	require.Len(t, got.Items, 2)
	assert.True(t, order.Items[0].Product.Price.Equal(got.Items[0].Product.Price))
	assert.WithinDuration(t, order.Date, got.Date, time.Millisecond)
}

func TestPostgres_Duplicate(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	order := newTestOrder("user-1", time.Now().UTC())

	require.NoError(t, repo.CreateOrder(ctx, order))
	assert.ErrorIs(t, repo.CreateOrder(ctx, order), ErrDuplicateOrder)
}

func TestPostgres_GetNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetOrderByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestPostgres_ListNewestFirst(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	older := newTestOrder("user-1", time.Now().UTC().Add(-time.Hour))
	newer := newTestOrder("user-1", time.Now().UTC())
	other := newTestOrder("user-2", time.Now().UTC())

	for _, o := range []*domain.Order{older, newer, other} {
		require.NoError(t, repo.CreateOrder(ctx, o))
	}

	list, err := repo.ListOrdersByUserID(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestPostgres_UpdateStatus(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	order := newTestOrder("user-1", time.Now().UTC())
	require.NoError(t, repo.CreateOrder(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, domain.OrderStatusProcessing))

	got, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusProcessing, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", domain.OrderStatusShipped), ErrOrderNotFound)
}
