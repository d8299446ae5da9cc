//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"datenight/internal/domain/event"
	"datenight/internal/infra/db"
	"datenight/internal/infra/uow"
	"datenight/internal/pkg/clock"
	"datenight/internal/pkg/config"
	"datenight/internal/usecase/commands"
	"datenight/internal/usecase/shared"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	postgresContainerOnce sync.Once
	postgresTestContainer testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

type ContainerInfo struct {
	Host string
	Port nat.Port
}

// LedgerEnv is one isolated ledger instance over a dedicated test
// database: the real unit of work and command stack, with the external
// registry and the change channel stubbed in memory.
type LedgerEnv struct {
	Pool      *pgxpool.Pool
	UoW       shared.UnitOfWork
	Registry  *StubRegistry
	Signup    commands.SignupCommands
	Cancel    commands.CancelCommands
	Purchase  commands.PurchaseCommands
	Promote   commands.PromoterCommands
	Reconcile commands.ReconcileCommands
	Cart      commands.CartCommands
}

func SetupLedgerEnv(t *testing.T) *LedgerEnv {
	return SetupLedgerEnvWithPolicy(t, config.PolicyConfig{})
}

func SetupLedgerEnvWithPolicy(t *testing.T, policy config.PolicyConfig) *LedgerEnv {
	t.Helper()

	postgresInfo := startContainers(t)
	pool := prepareDatabase(t, postgresInfo)

	unit := uow.NewPostgresUoW(pool)
	registry := NewStubRegistry()
	notifier := nopNotifier{}
	clk := clock.NewRealClock()

	promote := commands.NewPromoterCommands(unit, registry, notifier, clk)
	return &LedgerEnv{
		Pool:      pool,
		UoW:       unit,
		Registry:  registry,
		Signup:    commands.NewSignupCommands(unit, registry, notifier, clk),
		Cancel:    commands.NewCancelCommands(unit, promote, notifier, clk, policy),
		Purchase:  commands.NewPurchaseCommands(unit, notifier, clk),
		Promote:   promote,
		Reconcile: commands.NewReconcileCommands(unit, registry, promote),
		Cart:      commands.NewCartCommands(unit),
	}
}

func startContainers(t *testing.T) ContainerInfo {
	startPostgreSQLContainerOnce(t)

	postgresInfo, err := getContainerHostPort(postgresTestContainer, "5432/tcp")
	require.NoError(t, err, "failed to get postgres container info")

	return postgresInfo
}

func prepareDatabase(t *testing.T, postgresInfo ContainerInfo) *pgxpool.Pool {
	// One database per test process so parallel packages never collide.
	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, postgresInfo.Host, postgresInfo.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "failed to open admin connection")
	defer adminPool.Close()

	var createErr error
	for attempts := range 5 {
		if attempts > 0 {
			waitTime := time.Duration(500+attempts*500) * time.Millisecond
			waitTime = min(waitTime, 3*time.Second)
			time.Sleep(waitTime)
			slog.Warn("retrying test database creation", "attempt", attempts+1, "error", createErr.Error())
		}
		_, createErr = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
		if createErr == nil {
			break
		}
	}
	require.NoError(t, createErr, "failed to create test database")

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()

		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			slog.Warn("failed to open cleanup connection", "database", dbName, "error", err.Error())
			return
		}
		defer cleanupPool.Close()

		if _, err := cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName); err != nil {
			slog.Warn("failed to drop test database", "database", dbName, "error", err.Error())
		}
	})

	dbConfig := config.DBConfig{
		Host:     postgresInfo.Host,
		Port:     postgresInfo.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
	}

	pool, cleanup, err := db.Connect(dbConfig)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(cleanup)

	require.NoError(t, applySchema(pool), "failed to apply database schema")
	return pool
}

func applySchema(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Resolve the schema file relative to possible working dirs (package
	// dirs during `go test`).
	candidates := []string{
		"db/schema.sql",
		filepath.Join("..", "db", "schema.sql"),
		filepath.Join("..", "..", "db", "schema.sql"),
		filepath.Join("..", "..", "..", "db", "schema.sql"),
	}
	var (
		sqlContent []byte
		readErr    error
	)
	for _, cand := range candidates {
		sqlContent, readErr = os.ReadFile(cand)
		if readErr == nil {
			break
		}
	}
	if readErr != nil {
		return fmt.Errorf("failed to read schema file: %w", readErr)
	}

	if _, err := pool.Exec(ctx, string(sqlContent)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

func startGenericContainer(req testcontainers.ContainerRequest, timeoutSec int) (testcontainers.Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	return testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
}

func startPostgreSQLContainerOnce(t *testing.T) {
	postgresContainerOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "shared_buffers=256MB",
				"-c", "max_connections=200",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
			Name:   "postgres-e2e",
			Labels: map[string]string{"purpose": "e2e-tests"},
		}

		var err error
		postgresTestContainer, err = startGenericContainer(req, 180)
		require.NoError(t, err, "failed to start postgres container")

		t.Cleanup(func() {
			if postgresTestContainer != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := postgresTestContainer.Terminate(ctx); err != nil {
					slog.Warn("failed to terminate postgres container", "error", err.Error())
				}
			}
		})
	})
}

func getContainerHostPort(c testcontainers.Container, port string) (ContainerInfo, error) {
	ctx := context.Background()
	mappedPort, err := c.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return ContainerInfo{}, err
	}
	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	return ContainerInfo{Host: host, Port: mappedPort}, nil
}

// ---- seed helpers ----

func CreateTestUser(t *testing.T, pool *pgxpool.Pool, email string, gender event.Gender, balance int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, password_hash, role, gender, dates_remaining)
		 VALUES ($1, $2, $3, 'member', $4, $5)`,
		id, email, "$2a$10$test.hash.not.used.in.ledger.tests.0000000000000000000", gender.String(), balance)
	require.NoError(t, err, "failed to seed user")
	return id
}

func CreateTestEvent(t *testing.T, pool *pgxpool.Pool, externalID string, capacityMale, capacityFemale int) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO events (id, external_id, title, starts_at, capacity_male, capacity_female)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, externalID, "Test Mixer", time.Now().Add(72*time.Hour), capacityMale, capacityFemale)
	require.NoError(t, err, "failed to seed event")
	return id
}

// ---- in-memory stand-ins for the external surfaces ----

// StubRegistry is a thread-safe in-memory video-conferencing registry.
type StubRegistry struct {
	mu      sync.Mutex
	members map[event.ExternalID][]string
	enrolls int
}

func NewStubRegistry() *StubRegistry {
	return &StubRegistry{members: make(map[event.ExternalID][]string)}
}

func (r *StubRegistry) Enroll(_ context.Context, externalEventID event.ExternalID, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[externalEventID] {
		if strings.EqualFold(m, email) {
			return nil
		}
	}
	r.members[externalEventID] = append(r.members[externalEventID], email)
	r.enrolls++
	return nil
}

func (r *StubRegistry) ListMembers(_ context.Context, externalEventID event.ExternalID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.members[externalEventID]...), nil
}

func (r *StubRegistry) EnrollCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enrolls
}

type nopNotifier struct{}

func (nopNotifier) PublishChange(context.Context, shared.LedgerChange) error { return nil }
