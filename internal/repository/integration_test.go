package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmesa/accounts-service/internal/domain"
	"github.com/dmesa/accounts-service/internal/repository"
	"github.com/dmesa/accounts-service/internal/store"
)

// TestRepositoryIntegration runs the repository against a real store
// instance. It exercises the properties that the in-memory client cannot
// prove: that a single statement really applies overwrite and increment
// together, and that concurrent deltas on one record never lose updates.
func TestRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, uri := startNeo4jContainer(t, ctx)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate neo4j container: %v", err)
		}
	}()

	client, err := store.NewNeo4jClient(ctx, store.Options{URI: uri})
	if err != nil {
		t.Fatalf("failed to create store client: %v", err)
	}
	defer client.Close(ctx)

	repo := repository.New(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	created, err := repo.Create(ctx, domain.Account{
		AccountNumber:  "ACC-INT-001",
		AccountType:    "SAVINGS",
		CustomerName:   "Jane Doe",
		DocumentType:   "CC",
		DocumentNumber: "123456789",
		Phone:          "+15551234567",
		Email:          "jane@example.com",
		Address:        "123 Market St, Bogota",
		Balance:        1000.0,
	})
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}
	id := uuid.MustParse(created.ID)

	t.Run("sequential deltas accumulate", func(t *testing.T) {
		up := 200.0
		if _, err := repo.ApplyUpdate(ctx, id, domain.AccountPatch{Amount: &up}); err != nil {
			t.Fatalf("increment failed: %v", err)
		}
		down := -100.0
		updated, err := repo.ApplyUpdate(ctx, id, domain.AccountPatch{Amount: &down})
		if err != nil {
			t.Fatalf("decrement failed: %v", err)
		}
		if updated.Balance != 1100.0 {
			t.Fatalf("expected balance 1100, got %v", updated.Balance)
		}
	})

	t.Run("overwrite and delta land together", func(t *testing.T) {
		name := "Janet Doe"
		delta := 50.0
		updated, err := repo.ApplyUpdate(ctx, id, domain.AccountPatch{
			CustomerName: &name,
			Amount:       &delta,
		})
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		if updated.CustomerName != name {
			t.Errorf("expected name %q, got %q", name, updated.CustomerName)
		}
		if updated.Balance != 1150.0 {
			t.Errorf("expected balance 1150, got %v", updated.Balance)
		}

		rollback := -50.0
		if _, err := repo.ApplyUpdate(ctx, id, domain.AccountPatch{Amount: &rollback}); err != nil {
			t.Fatalf("rollback failed: %v", err)
		}
	})

	t.Run("concurrent deltas are not lost", func(t *testing.T) {
		before, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}

		const callers = 20
		const delta = 5.0
		var wg sync.WaitGroup
		errCh := make(chan error, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				amount := delta
				if _, err := repo.ApplyUpdate(ctx, id, domain.AccountPatch{Amount: &amount}); err != nil {
					errCh <- err
				}
			}()
		}
		wg.Wait()
		close(errCh)
		for err := range errCh {
			t.Fatalf("concurrent update failed: %v", err)
		}

		after, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		want := before.Balance + callers*delta
		if after.Balance != want {
			t.Fatalf("expected balance %v, got %v", want, after.Balance)
		}
	})

	t.Run("delta below zero is rejected atomically", func(t *testing.T) {
		before, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}

		overdraft := -(before.Balance + 1)
		if _, err := repo.ApplyUpdate(ctx, id, domain.AccountPatch{Amount: &overdraft}); !errors.Is(err, domain.ErrBalanceBelowZero) {
			t.Fatalf("expected ErrBalanceBelowZero, got %v", err)
		}

		after, err := repo.FindByID(ctx, id)
		if err != nil {
			t.Fatalf("find failed: %v", err)
		}
		if after.Balance != before.Balance {
			t.Fatalf("rejected delta mutated balance: %v -> %v", before.Balance, after.Balance)
		}
	})

	t.Run("absent identifier yields not found", func(t *testing.T) {
		if _, err := repo.FindByID(ctx, uuid.New()); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
		amount := 10.0
		if _, err := repo.ApplyUpdate(ctx, uuid.New(), domain.AccountPatch{Amount: &amount}); !errors.Is(err, domain.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
	})
}

// startNeo4jContainer starts a Neo4j testcontainer and returns the bolt URI.
func startNeo4jContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string) {
	req := testcontainers.ContainerRequest{
		Image:        "neo4j:5",
		ExposedPorts: []string{"7687/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": "none",
		},
		WaitingFor: wait.ForLog("Started."),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start neo4j container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get neo4j host: %v", err)
	}

	port, err := container.MappedPort(ctx, "7687")
	if err != nil {
		t.Fatalf("failed to get neo4j port: %v", err)
	}

	return container, fmt.Sprintf("bolt://%s:%s", host, port.Port())
}
