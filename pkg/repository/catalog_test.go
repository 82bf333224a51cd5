package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/secmon-lab/horai/pkg/domain/interfaces"
	"github.com/secmon-lab/horai/pkg/domain/model"
	"github.com/secmon-lab/horai/pkg/domain/types"
	"github.com/secmon-lab/horai/pkg/repository/firestore"
	"github.com/secmon-lab/horai/pkg/repository/memory"
)

func runRiskRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create and Get roundtrip", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			Name:                 "supplier failure",
			Qualitative:          true,
			Impact:               3,
			ControlEffectiveness: 2,
			Active:               true,
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}
		if created.ID == "" {
			t.Error("expected non-empty ID")
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}

		retrieved, err := repo.Risk().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get risk: %v", err)
		}
		if retrieved.Name != "supplier failure" {
			t.Errorf("unexpected name: %s", retrieved.Name)
		}
	})

	t.Run("Get returns not found for missing risk", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Risk().Get(ctx, "no-such-risk")
		if err == nil {
			t.Fatal("expected error for missing risk")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListActive filters inactive risks", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		active, err := repo.Risk().Create(ctx, &model.Risk{
			Name: "active", Qualitative: true, Active: true,
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}
		if _, err := repo.Risk().Create(ctx, &model.Risk{
			Name: "retired", Qualitative: true,
		}); err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		all, err := repo.Risk().List(ctx)
		if err != nil {
			t.Fatalf("failed to list risks: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 risks, got %d", len(all))
		}

		actives, err := repo.Risk().ListActive(ctx)
		if err != nil {
			t.Fatalf("failed to list active risks: %v", err)
		}
		if len(actives) != 1 || actives[0].ID != active.ID {
			t.Errorf("expected only the active risk, got %v", actives)
		}
	})

	t.Run("Update keeps CreatedAt and rejects unknown ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Risk().Create(ctx, &model.Risk{
			Name: "before", Qualitative: true, Active: true,
		})
		if err != nil {
			t.Fatalf("failed to create risk: %v", err)
		}

		created.Name = "after"
		created.Impact = 4
		updated, err := repo.Risk().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update risk: %v", err)
		}
		if updated.Name != "after" || updated.Impact != 4 {
			t.Errorf("unexpected update result: %+v", updated)
		}
		// Firestore stores timestamps at microsecond precision
		if d := updated.CreatedAt.Sub(created.CreatedAt); d < -time.Millisecond || d > time.Millisecond {
			t.Errorf("expected CreatedAt to be preserved, drifted by %v", d)
		}

		if _, err := repo.Risk().Update(ctx, &model.Risk{ID: "no-such-risk", Name: "x"}); err == nil {
			t.Error("expected error updating unknown risk")
		}
	})
}

func runIndicatorRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	value := func(v float64) *float64 { return &v }

	t.Run("Create and Get roundtrip with thresholds", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Indicator().Create(ctx, &model.Indicator{
			Name:       "open findings",
			Threshold1: value(10),
			Threshold2: value(20),
			Threshold3: value(30),
			Direction:  types.DirectionNegative,
		})
		if err != nil {
			t.Fatalf("failed to create indicator: %v", err)
		}

		retrieved, err := repo.Indicator().Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get indicator: %v", err)
		}
		if retrieved.Threshold2 == nil || *retrieved.Threshold2 != 20 {
			t.Errorf("expected threshold2=20, got %v", retrieved.Threshold2)
		}
		if !retrieved.HasUsableThresholds() {
			t.Error("expected usable thresholds")
		}
	})

	t.Run("Update replaces thresholds", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Indicator().Create(ctx, &model.Indicator{
			Name:      "patch delay",
			Direction: types.DirectionPositive,
		})
		if err != nil {
			t.Fatalf("failed to create indicator: %v", err)
		}
		if created.HasUsableThresholds() {
			t.Error("expected unusable thresholds before update")
		}

		created.Threshold1 = value(100)
		created.Threshold2 = value(150)
		created.Threshold3 = value(200)
		updated, err := repo.Indicator().Update(ctx, created)
		if err != nil {
			t.Fatalf("failed to update indicator: %v", err)
		}
		if !updated.HasUsableThresholds() {
			t.Error("expected usable thresholds after update")
		}

		all, err := repo.Indicator().List(ctx)
		if err != nil {
			t.Fatalf("failed to list indicators: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected 1 indicator, got %d", len(all))
		}
	})
}

func TestMemoryRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreRiskRepository(t *testing.T) {
	runRiskRepositoryTest(t, newFirestoreRepository)
}

func TestMemoryIndicatorRepository(t *testing.T) {
	runIndicatorRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreIndicatorRepository(t *testing.T) {
	runIndicatorRepositoryTest(t, newFirestoreRepository)
}
