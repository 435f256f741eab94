package service

import (
	"context"
	"sync"
	"testing"

	apperrors "github.com/spec-kit/provisioning-service/pkg/util"
)

func TestReserveDecrementsStock(t *testing.T) {
	equipment := newFakeEquipmentRepo()
	equipment.addItem("router-1", 3)
	svc := NewInventoryService(equipment, nil)

	reservation, err := svc.Reserve(context.Background(), "router-1", 2)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if reservation.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", reservation.Quantity)
	}
	if got := equipment.stockOf("router-1"); got != 1 {
		t.Fatalf("stock = %d, want 1", got)
	}
}

func TestReserveRejectsOversell(t *testing.T) {
	equipment := newFakeEquipmentRepo()
	equipment.addItem("router-1", 1)
	svc := NewInventoryService(equipment, nil)

	_, err := svc.Reserve(context.Background(), "router-1", 2)
	if code := errCode(t, err); code != "OUT_OF_STOCK" {
		t.Fatalf("code = %s, want OUT_OF_STOCK", code)
	}
	if got := equipment.stockOf("router-1"); got != 1 {
		t.Fatalf("stock = %d, failed reservation must not decrement", got)
	}
}

func TestReserveUnknownItem(t *testing.T) {
	svc := NewInventoryService(newFakeEquipmentRepo(), nil)
	_, err := svc.Reserve(context.Background(), "missing", 1)
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", code)
	}
}

func TestReserveValidatesQuantity(t *testing.T) {
	svc := NewInventoryService(newFakeEquipmentRepo(), nil)
	for _, quantity := range []int{0, -1} {
		_, err := svc.Reserve(context.Background(), "router-1", quantity)
		if code := errCode(t, err); code != "VALIDATION_FAILED" {
			t.Fatalf("quantity %d: code = %s, want VALIDATION_FAILED", quantity, code)
		}
	}
}

func TestConcurrentReserveLastUnit(t *testing.T) {
	equipment := newFakeEquipmentRepo()
	equipment.addItem("router-1", 1)
	svc := NewInventoryService(equipment, nil)

	const attempts = 10
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), "router-1", 1)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		if code := apperrors.ToDomainError(err).Code; code != "OUT_OF_STOCK" {
			t.Fatalf("loser code = %s, want OUT_OF_STOCK", code)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
	if got := equipment.stockOf("router-1"); got != 0 {
		t.Fatalf("stock = %d, want 0 and never negative", got)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	equipment := newFakeEquipmentRepo()
	equipment.addItem("router-1", 1)
	svc := NewInventoryService(equipment, nil)

	reservation, err := svc.Reserve(context.Background(), "router-1", 1)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if err := svc.Release(context.Background(), reservation.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := svc.Release(context.Background(), reservation.ID); err != nil {
		t.Fatalf("second release: %v", err)
	}
	if got := equipment.stockOf("router-1"); got != 1 {
		t.Fatalf("stock = %d, double release must not double-restock", got)
	}
}

func TestReleaseUnknownReservation(t *testing.T) {
	svc := NewInventoryService(newFakeEquipmentRepo(), nil)
	err := svc.Release(context.Background(), "missing")
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Fatalf("code = %s, want NOT_FOUND", code)
	}
}
