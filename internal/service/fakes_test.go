package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/provisioning-service/internal/domain"
	"github.com/spec-kit/provisioning-service/internal/events"
	"github.com/spec-kit/provisioning-service/internal/repository"
)

// In-memory repository fakes. Mutations hold a mutex so the concurrency
// tests exercise the same compare-and-set semantics the SQL layer provides.

type fakeRequestRepo struct {
	mu       sync.Mutex
	seq      int
	requests map[string]*domain.ConnectionRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*domain.ConnectionRequest{}}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *domain.ConnectionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	request.ID = fmt.Sprintf("req-%d", r.seq)
	request.CreatedAt = time.Now()
	clone := *request
	r.requests[request.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *request
	return &clone, nil
}

func (r *fakeRequestRepo) ListWithFilter(_ context.Context, filter repository.RequestFilter) ([]domain.ConnectionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ConnectionRequest
	for _, request := range r.requests {
		if filter.CustomerID != nil && request.CustomerID != *filter.CustomerID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, request.Status) {
			continue
		}
		result = append(result, *request)
	}
	return result, nil
}

func (r *fakeRequestRepo) CompareAndSetStatus(_ context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if request.Status != from {
		return false, nil
	}
	request.Status = to
	if to == domain.RequestStatusApproved || to == domain.RequestStatusRejected {
		now := time.Now()
		request.DecidedAt = &now
	} else {
		request.DecidedAt = nil
	}
	return true, nil
}

func containsStatus(statuses []domain.RequestStatus, status domain.RequestStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type fakeEquipmentRepo struct {
	mu           sync.Mutex
	seq          int
	items        map[string]*domain.EquipmentItem
	reservations map[string]*domain.Reservation
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{
		items:        map[string]*domain.EquipmentItem{},
		reservations: map[string]*domain.Reservation{},
	}
}

func (r *fakeEquipmentRepo) addItem(id string, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[id] = &domain.EquipmentItem{
		ID:            id,
		Name:          id,
		StockQuantity: stock,
		Condition:     domain.EquipmentConditionNew,
	}
}

func (r *fakeEquipmentRepo) stockOf(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item, ok := r.items[id]; ok {
		return item.StockQuantity
	}
	return -1
}

func (r *fakeEquipmentRepo) Create(_ context.Context, item *domain.EquipmentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	item.ID = fmt.Sprintf("eq-%d", r.seq)
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeEquipmentRepo) Update(_ context.Context, item *domain.EquipmentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *fakeEquipmentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEquipmentRepo) GetByID(_ context.Context, id string) (*domain.EquipmentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *item
	return &clone, nil
}

func (r *fakeEquipmentRepo) List(_ context.Context, _, _ int) ([]domain.EquipmentItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.EquipmentItem
	for _, item := range r.items {
		result = append(result, *item)
	}
	return result, nil
}

func (r *fakeEquipmentRepo) Reserve(_ context.Context, itemID string, quantity int) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if item.StockQuantity < quantity {
		return nil, repository.ErrInsufficientStock
	}
	item.StockQuantity -= quantity
	r.seq++
	reservation := &domain.Reservation{
		ID:          fmt.Sprintf("res-%d", r.seq),
		EquipmentID: itemID,
		Quantity:    quantity,
		CreatedAt:   time.Now(),
	}
	r.reservations[reservation.ID] = reservation
	clone := *reservation
	return &clone, nil
}

func (r *fakeEquipmentRepo) Release(_ context.Context, reservationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[reservationID]
	if !ok {
		return pgx.ErrNoRows
	}
	if reservation.Released {
		return nil
	}
	reservation.Released = true
	if item, ok := r.items[reservation.EquipmentID]; ok {
		item.StockQuantity += reservation.Quantity
	}
	return nil
}

func (r *fakeEquipmentRepo) GetReservation(_ context.Context, id string) (*domain.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reservation, ok := r.reservations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *reservation
	return &clone, nil
}

type fakeContractRepo struct {
	mu        sync.Mutex
	seq       int
	contracts map[string]*domain.Contract
	bound     map[string]string // reservation id -> contract id
	failNext  error
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{
		contracts: map[string]*domain.Contract{},
		bound:     map[string]string{},
	}
}

func (r *fakeContractRepo) Create(_ context.Context, contract *domain.Contract, reservationIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}
	r.seq++
	contract.ID = fmt.Sprintf("con-%d", r.seq)
	contract.CreatedAt = time.Now()
	clone := *contract
	r.contracts[contract.ID] = &clone
	for _, reservationID := range reservationIDs {
		r.bound[reservationID] = contract.ID
	}
	return nil
}

func (r *fakeContractRepo) GetByID(_ context.Context, id string) (*domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *contract
	return &clone, nil
}

func (r *fakeContractRepo) ListWithFilter(_ context.Context, filter repository.ContractFilter) ([]domain.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Contract
	for _, contract := range r.contracts {
		if filter.CustomerID != nil && contract.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.Active != nil && contract.IsActive != *filter.Active {
			continue
		}
		result = append(result, *contract)
	}
	return result, nil
}

func (r *fakeContractRepo) Terminate(_ context.Context, id string, endDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok {
		return false, nil
	}
	if !contract.IsActive {
		return false, nil
	}
	contract.IsActive = false
	contract.EndDate = &endDate
	return true, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.SupportTicket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.SupportTicket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.SupportTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("tic-%d", r.seq)
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.SupportTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.SupportTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.SupportTicket
	for _, ticket := range r.tickets {
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		result = append(result, *ticket)
	}
	return result, nil
}

type fakeTariffRepo struct {
	mu      sync.Mutex
	seq     int
	tariffs map[string]*domain.Tariff
}

func newFakeTariffRepo() *fakeTariffRepo {
	return &fakeTariffRepo{tariffs: map[string]*domain.Tariff{}}
}

func (r *fakeTariffRepo) Create(_ context.Context, tariff *domain.Tariff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	tariff.ID = fmt.Sprintf("tar-%d", r.seq)
	tariff.CreatedAt = time.Now()
	tariff.UpdatedAt = tariff.CreatedAt
	clone := *tariff
	r.tariffs[tariff.ID] = &clone
	return nil
}

func (r *fakeTariffRepo) Update(_ context.Context, tariff *domain.Tariff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tariffs[tariff.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *tariff
	r.tariffs[tariff.ID] = &clone
	return nil
}

func (r *fakeTariffRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tariffs[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.tariffs, id)
	return nil
}

func (r *fakeTariffRepo) GetByID(_ context.Context, id string) (*domain.Tariff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tariff, ok := r.tariffs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *tariff
	return &clone, nil
}

func (r *fakeTariffRepo) List(_ context.Context, _, _ int) ([]domain.Tariff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Tariff
	for _, tariff := range r.tariffs {
		result = append(result, *tariff)
	}
	return result, nil
}

type fakeStatusRepo struct {
	statuses map[domain.StatusContext][]domain.Status
	err      error
}

func (r *fakeStatusRepo) ListByContext(_ context.Context, contextName domain.StatusContext) ([]domain.Status, error) {
	if r.err != nil {
		return nil, r.err
	}
	if statuses, ok := r.statuses[contextName]; ok {
		return statuses, nil
	}
	return []domain.Status{}, nil
}

var errBoom = errors.New("boom")

func actor() events.Actor {
	return events.Actor{SubjectID: "mgr-1", Role: domain.RoleManager}
}
