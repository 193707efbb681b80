package service

// In-memory repository stubs. Services run their transactional closures with
// a nil *gorm.DB (runTx falls through), so the Tx variants ignore the handle.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/model"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"

	"gorm.io/gorm"
)

// ── SwabRepository ───────────────────────────────────────────────────────────

type stubSwabRepo struct {
	swabs    map[int64]*model.Swab
	overview []repository.SwabOverviewRow
	nextID   int64
}

func newStubSwabRepo() *stubSwabRepo {
	return &stubSwabRepo{swabs: make(map[int64]*model.Swab)}
}

func (r *stubSwabRepo) add(sku, name string) *model.Swab {
	r.nextID++
	s := &model.Swab{ID: r.nextID, SKU: sku, Name: name, CreatedAt: time.Now()}
	r.swabs[s.ID] = s
	return s
}

func (r *stubSwabRepo) Create(_ context.Context, s *model.Swab) error {
	r.nextID++
	s.ID = r.nextID
	r.swabs[s.ID] = s
	return nil
}

func (r *stubSwabRepo) FindByID(_ context.Context, id int64) (*model.Swab, error) {
	s, ok := r.swabs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSwabRepo) FindBySKU(_ context.Context, sku string) (*model.Swab, error) {
	for _, s := range r.swabs {
		if s.SKU == sku {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubSwabRepo) FindByIDForUpdate(_ *gorm.DB, id int64) (*model.Swab, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubSwabRepo) Update(_ context.Context, s *model.Swab) error {
	if _, ok := r.swabs[s.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.swabs[s.ID] = s
	return nil
}

func (r *stubSwabRepo) Delete(_ context.Context, id int64) error {
	delete(r.swabs, id)
	return nil
}

func (r *stubSwabRepo) ListOverview(_ context.Context, query string) ([]repository.SwabOverviewRow, error) {
	if query == "" {
		return r.overview, nil
	}
	var out []repository.SwabOverviewRow
	for _, row := range r.overview {
		if strings.Contains(strings.ToLower(row.Name), strings.ToLower(query)) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubSwabRepo) DB() *gorm.DB { return nil }

// ── MachineRepository ────────────────────────────────────────────────────────

type stubMachineRepo struct {
	machines map[int64]*model.Machine
	inUse    map[int64]bool
	nextID   int64
}

func newStubMachineRepo() *stubMachineRepo {
	return &stubMachineRepo{
		machines: make(map[int64]*model.Machine),
		inUse:    make(map[int64]bool),
	}
}

func (r *stubMachineRepo) add(name string) *model.Machine {
	r.nextID++
	m := &model.Machine{ID: r.nextID, Name: name}
	r.machines[m.ID] = m
	return m
}

func (r *stubMachineRepo) Create(_ context.Context, m *model.Machine) error {
	r.nextID++
	m.ID = r.nextID
	r.machines[m.ID] = m
	return nil
}

func (r *stubMachineRepo) FindByID(_ context.Context, id int64) (*model.Machine, error) {
	m, ok := r.machines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMachineRepo) List(_ context.Context) ([]model.Machine, error) {
	out := make([]model.Machine, 0, len(r.machines))
	for id := int64(1); id <= r.nextID; id++ {
		if m, ok := r.machines[id]; ok {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *stubMachineRepo) Delete(_ context.Context, id int64) error {
	delete(r.machines, id)
	return nil
}

func (r *stubMachineRepo) InUse(_ context.Context, id int64) (bool, error) {
	return r.inUse[id], nil
}

func (r *stubMachineRepo) ExistsTx(_ *gorm.DB, id int64) (bool, error) {
	_, ok := r.machines[id]
	return ok, nil
}

func (r *stubMachineRepo) FindByIDTx(_ *gorm.DB, id int64) (*model.Machine, error) {
	return r.FindByID(context.Background(), id)
}

// ── StateRepository ──────────────────────────────────────────────────────────

type stubStateRepo struct {
	states map[int64]*model.SwabState
}

func newStubStateRepo() *stubStateRepo {
	return &stubStateRepo{states: make(map[int64]*model.SwabState)}
}

func (r *stubStateRepo) Get(_ context.Context, swabID int64) (*model.SwabState, error) {
	return r.GetTx(nil, swabID)
}

func (r *stubStateRepo) GetTx(_ *gorm.DB, swabID int64) (*model.SwabState, error) {
	if st, ok := r.states[swabID]; ok {
		return st, nil
	}
	return &model.SwabState{SwabID: swabID, InStock: true}, nil
}

func (r *stubStateRepo) UpsertTx(_ *gorm.DB, swabID int64, inStock bool, machineID *int64) error {
	if inStock {
		machineID = nil
	}
	r.states[swabID] = &model.SwabState{
		SwabID:    swabID,
		InStock:   inStock,
		MachineID: machineID,
		UpdatedAt: time.Now(),
	}
	return nil
}

// ── MovementRepository ───────────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []*model.Movement
	history   []repository.MovementHistoryRow
	lastLimit int
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.Movement) error {
	m.ID = int64(len(r.movements) + 1)
	r.movements = append(r.movements, m)
	return nil
}

func (r *stubMovementRepo) LastActionTs(_ context.Context, swabID int64, action string) (*time.Time, error) {
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].SwabID == swabID && r.movements[i].Action == action {
			return &r.movements[i].Ts, nil
		}
	}
	return nil, nil
}

func (r *stubMovementRepo) ListHistory(_ context.Context, limit int) ([]repository.MovementHistoryRow, error) {
	r.lastLimit = limit
	if limit > len(r.history) {
		limit = len(r.history)
	}
	return r.history[:limit], nil
}

// ── UsageRepository ──────────────────────────────────────────────────────────

type stubUsageRepo struct {
	sessions []*model.UsageSession
	days     map[string]struct{}
	nextID   int64
}

func newStubUsageRepo() *stubUsageRepo {
	return &stubUsageRepo{days: make(map[string]struct{})}
}

func (r *stubUsageRepo) openFor(swabID int64) *model.UsageSession {
	var latest *model.UsageSession
	for _, s := range r.sessions {
		if s.SwabID == swabID && s.ReturnedTs == nil {
			if latest == nil || s.TakenTs.After(latest.TakenTs) {
				latest = s
			}
		}
	}
	return latest
}

func (r *stubUsageRepo) OpenSession(_ context.Context, swabID int64) (*model.UsageSession, error) {
	return r.openFor(swabID), nil
}

func (r *stubUsageRepo) OpenSessionTx(_ *gorm.DB, swabID int64) (*model.UsageSession, error) {
	return r.openFor(swabID), nil
}

func (r *stubUsageRepo) CreateSessionTx(_ *gorm.DB, s *model.UsageSession) error {
	r.nextID++
	s.ID = r.nextID
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *stubUsageRepo) CloseSessionTx(_ *gorm.DB, sessionID int64, returnedTs time.Time) error {
	for _, s := range r.sessions {
		if s.ID == sessionID {
			ts := returnedTs
			s.ReturnedTs = &ts
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubUsageRepo) InsertDaysTx(_ *gorm.DB, swabID int64, days []string) (int, error) {
	added := 0
	for _, d := range days {
		key := fmt.Sprintf("%d|%s", swabID, d)
		if _, ok := r.days[key]; !ok {
			r.days[key] = struct{}{}
			added++
		}
	}
	return added, nil
}

func (r *stubUsageRepo) CountDays(_ context.Context, swabID int64) (int, error) {
	return r.CountDaysTx(nil, swabID)
}

func (r *stubUsageRepo) CountDaysTx(_ *gorm.DB, swabID int64) (int, error) {
	prefix := fmt.Sprintf("%d|", swabID)
	count := 0
	for key := range r.days {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	return count, nil
}

// ── SettingsRepository ───────────────────────────────────────────────────────

type stubSettingsRepo struct {
	values map[string]string
}

func newStubSettingsRepo() *stubSettingsRepo {
	return &stubSettingsRepo{values: make(map[string]string)}
}

func (r *stubSettingsRepo) Get(_ context.Context, key string) (string, error) {
	return r.values[key], nil
}

func (r *stubSettingsRepo) GetAll(_ context.Context) (map[string]string, error) {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out, nil
}

func (r *stubSettingsRepo) Upsert(_ context.Context, key, value string) error {
	r.values[key] = value
	return nil
}

func (r *stubSettingsRepo) UpsertTx(_ *gorm.DB, key, value string) error {
	r.values[key] = value
	return nil
}

func (r *stubSettingsRepo) EnsureDefault(_ context.Context, key, value string) error {
	if _, ok := r.values[key]; !ok {
		r.values[key] = value
	}
	return nil
}

func (r *stubSettingsRepo) DB() *gorm.DB { return nil }
