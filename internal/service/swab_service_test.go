package service

import (
	"context"
	"testing"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swabFixture struct {
	svc    *swabService
	swabs  *stubSwabRepo
	states *stubStateRepo
}

func newSwabFixture(t *testing.T) *swabFixture {
	t.Helper()
	f := &swabFixture{
		swabs:  newStubSwabRepo(),
		states: newStubStateRepo(),
	}
	svc := NewSwabService(f.swabs, f.states, NewSettingsService(newStubSettingsRepo()), nil, nil)
	f.svc = svc.(*swabService)
	return f
}

func TestSwabCreate(t *testing.T) {
	f := newSwabFixture(t)

	resp, err := f.svc.Create(context.Background(), dto.CreateSwabRequest{SKU: " SWB-01 ", Name: "Probe swab 10mm"})
	require.NoError(t, err)
	assert.Equal(t, "SWB-01", resp.SKU)
	assert.NotZero(t, resp.ID)

	// A new swab starts in stock.
	state, err := f.states.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, state.InStock)
	assert.Nil(t, state.MachineID)

	_, err = f.svc.Create(context.Background(), dto.CreateSwabRequest{SKU: "SWB-01", Name: "Duplicate"})
	assert.ErrorIs(t, err, ErrSKUTaken)
}

func TestSwabCreateValidation(t *testing.T) {
	f := newSwabFixture(t)

	_, err := f.svc.Create(context.Background(), dto.CreateSwabRequest{SKU: "  ", Name: "x"})
	assert.ErrorIs(t, err, ErrEmptySKU)

	_, err = f.svc.Create(context.Background(), dto.CreateSwabRequest{SKU: "SWB-01", Name: " "})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestSwabUpdate(t *testing.T) {
	f := newSwabFixture(t)
	a := f.swabs.add("SWB-01", "Probe swab 10mm")
	f.swabs.add("SWB-02", "Probe swab 25mm")

	resp, err := f.svc.Update(context.Background(), a.ID, dto.UpdateSwabRequest{SKU: "SWB-01B", Name: "Probe swab 10mm v2"})
	require.NoError(t, err)
	assert.Equal(t, "SWB-01B", resp.SKU)
	assert.Equal(t, "Probe swab 10mm v2", resp.Name)

	_, err = f.svc.Update(context.Background(), a.ID, dto.UpdateSwabRequest{SKU: "SWB-02", Name: "Collision"})
	assert.ErrorIs(t, err, ErrSKUTaken)

	_, err = f.svc.Update(context.Background(), 999, dto.UpdateSwabRequest{SKU: "SWB-09", Name: "Missing"})
	assert.ErrorIs(t, err, ErrSwabNotFound)
}

func TestSwabDeleteRequiresInStock(t *testing.T) {
	f := newSwabFixture(t)
	sw := f.swabs.add("SWB-01", "Probe swab 10mm")

	machineID := int64(7)
	require.NoError(t, f.states.UpsertTx(nil, sw.ID, false, &machineID))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), sw.ID), ErrSwabCheckedOut)

	require.NoError(t, f.states.UpsertTx(nil, sw.ID, true, nil))
	require.NoError(t, f.svc.Delete(context.Background(), sw.ID))
	_, err := f.swabs.FindByID(context.Background(), sw.ID)
	assert.Error(t, err)

	assert.ErrorIs(t, f.svc.Delete(context.Background(), 999), ErrSwabNotFound)
}

func TestSwabListDerivesCountersAndFlags(t *testing.T) {
	f := newSwabFixture(t)
	now := mustTime(t, "2024-01-10T12:00:00Z")
	f.svc.now = func() time.Time { return now }

	openSince := mustTime(t, "2024-01-08T09:00:00Z")
	machine := "Mill 1"
	f.swabs.overview = []repository.SwabOverviewRow{
		{
			ID: 1, SKU: "SWB-01", Name: "Checked out", InStock: false,
			UpdatedAt: openSince, MachineName: &machine,
			OpenTakenTs: &openSince, TotalDays: 190,
		},
		{
			ID: 2, SKU: "SWB-02", Name: "Resting", InStock: true,
			UpdatedAt: now, TotalDays: 3,
		},
	}

	resp, err := f.svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 180, resp.WarnDays)
	assert.Equal(t, 200, resp.AlarmDays)
	require.Len(t, resp.Data, 2)

	out := resp.Data[0]
	assert.Equal(t, 3, out.CurrentDays)
	assert.Equal(t, 190, out.TotalDays)
	assert.True(t, out.Warning)
	assert.False(t, out.Alarm)
	require.NotNil(t, out.OpenTakenTs)
	assert.Equal(t, "2024-01-08T09:00:00Z", *out.OpenTakenTs)

	resting := resp.Data[1]
	assert.Zero(t, resting.CurrentDays)
	assert.False(t, resting.Warning)
	assert.Nil(t, resting.OpenTakenTs)
}
