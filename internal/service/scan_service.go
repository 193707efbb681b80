package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/dto"
	"github.com/SamBLC92/tamponi-inventario/internal/model"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"
	"github.com/SamBLC92/tamponi-inventario/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ModeToggle resolves to TAKE when the swab is in stock and RETURN otherwise,
// so a single scan action is context-sensitive. The other two modes force the
// action regardless of current state.
const ModeToggle = "TOGGLE"

// errMachineRequired aborts the transaction before any write; Scan converts
// it into a MachineRequiredError carrying the current machine list.
var errMachineRequired = errors.New("machine required")

// ScanService is the single entry point for state changes: it validates the
// request, resolves the transition, and applies movement + session/usage-day
// + state-projection writes as one atomic unit of work.
type ScanService interface {
	Scan(ctx context.Context, req dto.ScanRequest) (*dto.ScanResponse, error)
}

type scanService struct {
	swabRepo     repository.SwabRepository
	machineRepo  repository.MachineRepository
	stateRepo    repository.StateRepository
	movementRepo repository.MovementRepository
	usage        *UsageService
	settings     SettingsService
	dispatcher   *worker.Dispatcher
	alertEmail   string
	now          func() time.Time
}

func NewScanService(
	swabRepo repository.SwabRepository,
	machineRepo repository.MachineRepository,
	stateRepo repository.StateRepository,
	movementRepo repository.MovementRepository,
	usage *UsageService,
	settings SettingsService,
	dispatcher *worker.Dispatcher,
	alertEmail string,
) ScanService {
	return &scanService{
		swabRepo:     swabRepo,
		machineRepo:  machineRepo,
		stateRepo:    stateRepo,
		movementRepo: movementRepo,
		usage:        usage,
		settings:     settings,
		dispatcher:   dispatcher,
		alertEmail:   alertEmail,
		now:          time.Now,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Scan runs the per-swab state machine.
//
// Validation and not-found checks happen before any mutation. The mutation
// itself runs in one transaction that first locks the swab row, so two
// concurrent scans of the same swab serialize: the loser re-reads the
// post-transition state and proceeds as an ordinary follow-up scan, never
// leaving the ledger and the projection inconsistent.
func (s *scanService) Scan(ctx context.Context, req dto.ScanRequest) (*dto.ScanResponse, error) {
	sku := strings.TrimSpace(req.SKU)
	if sku == "" {
		return nil, ErrEmptySKU
	}
	mode := strings.ToUpper(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = ModeToggle
	}
	if mode != ModeToggle && mode != model.ActionTake && mode != model.ActionReturn {
		return nil, ErrInvalidMode
	}

	swab, err := s.swabRepo.FindBySKU(ctx, sku)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSwabNotFound
	}
	if err != nil {
		return nil, err
	}

	warnDays, alarmDays, err := s.settings.Thresholds(ctx)
	if err != nil {
		return nil, err
	}

	ts := s.now()
	var resp *dto.ScanResponse
	var wasAlarm bool

	txErr := runTx(ctx, s.swabRepo.DB(), func(tx *gorm.DB) error {
		// Row lock on the swab: the per-swab mutex for everything below.
		if _, err := s.swabRepo.FindByIDForUpdate(tx, swab.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSwabNotFound
			}
			return err
		}

		state, err := s.stateRepo.GetTx(tx, swab.ID)
		if err != nil {
			return err
		}

		action := mode
		if mode == ModeToggle {
			if state.InStock {
				action = model.ActionTake
			} else {
				action = model.ActionReturn
			}
		}

		var machine *model.Machine
		if action == model.ActionTake {
			if req.MachineID == nil || *req.MachineID == 0 {
				return errMachineRequired
			}
			m, err := s.machineRepo.FindByIDTx(tx, *req.MachineID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidMachine
			}
			if err != nil {
				return err
			}
			machine = m
		}

		// Pre-transition flags, to detect the entry into the alarm state.
		openBefore, err := s.usage.OpenTakenTsTx(tx, swab.ID)
		if err != nil {
			return err
		}
		totalBefore, err := s.usage.TotalUniqueDaysTx(tx, swab.ID)
		if err != nil {
			return err
		}
		_, wasAlarm = EvaluateThresholds(s.usage.CurrentDays(openBefore, ts), totalBefore, warnDays, alarmDays)

		var daysSession *int
		addedDays := 0

		if action == model.ActionTake {
			mv := &model.Movement{SwabID: swab.ID, Action: model.ActionTake, MachineID: &machine.ID, Ts: ts}
			if err := s.movementRepo.CreateTx(tx, mv); err != nil {
				return err
			}
			// A TAKE while already checked out re-points the machine but must
			// not open a second session.
			if err := s.usage.OpenSessionIfNoneTx(tx, swab.ID, ts); err != nil {
				return err
			}
			if err := s.stateRepo.UpsertTx(tx, swab.ID, false, &machine.ID); err != nil {
				return err
			}
		} else {
			mv := &model.Movement{SwabID: swab.ID, Action: model.ActionReturn, Ts: ts}
			if err := s.movementRepo.CreateTx(tx, mv); err != nil {
				return err
			}
			daysSession, addedDays, err = s.usage.CloseOpenSessionTx(tx, swab.ID, ts)
			if err != nil {
				return err
			}
			if err := s.stateRepo.UpsertTx(tx, swab.ID, true, nil); err != nil {
				return err
			}
		}

		// Post-transition snapshot, still inside the atomic unit.
		openTs, err := s.usage.OpenTakenTsTx(tx, swab.ID)
		if err != nil {
			return err
		}
		totalDays, err := s.usage.TotalUniqueDaysTx(tx, swab.ID)
		if err != nil {
			return err
		}
		currentDays := s.usage.CurrentDays(openTs, ts)
		warning, alarm := EvaluateThresholds(currentDays, totalDays, warnDays, alarmDays)

		var machineName *string
		if machine != nil {
			machineName = &machine.Name
		}

		resp = &dto.ScanResponse{
			OK:              true,
			SKU:             swab.SKU,
			Name:            swab.Name,
			Action:          action,
			InStock:         action == model.ActionReturn,
			MachineName:     machineName,
			Ts:              formatTs(ts),
			DaysSession:     daysSession,
			AddedUniqueDays: addedDays,
			CurrentDays:     currentDays,
			TotalDays:       totalDays,
			WarnDays:        warnDays,
			AlarmDays:       alarmDays,
			Warning:         warning,
			Alarm:           alarm,
		}
		return nil
	})

	if errors.Is(txErr, errMachineRequired) {
		machines, err := s.machineOptions(ctx)
		if err != nil {
			return nil, err
		}
		return nil, &MachineRequiredError{Machines: machines}
	}
	if txErr != nil {
		return nil, txErr
	}

	// Entering the alarm state notifies the configured recipient; best
	// effort, the scan result does not depend on it.
	if resp.Alarm && !wasAlarm && s.dispatcher != nil && s.alertEmail != "" {
		payload := worker.AlarmAlertPayload{
			To:          s.alertEmail,
			SKU:         resp.SKU,
			Name:        resp.Name,
			MachineName: resp.MachineName,
			CurrentDays: resp.CurrentDays,
			TotalDays:   resp.TotalDays,
			AlarmDays:   resp.AlarmDays,
		}
		if err := s.dispatcher.EnqueueAlarmAlert(ctx, payload); err != nil {
			log.Warn().Err(err).Str("sku", resp.SKU).Msg("scan: failed to enqueue alarm alert")
		}
	}

	return resp, nil
}

func (s *scanService) machineOptions(ctx context.Context) ([]dto.MachineOption, error) {
	machines, err := s.machineRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]dto.MachineOption, 0, len(machines))
	for _, m := range machines {
		options = append(options, dto.MachineOption{ID: m.ID, Name: m.Name})
	}
	return options, nil
}
