package service

import (
	"context"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/model"
	"github.com/SamBLC92/tamponi-inventario/internal/repository"

	"gorm.io/gorm"
)

const dayKeyFormat = "2006-01-02"

// CalendarDaysBetween counts calendar days from start to end, inclusive:
// the same calendar day counts as 1. Clock times within the day are ignored.
func CalendarDaysBetween(start, end time.Time) int {
	a := truncateToDay(start)
	b := truncateToDay(end)
	return int(b.Sub(a).Hours()/24) + 1
}

// truncateToDay drops the clock time. The date is taken in the timestamp's
// own location, then pinned to UTC so day arithmetic is DST-proof.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKeysInRange returns the YYYY-MM-DD keys for every calendar day in
// [start, end] inclusive. Empty when end precedes start.
func DayKeysInRange(start, end time.Time) []string {
	a := truncateToDay(start)
	b := truncateToDay(end)
	var keys []string
	for cur := a; !cur.After(b); cur = cur.AddDate(0, 0, 1) {
		keys = append(keys, cur.Format(dayKeyFormat))
	}
	return keys
}

// UsageService is the usage accountant: it derives open/closed sessions and
// unique-usage-day counts from the ledger tables.
type UsageService struct {
	repo repository.UsageRepository
}

func NewUsageService(repo repository.UsageRepository) *UsageService {
	return &UsageService{repo: repo}
}

// OpenTakenTs returns the taken_ts of the currently open session, or nil.
func (s *UsageService) OpenTakenTs(ctx context.Context, swabID int64) (*time.Time, error) {
	sess, err := s.repo.OpenSession(ctx, swabID)
	if err != nil || sess == nil {
		return nil, err
	}
	return &sess.TakenTs, nil
}

// OpenTakenTsTx is OpenTakenTs against a live transaction.
func (s *UsageService) OpenTakenTsTx(tx *gorm.DB, swabID int64) (*time.Time, error) {
	sess, err := s.repo.OpenSessionTx(tx, swabID)
	if err != nil || sess == nil {
		return nil, err
	}
	return &sess.TakenTs, nil
}

// CurrentDays is the inclusive calendar-day count of the open session as of
// now, or 0 when no session is open.
func (s *UsageService) CurrentDays(openTakenTs *time.Time, now time.Time) int {
	if openTakenTs == nil {
		return 0
	}
	return CalendarDaysBetween(*openTakenTs, now)
}

// TotalUniqueDays is the distinct usage-day count across the swab's lifetime.
// It never decreases.
func (s *UsageService) TotalUniqueDays(ctx context.Context, swabID int64) (int, error) {
	return s.repo.CountDays(ctx, swabID)
}

// TotalUniqueDaysTx is TotalUniqueDays against a live transaction.
func (s *UsageService) TotalUniqueDaysTx(tx *gorm.DB, swabID int64) (int, error) {
	return s.repo.CountDaysTx(tx, swabID)
}

// OpenSessionIfNoneTx opens a usage session unless one is already open,
// making duplicate rapid TAKE events idempotent at the session level.
func (s *UsageService) OpenSessionIfNoneTx(tx *gorm.DB, swabID int64, takenTs time.Time) error {
	open, err := s.repo.OpenSessionTx(tx, swabID)
	if err != nil {
		return err
	}
	if open != nil {
		return nil
	}
	return s.repo.CreateSessionTx(tx, &model.UsageSession{SwabID: swabID, TakenTs: takenTs})
}

// CloseOpenSessionTx closes the most recent open session at returnedTs and
// back-fills one UsageDay per calendar day in the session's inclusive range,
// skipping days already recorded by overlapping prior sessions.
//
// When no session is open (operator error, double return) nothing is closed:
// daysSession is nil and addedDays is 0.
func (s *UsageService) CloseOpenSessionTx(tx *gorm.DB, swabID int64, returnedTs time.Time) (daysSession *int, addedDays int, err error) {
	sess, err := s.repo.OpenSessionTx(tx, swabID)
	if err != nil {
		return nil, 0, err
	}
	if sess == nil {
		return nil, 0, nil
	}

	days := CalendarDaysBetween(sess.TakenTs, returnedTs)
	if err := s.repo.CloseSessionTx(tx, sess.ID, returnedTs); err != nil {
		return nil, 0, err
	}
	added, err := s.repo.InsertDaysTx(tx, swabID, DayKeysInRange(sess.TakenTs, returnedTs))
	if err != nil {
		return nil, 0, err
	}
	return &days, added, nil
}
