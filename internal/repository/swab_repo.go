package repository

import (
	"context"
	"time"

	"github.com/SamBLC92/tamponi-inventario/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SwabOverviewRow is the joined listing row: swab + projected state + the
// derived usage columns computed in SQL. Threshold flags are evaluated by the
// service on top of it.
type SwabOverviewRow struct {
	ID           int64
	SKU          string `gorm:"column:sku"`
	Name         string
	InStock      bool
	UpdatedAt    time.Time
	MachineID    *int64
	MachineName  *string
	OpenTakenTs  *time.Time
	TotalDays    int
	LastTakeTs   *time.Time
	LastReturnTs *time.Time
}

// SwabRepository defines the data access contract for the swab catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type SwabRepository interface {
	Create(ctx context.Context, s *model.Swab) error
	FindByID(ctx context.Context, id int64) (*model.Swab, error)
	FindBySKU(ctx context.Context, sku string) (*model.Swab, error)
	// FindByIDForUpdate takes a row lock on the swab inside tx. Every scan
	// transaction acquires it first, which serializes concurrent scans of the
	// same swab while leaving other swabs fully parallel.
	FindByIDForUpdate(tx *gorm.DB, id int64) (*model.Swab, error)
	Update(ctx context.Context, s *model.Swab) error
	Delete(ctx context.Context, id int64) error
	ListOverview(ctx context.Context, query string) ([]SwabOverviewRow, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type swabRepo struct{ db *gorm.DB }

func NewSwabRepository(db *gorm.DB) SwabRepository { return &swabRepo{db: db} }

func (r *swabRepo) Create(ctx context.Context, s *model.Swab) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *swabRepo) FindByID(ctx context.Context, id int64) (*model.Swab, error) {
	var s model.Swab
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *swabRepo) FindBySKU(ctx context.Context, sku string) (*model.Swab, error) {
	var s model.Swab
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&s).Error
	return &s, err
}

func (r *swabRepo) FindByIDForUpdate(tx *gorm.DB, id int64) (*model.Swab, error) {
	var s model.Swab
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&s, id).Error
	return &s, err
}

func (r *swabRepo) Update(ctx context.Context, s *model.Swab) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *swabRepo) Delete(ctx context.Context, id int64) error {
	// State, movements, sessions and usage days go with it (FK cascade).
	return r.db.WithContext(ctx).Delete(&model.Swab{}, id).Error
}

const overviewSQL = `
SELECT s.id, s.sku, s.name,
       COALESCE(st.in_stock, TRUE)          AS in_stock,
       COALESCE(st.updated_at, s.created_at) AS updated_at,
       st.machine_id                        AS machine_id,
       mc.name                              AS machine_name,
       (SELECT us.taken_ts FROM usage_sessions us
         WHERE us.swab_id = s.id AND us.returned_ts IS NULL
         ORDER BY us.taken_ts DESC LIMIT 1) AS open_taken_ts,
       (SELECT COUNT(*) FROM usage_days ud
         WHERE ud.swab_id = s.id)           AS total_days,
       (SELECT mv.ts FROM movements mv
         WHERE mv.swab_id = s.id AND mv.action = 'TAKE'
         ORDER BY mv.ts DESC LIMIT 1)       AS last_take_ts,
       (SELECT mv.ts FROM movements mv
         WHERE mv.swab_id = s.id AND mv.action = 'RETURN'
         ORDER BY mv.ts DESC LIMIT 1)       AS last_return_ts
FROM swabs s
LEFT JOIN swab_states st ON st.swab_id = s.id
LEFT JOIN machines mc ON mc.id = st.machine_id
`

func (r *swabRepo) ListOverview(ctx context.Context, query string) ([]SwabOverviewRow, error) {
	var rows []SwabOverviewRow
	q := r.db.WithContext(ctx)
	sql := overviewSQL
	if query != "" {
		like := "%" + query + "%"
		sql += "WHERE s.name ILIKE ? OR mc.name ILIKE ?\n"
		sql += "ORDER BY lower(s.name)"
		err := q.Raw(sql, like, like).Scan(&rows).Error
		return rows, err
	}
	sql += "ORDER BY lower(s.name)"
	err := q.Raw(sql).Scan(&rows).Error
	return rows, err
}

func (r *swabRepo) DB() *gorm.DB { return r.db }
