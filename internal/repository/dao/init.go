package dao

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Organization{},
		&OrganizationDomain{},
		&PointSystemRules{},
		&User{},
		&Group{},
		&Participant{},
		&GroupMembership{},
		&PointEvent{},
		&AttendanceRecord{},
		&Honor{},
		&BadgeProgress{},
	)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
