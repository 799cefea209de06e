package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository/dao"
)

type AttendanceDAO interface {
	SetStatus(ctx context.Context, record dao.AttendanceRecord, statusPoints map[string]int, groupID *uint) (dao.AttendanceStatusChange, error)
	SetStatusBatch(ctx context.Context, records []dao.AttendanceRecord, statusPoints map[string]int, groupIDs map[uint]uint) ([]dao.AttendanceStatusChange, error)
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) SetStatus(ctx context.Context, organizationID, participantID uint, date time.Time, status domain.AttendanceStatus, recordedBy uint, statusPoints map[string]int, groupID *uint) (domain.AttendanceChange, error) {
	change, err := r.dao.SetStatus(ctx, dao.AttendanceRecord{
		OrganizationID: organizationID,
		ParticipantID:  participantID,
		Date:           date,
		Status:         string(status),
		RecordedBy:     recordedBy,
	}, statusPoints, groupID)
	if err != nil {
		return domain.AttendanceChange{}, fmt.Errorf("r.dao.SetStatus -> %w", err)
	}

	return r.changeDaoToDomain(change, status), nil
}

func (r *AttendanceRepository) SetStatusBatch(ctx context.Context, organizationID uint, participantIDs []uint, date time.Time, status domain.AttendanceStatus, recordedBy uint, statusPoints map[string]int, groupIDs map[uint]uint) ([]domain.AttendanceChange, error) {
	records := make([]dao.AttendanceRecord, len(participantIDs))
	for i, participantID := range participantIDs {
		records[i] = dao.AttendanceRecord{
			OrganizationID: organizationID,
			ParticipantID:  participantID,
			Date:           date,
			Status:         string(status),
			RecordedBy:     recordedBy,
		}
	}

	daoChanges, err := r.dao.SetStatusBatch(ctx, records, statusPoints, groupIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.SetStatusBatch -> %w", err)
	}

	changes := make([]domain.AttendanceChange, len(daoChanges))
	for i, change := range daoChanges {
		changes[i] = r.changeDaoToDomain(change, status)
	}

	return changes, nil
}

func (r *AttendanceRepository) changeDaoToDomain(change dao.AttendanceStatusChange, newStatus domain.AttendanceStatus) domain.AttendanceChange {
	return domain.AttendanceChange{
		ParticipantID:  change.ParticipantID,
		PreviousStatus: domain.AttendanceStatus(change.PreviousStatus),
		NewStatus:      newStatus,
		PointDelta:     change.Delta,
	}
}
