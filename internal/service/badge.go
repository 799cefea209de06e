package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/troopledger/troop-api/internal/domain"
	"github.com/troopledger/troop-api/internal/repository"
)

var (
	ErrBadgeNotFound         = repository.ErrBadgeNotFound
	ErrNotAuthorizedReviewer = errors.New("user is not an authorized reviewer for this organization")
)

type BadgeRepository interface {
	Create(ctx context.Context, badge domain.BadgeProgress) (domain.BadgeProgress, error)
	FindByID(ctx context.Context, id uint) (domain.BadgeProgress, error)
	FindPending(ctx context.Context, organizationID uint) ([]domain.BadgeProgress, error)
	Approve(ctx context.Context, id, approverID uint, approvalDate time.Time, points int, groupID *uint) (domain.BadgeProgress, bool, error)
	Reject(ctx context.Context, id, reviewerID uint, rejectionDate time.Time) (domain.BadgeProgress, bool, error)
}

// BadgeService runs the pending -> approved|rejected workflow. Both
// target states are terminal: a second approve or reject is a no-op
// result, never a second point event or a changed reviewer stamp.
type BadgeService struct {
	repo         BadgeRepository
	participants AttendanceParticipantRepository
	rules        AttendanceRulesProvider
}

func NewBadgeService(repo BadgeRepository, participants AttendanceParticipantRepository, rules AttendanceRulesProvider) *BadgeService {
	return &BadgeService{
		repo:         repo,
		participants: participants,
		rules:        rules,
	}
}

// Submit creates the submission in pending. No point event is written
// until a reviewer approves it.
func (s *BadgeService) Submit(ctx context.Context, organizationID, participantID uint, territory, objective string, levelUp bool) (domain.BadgeProgress, error) {
	if _, err := s.participants.FindByID(ctx, participantID, organizationID); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.BadgeProgress{}, ErrParticipantNotFound
		}

		return domain.BadgeProgress{}, fmt.Errorf("s.participants.FindByID -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.BadgeProgress{
		OrganizationID: organizationID,
		ParticipantID:  participantID,
		Territory:      territory,
		Objective:      objective,
		LevelUp:        levelUp,
	})
	if err != nil {
		return domain.BadgeProgress{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Approve transitions a pending submission and appends its point event.
// Authorization is checked against the submission's own organization,
// never one declared by the request, so a reviewer from another tenant
// can never approve it.
func (s *BadgeService) Approve(ctx context.Context, badgeID uint, actor domain.User) (domain.BadgeTransition, error) {
	badge, err := s.repo.FindByID(ctx, badgeID)
	if err != nil {
		if errors.Is(err, repository.ErrBadgeNotFound) {
			return domain.BadgeTransition{}, ErrBadgeNotFound
		}

		return domain.BadgeTransition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanReview(badge.OrganizationID) {
		return domain.BadgeTransition{}, ErrNotAuthorizedReviewer
	}

	rules := s.rules.GetRules(ctx, badge.OrganizationID)
	points := rules.BadgeEarn
	if badge.LevelUp {
		points = rules.BadgeLevelUp
	}

	groupID, err := s.participants.CurrentGroupID(ctx, badge.ParticipantID, badge.OrganizationID)
	if err != nil {
		return domain.BadgeTransition{}, fmt.Errorf("s.participants.CurrentGroupID -> %w", err)
	}

	updated, transitioned, err := s.repo.Approve(ctx, badgeID, actor.ID, time.Now(), points, groupID)
	if err != nil {
		return domain.BadgeTransition{}, fmt.Errorf("s.repo.Approve -> %w", err)
	}

	transition := domain.BadgeTransition{
		Badge:        updated,
		Transitioned: transitioned,
	}
	if transitioned {
		transition.Points = points
	}

	return transition, nil
}

// Reject transitions a pending submission to rejected. No point event.
func (s *BadgeService) Reject(ctx context.Context, badgeID uint, actor domain.User) (domain.BadgeTransition, error) {
	badge, err := s.repo.FindByID(ctx, badgeID)
	if err != nil {
		if errors.Is(err, repository.ErrBadgeNotFound) {
			return domain.BadgeTransition{}, ErrBadgeNotFound
		}

		return domain.BadgeTransition{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanReview(badge.OrganizationID) {
		return domain.BadgeTransition{}, ErrNotAuthorizedReviewer
	}

	updated, transitioned, err := s.repo.Reject(ctx, badgeID, actor.ID, time.Now())
	if err != nil {
		return domain.BadgeTransition{}, fmt.Errorf("s.repo.Reject -> %w", err)
	}

	return domain.BadgeTransition{
		Badge:        updated,
		Transitioned: transitioned,
	}, nil
}

// Pending lists the organization's submissions awaiting review.
func (s *BadgeService) Pending(ctx context.Context, organizationID uint, actor domain.User) ([]domain.BadgeProgress, error) {
	if !actor.CanReview(organizationID) {
		return nil, ErrNotAuthorizedReviewer
	}

	badges, err := s.repo.FindPending(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPending -> %w", err)
	}

	return badges, nil
}
