package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointRules_ForAttendanceStatus(t *testing.T) {
	rules := DefaultPointRules()

	assert.Equal(t, 1, rules.ForAttendanceStatus(AttendancePresent))
	assert.Equal(t, 0, rules.ForAttendanceStatus(AttendanceAbsent))
	assert.Equal(t, 0, rules.ForAttendanceStatus(AttendanceLate))
	assert.Equal(t, 0, rules.ForAttendanceStatus(AttendanceExcused))
	assert.Equal(t, 0, rules.ForAttendanceStatus(AttendanceNone))
	assert.Equal(t, 0, rules.ForAttendanceStatus("vanished"))
}

func TestPointRules_AttendancePointsByStatus(t *testing.T) {
	points := PointRules{Present: 2, Late: 1}.AttendancePointsByStatus()

	assert.Equal(t, 2, points["present"])
	assert.Equal(t, 1, points["late"])

	// "none" is deliberately not a key; a missing key scores zero.
	_, ok := points["none"]
	assert.False(t, ok)
}

func TestAttendanceStatus_Valid(t *testing.T) {
	assert.True(t, AttendancePresent.Valid())
	assert.True(t, AttendanceExcused.Valid())
	assert.False(t, AttendanceNone.Valid())
	assert.False(t, AttendanceStatus("vanished").Valid())
}

func TestBadgeStatus_Terminal(t *testing.T) {
	assert.False(t, BadgePending.Terminal())
	assert.True(t, BadgeApproved.Terminal())
	assert.True(t, BadgeRejected.Terminal())
}

func TestUser_CanReview(t *testing.T) {
	leader := User{ID: 9, OrganizationID: 1, Role: RoleLeader}
	admin := User{ID: 10, OrganizationID: 1, Role: RoleAdmin}
	member := User{ID: 11, OrganizationID: 1, Role: RoleMember}

	assert.True(t, leader.CanReview(1))
	assert.True(t, admin.CanReview(1))
	assert.False(t, member.CanReview(1))

	// Role alone is not enough; the organization must match.
	assert.False(t, admin.CanReview(2))
}
