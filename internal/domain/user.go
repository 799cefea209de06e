package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleLeader = "leader"
	RoleMember = "member"
)

type User struct {
	ID             uint      `json:"id"`
	OrganizationID uint      `json:"organization_id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CanReview reports whether the user may approve or reject badge
// submissions belonging to the given organization. The organization is
// always the submission's own, never one declared by the request.
func (u User) CanReview(organizationID uint) bool {
	if u.OrganizationID != organizationID {
		return false
	}
	return u.Role == RoleAdmin || u.Role == RoleLeader
}
