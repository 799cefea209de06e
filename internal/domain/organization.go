package domain

import "time"

type Organization struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TenantSource records how a request's organization was determined, so a
// degraded resolution (default fallback) is observable instead of silent.
type TenantSource string

const (
	TenantSourceHeader  TenantSource = "header"
	TenantSourceDomain  TenantSource = "domain"
	TenantSourceDefault TenantSource = "default"
)

type TenantResolution struct {
	OrganizationID uint         `json:"organization_id"`
	Source         TenantSource `json:"source"`
}
