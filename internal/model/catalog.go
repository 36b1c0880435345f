package model

import (
	"github.com/google/uuid"
)

// Domain is a top-level industry category used to group companies
// (e.g. Technology, Healthcare). World-readable catalog row.
type Domain struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Desc      string    `gorm:"type:text" json:"desc"`
	Companies []Company `gorm:"foreignKey:DomainID" json:"companies,omitempty"`
}

// EditableCompanyInfo is the part of a company profile the owner may edit
type EditableCompanyInfo struct {
	Name     string  `json:"name"`
	Overview string  `gorm:"type:text" json:"overview"`
	Location string  `json:"location"`
	Size     *string `json:"size"`
	LogoID   *int    `json:"logo_id"`
}

// Company is the employer-side profile. Its primary key is the owning
// employer's user id, so job ownership resolves through a single lookup.
type Company struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`
	EditableCompanyInfo
	DomainID *uint  `gorm:"index" json:"domain_id"`
	Domain   Domain `gorm:"foreignKey:DomainID;references:ID" json:"-"`
	Logo     File   `gorm:"foreignKey:LogoID;references:ID" json:"-"`
	Jobs     []Job  `gorm:"foreignKey:EmployerID" json:"jobs,omitempty"`
}
