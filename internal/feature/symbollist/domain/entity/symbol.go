// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is an entry of the local symbol master.
// It is used to list tradable securities and to resolve company names offline.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:20;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null"`
	Market    string    `gorm:"size:100;not null"`
	Kind      string    `gorm:"size:20;not null;default:Equity"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
