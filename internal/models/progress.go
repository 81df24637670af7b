package models

import "time"

// ModuleProgress marks one game module as completed by a child. The set of
// rows per child replaces the old client-side completed-modules list.
type ModuleProgress struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint
	ChildID     uint
	ModuleID    string
	CompletedAt time.Time
}

// PointsEntry is one points award. The cumulative total is a sum over the
// ledger rather than a mutable counter.
type PointsEntry struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	ChildID   uint
	GameID    string
	Points    int
	CreatedAt time.Time
}

// BadgeAward records an earned badge; a badge is awarded at most once.
type BadgeAward struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	ChildID   uint
	BadgeKey  string
	AwardedAt time.Time
}
