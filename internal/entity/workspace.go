package entity

import "github.com/questx-lab/challenge/pkg/enum"

type WorkspaceRole string

var (
	RoleAdmin       = enum.New(WorkspaceRole("ADMIN"))
	RoleManager     = enum.New(WorkspaceRole("MANAGER"))
	RoleParticipant = enum.New(WorkspaceRole("PARTICIPANT"))
)

type Workspace struct {
	Base

	Name string
	Slug string `gorm:"uniqueIndex"`
}

type WorkspaceMember struct {
	WorkspaceID string    `gorm:"primaryKey"`
	Workspace   Workspace `gorm:"foreignKey:WorkspaceID"`
	UserID      string    `gorm:"primaryKey"`
	User        User      `gorm:"foreignKey:UserID"`

	Role   WorkspaceRole
	Points int64
}
