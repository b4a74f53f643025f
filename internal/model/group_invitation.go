package model

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

// 邀请状态
// accepted/declined/expired 为终态，终态不可回退
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
	InvitationExpired  = "expired"
)

// GroupInvitation 群组邀请
// 通过邮箱邀请，Token 为一次性 url-safe 随机令牌
type GroupInvitation struct {
	gorm.Model
	Uuid         string         `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:邀请唯一id"`
	GroupUuid    string         `gorm:"column:group_uuid;index;type:char(20);not null;comment:群组ID"`
	InviterUuid  string         `gorm:"column:inviter_uuid;type:char(20);not null;comment:邀请人uuid"`
	InviteeEmail string         `gorm:"column:invitee_email;index;type:varchar(100);not null;comment:被邀请人邮箱"`
	InviteeUuid  sql.NullString `gorm:"column:invitee_uuid;type:char(20);comment:被邀请人uuid，邀请时可能尚未注册"`
	Token        string         `gorm:"column:token;uniqueIndex;type:varchar(64);not null;comment:邀请令牌"`
	Status       string         `gorm:"column:status;type:varchar(20);default:pending;not null;comment:状态"`
	ExpiresAt    time.Time      `gorm:"column:expires_at;not null;comment:过期时间"`
}

func (GroupInvitation) TableName() string {
	return "group_invitation"
}

// IsTerminal 邀请是否已处于终态
func (i *GroupInvitation) IsTerminal() bool {
	return i.Status != InvitationPending
}
