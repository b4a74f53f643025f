package model

import "gorm.io/gorm"

// 群内角色
// 角色只决定权限预设，实际权限以 group_member_permission 行为准
const (
	RoleAdmin            = "admin"             // 群管理员
	RoleSupervisorMember = "supervisor_member" // 监督成员，可发起订单但不能改账
	RoleMember           = "member"            // 普通成员
)

// GroupMember 群成员关联表
// (GroupUuid, UserUuid) 唯一，一个用户在一个群内只有一条成员记录
type GroupMember struct {
	gorm.Model
	Uuid      string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:成员记录唯一id"`
	GroupUuid string `gorm:"column:group_uuid;uniqueIndex:idx_group_user;type:char(20);not null;comment:群组ID"`
	UserUuid  string `gorm:"column:user_uuid;uniqueIndex:idx_group_user;type:char(20);not null;comment:用户ID"`
	Role      string `gorm:"column:role;type:varchar(20);default:member;not null;comment:角色，admin/supervisor_member/member"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
