package model

import "gorm.io/gorm"

// 权限资源类型
const (
	ResourceMembers     = "members"     // 成员管理
	ResourceOrders      = "orders"      // 订单
	ResourceBalances    = "balances"    // 余额
	ResourceAnalytics   = "analytics"   // 统计
	ResourceRestaurants = "restaurants" // 餐厅
)

// 权限级别
// orders 资源使用 editor/initiator/participant 三级，其余资源使用 editor/viewer
const (
	ScopeEditor      = "editor"      // 可读写
	ScopeViewer      = "viewer"      // 只读
	ScopeInitiator   = "initiator"   // 可发起订单（仅 orders）
	ScopeParticipant = "participant" // 可参与点餐（仅 orders）
)

// GroupMemberPermission 成员权限表（规范化形式）
// 每个成员每种资源最多一行，缺行即无权限
// 角色预设在写入成员时落成权限行，之后可被单项覆盖
type GroupMemberPermission struct {
	gorm.Model
	MemberUuid   string `gorm:"column:member_uuid;uniqueIndex:idx_member_resource;type:char(20);not null;comment:群成员记录ID"`
	ResourceType string `gorm:"column:resource_type;uniqueIndex:idx_member_resource;type:varchar(20);not null;comment:资源类型"`
	Level        string `gorm:"column:level;type:varchar(20);not null;comment:权限级别"`
}

func (GroupMemberPermission) TableName() string {
	return "group_member_permission"
}
