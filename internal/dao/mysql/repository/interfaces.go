// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 根据 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByEmail 根据邮箱查找用户
	FindByEmail(email string) (*model.UserInfo, error)
	// FindByUuids 批量根据 UUID 查找用户
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	// Create 创建新用户
	Create(user *model.UserInfo) error
	// Update 更新用户信息
	Update(user *model.UserInfo) error
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	// FindByUuid 根据 UUID 查找群组
	FindByUuid(uuid string) (*model.GroupInfo, error)
	// FindByUuidForUpdate 根据 UUID 查找群组并加行锁（SELECT ... FOR UPDATE）
	// 用于序列化"单活跃订单"检查，必须在事务内调用
	FindByUuidForUpdate(uuid string) (*model.GroupInfo, error)
	// FindByOwnerId 根据群主 ID 查找群组
	FindByOwnerId(ownerId string) ([]model.GroupInfo, error)
	// CountByOwnerId 统计用户拥有的群组数（配额检查）
	CountByOwnerId(ownerId string) (int64, error)
	// Create 创建新群组
	Create(group *model.GroupInfo) error
	// Update 更新群组信息
	Update(group *model.GroupInfo) error
	// IncrementMemberCount 增加群成员数量（+1）
	IncrementMemberCount(uuid string) error
	// DecrementMemberCountBy 减少群成员数量（指定数量）
	DecrementMemberCountBy(uuid string, count int) error
	// SoftDeleteByUuid 软删除群组（解散）
	SoftDeleteByUuid(uuid string) error
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	// FindByGroupUuid 根据群组查找所有成员
	FindByGroupUuid(groupUuid string) ([]model.GroupMember, error)
	// FindByGroupAndUser 根据群组和用户查找成员关系
	FindByGroupAndUser(groupUuid, userUuid string) (*model.GroupMember, error)
	// FindByUserUuid 根据用户查找其所有成员记录
	FindByUserUuid(userUuid string) ([]model.GroupMember, error)
	// CountByGroupUuid 统计群成员数（上限检查）
	CountByGroupUuid(groupUuid string) (int64, error)
	// Create 添加群成员
	Create(member *model.GroupMember) error
	// UpdateRole 更新成员角色
	UpdateRole(memberUuid, role string) error
	// Delete 删除单个群成员
	Delete(groupUuid, userUuid string) error
	// DeleteByGroupUuid 删除群组所有成员（解散群组）
	DeleteByGroupUuid(groupUuid string) error
}

// PermissionRepository 成员权限数据访问接口
// 权限为规范化行，(member_uuid, resource_type) 唯一
type PermissionRepository interface {
	// FindByMemberUuid 查找成员的所有权限行
	FindByMemberUuid(memberUuid string) ([]model.GroupMemberPermission, error)
	// FindByMemberUuids 批量查找多个成员的权限行
	FindByMemberUuids(memberUuids []string) ([]model.GroupMemberPermission, error)
	// ReplaceForMember 整体替换成员权限（先删后插，用于角色预设落库）
	ReplaceForMember(memberUuid string, perms []model.GroupMemberPermission) error
	// Upsert 单项权限覆盖
	Upsert(memberUuid, resourceType, level string) error
	// DeleteByMemberUuid 删除成员的所有权限行
	DeleteByMemberUuid(memberUuid string) error
	// DeleteByMemberUuids 批量删除多个成员的权限行
	DeleteByMemberUuids(memberUuids []string) error
}

// InvitationRepository 群组邀请数据访问接口
type InvitationRepository interface {
	// FindByToken 根据令牌查找邀请
	FindByToken(token string) (*model.GroupInvitation, error)
	// FindByGroupUuid 查找群组的所有邀请
	FindByGroupUuid(groupUuid string) ([]model.GroupInvitation, error)
	// FindPendingByGroupAndEmail 查找群组内某邮箱的待处理邀请（冲突检查）
	FindPendingByGroupAndEmail(groupUuid, email string) (*model.GroupInvitation, error)
	// FindByInviteeEmail 查找邮箱收到的所有邀请
	FindByInviteeEmail(email string) ([]model.GroupInvitation, error)
	// Create 创建邀请
	Create(invitation *model.GroupInvitation) error
	// Update 更新邀请（状态流转）
	Update(invitation *model.GroupInvitation) error
}

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	// FindByUuid 根据 UUID 查找订单
	FindByUuid(uuid string) (*model.Order, error)
	// FindByGroupUuid 查找群组的所有订单（按创建时间倒序）
	FindByGroupUuid(groupUuid string) ([]model.Order, error)
	// FindActiveByGroupUuid 查找群组当前的非终态订单，不存在时返回 CodeNotFound
	FindActiveByGroupUuid(groupUuid string) (*model.Order, error)
	// FindByGroupAndStatus 查找群组内指定状态的订单
	FindByGroupAndStatus(groupUuid, status string) ([]model.Order, error)
	// Create 创建订单
	Create(order *model.Order) error
	// Update 更新订单
	Update(order *model.Order) error
}

// OrderItemRepository 订单明细数据访问接口
type OrderItemRepository interface {
	// FindByUuid 根据 UUID 查找明细
	FindByUuid(uuid string) (*model.OrderItem, error)
	// FindByOrderUuid 查找订单的所有明细
	FindByOrderUuid(orderUuid string) ([]model.OrderItem, error)
	// FindByOrderUuids 批量查找多个订单的明细（统计用）
	FindByOrderUuids(orderUuids []string) ([]model.OrderItem, error)
	// Create 创建明细
	Create(item *model.OrderItem) error
	// Update 更新明细
	Update(item *model.OrderItem) error
	// Delete 删除明细
	Delete(uuid string) error
}

// BalanceRepository 余额数据访问接口
type BalanceRepository interface {
	// FindByGroupAndUser 查找成员在群内的余额账户
	FindByGroupAndUser(groupUuid, userUuid string) (*model.Balance, error)
	// FindByGroupAndUserForUpdate 查找余额账户并加行锁，必须在事务内调用
	// 余额的读-改-写通过该锁串行化
	FindByGroupAndUserForUpdate(groupUuid, userUuid string) (*model.Balance, error)
	// FindByGroupUuid 查找群组的所有余额账户
	FindByGroupUuid(groupUuid string) ([]model.Balance, error)
	// Create 创建余额账户
	Create(balance *model.Balance) error
	// Update 更新余额账户
	Update(balance *model.Balance) error
}

// BalanceHistoryRepository 余额流水数据访问接口（只追加）
type BalanceHistoryRepository interface {
	// FindByBalanceUuid 查找账户的全部流水（按创建时间倒序）
	FindByBalanceUuid(balanceUuid string) ([]model.BalanceHistory, error)
	// Create 追加流水
	Create(history *model.BalanceHistory) error
}

// RestaurantRepository 餐厅数据访问接口
type RestaurantRepository interface {
	// FindByUuid 根据 UUID 查找餐厅
	FindByUuid(uuid string) (*model.Restaurant, error)
	// FindByGroupUuid 查找群组的所有餐厅
	FindByGroupUuid(groupUuid string) ([]model.Restaurant, error)
	// Create 创建餐厅
	Create(restaurant *model.Restaurant) error
}

// DishRepository 菜品数据访问接口
type DishRepository interface {
	// FindByRestaurantUuid 查找餐厅的所有菜品
	FindByRestaurantUuid(restaurantUuid string) ([]model.Dish, error)
	// FindByRestaurantAndName 根据 (餐厅, 菜名) 查找菜品，结算 upsert 的键
	FindByRestaurantAndName(restaurantUuid, name string) (*model.Dish, error)
	// Create 创建菜品
	Create(dish *model.Dish) error
	// Update 更新菜品
	Update(dish *model.Dish) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db             *gorm.DB                 // GORM 数据库实例，测试场景可为 nil
	User           UserRepository           // 用户 Repository
	Group          GroupRepository          // 群组 Repository
	GroupMember    GroupMemberRepository    // 群成员 Repository
	Permission     PermissionRepository     // 成员权限 Repository
	Invitation     InvitationRepository     // 邀请 Repository
	Order          OrderRepository          // 订单 Repository
	OrderItem      OrderItemRepository      // 订单明细 Repository
	Balance        BalanceRepository        // 余额 Repository
	BalanceHistory BalanceHistoryRepository // 余额流水 Repository
	Restaurant     RestaurantRepository     // 餐厅 Repository
	Dish           DishRepository           // 菜品 Repository
}

// NewRepositories 创建所有 Repository 实例
// db: GORM 数据库实例
// 返回: Repositories 聚合指针
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		User:           NewUserRepository(db),
		Group:          NewGroupRepository(db),
		GroupMember:    NewGroupMemberRepository(db),
		Permission:     NewPermissionRepository(db),
		Invitation:     NewInvitationRepository(db),
		Order:          NewOrderRepository(db),
		OrderItem:      NewOrderItemRepository(db),
		Balance:        NewBalanceRepository(db),
		BalanceHistory: NewBalanceHistoryRepository(db),
		Restaurant:     NewRestaurantRepository(db),
		Dish:           NewDishRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// 未绑定数据库实例时（内存实现的测试场景）直接执行函数本身
// fn: 事务执行函数，接收事务内的 Repositories 实例
// 返回: 操作错误（如有错误会自动回滚）
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}
