// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
// 接口设计遵循依赖倒置原则，便于测试和解耦
package service

import (
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/dto/respond"
	"dingcan_server/internal/model"
)

// GroupService 群组业务接口
// 处理群组创建、成员管理、邀请等功能
type GroupService interface {
	// CreateGroup 创建群组（含 owner 成员记录与 admin 权限预设）
	CreateGroup(actor *model.UserInfo, req request.CreateGroupRequest) (*respond.GroupInfoRespond, error)
	// LoadMyGroups 加载我所在的群组列表
	LoadMyGroups(actor *model.UserInfo) ([]respond.GroupInfoRespond, error)
	// GetGroupInfo 获取群组信息
	GetGroupInfo(actor *model.UserInfo, groupId string) (*respond.GroupInfoRespond, error)
	// UpdateGroupInfo 更新群组信息
	UpdateGroupInfo(actor *model.UserInfo, req request.UpdateGroupInfoRequest) error
	// DismissGroup 解散群组（仅群主或站点管理员）
	DismissGroup(actor *model.UserInfo, groupId string) error
	// GetGroupMemberList 获取群组成员列表（含角色与权限行）
	GetGroupMemberList(actor *model.UserInfo, groupId string) ([]respond.GroupMemberRespond, error)
	// AddMember 直接添加成员
	AddMember(actor *model.UserInfo, req request.AddMemberRequest) (*respond.GroupMemberRespond, error)
	// UpdateMemberRole 变更成员角色（权限行整体重置为新角色预设）
	UpdateMemberRole(actor *model.UserInfo, req request.UpdateMemberRoleRequest) error
	// SetMemberPermission 单项覆盖成员权限
	SetMemberPermission(actor *model.UserInfo, req request.SetMemberPermissionRequest) error
	// RemoveMember 移出成员（群主免疫移除；本人退群始终允许）
	RemoveMember(actor *model.UserInfo, groupId, userId string) error
	// CreateInvitation 创建邮件邀请
	CreateInvitation(actor *model.UserInfo, req request.CreateInvitationRequest) (*respond.InvitationRespond, error)
	// ListGroupInvitations 查看群组邀请列表
	ListGroupInvitations(actor *model.UserInfo, groupId string) ([]respond.InvitationRespond, error)
	// ListMyInvitations 查看发给我的邀请
	ListMyInvitations(actor *model.UserInfo) ([]respond.InvitationRespond, error)
	// AcceptInvitation 接受邀请并入群
	AcceptInvitation(actor *model.UserInfo, token string) (*respond.GroupInfoRespond, error)
	// DeclineInvitation 拒绝邀请
	DeclineInvitation(actor *model.UserInfo, token string) error
}

// OrderService 拼单业务接口
// 处理拼单生命周期、点餐条目、配送费与结算
type OrderService interface {
	// CreateOrder 发起拼单（同群组同时只允许一个进行中拼单）
	CreateOrder(actor *model.UserInfo, req request.CreateOrderRequest) (*respond.OrderRespond, error)
	// ListOrders 查看群组拼单列表
	ListOrders(actor *model.UserInfo, groupId string) ([]respond.OrderRespond, error)
	// GetActiveOrder 获取当前进行中的拼单，无则返回 nil
	GetActiveOrder(actor *model.UserInfo, groupId string) (*respond.OrderDetailRespond, error)
	// GetOrderDetail 获取拼单详情（含点餐条目）
	GetOrderDetail(actor *model.UserInfo, groupId, orderId string) (*respond.OrderDetailRespond, error)
	// UpdateStatus 推进拼单状态（finished 触发结算）
	UpdateStatus(actor *model.UserInfo, req request.UpdateOrderStatusRequest) (*respond.OrderRespond, error)
	// SetDeliveryFee 设置配送费（总额与人均二选一，另一项按点餐人数推导）
	SetDeliveryFee(actor *model.UserInfo, req request.SetDeliveryFeeRequest) (*respond.OrderRespond, error)
	// AddItem 添加点餐条目（可代点，需相应权限）
	AddItem(actor *model.UserInfo, req request.AddOrderItemRequest) (*respond.OrderItemRespond, error)
	// UpdateItem 修改点餐条目
	UpdateItem(actor *model.UserInfo, req request.UpdateOrderItemRequest) (*respond.OrderItemRespond, error)
	// DeleteItem 删除点餐条目
	DeleteItem(actor *model.UserInfo, groupId, orderId, itemId string) error
}

// BalanceService 余额业务接口
// 处理群组内用户余额与流水
type BalanceService interface {
	// GetGroupBalances 查看群组全员余额
	GetGroupBalances(actor *model.UserInfo, groupId string) ([]respond.BalanceRespond, error)
	// GetMyBalance 查看本人余额
	GetMyBalance(actor *model.UserInfo, groupId string) (*respond.BalanceRespond, error)
	// GetBalanceHistory 查看某成员的余额流水
	GetBalanceHistory(actor *model.UserInfo, groupId, userId string) ([]respond.BalanceHistoryRespond, error)
	// AdjustBalance 手工调整余额（充值/冲正）
	AdjustBalance(actor *model.UserInfo, req request.AdjustBalanceRequest) (*respond.BalanceRespond, error)
}

// AnalyticsService 统计业务接口
// 群组消费汇总与热门菜品，读多写少，走缓存
type AnalyticsService interface {
	// GroupSummary 群组拼单汇总
	GroupSummary(actor *model.UserInfo, groupId string) (*respond.GroupSummaryRespond, error)
	// UserSpending 按成员的消费统计
	UserSpending(actor *model.UserInfo, groupId string) ([]respond.UserSpendingRespond, error)
	// PopularDishes 热门菜品排行
	PopularDishes(actor *model.UserInfo, groupId string, limit int) ([]respond.PopularDishRespond, error)
}

// RestaurantService 餐馆业务接口
// 餐馆与菜品的读侧（菜品由拼单结算自动沉淀）
type RestaurantService interface {
	// CreateRestaurant 创建餐馆
	CreateRestaurant(actor *model.UserInfo, req request.CreateRestaurantRequest) (*respond.RestaurantRespond, error)
	// ListRestaurants 查看群组餐馆列表
	ListRestaurants(actor *model.UserInfo, groupId string) ([]respond.RestaurantRespond, error)
	// ListDishes 查看餐馆菜品列表
	ListDishes(actor *model.UserInfo, groupId, restaurantId string) ([]respond.DishRespond, error)
}
