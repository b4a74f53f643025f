// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"dingcan_server/internal/dao/mysql/repository"
	myredis "dingcan_server/internal/dao/redis"
	"dingcan_server/internal/infrastructure/mq"
	"dingcan_server/internal/service/analytics"
	"dingcan_server/internal/service/balance"
	"dingcan_server/internal/service/group"
	"dingcan_server/internal/service/order"
	"dingcan_server/internal/service/restaurant"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	Group      GroupService      // 群组 Service
	Order      OrderService      // 拼单 Service
	Balance    BalanceService    // 余额 Service
	Analytics  AnalyticsService  // 统计 Service
	Restaurant RestaurantService // 餐馆 Service
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 接收 Repository 聚合、缓存服务、邀请投递器
//  2. 创建各个 Service 实例，注入依赖
//  3. 返回 Services 聚合
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, dispatcher mq.InvitationDispatcher) *Services {
	groupSvc := group.NewGroupService(repos, cache, dispatcher)
	balanceSvc := balance.NewBalanceService(repos, cache)
	orderSvc := order.NewOrderService(repos, cache)
	analyticsSvc := analytics.NewAnalyticsService(repos, cache)
	restaurantSvc := restaurant.NewRestaurantService(repos)

	return &Services{
		Group:      groupSvc,
		Order:      orderSvc,
		Balance:    balanceSvc,
		Analytics:  analyticsSvc,
		Restaurant: restaurantSvc,
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Order.CreateOrder() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository/Redis/MQ 初始化之后
func InitServices(repos *repository.Repositories, cache myredis.AsyncCacheService, dispatcher mq.InvitationDispatcher) {
	Svc = NewServices(repos, cache, dispatcher)
}
