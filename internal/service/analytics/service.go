// Package analytics 统计业务逻辑
// 基于已完成拼单做只读聚合，读多写少，结果进缓存
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dingcan_server/internal/dao/mysql/repository"
	myredis "dingcan_server/internal/dao/redis"
	"dingcan_server/internal/dto/respond"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service/guard"
	"dingcan_server/pkg/constants"
	"dingcan_server/pkg/errorx"
)

// DefaultDishLimit 热门菜品默认返回条数
const DefaultDishLimit = 10

type analyticsService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewAnalyticsService 创建统计 Service 实例
func NewAnalyticsService(repos *repository.Repositories, cache myredis.AsyncCacheService) *analyticsService {
	return &analyticsService{repos: repos, cache: cache}
}

// GroupSummary 群组拼单汇总
func (a *analyticsService) GroupSummary(actor *model.UserInfo, groupId string) (*respond.GroupSummaryRespond, error) {
	group, err := a.authorize(actor, groupId)
	if err != nil {
		return nil, err
	}

	cacheKey := "analytics_" + groupId + "_summary"
	if cached, err := a.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var rsp respond.GroupSummaryRespond
		if err = json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
	}

	orders, err := a.repos.Order.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	finished := 0
	cancelled := 0
	finishedUuids := make([]string, 0, len(orders))
	for _, ord := range orders {
		switch ord.Status {
		case model.OrderFinished:
			finished++
			finishedUuids = append(finishedUuids, ord.Uuid)
		case model.OrderCancelled:
			cancelled++
		}
	}

	totalSpent := decimal.Zero
	if len(finishedUuids) > 0 {
		items, err := a.repos.OrderItem.FindByOrderUuids(finishedUuids)
		if err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		for i := range items {
			totalSpent = totalSpent.Add(items[i].Subtotal())
		}
	}

	rsp := &respond.GroupSummaryRespond{
		GroupId:         groupId,
		MemberCnt:       group.MemberCnt,
		TotalOrders:     len(orders),
		FinishedOrders:  finished,
		CancelledOrders: cancelled,
		TotalSpent:      totalSpent.StringFixed(2),
	}
	a.cacheSet(cacheKey, rsp)
	return rsp, nil
}

// UserSpending 按成员的消费统计（只计已完成拼单的菜品消费）
func (a *analyticsService) UserSpending(actor *model.UserInfo, groupId string) ([]respond.UserSpendingRespond, error) {
	if _, err := a.authorize(actor, groupId); err != nil {
		return nil, err
	}

	cacheKey := "analytics_" + groupId + "_spending"
	if cached, err := a.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var rsp []respond.UserSpendingRespond
		if err = json.Unmarshal([]byte(cached), &rsp); err == nil {
			return rsp, nil
		}
	}

	items, err := a.finishedItems(groupId)
	if err != nil {
		return nil, err
	}

	spent := make(map[string]decimal.Decimal)
	orderSets := make(map[string]map[string]struct{})
	userUuids := make([]string, 0)
	for i := range items {
		item := &items[i]
		if _, ok := spent[item.UserUuid]; !ok {
			userUuids = append(userUuids, item.UserUuid)
			orderSets[item.UserUuid] = make(map[string]struct{})
		}
		spent[item.UserUuid] = spent[item.UserUuid].Add(item.Subtotal())
		orderSets[item.UserUuid][item.OrderUuid] = struct{}{}
	}

	names := make(map[string]string, len(userUuids))
	if len(userUuids) > 0 {
		users, err := a.repos.User.FindByUuids(userUuids)
		if err != nil {
			zap.L().Warn("查询用户姓名失败", zap.Error(err))
		}
		for _, u := range users {
			names[u.Uuid] = u.FullName
		}
	}

	rsp := make([]respond.UserSpendingRespond, 0, len(userUuids))
	for _, uuid := range userUuids {
		rsp = append(rsp, respond.UserSpendingRespond{
			UserId:     uuid,
			FullName:   names[uuid],
			OrderCount: len(orderSets[uuid]),
			TotalSpent: spent[uuid].StringFixed(2),
		})
	}
	// 消费高的在前
	sort.SliceStable(rsp, func(i, j int) bool {
		return spent[rsp[i].UserId].GreaterThan(spent[rsp[j].UserId])
	})

	a.cacheSet(cacheKey, rsp)
	return rsp, nil
}

// PopularDishes 热门菜品排行，按累计份数倒序
func (a *analyticsService) PopularDishes(actor *model.UserInfo, groupId string, limit int) ([]respond.PopularDishRespond, error) {
	if _, err := a.authorize(actor, groupId); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultDishLimit
	}

	cacheKey := fmt.Sprintf("analytics_%s_dishes_%d", groupId, limit)
	if cached, err := a.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var rsp []respond.PopularDishRespond
		if err = json.Unmarshal([]byte(cached), &rsp); err == nil {
			return rsp, nil
		}
	}

	items, err := a.finishedItems(groupId)
	if err != nil {
		return nil, err
	}

	type dishStat struct {
		orders   map[string]struct{}
		quantity int
		spent    decimal.Decimal
	}
	stats := make(map[string]*dishStat)
	dishNames := make([]string, 0)
	for i := range items {
		item := &items[i]
		stat, ok := stats[item.Name]
		if !ok {
			stat = &dishStat{orders: make(map[string]struct{})}
			stats[item.Name] = stat
			dishNames = append(dishNames, item.Name)
		}
		stat.orders[item.OrderUuid] = struct{}{}
		stat.quantity += item.Quantity
		stat.spent = stat.spent.Add(item.Subtotal())
	}

	sort.SliceStable(dishNames, func(i, j int) bool {
		si, sj := stats[dishNames[i]], stats[dishNames[j]]
		if si.quantity != sj.quantity {
			return si.quantity > sj.quantity
		}
		return dishNames[i] < dishNames[j]
	})
	if len(dishNames) > limit {
		dishNames = dishNames[:limit]
	}

	rsp := make([]respond.PopularDishRespond, 0, len(dishNames))
	for _, name := range dishNames {
		stat := stats[name]
		rsp = append(rsp, respond.PopularDishRespond{
			Name:          name,
			TimesOrdered:  len(stat.orders),
			TotalQuantity: stat.quantity,
			TotalSpent:    stat.spent.StringFixed(2),
		})
	}

	a.cacheSet(cacheKey, rsp)
	return rsp, nil
}

// ==================== 内部方法 ====================

// authorize 统计查看需要 analytics viewer 权限
func (a *analyticsService) authorize(actor *model.UserInfo, groupId string) (*model.GroupInfo, error) {
	group, err := a.repos.Group.FindByUuid(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "群组不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	member, perms, err := guard.LoadMembership(a.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceAnalytics, model.ScopeViewer, model.ScopeEditor); err != nil {
		return nil, err
	}
	return group, nil
}

// finishedItems 已完成拼单的全部点餐条目
func (a *analyticsService) finishedItems(groupId string) ([]model.OrderItem, error) {
	orders, err := a.repos.Order.FindByGroupAndStatus(groupId, model.OrderFinished)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if len(orders) == 0 {
		return nil, nil
	}
	orderUuids := make([]string, 0, len(orders))
	for _, ord := range orders {
		orderUuids = append(orderUuids, ord.Uuid)
	}
	items, err := a.repos.OrderItem.FindByOrderUuids(orderUuids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return items, nil
}

// cacheSet 异步写缓存
func (a *analyticsService) cacheSet(key string, value any) {
	a.cache.SubmitTask(func() {
		if data, err := json.Marshal(value); err == nil {
			_ = a.cache.Set(context.Background(), key, string(data), constants.REDIS_TIMEOUT*time.Minute)
		}
	})
}
