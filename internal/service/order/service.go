// Package order 拼单业务逻辑
// 覆盖拼单生命周期（状态机）、点餐条目、配送费与完成结算
package order

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dingcan_server/internal/dao/mysql/repository"
	myredis "dingcan_server/internal/dao/redis"
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/dto/respond"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service/balance"
	"dingcan_server/internal/service/guard"
	"dingcan_server/pkg/errorx"
	"dingcan_server/pkg/util/random"
)

type orderService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewOrderService 创建拼单 Service 实例
func NewOrderService(repos *repository.Repositories, cache myredis.AsyncCacheService) *orderService {
	return &orderService{repos: repos, cache: cache}
}

// CreateOrder 发起拼单
// 需要 orders initiator 及以上权限；群组行加锁保证同一群组最多一个进行中拼单
func (o *orderService) CreateOrder(actor *model.UserInfo, req request.CreateOrderRequest) (*respond.OrderRespond, error) {
	member, perms, err := guard.LoadMembership(o.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceOrders, model.ScopeEditor, model.ScopeInitiator); err != nil {
		return nil, err
	}

	if req.RestaurantId != "" {
		restaurant, err := o.repos.Restaurant.FindByUuid(req.RestaurantId)
		if err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.New(errorx.CodeNotFound, "餐厅不存在")
			}
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		if restaurant.GroupUuid != req.GroupId {
			return nil, errorx.New(errorx.CodeNotFound, "餐厅不存在")
		}
	}

	order := &model.Order{
		Uuid:          fmt.Sprintf("O%s", random.GetNowAndLenRandomString(13)),
		GroupUuid:     req.GroupId,
		InitiatorUuid: actor.Uuid,
		Status:        model.OrderInitiated,
		Note:          req.Note,
	}
	if req.RestaurantId != "" {
		order.RestaurantUuid = sql.NullString{String: req.RestaurantId, Valid: true}
	}

	err = o.repos.Transaction(func(tx *repository.Repositories) error {
		// 锁群组行后复查活跃订单，两个并发发起只会成功一个
		if _, err := tx.Group.FindByUuidForUpdate(req.GroupId); err != nil {
			return err
		}
		if _, err := tx.Order.FindActiveByGroupUuid(req.GroupId); err == nil {
			return errorx.New(errorx.CodeConflict, "当前已有进行中的拼单")
		} else if !errorx.IsNotFound(err) {
			return err
		}
		return tx.Order.Create(order)
	})
	if err != nil {
		if errorx.IsConflict(err) {
			return nil, err
		}
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "群组不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return toOrderRespond(order), nil
}

// ListOrders 查看群组拼单列表，要求成员身份
func (o *orderService) ListOrders(actor *model.UserInfo, groupId string) ([]respond.OrderRespond, error) {
	if err := o.requireMember(actor, groupId); err != nil {
		return nil, err
	}
	orders, err := o.repos.Order.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.OrderRespond, 0, len(orders))
	for i := range orders {
		rsp = append(rsp, *toOrderRespond(&orders[i]))
	}
	return rsp, nil
}

// GetActiveOrder 获取当前进行中的拼单，无进行中拼单时返回 nil
func (o *orderService) GetActiveOrder(actor *model.UserInfo, groupId string) (*respond.OrderDetailRespond, error) {
	if err := o.requireMember(actor, groupId); err != nil {
		return nil, err
	}
	order, err := o.repos.Order.FindActiveByGroupUuid(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return o.buildDetail(order)
}

// GetOrderDetail 获取拼单详情（含点餐条目与合计），要求成员身份
func (o *orderService) GetOrderDetail(actor *model.UserInfo, groupId, orderId string) (*respond.OrderDetailRespond, error) {
	if err := o.requireMember(actor, groupId); err != nil {
		return nil, err
	}
	order, err := o.findOrder(groupId, orderId)
	if err != nil {
		return nil, err
	}
	return o.buildDetail(order)
}

// UpdateStatus 推进拼单状态
// 仅发起人、orders editor 或站点管理员可操作；finished 在同一事务内完成结算
func (o *orderService) UpdateStatus(actor *model.UserInfo, req request.UpdateOrderStatusRequest) (*respond.OrderRespond, error) {
	member, perms, err := guard.LoadMembership(o.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	order, err := o.findOrder(req.GroupId, req.OrderId)
	if err != nil {
		return nil, err
	}
	if !o.canManage(actor, member, perms, order) {
		return nil, errorx.New(errorx.CodeForbidden, "只有发起人或订单管理者可以操作拼单")
	}
	if !validStatus(req.Status) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知状态 %s", req.Status)
	}
	if !model.CanTransition(order.Status, req.Status) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "状态不能从 %s 流转到 %s", order.Status, req.Status)
	}

	var items []model.OrderItem
	err = o.repos.Transaction(func(tx *repository.Repositories) error {
		if req.Status == model.OrderFinished {
			var err error
			items, err = o.settle(tx, order)
			if err != nil {
				return err
			}
		}
		order.Status = req.Status
		return tx.Order.Update(order)
	})
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if req.Status == model.OrderFinished {
		// 结算成功后把菜品沉淀到餐厅菜单，失败只记日志
		o.upsertDishes(order, items)
		o.invalidateAfterSettle(req.GroupId)
	}
	return toOrderRespond(order), nil
}

// SetDeliveryFee 设置配送费
// 总额与人均二选一；按当前点餐人数（去重）推导另一项，四舍五入保留两位
func (o *orderService) SetDeliveryFee(actor *model.UserInfo, req request.SetDeliveryFeeRequest) (*respond.OrderRespond, error) {
	member, perms, err := guard.LoadMembership(o.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	order, err := o.findOrder(req.GroupId, req.OrderId)
	if err != nil {
		return nil, err
	}
	if !o.canManage(actor, member, perms, order) {
		return nil, errorx.New(errorx.CodeForbidden, "只有发起人或订单管理者可以设置配送费")
	}
	if model.IsTerminalStatus(order.Status) {
		return nil, errorx.New(errorx.CodeInvalidParam, "拼单已结束，不能设置配送费")
	}
	if (req.FeeTotal == nil) == (req.FeePerPerson == nil) {
		return nil, errorx.New(errorx.CodeInvalidParam, "配送费总额与人均必须且只能提供一项")
	}
	if (req.FeeTotal != nil && req.FeeTotal.IsNegative()) ||
		(req.FeePerPerson != nil && req.FeePerPerson.IsNegative()) {
		return nil, errorx.New(errorx.CodeInvalidParam, "配送费不能为负数")
	}

	items, err := o.repos.OrderItem.FindByOrderUuid(order.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	participants := int64(len(distinctOwners(items)))

	changed := false
	if req.FeeTotal != nil {
		// 无人点餐时两项都不落库：结算只认人均配送费，
		// 不能把此刻的总额摊给之后才点餐的人
		if participants > 0 {
			per := req.FeeTotal.DivRound(decimal.NewFromInt(participants), 2)
			order.DeliveryFeeTotal = decimal.NullDecimal{Decimal: *req.FeeTotal, Valid: true}
			order.DeliveryFeePerPerson = decimal.NullDecimal{Decimal: per, Valid: true}
			changed = true
		}
	} else {
		order.DeliveryFeePerPerson = decimal.NullDecimal{Decimal: *req.FeePerPerson, Valid: true}
		total := req.FeePerPerson.Mul(decimal.NewFromInt(participants))
		order.DeliveryFeeTotal = decimal.NullDecimal{Decimal: total, Valid: true}
		changed = true
	}

	if changed {
		if err = o.repos.Order.Update(order); err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
	}
	return toOrderRespond(order), nil
}

// AddItem 添加点餐条目
// initiated 状态下成员可为本人点餐；代点或 confirmed 状态下加菜需要发起人/editor 权限
func (o *orderService) AddItem(actor *model.UserInfo, req request.AddOrderItemRequest) (*respond.OrderItemRespond, error) {
	member, perms, err := guard.LoadMembership(o.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}
	order, err := o.findOrder(req.GroupId, req.OrderId)
	if err != nil {
		return nil, err
	}

	ownerUuid := req.UserId
	if ownerUuid == "" {
		ownerUuid = actor.Uuid
	}
	switch order.Status {
	case model.OrderInitiated:
		if ownerUuid != actor.Uuid && !o.canManage(actor, member, perms, order) {
			return nil, errorx.New(errorx.CodeForbidden, "只有发起人或订单管理者可以代他人点餐")
		}
	case model.OrderConfirmed:
		if !o.canManage(actor, member, perms, order) {
			return nil, errorx.New(errorx.CodeForbidden, "拼单已确认，只有发起人或订单管理者可以改动点餐")
		}
	default:
		return nil, errorx.New(errorx.CodeInvalidParam, "当前状态不能改动点餐")
	}

	// 被点餐人必须是群组成员
	if ownerUuid != actor.Uuid {
		if _, err = o.repos.GroupMember.FindByGroupAndUser(req.GroupId, ownerUuid); err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.New(errorx.CodeNotFound, "该用户不是群组成员")
			}
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, errorx.New(errorx.CodeInvalidParam, "份数必须大于零")
	}
	if !req.Price.IsPositive() {
		return nil, errorx.New(errorx.CodeInvalidParam, "价格必须大于零")
	}

	item := &model.OrderItem{
		Uuid:      fmt.Sprintf("T%s", random.GetNowAndLenRandomString(13)),
		OrderUuid: order.Uuid,
		UserUuid:  ownerUuid,
		Name:      req.Name,
		Detail:    req.Detail,
		Price:     req.Price,
		Quantity:  quantity,
	}
	if err = o.repos.OrderItem.Create(item); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return o.toItemRespond(item), nil
}

// UpdateItem 修改点餐条目
// initiated 状态下本人或 editor 可改；confirmed 状态下仅发起人/editor；之后不可改
func (o *orderService) UpdateItem(actor *model.UserInfo, req request.UpdateOrderItemRequest) (*respond.OrderItemRespond, error) {
	item, err := o.authorizeItemMutation(actor, req.GroupId, req.OrderId, req.ItemId)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Detail != nil {
		item.Detail = *req.Detail
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, errorx.New(errorx.CodeInvalidParam, "价格必须大于零")
		}
		item.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, errorx.New(errorx.CodeInvalidParam, "份数必须大于零")
		}
		item.Quantity = *req.Quantity
	}

	if err = o.repos.OrderItem.Update(item); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return o.toItemRespond(item), nil
}

// DeleteItem 删除点餐条目，权限规则与修改一致
func (o *orderService) DeleteItem(actor *model.UserInfo, groupId, orderId, itemId string) error {
	item, err := o.authorizeItemMutation(actor, groupId, orderId, itemId)
	if err != nil {
		return err
	}
	if err = o.repos.OrderItem.Delete(item.Uuid); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// ==================== 内部方法 ====================

// settle 完成结算：按人汇总菜品小计并加上人均配送费，从各自余额中扣除
// 必须在事务内调用；余额行加锁，流水与扣款成对写入
func (o *orderService) settle(tx *repository.Repositories, order *model.Order) ([]model.OrderItem, error) {
	items, err := tx.OrderItem.FindByOrderUuid(order.Uuid)
	if err != nil {
		return nil, err
	}
	owners := distinctOwners(items)

	// 结算只认人均配送费；只设了总额而无人点餐时，费用不参与结算
	feeShare := decimal.Zero
	if order.DeliveryFeePerPerson.Valid {
		feeShare = order.DeliveryFeePerPerson.Decimal
	}

	totals := make(map[string]decimal.Decimal, len(owners))
	for _, item := range items {
		totals[item.UserUuid] = totals[item.UserUuid].Add(item.Subtotal())
	}

	note := fmt.Sprintf("Order #%s", shortId(order.Uuid))
	for _, userUuid := range owners {
		due := totals[userUuid].Add(feeShare)
		if _, err = balance.ApplyDelta(tx, order.GroupUuid, userUuid, due.Neg(),
			model.ChangeTypeOrder, note, order.Uuid, ""); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// upsertDishes 把本次拼单的菜品按 (餐厅, 菜名) 沉淀到菜单
// 结算已提交，这里失败只记日志不回滚
func (o *orderService) upsertDishes(order *model.Order, items []model.OrderItem) {
	if !order.RestaurantUuid.Valid {
		return
	}
	restaurantUuid := order.RestaurantUuid.String
	for i := range items {
		item := &items[i]
		dish, err := o.repos.Dish.FindByRestaurantAndName(restaurantUuid, item.Name)
		if err != nil {
			if !errorx.IsNotFound(err) {
				zap.L().Warn("菜品沉淀查询失败", zap.Error(err), zap.String("name", item.Name))
				continue
			}
			dish = &model.Dish{
				Uuid:           fmt.Sprintf("D%s", random.GetNowAndLenRandomString(13)),
				RestaurantUuid: restaurantUuid,
				Name:           item.Name,
				Detail:         item.Detail,
				Price:          item.Price,
			}
			if err = o.repos.Dish.Create(dish); err != nil {
				zap.L().Warn("菜品沉淀创建失败", zap.Error(err), zap.String("name", item.Name))
			}
			continue
		}
		dish.Price = item.Price
		if item.Detail != "" {
			dish.Detail = item.Detail
		}
		if err = o.repos.Dish.Update(dish); err != nil {
			zap.L().Warn("菜品沉淀更新失败", zap.Error(err), zap.String("name", item.Name))
		}
	}
}

// requireMember 要求成员身份（站点管理员放行）
func (o *orderService) requireMember(actor *model.UserInfo, groupId string) error {
	member, _, err := guard.LoadMembership(o.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return errorx.ErrNotMember
	}
	return nil
}

// findOrder 查找拼单并校验归属群组
func (o *orderService) findOrder(groupId, orderId string) (*model.Order, error) {
	order, err := o.repos.Order.FindByUuid(orderId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "拼单不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if order.GroupUuid != groupId {
		return nil, errorx.New(errorx.CodeNotFound, "拼单不存在")
	}
	return order, nil
}

// canManage 发起人、orders editor 或站点管理员
func (o *orderService) canManage(actor *model.UserInfo, member *model.GroupMember, perms []model.GroupMemberPermission, order *model.Order) bool {
	if actor.IsSiteAdmin() {
		return true
	}
	if member == nil {
		return false
	}
	if order.InitiatorUuid == actor.Uuid {
		return true
	}
	level, ok := guard.PermissionLevel(perms, model.ResourceOrders)
	return ok && level == model.ScopeEditor
}

// authorizeItemMutation 点餐条目改动的公共校验
func (o *orderService) authorizeItemMutation(actor *model.UserInfo, groupId, orderId, itemId string) (*model.OrderItem, error) {
	member, perms, err := guard.LoadMembership(o.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}
	order, err := o.findOrder(groupId, orderId)
	if err != nil {
		return nil, err
	}
	item, err := o.repos.OrderItem.FindByUuid(itemId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "点餐条目不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if item.OrderUuid != order.Uuid {
		return nil, errorx.New(errorx.CodeNotFound, "点餐条目不存在")
	}

	switch order.Status {
	case model.OrderInitiated:
		if !guard.CanMutateItem(actor, member, perms, item.UserUuid) {
			return nil, errorx.New(errorx.CodeForbidden, "只能改动自己的点餐")
		}
	case model.OrderConfirmed:
		if !o.canManage(actor, member, perms, order) {
			return nil, errorx.New(errorx.CodeForbidden, "拼单已确认，只有发起人或订单管理者可以改动点餐")
		}
	default:
		return nil, errorx.New(errorx.CodeInvalidParam, "当前状态不能改动点餐")
	}
	return item, nil
}

// buildDetail 组装拼单详情
func (o *orderService) buildDetail(order *model.Order) (*respond.OrderDetailRespond, error) {
	items, err := o.repos.OrderItem.FindByOrderUuid(order.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	userUuids := distinctOwners(items)
	names := make(map[string]string, len(userUuids))
	if len(userUuids) > 0 {
		users, err := o.repos.User.FindByUuids(userUuids)
		if err != nil {
			zap.L().Warn("查询用户姓名失败", zap.Error(err))
		}
		for _, u := range users {
			names[u.Uuid] = u.FullName
		}
	}

	total := decimal.Zero
	itemRsp := make([]respond.OrderItemRespond, 0, len(items))
	for i := range items {
		item := &items[i]
		subtotal := item.Subtotal()
		total = total.Add(subtotal)
		itemRsp = append(itemRsp, respond.OrderItemRespond{
			Uuid:     item.Uuid,
			UserId:   item.UserUuid,
			UserName: names[item.UserUuid],
			Name:     item.Name,
			Detail:   item.Detail,
			Price:    item.Price.StringFixed(2),
			Quantity: item.Quantity,
			Subtotal: subtotal.StringFixed(2),
		})
	}
	return &respond.OrderDetailRespond{
		OrderRespond: *toOrderRespond(order),
		Items:        itemRsp,
		TotalAmount:  total.StringFixed(2),
	}, nil
}

func (o *orderService) toItemRespond(item *model.OrderItem) *respond.OrderItemRespond {
	name := ""
	if user, err := o.repos.User.FindByUuid(item.UserUuid); err == nil {
		name = user.FullName
	}
	return &respond.OrderItemRespond{
		Uuid:     item.Uuid,
		UserId:   item.UserUuid,
		UserName: name,
		Name:     item.Name,
		Detail:   item.Detail,
		Price:    item.Price.StringFixed(2),
		Quantity: item.Quantity,
		Subtotal: item.Subtotal().StringFixed(2),
	}
}

// invalidateAfterSettle 结算后异步失效余额与统计缓存
func (o *orderService) invalidateAfterSettle(groupId string) {
	o.cache.SubmitTask(func() {
		_ = o.cache.DeleteByPatterns(context.Background(), []string{
			"group_balances_" + groupId + "*",
			"analytics_" + groupId + "*",
		})
	})
}

// distinctOwners 点餐条目去重后的用户列表，保持首次出现顺序
func distinctOwners(items []model.OrderItem) []string {
	seen := make(map[string]struct{}, len(items))
	owners := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.UserUuid]; ok {
			continue
		}
		seen[item.UserUuid] = struct{}{}
		owners = append(owners, item.UserUuid)
	}
	return owners
}

func validStatus(status string) bool {
	switch status {
	case model.OrderInitiated, model.OrderConfirmed, model.OrderOrdered,
		model.OrderFinished, model.OrderCancelled:
		return true
	}
	return false
}

// shortId 订单号展示用短 ID（流水备注）
func shortId(uuid string) string {
	if len(uuid) > 8 {
		return uuid[:8]
	}
	return uuid
}

func toOrderRespond(order *model.Order) *respond.OrderRespond {
	rsp := &respond.OrderRespond{
		Uuid:        order.Uuid,
		GroupId:     order.GroupUuid,
		InitiatorId: order.InitiatorUuid,
		Status:      order.Status,
		Note:        order.Note,
		CreatedAt:   order.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if order.RestaurantUuid.Valid {
		rsp.RestaurantId = order.RestaurantUuid.String
	}
	if order.DeliveryFeeTotal.Valid {
		rsp.DeliveryFeeTotal = order.DeliveryFeeTotal.Decimal.StringFixed(2)
	}
	if order.DeliveryFeePerPerson.Valid {
		rsp.DeliveryFeePerPerson = order.DeliveryFeePerPerson.Decimal.StringFixed(2)
	}
	return rsp
}
