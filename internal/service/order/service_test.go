package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"dingcan_server/internal/dao/mysql/repository"
	"dingcan_server/internal/dao/mysql/repository/memory"
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service/guard"
	"dingcan_server/pkg/errorx"
)

// nopCache 测试用缓存实现，SubmitTask 同步执行
type nopCache struct{}

func (nopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error { return nil }
func (nopCache) Get(ctx context.Context, key string) (string, error)                 { return "", nil }
func (nopCache) GetOrError(ctx context.Context, key string) (string, error) {
	return "", errors.New("cache miss")
}
func (nopCache) Delete(ctx context.Context, key string) error                  { return nil }
func (nopCache) DeleteByPattern(ctx context.Context, pattern string) error     { return nil }
func (nopCache) DeleteByPatterns(ctx context.Context, patterns []string) error { return nil }
func (nopCache) SubmitTask(action func())                                      { action() }

// seedGroup 准备一个群组：u1 群主(admin)、u2 supervisor_member、u3/u4 member
func seedGroup(t *testing.T) (*repository.Repositories, map[string]*model.UserInfo) {
	t.Helper()
	repos := memory.NewRepositories()
	users := make(map[string]*model.UserInfo)
	roles := map[string]string{
		"U1": model.RoleAdmin,
		"U2": model.RoleSupervisorMember,
		"U3": model.RoleMember,
		"U4": model.RoleMember,
	}
	for _, uuid := range []string{"U1", "U2", "U3", "U4"} {
		u := &model.UserInfo{Uuid: uuid, Email: uuid + "@test.com", FullName: "用户" + uuid}
		if err := repos.User.Create(u); err != nil {
			t.Fatal(err)
		}
		users[uuid] = u
	}
	group := &model.GroupInfo{Uuid: "G1", Name: "午饭群", OwnerId: "U1", MemberCnt: 4}
	if err := repos.Group.Create(group); err != nil {
		t.Fatal(err)
	}
	for uuid, role := range roles {
		member := &model.GroupMember{Uuid: "M" + uuid, GroupUuid: "G1", UserUuid: uuid, Role: role}
		if err := repos.GroupMember.Create(member); err != nil {
			t.Fatal(err)
		}
		if err := repos.Permission.ReplaceForMember(member.Uuid, guard.PresetFor(role, member.Uuid)); err != nil {
			t.Fatal(err)
		}
	}
	return repos, users
}

func addItem(t *testing.T, repos *repository.Repositories, orderUuid, userUuid, name string, price string, quantity int) {
	t.Helper()
	p, _ := decimal.NewFromString(price)
	item := &model.OrderItem{
		Uuid:      fmt.Sprintf("T%s%s%d", orderUuid, userUuid, quantity),
		OrderUuid: orderUuid,
		UserUuid:  userUuid,
		Name:      name,
		Price:     p,
		Quantity:  quantity,
	}
	if err := repos.OrderItem.Create(item); err != nil {
		t.Fatal(err)
	}
}

// 测试同一群组同时只允许一个进行中拼单
func TestCreateOrderSingleActive(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	first, err := svc.CreateOrder(users["U2"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatalf("supervisor_member 应能发起拼单: %v", err)
	}
	if first.Status != model.OrderInitiated {
		t.Errorf("新拼单状态应为 initiated，实际 %s", first.Status)
	}

	if _, err = svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"}); err == nil {
		t.Fatal("已有进行中拼单时再次发起应被拒绝")
	} else if errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("期望冲突错误码，实际 %d", errorx.GetCode(err))
	}

	// participant 级别不能发起拼单
	if _, err = svc.CreateOrder(users["U3"], request.CreateOrderRequest{GroupId: "G1"}); err == nil {
		t.Fatal("member 不应能发起拼单")
	} else if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("期望无权限错误码，实际 %d", errorx.GetCode(err))
	}
}

// 测试状态机：不在流转表中的变更一律拒绝
func TestUpdateStatusTransitions(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U2"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}

	// initiated 不能直接跳到 ordered
	_, err = svc.UpdateStatus(users["U2"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderOrdered,
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("非法流转应返回参数错误码，实际 %d", errorx.GetCode(err))
	}

	// 非发起人的普通成员不能推进状态
	_, err = svc.UpdateStatus(users["U3"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderConfirmed,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("普通成员推进状态应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 发起人可以推进：initiated → confirmed → ordered
	for _, status := range []string{model.OrderConfirmed, model.OrderOrdered} {
		rsp, err := svc.UpdateStatus(users["U2"], request.UpdateOrderStatusRequest{
			GroupId: "G1", OrderId: ord.Uuid, Status: status,
		})
		if err != nil {
			t.Fatalf("流转到 %s 失败: %v", status, err)
		}
		if rsp.Status != status {
			t.Errorf("期望状态 %s，实际 %s", status, rsp.Status)
		}
	}

	// ordered → cancelled 允许
	if _, err = svc.UpdateStatus(users["U2"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderCancelled,
	}); err != nil {
		t.Fatalf("ordered 应能取消: %v", err)
	}

	// 终态之后不能再流转
	_, err = svc.UpdateStatus(users["U2"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderFinished,
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("终态后的流转应返回参数错误码，实际 %d", errorx.GetCode(err))
	}
}

// 测试配送费推导：总额 10.00 除 3 人得 3.33，人均 3.34 乘 3 人得 10.02
func TestSetDeliveryFeeRounding(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	addItem(t, repos, ord.Uuid, "U1", "鱼香肉丝", "20.00", 1)
	addItem(t, repos, ord.Uuid, "U2", "宫保鸡丁", "18.00", 1)
	addItem(t, repos, ord.Uuid, "U3", "米饭", "2.00", 2)

	total := decimal.RequireFromString("10.00")
	rsp, err := svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeeTotal: &total,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.DeliveryFeePerPerson != "3.33" {
		t.Errorf("10.00 除 3 人应为 3.33，实际 %s", rsp.DeliveryFeePerPerson)
	}

	per := decimal.RequireFromString("3.34")
	rsp, err = svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeePerPerson: &per,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.DeliveryFeeTotal != "10.02" {
		t.Errorf("3.34 乘 3 人应为 10.02，实际 %s", rsp.DeliveryFeeTotal)
	}
}

// 测试配送费参数校验
func TestSetDeliveryFeeValidation(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}

	total := decimal.RequireFromString("10.00")
	per := decimal.RequireFromString("3.00")

	// 两项都给或都不给
	_, err = svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeeTotal: &total, FeePerPerson: &per,
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("同时提供两项应返回参数错误，实际 %d", errorx.GetCode(err))
	}
	_, err = svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{GroupId: "G1", OrderId: ord.Uuid})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("两项都缺应返回参数错误，实际 %d", errorx.GetCode(err))
	}

	// 无人点餐时设置总额：两项都不落库
	rsp, err := svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeeTotal: &total,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.DeliveryFeeTotal != "" || rsp.DeliveryFeePerPerson != "" {
		t.Errorf("无人点餐时不应落库配送费，实际 total=%q per_person=%q",
			rsp.DeliveryFeeTotal, rsp.DeliveryFeePerPerson)
	}
	stored, err := repos.Order.FindByUuid(ord.Uuid)
	if err != nil {
		t.Fatal(err)
	}
	if stored.DeliveryFeeTotal.Valid || stored.DeliveryFeePerPerson.Valid {
		t.Error("无人点餐时配送费不应写入订单")
	}

	// 终态拼单不能再设置配送费
	if _, err = svc.UpdateStatus(users["U1"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderCancelled,
	}); err != nil {
		t.Fatal(err)
	}
	_, err = svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeeTotal: &total,
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("终态设置配送费应返回参数错误码，实际 %d", errorx.GetCode(err))
	}
}

// 测试无人点餐时设置的总额不参与结算：之后再点餐也不会被摊到配送费
func TestDanglingFeeTotalNotSettled(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	total := decimal.RequireFromString("9.00")
	if _, err = svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeeTotal: &total,
	}); err != nil {
		t.Fatal(err)
	}

	// 之后才有人点餐
	if _, err = svc.AddItem(users["U1"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, Name: "紫菜汤", Price: decimal.RequireFromString("5.00"), Quantity: 2,
	}); err != nil {
		t.Fatal(err)
	}
	for _, status := range []string{model.OrderConfirmed, model.OrderOrdered, model.OrderFinished} {
		if _, err = svc.UpdateStatus(users["U1"], request.UpdateOrderStatusRequest{
			GroupId: "G1", OrderId: ord.Uuid, Status: status,
		}); err != nil {
			t.Fatal(err)
		}
	}

	// 只扣菜钱 10.00，不扣当初那笔没有落库的配送费
	account, err := repos.Balance.FindByGroupAndUser("G1", "U1")
	if err != nil {
		t.Fatal(err)
	}
	if account.Amount.StringFixed(2) != "-10.00" {
		t.Errorf("余额应为 -10.00，实际 %s", account.Amount.StringFixed(2))
	}
}

// 测试完成结算：按人扣款并成对写入流水
func TestFinishSettlement(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	addItem(t, repos, ord.Uuid, "U1", "红烧肉", "25.50", 2)  // 51.00
	addItem(t, repos, ord.Uuid, "U2", "青椒肉丝", "10.00", 1) // 10.00
	addItem(t, repos, ord.Uuid, "U3", "蛋炒饭", "8.00", 2)   // 16.00

	total := decimal.RequireFromString("12.00") // 3 人分摊，每人 4.00
	if _, err = svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeeTotal: &total,
	}); err != nil {
		t.Fatal(err)
	}

	for _, status := range []string{model.OrderConfirmed, model.OrderOrdered, model.OrderFinished} {
		if _, err = svc.UpdateStatus(users["U1"], request.UpdateOrderStatusRequest{
			GroupId: "G1", OrderId: ord.Uuid, Status: status,
		}); err != nil {
			t.Fatalf("流转到 %s 失败: %v", status, err)
		}
	}

	expect := map[string]string{
		"U1": "-55.00", // 51.00 + 4.00
		"U2": "-14.00", // 10.00 + 4.00
		"U3": "-20.00", // 16.00 + 4.00
	}
	for uuid, amount := range expect {
		account, err := repos.Balance.FindByGroupAndUser("G1", uuid)
		if err != nil {
			t.Fatalf("%s 结算后应有余额账户: %v", uuid, err)
		}
		if account.Amount.StringFixed(2) != amount {
			t.Errorf("%s 余额应为 %s，实际 %s", uuid, amount, account.Amount.StringFixed(2))
		}
		histories, err := repos.BalanceHistory.FindByBalanceUuid(account.Uuid)
		if err != nil || len(histories) != 1 {
			t.Fatalf("%s 应恰有一条流水，实际 %d", uuid, len(histories))
		}
		h := histories[0]
		if h.ChangeType != model.ChangeTypeOrder {
			t.Errorf("结算流水类型应为 order，实际 %s", h.ChangeType)
		}
		if !h.OrderUuid.Valid || h.OrderUuid.String != ord.Uuid {
			t.Error("结算流水应关联订单")
		}
		if h.CreatedByUuid.Valid {
			t.Error("结算流水不应有操作人")
		}
		wantNote := fmt.Sprintf("Order #%s", ord.Uuid[:8])
		if h.Note != wantNote {
			t.Errorf("流水备注应为 %q，实际 %q", wantNote, h.Note)
		}
	}

	// 未点餐的 U4 不受影响
	if _, err = repos.Balance.FindByGroupAndUser("G1", "U4"); !errorx.IsNotFound(err) {
		t.Error("未点餐成员不应产生余额账户")
	}
}

// 测试单人点餐的结算：配送费总额全部落到唯一点餐人头上，发起人不受影响
func TestFinishSettlementSingleParticipant(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	// 只有 U3 点餐：5.00 两份
	if _, err = svc.AddItem(users["U3"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, Name: "紫菜汤", Price: decimal.RequireFromString("5.00"), Quantity: 2,
	}); err != nil {
		t.Fatal(err)
	}

	total := decimal.RequireFromString("4.00")
	rsp, err := svc.SetDeliveryFee(users["U1"], request.SetDeliveryFeeRequest{
		GroupId: "G1", OrderId: ord.Uuid, FeeTotal: &total,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.DeliveryFeePerPerson != "4.00" {
		t.Errorf("4.00 除 1 人应为 4.00，实际 %s", rsp.DeliveryFeePerPerson)
	}

	for _, status := range []string{model.OrderConfirmed, model.OrderOrdered, model.OrderFinished} {
		if _, err = svc.UpdateStatus(users["U1"], request.UpdateOrderStatusRequest{
			GroupId: "G1", OrderId: ord.Uuid, Status: status,
		}); err != nil {
			t.Fatalf("流转到 %s 失败: %v", status, err)
		}
	}

	account, err := repos.Balance.FindByGroupAndUser("G1", "U3")
	if err != nil {
		t.Fatal(err)
	}
	if account.Amount.StringFixed(2) != "-14.00" {
		t.Errorf("余额应为 -14.00（菜钱 10.00 + 配送费 4.00），实际 %s", account.Amount.StringFixed(2))
	}
	histories, err := repos.BalanceHistory.FindByBalanceUuid(account.Uuid)
	if err != nil || len(histories) != 1 {
		t.Fatalf("应恰有一条流水，实际 %d", len(histories))
	}
	if histories[0].ChangeType != model.ChangeTypeOrder {
		t.Errorf("结算流水类型应为 order，实际 %s", histories[0].ChangeType)
	}
	if !histories[0].OrderUuid.Valid || histories[0].OrderUuid.String != ord.Uuid {
		t.Error("结算流水应关联订单")
	}

	// 没点餐的发起人不扣款
	if _, err = repos.Balance.FindByGroupAndUser("G1", "U1"); !errorx.IsNotFound(err) {
		t.Error("未点餐的发起人不应产生余额账户")
	}
}

// 测试无人点餐时完成结算不产生任何扣款
func TestFinishWithoutItems(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	for _, status := range []string{model.OrderConfirmed, model.OrderOrdered, model.OrderFinished} {
		if _, err = svc.UpdateStatus(users["U1"], request.UpdateOrderStatusRequest{
			GroupId: "G1", OrderId: ord.Uuid, Status: status,
		}); err != nil {
			t.Fatal(err)
		}
	}
	balances, err := repos.Balance.FindByGroupUuid("G1")
	if err != nil {
		t.Fatal(err)
	}
	if len(balances) != 0 {
		t.Errorf("无人点餐的结算不应产生余额账户，实际 %d 个", len(balances))
	}
}

// 测试点餐条目的权限矩阵
func TestItemPermissions(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U2"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	price := decimal.RequireFromString("15.00")

	// initiated：成员为本人点餐
	item, err := svc.AddItem(users["U3"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, Name: "盖浇饭", Price: price,
	})
	if err != nil {
		t.Fatalf("成员应能为本人点餐: %v", err)
	}
	if item.Quantity != 1 {
		t.Errorf("份数默认应为 1，实际 %d", item.Quantity)
	}

	// 普通成员不能代他人点餐
	_, err = svc.AddItem(users["U3"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, UserId: "U4", Name: "面条", Price: price,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("普通成员代点应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 发起人可以代他人点餐
	if _, err = svc.AddItem(users["U2"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, UserId: "U4", Name: "面条", Price: price,
	}); err != nil {
		t.Fatalf("发起人应能代点: %v", err)
	}

	// 普通成员不能改他人的条目
	qty := 3
	_, err = svc.UpdateItem(users["U4"], request.UpdateOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, ItemId: item.Uuid, Quantity: &qty,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("改他人条目应被拒绝，实际 %d", errorx.GetCode(err))
	}
	// 本人可以改
	updated, err := svc.UpdateItem(users["U3"], request.UpdateOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, ItemId: item.Uuid, Quantity: &qty,
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Subtotal != "45.00" {
		t.Errorf("小计应为 45.00，实际 %s", updated.Subtotal)
	}

	// confirmed 之后普通成员连本人的条目也不能改
	if _, err = svc.UpdateStatus(users["U2"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderConfirmed,
	}); err != nil {
		t.Fatal(err)
	}
	_, err = svc.AddItem(users["U3"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, Name: "可乐", Price: price,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("confirmed 状态成员加菜应被拒绝，实际 %d", errorx.GetCode(err))
	}
	if err = svc.DeleteItem(users["U3"], "G1", ord.Uuid, item.Uuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("confirmed 状态成员删菜应被拒绝，实际 %d", errorx.GetCode(err))
	}
	// 发起人仍然可以改
	if _, err = svc.AddItem(users["U2"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, Name: "可乐", Price: price,
	}); err != nil {
		t.Fatalf("confirmed 状态发起人应能加菜: %v", err)
	}

	// ordered 之后任何人都不能改
	if _, err = svc.UpdateStatus(users["U2"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderOrdered,
	}); err != nil {
		t.Fatal(err)
	}
	_, err = svc.AddItem(users["U2"], request.AddOrderItemRequest{
		GroupId: "G1", OrderId: ord.Uuid, Name: "雪碧", Price: price,
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("ordered 状态加菜应返回参数错误码，实际 %d", errorx.GetCode(err))
	}
}

// 测试结算后菜品沉淀到餐厅菜单
func TestDishUpsertAfterFinish(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	restaurant := &model.Restaurant{Uuid: "R1", GroupUuid: "G1", Name: "兰州拉面"}
	if err := repos.Restaurant.Create(restaurant); err != nil {
		t.Fatal(err)
	}
	existing := &model.Dish{Uuid: "D1", RestaurantUuid: "R1", Name: "牛肉面", Price: decimal.RequireFromString("12.00")}
	if err := repos.Dish.Create(existing); err != nil {
		t.Fatal(err)
	}

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1", RestaurantId: "R1"})
	if err != nil {
		t.Fatal(err)
	}
	addItem(t, repos, ord.Uuid, "U1", "牛肉面", "13.00", 1) // 涨价了
	addItem(t, repos, ord.Uuid, "U2", "凉皮", "8.00", 1)   // 新菜

	for _, status := range []string{model.OrderConfirmed, model.OrderOrdered, model.OrderFinished} {
		if _, err = svc.UpdateStatus(users["U1"], request.UpdateOrderStatusRequest{
			GroupId: "G1", OrderId: ord.Uuid, Status: status,
		}); err != nil {
			t.Fatal(err)
		}
	}

	dish, err := repos.Dish.FindByRestaurantAndName("R1", "牛肉面")
	if err != nil {
		t.Fatal(err)
	}
	if dish.Price.StringFixed(2) != "13.00" {
		t.Errorf("已有菜品价格应更新为 13.00，实际 %s", dish.Price.StringFixed(2))
	}
	if _, err = repos.Dish.FindByRestaurantAndName("R1", "凉皮"); err != nil {
		t.Errorf("新菜品应被创建: %v", err)
	}
}

// 测试拼单详情合计
func TestOrderDetailTotal(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewOrderService(repos, nopCache{})

	ord, err := svc.CreateOrder(users["U1"], request.CreateOrderRequest{GroupId: "G1"})
	if err != nil {
		t.Fatal(err)
	}
	addItem(t, repos, ord.Uuid, "U1", "烤鸭", "44.50", 1)
	addItem(t, repos, ord.Uuid, "U3", "米饭", "2.00", 3)

	detail, err := svc.GetOrderDetail(users["U3"], "G1", ord.Uuid)
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Items) != 2 {
		t.Fatalf("应有 2 条点餐条目，实际 %d", len(detail.Items))
	}
	if detail.TotalAmount != "50.50" {
		t.Errorf("合计应为 50.50，实际 %s", detail.TotalAmount)
	}

	// 非成员不可见
	outsider := &model.UserInfo{Uuid: "U9", Email: "u9@test.com"}
	if _, err = svc.GetOrderDetail(outsider, "G1", ord.Uuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("非成员查看详情应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 无进行中拼单时 GetActiveOrder 返回 nil
	active, err := svc.GetActiveOrder(users["U1"], "G1")
	if err != nil {
		t.Fatal(err)
	}
	if active == nil || active.Uuid != ord.Uuid {
		t.Error("应返回进行中的拼单")
	}
	if _, err = svc.UpdateStatus(users["U1"], request.UpdateOrderStatusRequest{
		GroupId: "G1", OrderId: ord.Uuid, Status: model.OrderCancelled,
	}); err != nil {
		t.Fatal(err)
	}
	active, err = svc.GetActiveOrder(users["U1"], "G1")
	if err != nil {
		t.Fatal(err)
	}
	if active != nil {
		t.Error("取消后不应再有进行中拼单")
	}
}
