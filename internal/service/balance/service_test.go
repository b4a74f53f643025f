package balance

import (
	"context"
	"errors"
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

// seedGroup 准备一个群组：U1 群主(admin)、U2 supervisor_member、U3 member
func seedGroup(t *testing.T) (*repository.Repositories, map[string]*model.UserInfo) {
	t.Helper()
	repos := memory.NewRepositories()
	users := make(map[string]*model.UserInfo)
	roles := map[string]string{
		"U1": model.RoleAdmin,
		"U2": model.RoleSupervisorMember,
		"U3": model.RoleMember,
	}
	for _, uuid := range []string{"U1", "U2", "U3"} {
		u := &model.UserInfo{Uuid: uuid, Email: uuid + "@test.com", FullName: "用户" + uuid}
		if err := repos.User.Create(u); err != nil {
			t.Fatal(err)
		}
		users[uuid] = u
	}
	group := &model.GroupInfo{Uuid: "G1", Name: "午饭群", OwnerId: "U1", MemberCnt: 3}
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

// 测试手工调整余额：不论正负都记 manual 流水，成对写入
func TestAdjustBalance(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewBalanceService(repos, nopCache{})

	rsp, err := svc.AdjustBalance(users["U1"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U3", Amount: decimal.RequireFromString("50.00"), Note: "充饭卡",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Amount != "50.00" {
		t.Errorf("余额应为 50.00，实际 %s", rsp.Amount)
	}

	rsp, err = svc.AdjustBalance(users["U1"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U3", Amount: decimal.RequireFromString("-20.00"), Note: "误充冲正",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Amount != "30.00" {
		t.Errorf("余额应为 30.00，实际 %s", rsp.Amount)
	}

	account, err := repos.Balance.FindByGroupAndUser("G1", "U3")
	if err != nil {
		t.Fatal(err)
	}
	histories, err := repos.BalanceHistory.FindByBalanceUuid(account.Uuid)
	if err != nil {
		t.Fatal(err)
	}
	if len(histories) != 2 {
		t.Fatalf("应有 2 条流水，实际 %d", len(histories))
	}
	sum := decimal.Zero
	for _, h := range histories {
		sum = sum.Add(h.ChangeAmount)
		if h.ChangeType != model.ChangeTypeManual {
			t.Errorf("人工调整流水类型应为 manual，实际 %s", h.ChangeType)
		}
		if !h.CreatedByUuid.Valid || h.CreatedByUuid.String != "U1" {
			t.Error("人工调整流水应记录操作人")
		}
	}
	// 不变式：余额等于流水变动之和
	if !sum.Equal(account.Amount) {
		t.Errorf("余额 %s 应等于流水之和 %s", account.Amount, sum)
	}
}

// 测试调整余额的权限与参数校验
func TestAdjustBalanceGuards(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewBalanceService(repos, nopCache{})
	amount := decimal.RequireFromString("10.00")

	// member 没有 balances 权限行
	_, err := svc.AdjustBalance(users["U3"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U2", Amount: amount,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("member 调整余额应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// supervisor_member 只有 viewer
	_, err = svc.AdjustBalance(users["U2"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U3", Amount: amount,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("viewer 调整余额应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 非成员
	outsider := &model.UserInfo{Uuid: "U9", Email: "u9@test.com"}
	_, err = svc.AdjustBalance(outsider, request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U3", Amount: amount,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("非成员调整余额应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 目标不是群组成员
	_, err = svc.AdjustBalance(users["U1"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U9", Amount: amount,
	})
	if errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("目标非成员应返回不存在错误码，实际 %d", errorx.GetCode(err))
	}

	// 零金额
	_, err = svc.AdjustBalance(users["U1"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U3", Amount: decimal.Zero,
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("零金额应返回参数错误，实际 %d", errorx.GetCode(err))
	}

	// 以上失败路径都不应留下流水
	balances, _ := repos.Balance.FindByGroupUuid("G1")
	if len(balances) != 0 {
		t.Errorf("失败的调整不应创建余额账户，实际 %d 个", len(balances))
	}
}

// 测试本人余额查看：无账户时返回零值
func TestGetMyBalance(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewBalanceService(repos, nopCache{})

	rsp, err := svc.GetMyBalance(users["U3"], "G1")
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Amount != "0.00" {
		t.Errorf("无账户时余额应为 0.00，实际 %s", rsp.Amount)
	}

	if _, err = svc.AdjustBalance(users["U1"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U3", Amount: decimal.RequireFromString("25.00"),
	}); err != nil {
		t.Fatal(err)
	}
	rsp, err = svc.GetMyBalance(users["U3"], "G1")
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Amount != "25.00" {
		t.Errorf("余额应为 25.00，实际 %s", rsp.Amount)
	}

	outsider := &model.UserInfo{Uuid: "U9", Email: "u9@test.com"}
	if _, err = svc.GetMyBalance(outsider, "G1"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("非成员查余额应被拒绝，实际 %d", errorx.GetCode(err))
	}
}

// 测试流水查看权限：本人始终可看，他人流水需要 balances viewer
func TestGetBalanceHistory(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewBalanceService(repos, nopCache{})

	if _, err := svc.AdjustBalance(users["U1"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U3", Amount: decimal.RequireFromString("30.00"),
	}); err != nil {
		t.Fatal(err)
	}

	// 本人查看自己的流水
	histories, err := svc.GetBalanceHistory(users["U3"], "G1", "U3")
	if err != nil {
		t.Fatal(err)
	}
	if len(histories) != 1 {
		t.Fatalf("应有 1 条流水，实际 %d", len(histories))
	}
	if histories[0].ChangeAmount != "30.00" || histories[0].BalanceAfter != "30.00" {
		t.Errorf("流水金额不正确: %+v", histories[0])
	}

	// member 查看他人流水被拒绝
	if _, err = svc.GetBalanceHistory(users["U3"], "G1", "U1"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("member 查他人流水应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// supervisor_member (viewer) 可以查看他人流水，无账户时为空列表
	histories, err = svc.GetBalanceHistory(users["U2"], "G1", "U1")
	if err != nil {
		t.Fatal(err)
	}
	if len(histories) != 0 {
		t.Errorf("无账户成员流水应为空，实际 %d", len(histories))
	}
}

// 测试全员余额查看权限
func TestGetGroupBalances(t *testing.T) {
	repos, users := seedGroup(t)
	svc := NewBalanceService(repos, nopCache{})

	if _, err := svc.AdjustBalance(users["U1"], request.AdjustBalanceRequest{
		GroupId: "G1", UserId: "U2", Amount: decimal.RequireFromString("40.00"),
	}); err != nil {
		t.Fatal(err)
	}

	// viewer 可以看
	balances, err := svc.GetGroupBalances(users["U2"], "G1")
	if err != nil {
		t.Fatal(err)
	}
	if len(balances) != 1 || balances[0].Amount != "40.00" {
		t.Errorf("全员余额不正确: %+v", balances)
	}
	if balances[0].FullName != "用户U2" {
		t.Errorf("应带出用户姓名，实际 %q", balances[0].FullName)
	}

	// member 没有 balances 权限行
	if _, err = svc.GetGroupBalances(users["U3"], "G1"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("member 查全员余额应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 站点管理员绕过权限
	siteAdmin := &model.UserInfo{Uuid: "U8", Email: "u8@test.com", IsAdmin: 1}
	if _, err = svc.GetGroupBalances(siteAdmin, "G1"); err != nil {
		t.Errorf("站点管理员应能查看全员余额: %v", err)
	}
}
