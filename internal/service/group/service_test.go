package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"dingcan_server/internal/dao/mysql/repository"
	"dingcan_server/internal/dao/mysql/repository/memory"
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/infrastructure/email"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service/guard"
	"dingcan_server/pkg/constants"
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

// recordDispatcher 记录投递的邀请邮件
type recordDispatcher struct {
	mails []email.InvitationMail
}

func (d *recordDispatcher) Dispatch(mail email.InvitationMail) { d.mails = append(d.mails, mail) }
func (d *recordDispatcher) Close()                             {}

func newTestService(t *testing.T) (*groupService, *repository.Repositories, *recordDispatcher) {
	t.Helper()
	repos := memory.NewRepositories()
	dispatcher := &recordDispatcher{}
	return NewGroupService(repos, nopCache{}, dispatcher), repos, dispatcher
}

func addUser(t *testing.T, repos *repository.Repositories, uuid string) *model.UserInfo {
	t.Helper()
	u := &model.UserInfo{Uuid: uuid, Email: uuid + "@test.com", FullName: "用户" + uuid}
	if err := repos.User.Create(u); err != nil {
		t.Fatal(err)
	}
	return u
}

// 测试创建群组：创建者成为群主并获得 admin 权限预设
func TestCreateGroup(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")

	rsp, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "周五拼饭"})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.OwnerId != "U1" || rsp.MemberCnt != 1 {
		t.Errorf("群主与人数不正确: %+v", rsp)
	}

	member, err := repos.GroupMember.FindByGroupAndUser(rsp.Uuid, "U1")
	if err != nil {
		t.Fatalf("创建者应自动成为成员: %v", err)
	}
	if member.Role != model.RoleAdmin {
		t.Errorf("群主角色应为 admin，实际 %s", member.Role)
	}
	perms, err := repos.Permission.FindByMemberUuid(member.Uuid)
	if err != nil || len(perms) != 5 {
		t.Errorf("群主应有 5 行权限预设，实际 %d", len(perms))
	}
}

// 测试群组数量配额：普通用户最多 5 个，站点管理员不受限
func TestCreateGroupQuota(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")

	for i := 0; i < constants.MAX_GROUPS_PER_USER; i++ {
		if _, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: fmt.Sprintf("群%d", i)}); err != nil {
			t.Fatal(err)
		}
	}
	_, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "超额群"})
	if errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("超过配额应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}

	siteAdmin := &model.UserInfo{Uuid: "U8", Email: "u8@test.com", IsAdmin: 1}
	if err := repos.User.Create(siteAdmin); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < constants.MAX_GROUPS_PER_USER+1; i++ {
		if _, err := svc.CreateGroup(siteAdmin, request.CreateGroupRequest{Name: fmt.Sprintf("管理群%d", i)}); err != nil {
			t.Fatalf("站点管理员不应受配额限制: %v", err)
		}
	}
}

// 测试成员管理：添加、角色预设、人数上限
func TestAddMember(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}

	u2 := addUser(t, repos, "U2")
	rsp, err := svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U2", Role: model.RoleSupervisorMember})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Role != model.RoleSupervisorMember {
		t.Errorf("角色应为 supervisor_member，实际 %s", rsp.Role)
	}
	if rsp.Permissions[model.ResourceOrders] != model.ScopeInitiator {
		t.Errorf("supervisor_member 对 orders 应为 initiator，实际 %s", rsp.Permissions[model.ResourceOrders])
	}

	// 重复添加
	if _, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U2"}); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("重复添加应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}

	// 普通成员没有 members editor 权限
	u3 := addUser(t, repos, "U3")
	if _, err = svc.AddMember(u3, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U3"}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("非成员添加成员应被拒绝，实际 %d", errorx.GetCode(err))
	}
	if _, err = svc.AddMember(u2, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U3"}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("members viewer 添加成员应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 未知用户与未知角色
	if _, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U99"}); errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Errorf("未知用户应返回用户不存在错误码，实际 %d", errorx.GetCode(err))
	}
	if _, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U3", Role: "owner"}); errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("未知角色应返回参数错误，实际 %d", errorx.GetCode(err))
	}
}

// 测试群成员人数上限
func TestMemberCap(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "大群"})
	if err != nil {
		t.Fatal(err)
	}

	for i := 2; i <= constants.MAX_GROUP_MEMBERS; i++ {
		uuid := fmt.Sprintf("U%d", i)
		addUser(t, repos, uuid)
		if _, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: uuid}); err != nil {
			t.Fatalf("第 %d 个成员加入失败: %v", i, err)
		}
	}
	overflow := addUser(t, repos, "U100")
	_, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: overflow.Uuid})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("超过人数上限应返回参数错误码，实际 %d", errorx.GetCode(err))
	}
}

// 测试添加成员时附带单项覆盖：覆盖优先于角色预设，一次调用生效
func TestAddMemberWithOverrides(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	addUser(t, repos, "U2")

	rsp, err := svc.AddMember(owner, request.AddMemberRequest{
		GroupId: group.Uuid, UserId: "U2",
		Permissions: map[string]string{model.ResourceOrders: model.ScopeEditor},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Permissions[model.ResourceOrders] != model.ScopeEditor {
		t.Errorf("覆盖应优先于预设，orders 应为 editor，实际 %s", rsp.Permissions[model.ResourceOrders])
	}
	if rsp.Permissions[model.ResourceRestaurants] != model.ScopeViewer {
		t.Errorf("未覆盖的资源应保持预设，restaurants 应为 viewer，实际 %s", rsp.Permissions[model.ResourceRestaurants])
	}
	member, _ := repos.GroupMember.FindByGroupAndUser(group.Uuid, "U2")
	perms, _ := repos.Permission.FindByMemberUuid(member.Uuid)
	if level, _ := guard.PermissionLevel(perms, model.ResourceOrders); level != model.ScopeEditor {
		t.Errorf("覆盖应落库，orders 应为 editor，实际 %s", level)
	}

	// 非法覆盖项整体拒绝，不产生成员
	addUser(t, repos, "U3")
	_, err = svc.AddMember(owner, request.AddMemberRequest{
		GroupId: group.Uuid, UserId: "U3",
		Permissions: map[string]string{model.ResourceMembers: "initiator"},
	})
	if errorx.GetCode(err) != errorx.CodeInvalidParam {
		t.Errorf("非法覆盖级别应返回参数错误，实际 %d", errorx.GetCode(err))
	}
	if _, err = repos.GroupMember.FindByGroupAndUser(group.Uuid, "U3"); !errorx.IsNotFound(err) {
		t.Error("校验失败时不应创建成员")
	}
}

// 测试角色变更会重置之前的单项权限覆盖
func TestUpdateMemberRoleResetsOverrides(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	addUser(t, repos, "U2")
	if _, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U2"}); err != nil {
		t.Fatal(err)
	}

	// 单项覆盖：给 member 提升 orders 权限
	if err = svc.SetMemberPermission(owner, request.SetMemberPermissionRequest{
		GroupId: group.Uuid, UserId: "U2", ResourceType: model.ResourceOrders, Level: model.ScopeEditor,
	}); err != nil {
		t.Fatal(err)
	}
	member, _ := repos.GroupMember.FindByGroupAndUser(group.Uuid, "U2")
	perms, _ := repos.Permission.FindByMemberUuid(member.Uuid)
	if level, _ := guard.PermissionLevel(perms, model.ResourceOrders); level != model.ScopeEditor {
		t.Errorf("覆盖后 orders 应为 editor，实际 %s", level)
	}

	// 角色变更整体重置为新预设
	if err = svc.UpdateMemberRole(owner, request.UpdateMemberRoleRequest{
		GroupId: group.Uuid, UserId: "U2", Role: model.RoleSupervisorMember,
	}); err != nil {
		t.Fatal(err)
	}
	perms, _ = repos.Permission.FindByMemberUuid(member.Uuid)
	if level, _ := guard.PermissionLevel(perms, model.ResourceOrders); level != model.ScopeInitiator {
		t.Errorf("角色变更后 orders 应回到预设 initiator，实际 %s", level)
	}

	// 角色变更可附带新覆盖，与预设重置同事务生效
	if err = svc.UpdateMemberRole(owner, request.UpdateMemberRoleRequest{
		GroupId: group.Uuid, UserId: "U2", Role: model.RoleMember,
		Permissions: map[string]string{model.ResourceBalances: model.ScopeViewer},
	}); err != nil {
		t.Fatal(err)
	}
	perms, _ = repos.Permission.FindByMemberUuid(member.Uuid)
	if level, _ := guard.PermissionLevel(perms, model.ResourceOrders); level != model.ScopeParticipant {
		t.Errorf("降级后 orders 应回到预设 participant，实际 %s", level)
	}
	if level, _ := guard.PermissionLevel(perms, model.ResourceBalances); level != model.ScopeViewer {
		t.Errorf("随角色变更附带的覆盖应生效，balances 应为 viewer，实际 %s", level)
	}

	// 群主不可被变更
	if err = svc.UpdateMemberRole(owner, request.UpdateMemberRoleRequest{
		GroupId: group.Uuid, UserId: "U1", Role: model.RoleMember,
	}); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("变更群主角色应被拒绝，实际 %d", errorx.GetCode(err))
	}
}

// 测试群主免疫权限变更：members editor 也不能降级群主
func TestSetMemberPermissionOwnerImmune(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	editor := addUser(t, repos, "U2")
	if _, err = svc.AddMember(owner, request.AddMemberRequest{
		GroupId: group.Uuid, UserId: "U2",
		Permissions: map[string]string{model.ResourceMembers: model.ScopeEditor},
	}); err != nil {
		t.Fatal(err)
	}

	// members editor 降级群主的 orders 权限被拒绝
	err = svc.SetMemberPermission(editor, request.SetMemberPermissionRequest{
		GroupId: group.Uuid, UserId: "U1", ResourceType: model.ResourceOrders, Level: model.ScopeParticipant,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("降级群主权限应被拒绝，实际 %d", errorx.GetCode(err))
	}
	ownerMember, _ := repos.GroupMember.FindByGroupAndUser(group.Uuid, "U1")
	perms, _ := repos.Permission.FindByMemberUuid(ownerMember.Uuid)
	if level, _ := guard.PermissionLevel(perms, model.ResourceOrders); level != model.ScopeEditor {
		t.Errorf("群主的 orders 权限应保持 editor，实际 %s", level)
	}

	// 群主自己也不能改自己的权限行
	err = svc.SetMemberPermission(owner, request.SetMemberPermissionRequest{
		GroupId: group.Uuid, UserId: "U1", ResourceType: model.ResourceOrders, Level: model.ScopeParticipant,
	})
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("群主不应是权限变更的目标，实际 %d", errorx.GetCode(err))
	}
}

// 测试移出成员：群主免疫、本人退群始终允许
func TestRemoveMember(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	u2 := addUser(t, repos, "U2")
	u3 := addUser(t, repos, "U3")
	for _, uuid := range []string{"U2", "U3"} {
		if _, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: uuid}); err != nil {
			t.Fatal(err)
		}
	}

	// 群主免疫移除
	if err = svc.RemoveMember(owner, group.Uuid, "U1"); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("群主退群应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}
	if err = svc.RemoveMember(u2, group.Uuid, "U1"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("移出群主应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 普通成员不能移出他人
	if err = svc.RemoveMember(u2, group.Uuid, "U3"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("普通成员移出他人应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 本人退群始终允许
	if err = svc.RemoveMember(u3, group.Uuid, "U3"); err != nil {
		t.Fatalf("本人退群应被允许: %v", err)
	}
	if _, err = repos.GroupMember.FindByGroupAndUser(group.Uuid, "U3"); !errorx.IsNotFound(err) {
		t.Error("退群后成员记录应被删除")
	}
	member, _ := repos.GroupMember.FindByGroupAndUser(group.Uuid, "U2")
	if perms, _ := repos.Permission.FindByMemberUuid(member.Uuid); len(perms) == 0 {
		t.Error("留群成员的权限行不应受影响")
	}
	g, _ := repos.Group.FindByUuid(group.Uuid)
	if g.MemberCnt != 2 {
		t.Errorf("退群后人数应为 2，实际 %d", g.MemberCnt)
	}

	// 群主（members editor）可以移出他人
	if err = svc.RemoveMember(owner, group.Uuid, "U2"); err != nil {
		t.Fatalf("群主移出成员应被允许: %v", err)
	}
}

// 测试邀请链路：创建、重复拒绝、接受入群、拒绝、过期
func TestInvitationFlow(t *testing.T) {
	svc, repos, dispatcher := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	invitee := addUser(t, repos, "U2")

	inv, err := svc.CreateInvitation(owner, request.CreateInvitationRequest{
		GroupId: group.Uuid, InviteeEmail: invitee.Email,
	})
	if err != nil {
		t.Fatal(err)
	}
	if inv.Status != model.InvitationPending || inv.Token == "" {
		t.Errorf("新邀请应为 pending 且带令牌: %+v", inv)
	}
	if len(dispatcher.mails) != 1 || dispatcher.mails[0].To != invitee.Email {
		t.Errorf("应投递一封邀请邮件，实际 %d", len(dispatcher.mails))
	}

	// 同邮箱重复邀请被拒绝
	if _, err = svc.CreateInvitation(owner, request.CreateInvitationRequest{
		GroupId: group.Uuid, InviteeEmail: invitee.Email,
	}); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("重复邀请应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}

	// 他人不能用别人的邀请令牌
	stranger := addUser(t, repos, "U3")
	if _, err = svc.AcceptInvitation(stranger, inv.Token); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("他人接受邀请应被拒绝，实际 %d", errorx.GetCode(err))
	}

	// 被邀请人接受后入群，角色为 member
	rsp, err := svc.AcceptInvitation(invitee, inv.Token)
	if err != nil {
		t.Fatal(err)
	}
	if rsp.Uuid != group.Uuid {
		t.Errorf("接受邀请应返回群组信息，实际 %+v", rsp)
	}
	member, err := repos.GroupMember.FindByGroupAndUser(group.Uuid, "U2")
	if err != nil {
		t.Fatalf("接受后应成为成员: %v", err)
	}
	if member.Role != model.RoleMember {
		t.Errorf("邀请入群角色应为 member，实际 %s", member.Role)
	}

	// 令牌一次性：再次接受返回已处理
	if _, err = svc.AcceptInvitation(invitee, inv.Token); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("已处理的邀请应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}

	// 已是成员的邮箱不能再被邀请
	if _, err = svc.CreateInvitation(owner, request.CreateInvitationRequest{
		GroupId: group.Uuid, InviteeEmail: invitee.Email,
	}); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("邀请已有成员应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}
}

// 测试过期邀请：接受时落库为 expired
func TestInvitationExpiry(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	invitee := addUser(t, repos, "U2")

	expired := &model.GroupInvitation{
		Uuid:         "I001",
		GroupUuid:    group.Uuid,
		InviterUuid:  "U1",
		InviteeEmail: invitee.Email,
		Token:        "expired-token",
		Status:       model.InvitationPending,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	if err = repos.Invitation.Create(expired); err != nil {
		t.Fatal(err)
	}

	if _, err = svc.AcceptInvitation(invitee, "expired-token"); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("过期邀请应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}
	stored, err := repos.Invitation.FindByToken("expired-token")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != model.InvitationExpired {
		t.Errorf("过期邀请应落库为 expired，实际 %s", stored.Status)
	}
	if _, err = repos.GroupMember.FindByGroupAndUser(group.Uuid, "U2"); !errorx.IsNotFound(err) {
		t.Error("过期邀请不应使用户入群")
	}
}

// 测试拒绝邀请：只要求令牌存在且待处理，不校验邮箱与过期时间
func TestDeclineInvitation(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	invitee := addUser(t, repos, "U2")

	inv, err := svc.CreateInvitation(owner, request.CreateInvitationRequest{
		GroupId: group.Uuid, InviteeEmail: invitee.Email,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err = svc.DeclineInvitation(invitee, inv.Token); err != nil {
		t.Fatal(err)
	}
	stored, _ := repos.Invitation.FindByToken(inv.Token)
	if stored.Status != model.InvitationDeclined {
		t.Errorf("拒绝后状态应为 declined，实际 %s", stored.Status)
	}
	if _, err = repos.GroupMember.FindByGroupAndUser(group.Uuid, "U2"); !errorx.IsNotFound(err) {
		t.Error("拒绝邀请不应使用户入群")
	}

	// 已处理的令牌不能重复拒绝
	if err = svc.DeclineInvitation(invitee, inv.Token); errorx.GetCode(err) != errorx.CodeConflict {
		t.Errorf("重复拒绝应返回冲突错误码，实际 %d", errorx.GetCode(err))
	}

	// 邮箱不匹配、甚至已过期的待处理邀请也可以拒绝
	other := addUser(t, repos, "U3")
	expired := &model.GroupInvitation{
		Uuid:         "I002",
		GroupUuid:    group.Uuid,
		InviterUuid:  "U1",
		InviteeEmail: "someone-else@test.com",
		Token:        "stale-token",
		Status:       model.InvitationPending,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	if err = repos.Invitation.Create(expired); err != nil {
		t.Fatal(err)
	}
	if err = svc.DeclineInvitation(other, "stale-token"); err != nil {
		t.Fatalf("待处理邀请应可被拒绝: %v", err)
	}
	stored, _ = repos.Invitation.FindByToken("stale-token")
	if stored.Status != model.InvitationDeclined {
		t.Errorf("拒绝后状态应为 declined，实际 %s", stored.Status)
	}

	// 不存在的令牌
	if err = svc.DeclineInvitation(other, "no-such-token"); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("未知令牌应返回不存在错误码，实际 %d", errorx.GetCode(err))
	}
}

// 测试绑定了用户的邀请只能由本人接受
func TestAcceptInvitationBoundInvitee(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	addUser(t, repos, "U2")
	// 邀请绑定了 U2，但邮箱恰好是 U3 的
	impostor := addUser(t, repos, "U3")
	inv := &model.GroupInvitation{
		Uuid:         "I003",
		GroupUuid:    group.Uuid,
		InviterUuid:  "U1",
		InviteeEmail: impostor.Email,
		InviteeUuid:  sql.NullString{String: "U2", Valid: true},
		Token:        "bound-token",
		Status:       model.InvitationPending,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	if err = repos.Invitation.Create(inv); err != nil {
		t.Fatal(err)
	}

	if _, err = svc.AcceptInvitation(impostor, "bound-token"); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("非绑定用户接受邀请应被拒绝，实际 %d", errorx.GetCode(err))
	}
	if _, err = repos.GroupMember.FindByGroupAndUser(group.Uuid, "U3"); !errorx.IsNotFound(err) {
		t.Error("被拒绝的接受不应使用户入群")
	}
}

// 测试解散群组：清理成员与权限行
func TestDismissGroup(t *testing.T) {
	svc, repos, _ := newTestService(t)
	owner := addUser(t, repos, "U1")
	group, err := svc.CreateGroup(owner, request.CreateGroupRequest{Name: "拼饭群"})
	if err != nil {
		t.Fatal(err)
	}
	u2 := addUser(t, repos, "U2")
	if _, err = svc.AddMember(owner, request.AddMemberRequest{GroupId: group.Uuid, UserId: "U2"}); err != nil {
		t.Fatal(err)
	}

	// 非群主不能解散
	if err = svc.DismissGroup(u2, group.Uuid); errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("非群主解散应被拒绝，实际 %d", errorx.GetCode(err))
	}

	if err = svc.DismissGroup(owner, group.Uuid); err != nil {
		t.Fatal(err)
	}
	if _, err = svc.GetGroupInfo(owner, group.Uuid); errorx.GetCode(err) != errorx.CodeNotFound {
		t.Errorf("解散后的群组应不可见，实际 %d", errorx.GetCode(err))
	}
	members, _ := repos.GroupMember.FindByGroupUuid(group.Uuid)
	if len(members) != 0 {
		t.Errorf("解散后成员应被清理，实际 %d", len(members))
	}
}
