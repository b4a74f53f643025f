package guard

import (
	"testing"

	"dingcan_server/internal/model"
	"dingcan_server/pkg/errorx"
)

func memberWithRole(userUuid, role string) (*model.GroupMember, []model.GroupMemberPermission) {
	m := &model.GroupMember{Uuid: "M001", GroupUuid: "G001", UserUuid: userUuid, Role: role}
	return m, PresetFor(role, m.Uuid)
}

// 测试角色预设的权限矩阵
func TestPresetFor(t *testing.T) {
	_, adminPerms := memberWithRole("U001", model.RoleAdmin)
	if len(adminPerms) != 5 {
		t.Fatalf("admin 预设应有 5 行权限，实际 %d", len(adminPerms))
	}
	level, ok := PermissionLevel(adminPerms, model.ResourceOrders)
	if !ok || level != model.ScopeEditor {
		t.Errorf("admin 对 orders 应为 editor，实际 %s", level)
	}

	_, supPerms := memberWithRole("U002", model.RoleSupervisorMember)
	level, ok = PermissionLevel(supPerms, model.ResourceOrders)
	if !ok || level != model.ScopeInitiator {
		t.Errorf("supervisor_member 对 orders 应为 initiator，实际 %s", level)
	}

	_, memPerms := memberWithRole("U003", model.RoleMember)
	if _, ok := PermissionLevel(memPerms, model.ResourceMembers); ok {
		t.Error("member 对 members 资源不应有权限行")
	}
	if _, ok := PermissionLevel(memPerms, model.ResourceBalances); ok {
		t.Error("member 对 balances 资源不应有权限行")
	}
	level, ok = PermissionLevel(memPerms, model.ResourceRestaurants)
	if !ok || level != model.ScopeViewer {
		t.Errorf("member 对 restaurants 应为 viewer，实际 %s", level)
	}
}

// 测试非成员被拒绝
func TestAuthorizeNotMember(t *testing.T) {
	user := &model.UserInfo{Uuid: "U001"}
	err := Authorize(user, nil, nil, model.ResourceOrders, model.ScopeViewer)
	if err == nil {
		t.Fatal("非成员应被拒绝")
	}
	if errorx.GetCode(err) != errorx.CodeForbidden {
		t.Errorf("期望错误码 %d，实际 %d", errorx.CodeForbidden, errorx.GetCode(err))
	}
}

// 测试站点管理员绕过所有检查
func TestAuthorizeSiteAdmin(t *testing.T) {
	admin := &model.UserInfo{Uuid: "U001", IsAdmin: 1}
	if err := Authorize(admin, nil, nil, model.ResourceBalances, model.ScopeEditor); err != nil {
		t.Errorf("站点管理员应放行，实际 %v", err)
	}
	if !CanMutateItem(admin, nil, nil, "U999") {
		t.Error("站点管理员应可改动任意点餐记录")
	}
}

// 测试缺权限行与级别不匹配
func TestAuthorizeLevels(t *testing.T) {
	user := &model.UserInfo{Uuid: "U003"}
	member, perms := memberWithRole("U003", model.RoleMember)

	// member 没有 balances 权限行
	if err := Authorize(user, member, perms, model.ResourceBalances, model.ScopeViewer); err == nil {
		t.Error("缺权限行应被拒绝")
	}
	// participant 不在 allowed 列表内
	if err := Authorize(user, member, perms, model.ResourceOrders, model.ScopeEditor, model.ScopeInitiator); err == nil {
		t.Error("participant 不应通过 editor/initiator 检查")
	}
	// participant 在 allowed 列表内
	if err := Authorize(user, member, perms, model.ResourceOrders, model.ScopeParticipant); err != nil {
		t.Errorf("participant 应通过 participant 检查，实际 %v", err)
	}
}

// 测试点餐记录改动判定
func TestCanMutateItem(t *testing.T) {
	user := &model.UserInfo{Uuid: "U003"}
	member, perms := memberWithRole("U003", model.RoleMember)

	if !CanMutateItem(user, member, perms, "U003") {
		t.Error("本人记录应可改动")
	}
	if CanMutateItem(user, member, perms, "U004") {
		t.Error("普通成员不应能改动他人记录")
	}

	editor := &model.UserInfo{Uuid: "U001"}
	editorMember, editorPerms := memberWithRole("U001", model.RoleAdmin)
	if !CanMutateItem(editor, editorMember, editorPerms, "U004") {
		t.Error("orders editor 应可改动他人记录")
	}
}

// 测试资源与级别合法性校验
func TestValidators(t *testing.T) {
	if !ValidRole(model.RoleSupervisorMember) || ValidRole("owner") {
		t.Error("角色合法性判断错误")
	}
	if !ValidResourceType(model.ResourceAnalytics) || ValidResourceType("files") {
		t.Error("资源类型合法性判断错误")
	}
	if !ValidLevel(model.ResourceOrders, model.ScopeInitiator) {
		t.Error("orders 应接受 initiator 级别")
	}
	if ValidLevel(model.ResourceMembers, model.ScopeInitiator) {
		t.Error("members 不应接受 initiator 级别")
	}
	if !ValidLevel(model.ResourceMembers, model.ScopeViewer) {
		t.Error("members 应接受 viewer 级别")
	}
}
