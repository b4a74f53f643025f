// Package guard 群组资源权限判定
// 站点管理员绕过所有检查；非成员一律拒绝；
// 其余按成员权限行（角色预设 + 单项覆盖）判定
package guard

import (
	"dingcan_server/internal/dao/mysql/repository"
	"dingcan_server/internal/model"
	"dingcan_server/pkg/errorx"
)

// PermissionLevel 查找成员在某资源上的权限级别
// 缺行返回 ("", false)，表示该成员对此资源无任何权限
func PermissionLevel(perms []model.GroupMemberPermission, resourceType string) (string, bool) {
	for _, p := range perms {
		if p.ResourceType == resourceType {
			return p.Level, true
		}
	}
	return "", false
}

// Authorize 判定用户是否能以 allowed 中任一级别访问资源
// user 为站点管理员时直接放行；member 为 nil 表示非群组成员
func Authorize(user *model.UserInfo, member *model.GroupMember, perms []model.GroupMemberPermission, resourceType string, allowed ...string) error {
	if user != nil && user.IsSiteAdmin() {
		return nil
	}
	if member == nil {
		return errorx.ErrNotMember
	}
	level, ok := PermissionLevel(perms, resourceType)
	if !ok {
		return errorx.New(errorx.CodeForbidden, "您没有访问该资源的权限")
	}
	for _, a := range allowed {
		if level == a {
			return nil
		}
	}
	return errorx.New(errorx.CodeForbidden, "您的权限不足")
}

// CanMutateItem 判定用户能否改动某条点餐记录
// 本人记录可改；否则需要 orders 资源的 editor 权限；站点管理员放行
func CanMutateItem(user *model.UserInfo, member *model.GroupMember, perms []model.GroupMemberPermission, itemOwnerUuid string) bool {
	if user != nil && user.IsSiteAdmin() {
		return true
	}
	if member == nil {
		return false
	}
	if member.UserUuid == itemOwnerUuid {
		return true
	}
	level, ok := PermissionLevel(perms, model.ResourceOrders)
	return ok && level == model.ScopeEditor
}

// LoadMembership 加载用户在群组内的成员记录与权限行
// 非成员返回 (nil, nil, nil)，由调用方结合站点管理员标志决定放行与否
func LoadMembership(repos *repository.Repositories, groupUuid, userUuid string) (*model.GroupMember, []model.GroupMemberPermission, error) {
	member, err := repos.GroupMember.FindByGroupAndUser(groupUuid, userUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	perms, err := repos.Permission.FindByMemberUuid(member.Uuid)
	if err != nil {
		return nil, nil, err
	}
	return member, perms, nil
}
