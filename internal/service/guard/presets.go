package guard

import "dingcan_server/internal/model"

// RolePresets 角色权限预设
// 成员入群或角色变更时，预设整体落成权限行；之后可被单项覆盖
// member 角色没有 members/balances/analytics 行：缺行即无权限
var RolePresets = map[string]map[string]string{
	model.RoleAdmin: {
		model.ResourceMembers:     model.ScopeEditor,
		model.ResourceOrders:      model.ScopeEditor,
		model.ResourceBalances:    model.ScopeEditor,
		model.ResourceAnalytics:   model.ScopeViewer,
		model.ResourceRestaurants: model.ScopeEditor,
	},
	model.RoleSupervisorMember: {
		model.ResourceMembers:     model.ScopeViewer,
		model.ResourceOrders:      model.ScopeInitiator,
		model.ResourceBalances:    model.ScopeViewer,
		model.ResourceAnalytics:   model.ScopeViewer,
		model.ResourceRestaurants: model.ScopeViewer,
	},
	model.RoleMember: {
		model.ResourceOrders:      model.ScopeParticipant,
		model.ResourceRestaurants: model.ScopeViewer,
	},
}

// PresetFor 返回角色对应的权限行（未知角色返回空预设）
// memberUuid: 权限行归属的成员记录
func PresetFor(role, memberUuid string) []model.GroupMemberPermission {
	preset := RolePresets[role]
	perms := make([]model.GroupMemberPermission, 0, len(preset))
	for resourceType, level := range preset {
		perms = append(perms, model.GroupMemberPermission{
			MemberUuid:   memberUuid,
			ResourceType: resourceType,
			Level:        level,
		})
	}
	return perms
}

// PresetWithOverrides 以角色预设为底叠加单项覆盖后生成权限行
// 同一资源上覆盖项优先于预设项
func PresetWithOverrides(role, memberUuid string, overrides map[string]string) []model.GroupMemberPermission {
	merged := make(map[string]string, len(RolePresets[role])+len(overrides))
	for resourceType, level := range RolePresets[role] {
		merged[resourceType] = level
	}
	for resourceType, level := range overrides {
		merged[resourceType] = level
	}
	perms := make([]model.GroupMemberPermission, 0, len(merged))
	for resourceType, level := range merged {
		perms = append(perms, model.GroupMemberPermission{
			MemberUuid:   memberUuid,
			ResourceType: resourceType,
			Level:        level,
		})
	}
	return perms
}

// ValidRole 角色是否合法
func ValidRole(role string) bool {
	_, ok := RolePresets[role]
	return ok
}

// ValidResourceType 资源类型是否合法
func ValidResourceType(resourceType string) bool {
	switch resourceType {
	case model.ResourceMembers, model.ResourceOrders, model.ResourceBalances,
		model.ResourceAnalytics, model.ResourceRestaurants:
		return true
	}
	return false
}

// ValidLevel 权限级别对资源类型是否合法
// orders 资源为 editor/initiator/participant 三级，其余为 editor/viewer
func ValidLevel(resourceType, level string) bool {
	if resourceType == model.ResourceOrders {
		return level == model.ScopeEditor || level == model.ScopeInitiator || level == model.ScopeParticipant
	}
	return level == model.ScopeEditor || level == model.ScopeViewer
}
