// Package group 群组业务逻辑
// 覆盖群组生命周期、成员与角色管理、邮件邀请
package group

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dingcan_server/internal/dao/mysql/repository"
	myredis "dingcan_server/internal/dao/redis"
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/dto/respond"
	"dingcan_server/internal/infrastructure/email"
	"dingcan_server/internal/infrastructure/mq"
	"dingcan_server/internal/model"
	"dingcan_server/internal/service/guard"
	"dingcan_server/pkg/constants"
	"dingcan_server/pkg/errorx"
	"dingcan_server/pkg/util/random"
)

type groupService struct {
	repos      *repository.Repositories
	cache      myredis.AsyncCacheService
	dispatcher mq.InvitationDispatcher
}

// NewGroupService 创建群组 Service 实例
func NewGroupService(repos *repository.Repositories, cache myredis.AsyncCacheService, dispatcher mq.InvitationDispatcher) *groupService {
	return &groupService{repos: repos, cache: cache, dispatcher: dispatcher}
}

// CreateGroup 创建群组
// 创建者自动成为群主，角色 admin；非站点管理员最多创建 MAX_GROUPS_PER_USER 个群组
func (g *groupService) CreateGroup(actor *model.UserInfo, req request.CreateGroupRequest) (*respond.GroupInfoRespond, error) {
	if !actor.IsSiteAdmin() {
		cnt, err := g.repos.Group.CountByOwnerId(actor.Uuid)
		if err != nil {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		if cnt >= constants.MAX_GROUPS_PER_USER {
			return nil, errorx.Newf(errorx.CodeConflict, "最多只能创建 %d 个群组", constants.MAX_GROUPS_PER_USER)
		}
	}

	group := &model.GroupInfo{
		Uuid:      fmt.Sprintf("G%s", random.GetNowAndLenRandomString(13)),
		Name:      req.Name,
		Notice:    req.Notice,
		Avatar:    req.Avatar,
		OwnerId:   actor.Uuid,
		MemberCnt: 1,
	}
	err := g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Group.Create(group); err != nil {
			return err
		}
		member := &model.GroupMember{
			Uuid:      fmt.Sprintf("M%s", random.GetNowAndLenRandomString(13)),
			GroupUuid: group.Uuid,
			UserUuid:  actor.Uuid,
			Role:      model.RoleAdmin,
		}
		if err := tx.GroupMember.Create(member); err != nil {
			return err
		}
		return tx.Permission.ReplaceForMember(member.Uuid, guard.PresetFor(model.RoleAdmin, member.Uuid))
	})
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	g.invalidateMyGroups(actor.Uuid)
	return toGroupRespond(group), nil
}

// LoadMyGroups 加载我所在的群组列表
func (g *groupService) LoadMyGroups(actor *model.UserInfo) ([]respond.GroupInfoRespond, error) {
	// 先读缓存
	cacheKey := "my_group_list_" + actor.Uuid
	if cached, err := g.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var rsp []respond.GroupInfoRespond
		if err = json.Unmarshal([]byte(cached), &rsp); err == nil {
			return rsp, nil
		}
	}

	members, err := g.repos.GroupMember.FindByUserUuid(actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.GroupInfoRespond, 0, len(members))
	for _, m := range members {
		group, err := g.repos.Group.FindByUuid(m.GroupUuid)
		if err != nil {
			if errorx.IsNotFound(err) {
				continue // 群组已解散
			}
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
		rsp = append(rsp, *toGroupRespond(group))
	}

	// 异步写缓存
	g.cache.SubmitTask(func() {
		if data, err := json.Marshal(rsp); err == nil {
			_ = g.cache.Set(context.Background(), cacheKey, string(data), constants.REDIS_TIMEOUT*time.Minute)
		}
	})
	return rsp, nil
}

// GetGroupInfo 获取群组信息，要求成员身份
func (g *groupService) GetGroupInfo(actor *model.UserInfo, groupId string) (*respond.GroupInfoRespond, error) {
	group, err := g.findGroup(groupId)
	if err != nil {
		return nil, err
	}
	member, _, err := guard.LoadMembership(g.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}
	return toGroupRespond(group), nil
}

// UpdateGroupInfo 更新群组信息，需要 members editor 权限
func (g *groupService) UpdateGroupInfo(actor *model.UserInfo, req request.UpdateGroupInfoRequest) error {
	group, err := g.findGroup(req.GroupId)
	if err != nil {
		return err
	}
	member, perms, err := guard.LoadMembership(g.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceMembers, model.ScopeEditor); err != nil {
		return err
	}

	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Notice != "" {
		group.Notice = req.Notice
	}
	if req.Avatar != "" {
		group.Avatar = req.Avatar
	}
	if err = g.repos.Group.Update(group); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	g.invalidateGroup(req.GroupId)
	return nil
}

// DismissGroup 解散群组
// 仅群主或站点管理员可操作；成员与权限行一并清理
func (g *groupService) DismissGroup(actor *model.UserInfo, groupId string) error {
	group, err := g.findGroup(groupId)
	if err != nil {
		return err
	}
	if group.OwnerId != actor.Uuid && !actor.IsSiteAdmin() {
		return errorx.New(errorx.CodeForbidden, "只有群主可以解散群组")
	}

	members, err := g.repos.GroupMember.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	memberUuids := make([]string, 0, len(members))
	for _, m := range members {
		memberUuids = append(memberUuids, m.Uuid)
	}

	err = g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Permission.DeleteByMemberUuids(memberUuids); err != nil {
			return err
		}
		if err := tx.GroupMember.DeleteByGroupUuid(groupId); err != nil {
			return err
		}
		return tx.Group.SoftDeleteByUuid(groupId)
	})
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	g.invalidateGroup(groupId)
	for _, m := range members {
		g.invalidateMyGroups(m.UserUuid)
	}
	return nil
}

// GetGroupMemberList 获取群组成员列表（含角色与权限映射），要求成员身份
func (g *groupService) GetGroupMemberList(actor *model.UserInfo, groupId string) ([]respond.GroupMemberRespond, error) {
	if _, err := g.findGroup(groupId); err != nil {
		return nil, err
	}
	member, _, err := guard.LoadMembership(g.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}

	// 先读缓存
	cacheKey := "group_member_list_" + groupId
	if cached, err := g.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var rsp []respond.GroupMemberRespond
		if err = json.Unmarshal([]byte(cached), &rsp); err == nil {
			return rsp, nil
		}
	}

	members, err := g.repos.GroupMember.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	memberUuids := make([]string, 0, len(members))
	userUuids := make([]string, 0, len(members))
	for _, m := range members {
		memberUuids = append(memberUuids, m.Uuid)
		userUuids = append(userUuids, m.UserUuid)
	}
	users, err := g.repos.User.FindByUuids(userUuids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	userMap := make(map[string]model.UserInfo, len(users))
	for _, u := range users {
		userMap[u.Uuid] = u
	}
	permRows, err := g.repos.Permission.FindByMemberUuids(memberUuids)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	permMap := make(map[string]map[string]string, len(members))
	for _, p := range permRows {
		if permMap[p.MemberUuid] == nil {
			permMap[p.MemberUuid] = make(map[string]string)
		}
		permMap[p.MemberUuid][p.ResourceType] = p.Level
	}

	rsp := make([]respond.GroupMemberRespond, 0, len(members))
	for _, m := range members {
		u := userMap[m.UserUuid]
		perms := permMap[m.Uuid]
		if perms == nil {
			perms = map[string]string{}
		}
		rsp = append(rsp, respond.GroupMemberRespond{
			UserId:      m.UserUuid,
			FullName:    u.FullName,
			Email:       u.Email,
			Role:        m.Role,
			Permissions: perms,
		})
	}

	// 异步写缓存
	g.cache.SubmitTask(func() {
		if data, err := json.Marshal(rsp); err == nil {
			_ = g.cache.Set(context.Background(), cacheKey, string(data), constants.REDIS_TIMEOUT*time.Minute)
		}
	})
	return rsp, nil
}

// AddMember 直接添加成员，需要 members editor 权限
// 新成员按角色落权限预设，可附带单项覆盖一并生效；群成员数不超过 MAX_GROUP_MEMBERS
func (g *groupService) AddMember(actor *model.UserInfo, req request.AddMemberRequest) (*respond.GroupMemberRespond, error) {
	if _, err := g.findGroup(req.GroupId); err != nil {
		return nil, err
	}
	member, perms, err := guard.LoadMembership(g.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceMembers, model.ScopeEditor); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleMember
	}
	if !guard.ValidRole(role) {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知角色 %s", role)
	}
	if err = validatePermissionOverrides(req.Permissions); err != nil {
		return nil, err
	}

	target, err := g.repos.User.FindByUuid(req.UserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	newMember, err := g.joinGroup(req.GroupId, target.Uuid, role, req.Permissions)
	if err != nil {
		return nil, err
	}

	g.invalidateGroup(req.GroupId)
	g.invalidateMyGroups(target.Uuid)
	permissions := make(map[string]string)
	for _, p := range guard.PresetWithOverrides(newMember.Role, newMember.Uuid, req.Permissions) {
		permissions[p.ResourceType] = p.Level
	}
	return &respond.GroupMemberRespond{
		UserId:      target.Uuid,
		FullName:    target.FullName,
		Email:       target.Email,
		Role:        newMember.Role,
		Permissions: permissions,
	}, nil
}

// UpdateMemberRole 变更成员角色
// 权限行整体重置为新角色预设，之前的单项覆盖随之丢弃；
// 请求可附带新的单项覆盖，与角色变更在同一事务内生效
func (g *groupService) UpdateMemberRole(actor *model.UserInfo, req request.UpdateMemberRoleRequest) error {
	group, err := g.findGroup(req.GroupId)
	if err != nil {
		return err
	}
	member, perms, err := guard.LoadMembership(g.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceMembers, model.ScopeEditor); err != nil {
		return err
	}
	if !guard.ValidRole(req.Role) {
		return errorx.Newf(errorx.CodeInvalidParam, "未知角色 %s", req.Role)
	}
	if err = validatePermissionOverrides(req.Permissions); err != nil {
		return err
	}
	if group.OwnerId == req.UserId {
		return errorx.New(errorx.CodeForbidden, "不能变更群主")
	}

	target, err := g.repos.GroupMember.FindByGroupAndUser(req.GroupId, req.UserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "该用户不是群组成员")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	err = g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.GroupMember.UpdateRole(target.Uuid, req.Role); err != nil {
			return err
		}
		return tx.Permission.ReplaceForMember(target.Uuid, guard.PresetWithOverrides(req.Role, target.Uuid, req.Permissions))
	})
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	g.invalidateGroup(req.GroupId)
	return nil
}

// SetMemberPermission 单项覆盖成员权限，需要 members editor 权限
// 群主免疫任何权限变更
func (g *groupService) SetMemberPermission(actor *model.UserInfo, req request.SetMemberPermissionRequest) error {
	group, err := g.findGroup(req.GroupId)
	if err != nil {
		return err
	}
	member, perms, err := guard.LoadMembership(g.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if err = guard.Authorize(actor, member, perms, model.ResourceMembers, model.ScopeEditor); err != nil {
		return err
	}
	if !guard.ValidResourceType(req.ResourceType) {
		return errorx.Newf(errorx.CodeInvalidParam, "未知资源类型 %s", req.ResourceType)
	}
	if !guard.ValidLevel(req.ResourceType, req.Level) {
		return errorx.Newf(errorx.CodeInvalidParam, "资源 %s 不支持级别 %s", req.ResourceType, req.Level)
	}
	if group.OwnerId == req.UserId {
		return errorx.New(errorx.CodeForbidden, "不能变更群主")
	}

	target, err := g.repos.GroupMember.FindByGroupAndUser(req.GroupId, req.UserId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "该用户不是群组成员")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	if err = g.repos.Permission.Upsert(target.Uuid, req.ResourceType, req.Level); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	g.invalidateGroup(req.GroupId)
	return nil
}

// RemoveMember 移出成员
// 本人退群始终允许（群主除外，群主只能解散）；移出他人需要 members editor 权限；群主免疫移除
func (g *groupService) RemoveMember(actor *model.UserInfo, groupId, userId string) error {
	group, err := g.findGroup(groupId)
	if err != nil {
		return err
	}
	member, perms, err := guard.LoadMembership(g.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	if group.OwnerId == userId {
		if userId == actor.Uuid {
			return errorx.New(errorx.CodeConflict, "群主不能退出群组，请解散群组")
		}
		return errorx.New(errorx.CodeForbidden, "群主不能被移出群组")
	}
	if userId != actor.Uuid {
		if err = guard.Authorize(actor, member, perms, model.ResourceMembers, model.ScopeEditor); err != nil {
			return err
		}
	} else if member == nil {
		return errorx.ErrNotMember
	}

	target, err := g.repos.GroupMember.FindByGroupAndUser(groupId, userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "该用户不是群组成员")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	err = g.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Permission.DeleteByMemberUuid(target.Uuid); err != nil {
			return err
		}
		if err := tx.GroupMember.Delete(groupId, userId); err != nil {
			return err
		}
		return tx.Group.DecrementMemberCountBy(groupId, 1)
	})
	if err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}

	g.invalidateGroup(groupId)
	g.invalidateMyGroups(userId)
	return nil
}

// ==================== 邀请 ====================

// CreateInvitation 创建邮件邀请并异步投递邀请邮件
// 任何群组成员都可以发出邀请；同一邮箱同一群组只允许一个待处理邀请
func (g *groupService) CreateInvitation(actor *model.UserInfo, req request.CreateInvitationRequest) (*respond.InvitationRespond, error) {
	group, err := g.findGroup(req.GroupId)
	if err != nil {
		return nil, err
	}
	member, _, err := guard.LoadMembership(g.repos, req.GroupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}

	// 邮箱对应用户已在群内则拒绝
	invitee, err := g.repos.User.FindByEmail(req.InviteeEmail)
	if err != nil && !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if invitee != nil {
		if _, err = g.repos.GroupMember.FindByGroupAndUser(req.GroupId, invitee.Uuid); err == nil {
			return nil, errorx.New(errorx.CodeConflict, "该用户已是群组成员")
		} else if !errorx.IsNotFound(err) {
			zap.L().Error(err.Error())
			return nil, errorx.ErrServerBusy
		}
	}

	// 已有待处理邀请则拒绝
	if _, err = g.repos.Invitation.FindPendingByGroupAndEmail(req.GroupId, req.InviteeEmail); err == nil {
		return nil, errorx.New(errorx.CodeConflict, "该邮箱已有待处理的邀请")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	token, err := random.GetUrlSafeToken(constants.INVITATION_TOKEN_BYTES)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	invitation := &model.GroupInvitation{
		Uuid:         fmt.Sprintf("I%s", random.GetNowAndLenRandomString(13)),
		GroupUuid:    req.GroupId,
		InviterUuid:  actor.Uuid,
		InviteeEmail: req.InviteeEmail,
		Token:        token,
		Status:       model.InvitationPending,
		ExpiresAt:    time.Now().Add(constants.INVITATION_EXPIRY_HOURS * time.Hour),
	}
	if invitee != nil {
		invitation.InviteeUuid = sql.NullString{String: invitee.Uuid, Valid: true}
	}
	if err = g.repos.Invitation.Create(invitation); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	// 邮件投递 fire-and-forget，不影响请求结果
	g.dispatcher.Dispatch(email.InvitationMail{
		To:          req.InviteeEmail,
		GroupName:   group.Name,
		InviterName: actor.FullName,
		Token:       token,
	})
	return toInvitationRespond(invitation, group.Name), nil
}

// ListGroupInvitations 查看群组邀请列表，要求成员身份
func (g *groupService) ListGroupInvitations(actor *model.UserInfo, groupId string) ([]respond.InvitationRespond, error) {
	group, err := g.findGroup(groupId)
	if err != nil {
		return nil, err
	}
	member, _, err := guard.LoadMembership(g.repos, groupId, actor.Uuid)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if member == nil && !actor.IsSiteAdmin() {
		return nil, errorx.ErrNotMember
	}

	invitations, err := g.repos.Invitation.FindByGroupUuid(groupId)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.InvitationRespond, 0, len(invitations))
	for i := range invitations {
		rsp = append(rsp, *toInvitationRespond(&invitations[i], group.Name))
	}
	return rsp, nil
}

// ListMyInvitations 查看发给我的邀请（按邮箱匹配）
func (g *groupService) ListMyInvitations(actor *model.UserInfo) ([]respond.InvitationRespond, error) {
	invitations, err := g.repos.Invitation.FindByInviteeEmail(actor.Email)
	if err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.InvitationRespond, 0, len(invitations))
	for i := range invitations {
		groupName := ""
		if group, err := g.repos.Group.FindByUuid(invitations[i].GroupUuid); err == nil {
			groupName = group.Name
		}
		rsp = append(rsp, *toInvitationRespond(&invitations[i], groupName))
	}
	return rsp, nil
}

// AcceptInvitation 接受邀请并入群
// 邀请必须处于待处理状态且未过期，且必须由受邀人本人接受
func (g *groupService) AcceptInvitation(actor *model.UserInfo, token string) (*respond.GroupInfoRespond, error) {
	invitation, err := g.resolvePendingInvitation(actor, token)
	if err != nil {
		return nil, err
	}
	group, err := g.findGroup(invitation.GroupUuid)
	if err != nil {
		return nil, err
	}

	if _, err = g.repos.GroupMember.FindByGroupAndUser(group.Uuid, actor.Uuid); err == nil {
		return nil, errorx.New(errorx.CodeConflict, "您已是群组成员")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	if _, err = g.joinGroup(group.Uuid, actor.Uuid, model.RoleMember, nil); err != nil {
		return nil, err
	}

	invitation.Status = model.InvitationAccepted
	invitation.InviteeUuid = sql.NullString{String: actor.Uuid, Valid: true}
	if err = g.repos.Invitation.Update(invitation); err != nil {
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}

	g.invalidateGroup(group.Uuid)
	g.invalidateMyGroups(actor.Uuid)
	group.MemberCnt++
	return toGroupRespond(group), nil
}

// DeclineInvitation 拒绝邀请
// 只要求令牌存在且处于待处理状态，不校验邮箱归属和过期时间
func (g *groupService) DeclineInvitation(actor *model.UserInfo, token string) error {
	invitation, err := g.repos.Invitation.FindByToken(token)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "邀请不存在")
		}
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	if invitation.Status != model.InvitationPending {
		return errorx.New(errorx.CodeConflict, "邀请已被处理")
	}
	invitation.Status = model.InvitationDeclined
	invitation.InviteeUuid = sql.NullString{String: actor.Uuid, Valid: true}
	if err = g.repos.Invitation.Update(invitation); err != nil {
		zap.L().Error(err.Error())
		return errorx.ErrServerBusy
	}
	return nil
}

// ==================== 内部方法 ====================

// findGroup 查找群组，不存在或已解散时返回 CodeNotFound
func (g *groupService) findGroup(groupId string) (*model.GroupInfo, error) {
	group, err := g.repos.Group.FindByUuid(groupId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "群组不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if group.Status != 0 {
		return nil, errorx.New(errorx.CodeNotFound, "群组不存在")
	}
	return group, nil
}

// joinGroup 以指定角色入群，落角色权限预设（叠加单项覆盖）并更新群人数
// 群组行加锁串行化成员数上限检查
func (g *groupService) joinGroup(groupUuid, userUuid, role string, overrides map[string]string) (*model.GroupMember, error) {
	member := &model.GroupMember{
		Uuid:      fmt.Sprintf("M%s", random.GetNowAndLenRandomString(13)),
		GroupUuid: groupUuid,
		UserUuid:  userUuid,
		Role:      role,
	}
	err := g.repos.Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Group.FindByUuidForUpdate(groupUuid); err != nil {
			return err
		}
		cnt, err := tx.GroupMember.CountByGroupUuid(groupUuid)
		if err != nil {
			return err
		}
		if cnt >= constants.MAX_GROUP_MEMBERS {
			return errorx.Newf(errorx.CodeInvalidParam, "群组成员数已达上限 %d", constants.MAX_GROUP_MEMBERS)
		}
		if _, err = tx.GroupMember.FindByGroupAndUser(groupUuid, userUuid); err == nil {
			return errorx.New(errorx.CodeConflict, "该用户已是群组成员")
		} else if !errorx.IsNotFound(err) {
			return err
		}
		if err = tx.GroupMember.Create(member); err != nil {
			return err
		}
		if err = tx.Permission.ReplaceForMember(member.Uuid, guard.PresetWithOverrides(role, member.Uuid, overrides)); err != nil {
			return err
		}
		return tx.Group.IncrementMemberCount(groupUuid)
	})
	if err != nil {
		switch errorx.GetCode(err) {
		case errorx.CodeConflict, errorx.CodeInvalidParam:
			return nil, err
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	return member, nil
}

// resolvePendingInvitation 校验接受邀请用的令牌
// 邀请绑定了用户时要求本人操作，未绑定时按邮箱匹配；
// 过期的待处理邀请在此处落库为 expired
func (g *groupService) resolvePendingInvitation(actor *model.UserInfo, token string) (*model.GroupInvitation, error) {
	invitation, err := g.repos.Invitation.FindByToken(token)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "邀请不存在")
		}
		zap.L().Error(err.Error())
		return nil, errorx.ErrServerBusy
	}
	if invitation.InviteeUuid.Valid && invitation.InviteeUuid.String != actor.Uuid {
		return nil, errorx.New(errorx.CodeForbidden, "该邀请不属于当前用户")
	}
	if invitation.InviteeEmail != actor.Email {
		return nil, errorx.New(errorx.CodeForbidden, "该邀请不属于当前用户")
	}
	if invitation.IsTerminal() {
		return nil, errorx.New(errorx.CodeConflict, "邀请已被处理")
	}
	if time.Now().After(invitation.ExpiresAt) {
		invitation.Status = model.InvitationExpired
		if err = g.repos.Invitation.Update(invitation); err != nil {
			zap.L().Error(err.Error())
		}
		return nil, errorx.New(errorx.CodeConflict, "邀请已过期")
	}
	return invitation, nil
}

// validatePermissionOverrides 校验单项覆盖映射的资源类型和级别
func validatePermissionOverrides(overrides map[string]string) error {
	for resourceType, level := range overrides {
		if !guard.ValidResourceType(resourceType) {
			return errorx.Newf(errorx.CodeInvalidParam, "未知资源类型 %s", resourceType)
		}
		if !guard.ValidLevel(resourceType, level) {
			return errorx.Newf(errorx.CodeInvalidParam, "资源 %s 不支持级别 %s", resourceType, level)
		}
	}
	return nil
}

// invalidateGroup 异步失效群组相关缓存
func (g *groupService) invalidateGroup(groupId string) {
	g.cache.SubmitTask(func() {
		_ = g.cache.DeleteByPatterns(context.Background(), []string{
			"group_member_list_" + groupId + "*",
			"group_balances_" + groupId + "*",
			"analytics_" + groupId + "*",
		})
	})
}

// invalidateMyGroups 异步失效用户的群组列表缓存
func (g *groupService) invalidateMyGroups(userUuid string) {
	g.cache.SubmitTask(func() {
		_ = g.cache.Delete(context.Background(), "my_group_list_"+userUuid)
	})
}

func toGroupRespond(group *model.GroupInfo) *respond.GroupInfoRespond {
	return &respond.GroupInfoRespond{
		Uuid:      group.Uuid,
		Name:      group.Name,
		Notice:    group.Notice,
		MemberCnt: group.MemberCnt,
		OwnerId:   group.OwnerId,
		Avatar:    group.Avatar,
		Status:    group.Status,
	}
}

func toInvitationRespond(invitation *model.GroupInvitation, groupName string) *respond.InvitationRespond {
	status := invitation.Status
	// 展示时把已过期的待处理邀请显示为 expired，不额外落库
	if status == model.InvitationPending && time.Now().After(invitation.ExpiresAt) {
		status = model.InvitationExpired
	}
	return &respond.InvitationRespond{
		Uuid:         invitation.Uuid,
		GroupId:      invitation.GroupUuid,
		GroupName:    groupName,
		InviterId:    invitation.InviterUuid,
		InviteeEmail: invitation.InviteeEmail,
		Token:        invitation.Token,
		Status:       status,
		ExpiresAt:    invitation.ExpiresAt.Format("2006-01-02 15:04:05"),
	}
}
