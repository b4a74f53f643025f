package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type permissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository 创建成员权限 Repository
func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

// FindByMemberUuid 查找成员的所有权限行
func (r *permissionRepository) FindByMemberUuid(memberUuid string) ([]model.GroupMemberPermission, error) {
	var perms []model.GroupMemberPermission
	if err := r.db.Where("member_uuid = ?", memberUuid).Find(&perms).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询成员权限 member_uuid=%s", memberUuid)
	}
	return perms, nil
}

// FindByMemberUuids 批量查找多个成员的权限行
func (r *permissionRepository) FindByMemberUuids(memberUuids []string) ([]model.GroupMemberPermission, error) {
	var perms []model.GroupMemberPermission
	if len(memberUuids) == 0 {
		return perms, nil
	}
	if err := r.db.Where("member_uuid IN ?", memberUuids).Find(&perms).Error; err != nil {
		return nil, wrapDBError(err, "批量查询成员权限")
	}
	return perms, nil
}

// ReplaceForMember 整体替换成员权限
// 角色预设落库：先硬删除旧行，再插入新行，调用方负责置于事务内
func (r *permissionRepository) ReplaceForMember(memberUuid string, perms []model.GroupMemberPermission) error {
	if err := r.db.Unscoped().Where("member_uuid = ?", memberUuid).
		Delete(&model.GroupMemberPermission{}).Error; err != nil {
		return wrapDBErrorf(err, "清除成员权限 member_uuid=%s", memberUuid)
	}
	if len(perms) == 0 {
		return nil
	}
	if err := r.db.Create(&perms).Error; err != nil {
		return wrapDBErrorf(err, "写入成员权限 member_uuid=%s", memberUuid)
	}
	return nil
}

// Upsert 单项权限覆盖
// 按 (member_uuid, resource_type) 唯一键冲突时更新 level
func (r *permissionRepository) Upsert(memberUuid, resourceType, level string) error {
	perm := model.GroupMemberPermission{
		MemberUuid:   memberUuid,
		ResourceType: resourceType,
		Level:        level,
	}
	if err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "member_uuid"}, {Name: "resource_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"level"}),
	}).Create(&perm).Error; err != nil {
		return wrapDBErrorf(err, "覆盖成员权限 member_uuid=%s resource=%s", memberUuid, resourceType)
	}
	return nil
}

// DeleteByMemberUuid 删除成员的所有权限行
func (r *permissionRepository) DeleteByMemberUuid(memberUuid string) error {
	if err := r.db.Where("member_uuid = ?", memberUuid).
		Delete(&model.GroupMemberPermission{}).Error; err != nil {
		return wrapDBErrorf(err, "删除成员权限 member_uuid=%s", memberUuid)
	}
	return nil
}

// DeleteByMemberUuids 批量删除多个成员的权限行
func (r *permissionRepository) DeleteByMemberUuids(memberUuids []string) error {
	if len(memberUuids) == 0 {
		return nil
	}
	if err := r.db.Where("member_uuid IN ?", memberUuids).
		Delete(&model.GroupMemberPermission{}).Error; err != nil {
		return wrapDBError(err, "批量删除成员权限")
	}
	return nil
}
