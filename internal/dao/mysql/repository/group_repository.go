package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository 创建群组 Repository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// FindByUuid 按 UUID 查找群组
func (r *groupRepository) FindByUuid(uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 uuid=%s", uuid)
	}
	return &group, nil
}

// FindByUuidForUpdate 按 UUID 查找群组并加行锁
// 创建订单前锁住群组行，串行化"单活跃订单"检查，必须在事务内调用
func (r *groupRepository) FindByUuidForUpdate(uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "锁定群组 uuid=%s", uuid)
	}
	return &group, nil
}

// FindByOwnerId 按群主查找群组
func (r *groupRepository) FindByOwnerId(ownerId string) ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	if err := r.db.Where("owner_id = ?", ownerId).Find(&groups).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 owner_id=%s", ownerId)
	}
	return groups, nil
}

// CountByOwnerId 统计用户拥有的群组数
func (r *groupRepository) CountByOwnerId(ownerId string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.GroupInfo{}).Where("owner_id = ?", ownerId).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计群组数 owner_id=%s", ownerId)
	}
	return count, nil
}

// Create 创建群组
func (r *groupRepository) Create(group *model.GroupInfo) error {
	if err := r.db.Create(group).Error; err != nil {
		return wrapDBError(err, "创建群组")
	}
	return nil
}

// Update 更新群组信息
func (r *groupRepository) Update(group *model.GroupInfo) error {
	if err := r.db.Save(group).Error; err != nil {
		return wrapDBError(err, "更新群组信息")
	}
	return nil
}

// IncrementMemberCount 群成员数 +1
func (r *groupRepository) IncrementMemberCount(uuid string) error {
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).
		Update("member_cnt", gorm.Expr("member_cnt + 1")).Error; err != nil {
		return wrapDBErrorf(err, "更新群成员数 uuid=%s", uuid)
	}
	return nil
}

// DecrementMemberCountBy 群成员数减指定数量
func (r *groupRepository) DecrementMemberCountBy(uuid string, count int) error {
	if err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).
		Update("member_cnt", gorm.Expr("member_cnt - ?", count)).Error; err != nil {
		return wrapDBErrorf(err, "更新群成员数 uuid=%s", uuid)
	}
	return nil
}

// SoftDeleteByUuid 软删除群组
func (r *groupRepository) SoftDeleteByUuid(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.GroupInfo{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群组 uuid=%s", uuid)
	}
	return nil
}
