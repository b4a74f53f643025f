package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type balanceRepository struct {
	db *gorm.DB
}

// NewBalanceRepository 创建余额 Repository
func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

// FindByGroupAndUser 查找成员在群内的余额账户
func (r *balanceRepository) FindByGroupAndUser(groupUuid, userUuid string) (*model.Balance, error) {
	var balance model.Balance
	if err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		First(&balance).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询余额 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return &balance, nil
}

// FindByGroupAndUserForUpdate 查找余额账户并加行锁
// 余额的读-改-写必须通过该锁串行化，调用方负责置于事务内
func (r *balanceRepository) FindByGroupAndUserForUpdate(groupUuid, userUuid string) (*model.Balance, error) {
	var balance model.Balance
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).
		First(&balance).Error; err != nil {
		return nil, wrapDBErrorf(err, "锁定余额 group_uuid=%s user_uuid=%s", groupUuid, userUuid)
	}
	return &balance, nil
}

// FindByGroupUuid 查找群组的所有余额账户
func (r *balanceRepository) FindByGroupUuid(groupUuid string) ([]model.Balance, error) {
	var balances []model.Balance
	if err := r.db.Where("group_uuid = ?", groupUuid).Find(&balances).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群余额 group_uuid=%s", groupUuid)
	}
	return balances, nil
}

// Create 创建余额账户
func (r *balanceRepository) Create(balance *model.Balance) error {
	if err := r.db.Create(balance).Error; err != nil {
		return wrapDBError(err, "创建余额账户")
	}
	return nil
}

// Update 更新余额账户
func (r *balanceRepository) Update(balance *model.Balance) error {
	if err := r.db.Save(balance).Error; err != nil {
		return wrapDBError(err, "更新余额账户")
	}
	return nil
}
