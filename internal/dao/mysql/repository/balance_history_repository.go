package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
)

type balanceHistoryRepository struct {
	db *gorm.DB
}

// NewBalanceHistoryRepository 创建余额流水 Repository
func NewBalanceHistoryRepository(db *gorm.DB) BalanceHistoryRepository {
	return &balanceHistoryRepository{db: db}
}

// FindByBalanceUuid 查找账户的全部流水，按创建时间倒序
func (r *balanceHistoryRepository) FindByBalanceUuid(balanceUuid string) ([]model.BalanceHistory, error) {
	var histories []model.BalanceHistory
	if err := r.db.Where("balance_uuid = ?", balanceUuid).
		Order("created_at DESC").Find(&histories).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询余额流水 balance_uuid=%s", balanceUuid)
	}
	return histories, nil
}

// Create 追加流水
// 流水只追加不修改，与余额变动同事务写入
func (r *balanceHistoryRepository) Create(history *model.BalanceHistory) error {
	if err := r.db.Create(history).Error; err != nil {
		return wrapDBError(err, "写入余额流水")
	}
	return nil
}
