package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
)

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository 创建订单明细 Repository
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

// FindByUuid 按 UUID 查找明细
func (r *orderItemRepository) FindByUuid(uuid string) (*model.OrderItem, error) {
	var item model.OrderItem
	if err := r.db.First(&item, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询订单明细 uuid=%s", uuid)
	}
	return &item, nil
}

// FindByOrderUuid 查找订单的所有明细
func (r *orderItemRepository) FindByOrderUuid(orderUuid string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.Where("order_uuid = ?", orderUuid).
		Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询订单明细 order_uuid=%s", orderUuid)
	}
	return items, nil
}

// FindByOrderUuids 批量查找多个订单的明细
func (r *orderItemRepository) FindByOrderUuids(orderUuids []string) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if len(orderUuids) == 0 {
		return items, nil
	}
	if err := r.db.Where("order_uuid IN ?", orderUuids).Find(&items).Error; err != nil {
		return nil, wrapDBError(err, "批量查询订单明细")
	}
	return items, nil
}

// Create 创建明细
func (r *orderItemRepository) Create(item *model.OrderItem) error {
	if err := r.db.Create(item).Error; err != nil {
		return wrapDBError(err, "创建订单明细")
	}
	return nil
}

// Update 更新明细
func (r *orderItemRepository) Update(item *model.OrderItem) error {
	if err := r.db.Save(item).Error; err != nil {
		return wrapDBError(err, "更新订单明细")
	}
	return nil
}

// Delete 删除明细
func (r *orderItemRepository) Delete(uuid string) error {
	if err := r.db.Where("uuid = ?", uuid).Delete(&model.OrderItem{}).Error; err != nil {
		return wrapDBErrorf(err, "删除订单明细 uuid=%s", uuid)
	}
	return nil
}
