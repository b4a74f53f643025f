package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单 Repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// FindByUuid 按 UUID 查找订单
func (r *orderRepository) FindByUuid(uuid string) (*model.Order, error) {
	var order model.Order
	if err := r.db.First(&order, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询订单 uuid=%s", uuid)
	}
	return &order, nil
}

// FindByGroupUuid 查找群组的所有订单，按创建时间倒序
func (r *orderRepository) FindByGroupUuid(groupUuid string) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Where("group_uuid = ?", groupUuid).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群订单 group_uuid=%s", groupUuid)
	}
	return orders, nil
}

// FindActiveByGroupUuid 查找群组当前的非终态订单
// 不存在活跃订单时返回 CodeNotFound 包装的错误
func (r *orderRepository) FindActiveByGroupUuid(groupUuid string) (*model.Order, error) {
	var order model.Order
	if err := r.db.Where("group_uuid = ? AND status NOT IN ?",
		groupUuid, []string{model.OrderFinished, model.OrderCancelled}).
		First(&order).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询活跃订单 group_uuid=%s", groupUuid)
	}
	return &order, nil
}

// FindByGroupAndStatus 查找群组内指定状态的订单
func (r *orderRepository) FindByGroupAndStatus(groupUuid, status string) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Where("group_uuid = ? AND status = ?", groupUuid, status).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询订单 group_uuid=%s status=%s", groupUuid, status)
	}
	return orders, nil
}

// Create 创建订单
func (r *orderRepository) Create(order *model.Order) error {
	if err := r.db.Create(order).Error; err != nil {
		return wrapDBError(err, "创建订单")
	}
	return nil
}

// Update 更新订单
func (r *orderRepository) Update(order *model.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		return wrapDBError(err, "更新订单")
	}
	return nil
}
