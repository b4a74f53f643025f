package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
)

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository 创建餐厅 Repository
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// FindByUuid 按 UUID 查找餐厅
func (r *restaurantRepository) FindByUuid(uuid string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.First(&restaurant, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询餐厅 uuid=%s", uuid)
	}
	return &restaurant, nil
}

// FindByGroupUuid 查找群组的所有餐厅
func (r *restaurantRepository) FindByGroupUuid(groupUuid string) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := r.db.Where("group_uuid = ?", groupUuid).Find(&restaurants).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群餐厅 group_uuid=%s", groupUuid)
	}
	return restaurants, nil
}

// Create 创建餐厅
func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	if err := r.db.Create(restaurant).Error; err != nil {
		return wrapDBError(err, "创建餐厅")
	}
	return nil
}
