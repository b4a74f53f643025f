package repository

import (
	"dingcan_server/internal/model"

	"gorm.io/gorm"
)

type dishRepository struct {
	db *gorm.DB
}

// NewDishRepository 创建菜品 Repository
func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

// FindByRestaurantUuid 查找餐厅的所有菜品
func (r *dishRepository) FindByRestaurantUuid(restaurantUuid string) ([]model.Dish, error) {
	var dishes []model.Dish
	if err := r.db.Where("restaurant_uuid = ?", restaurantUuid).Find(&dishes).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询菜品 restaurant_uuid=%s", restaurantUuid)
	}
	return dishes, nil
}

// FindByRestaurantAndName 按 (餐厅, 菜名) 查找菜品
// 结算 upsert 以此为键
func (r *dishRepository) FindByRestaurantAndName(restaurantUuid, name string) (*model.Dish, error) {
	var dish model.Dish
	if err := r.db.Where("restaurant_uuid = ? AND name = ?", restaurantUuid, name).
		First(&dish).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询菜品 restaurant_uuid=%s name=%s", restaurantUuid, name)
	}
	return &dish, nil
}

// Create 创建菜品
func (r *dishRepository) Create(dish *model.Dish) error {
	if err := r.db.Create(dish).Error; err != nil {
		return wrapDBError(err, "创建菜品")
	}
	return nil
}

// Update 更新菜品
func (r *dishRepository) Update(dish *model.Dish) error {
	if err := r.db.Save(dish).Error; err != nil {
		return wrapDBError(err, "更新菜品")
	}
	return nil
}
