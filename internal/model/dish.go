package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dish 餐厅菜品目录
// (RestaurantUuid, Name) 唯一，订单完成结算后按此键 upsert：
// 缺失则创建，价格变化则更新。目录只通过结算维护
type Dish struct {
	gorm.Model
	Uuid           string          `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:菜品唯一id"`
	RestaurantUuid string          `gorm:"column:restaurant_uuid;uniqueIndex:idx_restaurant_name;type:char(20);not null;comment:餐厅ID"`
	Name           string          `gorm:"column:name;uniqueIndex:idx_restaurant_name;type:varchar(100);not null;comment:菜品名称"`
	Detail         string          `gorm:"column:detail;type:varchar(255);comment:菜品说明"`
	Price          decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null;comment:最近一次成交价"`
}

func (Dish) TableName() string {
	return "dish"
}
