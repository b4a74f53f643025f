package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem 订单明细项
// UserUuid 为点餐归属人，代点时与操作者不同
type OrderItem struct {
	gorm.Model
	Uuid      string          `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:明细唯一id"`
	OrderUuid string          `gorm:"column:order_uuid;index;type:char(20);not null;comment:订单ID"`
	UserUuid  string          `gorm:"column:user_uuid;index;type:char(20);not null;comment:归属用户uuid"`
	Name      string          `gorm:"column:name;type:varchar(100);not null;comment:菜品名称"`
	Detail    string          `gorm:"column:detail;type:varchar(255);comment:菜品说明"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null;comment:单价"`
	Quantity  int             `gorm:"column:quantity;default:1;not null;comment:数量"`
	DishUuid  sql.NullString  `gorm:"column:dish_uuid;type:char(20);comment:关联菜品uuid"`
}

func (OrderItem) TableName() string {
	return "order_item"
}

// Subtotal 明细小计 = 单价 × 数量
func (it *OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}
