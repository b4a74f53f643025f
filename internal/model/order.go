package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 订单状态
const (
	OrderInitiated = "initiated" // 已发起，成员可自由加菜
	OrderConfirmed = "confirmed" // 已确认，仅发起人/editor 可改
	OrderOrdered   = "ordered"   // 已下单
	OrderFinished  = "finished"  // 已完成（触发结算），终态
	OrderCancelled = "cancelled" // 已取消，终态
)

// OrderTransitions 订单状态机
// 不在表中的流转一律拒绝
var OrderTransitions = map[string][]string{
	OrderInitiated: {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderOrdered, OrderCancelled},
	OrderOrdered:   {OrderFinished, OrderCancelled},
}

// CanTransition 判断订单状态能否从 from 流转到 to
func CanTransition(from, to string) bool {
	for _, s := range OrderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus 订单状态是否为终态
// 一个群组同一时刻最多存在一个非终态订单
func IsTerminalStatus(status string) bool {
	return status == OrderFinished || status == OrderCancelled
}

// Order 拼单订单
type Order struct {
	gorm.Model
	Uuid           string         `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:订单唯一id"`
	GroupUuid      string         `gorm:"column:group_uuid;index;type:char(20);not null;comment:群组ID"`
	InitiatorUuid  string         `gorm:"column:initiator_uuid;type:char(20);not null;comment:发起人uuid"`
	RestaurantUuid sql.NullString `gorm:"column:restaurant_uuid;type:char(20);comment:餐厅uuid"`
	Status         string         `gorm:"column:status;index;type:varchar(20);default:initiated;not null;comment:状态"`
	// 配送费，总额与人均二者由一方推导另一方，结算时人均值计入每位参与者
	DeliveryFeeTotal     decimal.NullDecimal `gorm:"column:delivery_fee_total;type:decimal(10,2);comment:配送费总额"`
	DeliveryFeePerPerson decimal.NullDecimal `gorm:"column:delivery_fee_per_person;type:decimal(10,2);comment:人均配送费"`
	Note                 string              `gorm:"column:note;type:varchar(500);comment:备注"`
}

func (Order) TableName() string {
	return "order_info"
}
