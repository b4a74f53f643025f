package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Balance 成员在群内的余额账户
// (GroupUuid, UserUuid) 唯一，首次写入时按需创建
// 不变式：Amount 恒等于其流水 ChangeAmount 之和
type Balance struct {
	gorm.Model
	Uuid      string          `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:余额账户唯一id"`
	GroupUuid string          `gorm:"column:group_uuid;uniqueIndex:idx_group_user_balance;type:char(20);not null;comment:群组ID"`
	UserUuid  string          `gorm:"column:user_uuid;uniqueIndex:idx_group_user_balance;type:char(20);not null;comment:用户ID"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(10,2);default:0;not null;comment:当前余额"`
}

func (Balance) TableName() string {
	return "balance"
}
