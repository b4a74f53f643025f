package model

import (
	"database/sql"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 余额变动类型
const (
	ChangeTypeOrder  = "order"  // 订单结算扣款，无操作人
	ChangeTypeManual = "manual" // 人工调整，含充值和冲正
)

// BalanceHistory 余额流水（只追加）
// 每次余额变动必须与本表一行在同一事务内成对写入
type BalanceHistory struct {
	gorm.Model
	Uuid          string          `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:流水唯一id"`
	BalanceUuid   string          `gorm:"column:balance_uuid;index;type:char(20);not null;comment:余额账户ID"`
	OrderUuid     sql.NullString  `gorm:"column:order_uuid;type:char(20);comment:关联订单uuid，结算扣款时填写"`
	CreatedByUuid sql.NullString  `gorm:"column:created_by_uuid;type:char(20);comment:操作人uuid，结算扣款为空"`
	ChangeAmount  decimal.Decimal `gorm:"column:change_amount;type:decimal(10,2);not null;comment:变动金额，负数为扣款"`
	BalanceAfter  decimal.Decimal `gorm:"column:balance_after;type:decimal(10,2);not null;comment:变动后余额"`
	ChangeType    string          `gorm:"column:change_type;type:varchar(20);not null;comment:变动类型"`
	Note          string          `gorm:"column:note;type:varchar(255);comment:说明"`
}

func (BalanceHistory) TableName() string {
	return "balance_history"
}
