package model

import (
	"gorm.io/gorm"
)

// GroupInfo 拼单群组
// 订餐活动以群组为单位组织，成员、订单、余额均挂在群组下
type GroupInfo struct {
	gorm.Model
	Uuid      string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:群组唯一id"`
	Name      string `gorm:"column:name;type:varchar(50);not null;comment:群名称"`
	Notice    string `gorm:"column:notice;type:varchar(500);comment:群公告"`
	MemberCnt int    `gorm:"column:member_cnt;default:1;comment:群人数"`
	OwnerId   string `gorm:"column:owner_id;type:char(20);not null;comment:群主uuid"`
	Avatar    string `gorm:"column:avatar;type:varchar(255);comment:头像"`
	Status    int8   `gorm:"column:status;default:0;comment:状态，0.正常，1.解散"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}
