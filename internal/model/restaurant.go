package model

import "gorm.io/gorm"

// Restaurant 群组下的餐厅
type Restaurant struct {
	gorm.Model
	Uuid      string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:餐厅唯一id"`
	GroupUuid string `gorm:"column:group_uuid;index;type:char(20);not null;comment:群组ID"`
	Name      string `gorm:"column:name;type:varchar(100);not null;comment:餐厅名称"`
	Phone     string `gorm:"column:phone;type:varchar(20);comment:电话"`
	Note      string `gorm:"column:note;type:varchar(255);comment:备注"`
}

func (Restaurant) TableName() string {
	return "restaurant"
}
