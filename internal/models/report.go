package models

// InventoryRecord is one row of the IPS warehouse inventory activity table.
type InventoryRecord struct {
	ID      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	EAN     string `gorm:"column:ean;size:24"`
	WHS     string `gorm:"column:whs;size:10"`
	Qty     int64  `gorm:"column:qty"`
	ActType string `gorm:"column:acttype;size:10"`
}

// Item is the part of the ERP item master the reports join on. The title
// column is named desc in the ERP.
type Item struct {
	ItemNo string `gorm:"column:itemno;primaryKey;size:24"`
	Desc   string `gorm:"column:desc;size:255"`
}

// InventoryAdjustment is one line of the IPS cycle-count adjustment report.
// Title is nil when the EAN has no item master row.
type InventoryAdjustment struct {
	EAN     string  `gorm:"column:ean" json:"EAN"`
	Title   *string `gorm:"column:title" json:"TITLE"`
	WHS     string  `gorm:"column:whs" json:"WHS"`
	Qty     int64   `gorm:"column:qty" json:"Qty"`
	ActType string  `gorm:"column:acttype" json:"Acttype"`
}
