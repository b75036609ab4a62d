package models

// Backorder is the quantity currently backordered for an ISBN.
type Backorder struct {
	ISBN           string `gorm:"column:isbn;primaryKey;size:24" json:"ISBN"`
	QtyBackordered int64  `gorm:"column:qty" json:"QTY_BACKORDERED"`
}

func (Backorder) TableName() string {
	return "backorder_report"
}

// Book is the subset of the book detail table the service needs to create it
// locally. Lookups return every column of the row, not this struct.
type Book struct {
	ISBN          string  `gorm:"column:isbn;primaryKey;size:24" json:"ISBN"`
	Title         string  `gorm:"column:title;size:255" json:"TITLE"`
	Publisher     string  `gorm:"column:publisher;size:100" json:"PUBLISHER"`
	PubDate       string  `gorm:"column:pub_date;size:20" json:"PUB_DATE"`
	PubStatus     string  `gorm:"column:pub_status;size:20" json:"PUB_STATUS"`
	RetailPrice   float64 `gorm:"column:retail_price" json:"RETAIL_PRICE"`
	QtyOnHand     int64   `gorm:"column:qty_on_hand" json:"QTY_ON_HAND"`
	QtyOnOrder    int64   `gorm:"column:qty_on_order" json:"QTY_ON_ORDER"`
	IPSOnHand     int64   `gorm:"column:ips_on_hand" json:"IPS_ON_HAND"`
	IPSOnOrder    int64   `gorm:"column:ips_on_order" json:"IPS_ON_ORDER"`
	CartonQty     int64   `gorm:"column:ctnqty" json:"CTNQTY"`
	BISACCode     string  `gorm:"column:bisac_code;size:20" json:"BISAC_CODE"`
	GeneralNotes  string  `gorm:"column:general_comments;type:text" json:"GENERAL_COMMENTS"`
	InternalNotes string  `gorm:"column:internal_comments;type:text" json:"INTERNAL_COMMENTS"`
}

func (Book) TableName() string {
	return "book_details"
}
