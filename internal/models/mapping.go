package models

// Mapping is a row of the original cross-reference table.
type Mapping struct {
	RowNum int64  `gorm:"column:row_num;primaryKey;autoIncrement" json:"rowNum"`
	BillTo string `gorm:"column:billto;size:20;not null" json:"billto"`
	ShipTo string `gorm:"column:shipto;size:20;not null;default:''" json:"shipto"`
	HQ     string `gorm:"column:hq;size:20;not null" json:"hq"`
	SSAcct string `gorm:"column:ssacct;size:20;not null" json:"ssacct"`
}

func (Mapping) TableName() string {
	return "crossref"
}

// IPSMapping is a row of the IPS cross-reference table, which has no bill-to/ship-to codes.
type IPSMapping struct {
	RowNum int64  `gorm:"column:row_num;primaryKey;autoIncrement" json:"rowNum"`
	HQ     string `gorm:"column:hq;size:20;not null" json:"hq"`
	SSAcct string `gorm:"column:ssacct;size:20;not null" json:"ssacct"`
}

func (IPSMapping) TableName() string {
	return "ips_crossref"
}

// Customer is the accounting system's customer master, read only.
type Customer struct {
	IDCust   string `gorm:"column:idcust;primaryKey;size:20" json:"idcust"`
	NameCust string `gorm:"column:namecust;size:60" json:"namecust"`
}

func (Customer) TableName() string {
	return "arcus"
}

// CustomerMapping is the list view of a mapping row joined with the customer name.
// Columns a mapping type does not carry stay nil.
type CustomerMapping struct {
	RowNum   int64   `gorm:"column:row_num" json:"rowNum"`
	BillTo   *string `gorm:"column:billto" json:"billto"`
	ShipTo   *string `gorm:"column:shipto" json:"shipto"`
	HQ       string  `gorm:"column:hq" json:"hq"`
	SSAcct   string  `gorm:"column:ssacct" json:"ssacct"`
	NameCust *string `gorm:"column:name_cust" json:"nameCust"`
}
