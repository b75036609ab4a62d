package models

import (
	"time"
)

type Action string

const (
	ActionInsert Action = "insert"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// AuditLogEntry records one mutation of a mapping row. Entries are never updated.
type AuditLogEntry struct {
	LogID           string    `gorm:"column:log_id;primaryKey;size:36" json:"logId"`
	Action          Action    `gorm:"column:action;size:10;not null" json:"action"`
	RowNum          *int64    `gorm:"column:row_num" json:"rowNum"` // mapping row by value, no FK
	BillToFrom      *string   `gorm:"column:billto_from;size:20" json:"billtoFrom"`
	ShipToFrom      *string   `gorm:"column:shipto_from;size:20" json:"shiptoFrom"`
	HQFrom          *string   `gorm:"column:hq_from;size:20" json:"hqFrom"`
	SSAcctFrom      *string   `gorm:"column:ssacct_from;size:20" json:"ssacctFrom"`
	BillToTo        *string   `gorm:"column:billto_to;size:20" json:"billtoTo"`
	ShipToTo        *string   `gorm:"column:shipto_to;size:20" json:"shiptoTo"`
	HQTo            *string   `gorm:"column:hq_to;size:20" json:"hqTo"`
	SSAcctTo        *string   `gorm:"column:ssacct_to;size:20" json:"ssacctTo"`
	ActionTimestamp time.Time `gorm:"column:action_timestamp;not null" json:"actionTimestamp"`
}

func (AuditLogEntry) TableName() string {
	return "mapping_log"
}
