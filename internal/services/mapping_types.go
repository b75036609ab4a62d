package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/config"
)

// Field is a mapping column. The value doubles as the column name and the JSON key.
type Field string

const (
	FieldBillTo Field = "billto"
	FieldShipTo Field = "shipto"
	FieldHQ     Field = "hq"
	FieldSSAcct Field = "ssacct"
)

var allFields = []Field{FieldBillTo, FieldShipTo, FieldHQ, FieldSSAcct}

const (
	TypeOriginal = "original"
	TypeIPS      = "ips"
)

// MappingType describes one variant of the mapping schema: where it is stored,
// which columns it carries, which of them are mandatory and whether writes need
// an admin session.
type MappingType struct {
	Name     string
	Table    string
	LogTable string
	// RowColumn and LogRowColumn name the row number column of Table and
	// LogTable. Empty means row_num.
	RowColumn    string
	LogRowColumn string
	Fields       []Field
	Required     []Field
	RequireAdmin bool
}

func (mt MappingType) rowColumn() string {
	if mt.RowColumn == "" {
		return config.DefaultRowColumn
	}
	return mt.RowColumn
}

func (mt MappingType) logRowColumn() string {
	if mt.LogRowColumn == "" {
		return config.DefaultRowColumn
	}
	return mt.LogRowColumn
}

func (mt MappingType) Carries(f Field) bool {
	for _, x := range mt.Fields {
		if x == f {
			return true
		}
	}
	return false
}

func (mt MappingType) Requires(f Field) bool {
	for _, x := range mt.Required {
		if x == f {
			return true
		}
	}
	return false
}

// MappingTypes is the registry of known mapping types.
type MappingTypes struct {
	types map[string]MappingType
}

func NewMappingTypes(types ...MappingType) *MappingTypes {
	r := &MappingTypes{types: make(map[string]MappingType, len(types))}
	for _, mt := range types {
		r.types[mt.Name] = mt
	}
	return r
}

// layouts fixes the columns of each known type. Storage comes from config.
var layouts = map[string]MappingType{
	TypeOriginal: {
		Name:     TypeOriginal,
		Fields:   []Field{FieldBillTo, FieldShipTo, FieldHQ, FieldSSAcct},
		Required: []Field{FieldBillTo, FieldHQ, FieldSSAcct},
	},
	TypeIPS: {
		Name:         TypeIPS,
		Fields:       []Field{FieldHQ, FieldSSAcct},
		Required:     []Field{FieldHQ, FieldSSAcct},
		RequireAdmin: true,
	},
}

// Layout returns the column layout of a known type, without storage details.
func Layout(name string) (MappingType, bool) {
	mt, ok := layouts[strings.ToLower(name)]
	return mt, ok
}

// DefaultMappingTypes builds the original and ips types from config.
func DefaultMappingTypes(cfg config.Config) *MappingTypes {
	original, ips := layouts[TypeOriginal], layouts[TypeIPS]
	original.Table, original.LogTable = cfg.MappingTable, cfg.MappingLogTable
	ips.Table, ips.LogTable = cfg.IPSMappingTable, cfg.IPSMappingLogTable
	for _, mt := range []*MappingType{&original, &ips} {
		mt.RowColumn, mt.LogRowColumn = cfg.MappingRowColumn, cfg.LogRowColumn
	}
	return NewMappingTypes(original, ips)
}

func (r *MappingTypes) Lookup(name string) (MappingType, error) {
	mt, ok := r.types[strings.ToLower(name)]
	if !ok {
		return MappingType{}, apperr.NotFound(fmt.Sprintf("Unknown mapping type %q", name))
	}
	return mt, nil
}

// All returns the registered types sorted by name.
func (r *MappingTypes) All() []MappingType {
	out := make([]MappingType, 0, len(r.types))
	for _, mt := range r.types {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Value is a JSON string field that remembers whether it was present and
// whether it was null, so a patch can tell "absent" from "cleared".
type Value struct {
	Set  bool
	Null bool
	S    string
}

func (v *Value) UnmarshalJSON(b []byte) error {
	v.Set = true
	if string(b) == "null" {
		v.Null = true
		v.S = ""
		return nil
	}
	return json.Unmarshal(b, &v.S)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Set || v.Null {
		return []byte("null"), nil
	}
	return json.Marshal(v.S)
}

// Str returns a present, non-null value.
func Str(s string) Value {
	return Value{Set: true, S: s}
}

// Null returns a present null value.
func Null() Value {
	return Value{Set: true, Null: true}
}

// MappingInput is the body of a create or an update. On create every field is
// read; on update only the fields that are Set.
type MappingInput struct {
	BillTo Value `json:"billto"`
	ShipTo Value `json:"shipto"`
	HQ     Value `json:"hq"`
	SSAcct Value `json:"ssacct"`
}

// Get returns the value of field f.
func (in MappingInput) Get(f Field) Value {
	switch f {
	case FieldBillTo:
		return in.BillTo
	case FieldShipTo:
		return in.ShipTo
	case FieldHQ:
		return in.HQ
	case FieldSSAcct:
		return in.SSAcct
	}
	return Value{}
}

// MarshalJSON writes only the fields that are Set, so a patch built in Go keeps
// its sparse shape on the wire.
func (in MappingInput) MarshalJSON() ([]byte, error) {
	out := make(map[string]Value, len(allFields))
	for _, f := range allFields {
		if v := in.Get(f); v.Set {
			out[string(f)] = v
		}
	}
	return json.Marshal(out)
}

// Empty reports whether no field is present.
func (in MappingInput) Empty() bool {
	for _, f := range allFields {
		if in.Get(f).Set {
			return false
		}
	}
	return true
}
