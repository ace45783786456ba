// models/equipment.go
package models

// EquipmentCounts holds the per-unit equipment quantity fields shared by
// VLC asset records, the per-sub-admin used-assets ledger and the
// issued-assets allotments. Embedded inline so the persisted documents
// stay flat.
type EquipmentCounts struct {
	RT         int64 `bson:"rt" json:"rt"`
	Duplicate  int64 `bson:"duplicate" json:"duplicate"`
	Can        int64 `bson:"can" json:"can"`
	Lid        int64 `bson:"lid" json:"lid"`
	PVC        int64 `bson:"pvc" json:"pvc"`
	Keyboard   int64 `bson:"keyboard" json:"keyboard"`
	Printer    int64 `bson:"printer" json:"printer"`
	Charger    int64 `bson:"charger" json:"charger"`
	Stripper   int64 `bson:"stripper" json:"stripper"`
	Solar      int64 `bson:"solar" json:"solar"`
	Controller int64 `bson:"controller" json:"controller"`
	EWS        int64 `bson:"ews" json:"ews"`
	Display    int64 `bson:"display" json:"display"`
	Battery    int64 `bson:"battery" json:"battery"`
}

// EquipmentFields lists the bson/json names of every numeric equipment
// field, in a stable order. Budget checks and ledger deltas iterate this
// list so no field can be skipped.
var EquipmentFields = []string{
	"rt", "duplicate", "can", "lid", "pvc", "keyboard", "printer",
	"charger", "stripper", "solar", "controller", "ews", "display",
	"battery",
}

func (c EquipmentCounts) Get(field string) int64 {
	switch field {
	case "rt":
		return c.RT
	case "duplicate":
		return c.Duplicate
	case "can":
		return c.Can
	case "lid":
		return c.Lid
	case "pvc":
		return c.PVC
	case "keyboard":
		return c.Keyboard
	case "printer":
		return c.Printer
	case "charger":
		return c.Charger
	case "stripper":
		return c.Stripper
	case "solar":
		return c.Solar
	case "controller":
		return c.Controller
	case "ews":
		return c.EWS
	case "display":
		return c.Display
	case "battery":
		return c.Battery
	}
	return 0
}

func (c *EquipmentCounts) Set(field string, value int64) {
	switch field {
	case "rt":
		c.RT = value
	case "duplicate":
		c.Duplicate = value
	case "can":
		c.Can = value
	case "lid":
		c.Lid = value
	case "pvc":
		c.PVC = value
	case "keyboard":
		c.Keyboard = value
	case "printer":
		c.Printer = value
	case "charger":
		c.Charger = value
	case "stripper":
		c.Stripper = value
	case "solar":
		c.Solar = value
	case "controller":
		c.Controller = value
	case "ews":
		c.EWS = value
	case "display":
		c.Display = value
	case "battery":
		c.Battery = value
	}
}
