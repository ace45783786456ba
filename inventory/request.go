// inventory/request.go
package inventory

import (
	"strings"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
)

// AssetRequest is the create/update payload for a VLC asset record.
// Pointer fields distinguish "omitted" from zero values so updates can be
// partial; on create, omitted numeric fields default to 0.
type AssetRequest struct {
	VLCCode    string       `json:"vlcCode"`
	SrNo       *string      `json:"srNo,omitempty"`
	StockNo    *string      `json:"stockNo,omitempty"`
	VLCName    *string      `json:"vlcName,omitempty"`
	Status     *string      `json:"status,omitempty"`
	CStatus    *string      `json:"cStatus,omitempty"`
	VSPSign    *string      `json:"vspSign,omitempty"`
	RT         *int64       `json:"rt,omitempty"`
	Duplicate  *int64       `json:"duplicate,omitempty"`
	Can        *int64       `json:"can,omitempty"`
	Lid        *int64       `json:"lid,omitempty"`
	PVC        *int64       `json:"pvc,omitempty"`
	Keyboard   *int64       `json:"keyboard,omitempty"`
	Printer    *int64       `json:"printer,omitempty"`
	Charger    *int64       `json:"charger,omitempty"`
	Stripper   *int64       `json:"stripper,omitempty"`
	Solar      *int64       `json:"solar,omitempty"`
	Controller *int64       `json:"controller,omitempty"`
	EWS        *int64       `json:"ews,omitempty"`
	Display    *int64       `json:"display,omitempty"`
	Battery    *int64       `json:"battery,omitempty"`
	DPS        *FlexStrings `json:"dps,omitempty"`
	Bond       *FlexStrings `json:"bond,omitempty"`
}

// Quantity returns the supplied value for a numeric equipment field and
// whether it was present in the payload.
func (r *AssetRequest) Quantity(field string) (int64, bool) {
	var p *int64
	switch field {
	case "rt":
		p = r.RT
	case "duplicate":
		p = r.Duplicate
	case "can":
		p = r.Can
	case "lid":
		p = r.Lid
	case "pvc":
		p = r.PVC
	case "keyboard":
		p = r.Keyboard
	case "printer":
		p = r.Printer
	case "charger":
		p = r.Charger
	case "stripper":
		p = r.Stripper
	case "solar":
		p = r.Solar
	case "controller":
		p = r.Controller
	case "ews":
		p = r.EWS
	case "display":
		p = r.Display
	case "battery":
		p = r.Battery
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// appliedCounts overlays the supplied numeric fields onto base; omitted
// fields keep the base value.
func (r *AssetRequest) appliedCounts(base models.EquipmentCounts) models.EquipmentCounts {
	out := base
	for _, f := range models.EquipmentFields {
		if v, ok := r.Quantity(f); ok {
			out.Set(f, v)
		}
	}
	return out
}

// textField describes one updatable descriptive string field.
type textField struct {
	name string
	req  func(*AssetRequest) *string
	cur  func(*models.VLCAsset) string
	set  func(*models.VLCAsset, string)
}

var textFields = []textField{
	{"srNo", func(r *AssetRequest) *string { return r.SrNo },
		func(a *models.VLCAsset) string { return a.SrNo },
		func(a *models.VLCAsset, v string) { a.SrNo = v }},
	{"stockNo", func(r *AssetRequest) *string { return r.StockNo },
		func(a *models.VLCAsset) string { return a.StockNo },
		func(a *models.VLCAsset, v string) { a.StockNo = v }},
	{"vlcName", func(r *AssetRequest) *string { return r.VLCName },
		func(a *models.VLCAsset) string { return a.VLCName },
		func(a *models.VLCAsset, v string) { a.VLCName = v }},
	{"status", func(r *AssetRequest) *string { return r.Status },
		func(a *models.VLCAsset) string { return a.Status },
		func(a *models.VLCAsset, v string) { a.Status = v }},
	{"cStatus", func(r *AssetRequest) *string { return r.CStatus },
		func(a *models.VLCAsset) string { return a.CStatus },
		func(a *models.VLCAsset, v string) { a.CStatus = v }},
	{"vspSign", func(r *AssetRequest) *string { return r.VSPSign },
		func(a *models.VLCAsset) string { return a.VSPSign },
		func(a *models.VLCAsset, v string) { a.VSPSign = v }},
}

// requestedDPS returns the normalized dps set plus whether the field was
// supplied at all.
func (r *AssetRequest) requestedDPS() (CodeSet, bool) {
	if r.DPS == nil {
		return CodeSet{}, false
	}
	return r.DPS.Set(), true
}

func (r *AssetRequest) requestedBond() (CodeSet, bool) {
	if r.Bond == nil {
		return CodeSet{}, false
	}
	return r.Bond.Set(), true
}

// hasChanges reports whether any supplied field differs from the current
// record. Numeric fields compare numerically, descriptive fields as
// trimmed strings and code fields as sets.
func (r *AssetRequest) hasChanges(current *models.VLCAsset) bool {
	for _, f := range models.EquipmentFields {
		if v, ok := r.Quantity(f); ok && v != current.Get(f) {
			return true
		}
	}
	for _, tf := range textFields {
		if p := tf.req(r); p != nil && strings.TrimSpace(*p) != strings.TrimSpace(tf.cur(current)) {
			return true
		}
	}
	if set, ok := r.requestedDPS(); ok && !set.Equal(ParseCodeSet(current.DPS)) {
		return true
	}
	if set, ok := r.requestedBond(); ok && !set.Equal(ParseCodeSet(current.Bond)) {
		return true
	}
	return false
}
