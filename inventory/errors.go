// inventory/errors.go
package inventory

import (
	"fmt"
	"strings"
)

// DuplicateVlcCodeError is returned when a create targets a vlcCode that
// already exists. Existing carries the current record so the handler can
// echo it back.
type DuplicateVlcCodeError struct {
	VLCCode  string
	Existing interface{}
}

func (e *DuplicateVlcCodeError) Error() string {
	return fmt.Sprintf("vlc asset %q already exists", e.VLCCode)
}

// NotFoundError is returned when an update targets an unknown vlcCode.
type NotFoundError struct {
	VLCCode string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("vlc asset %q not found", e.VLCCode)
}

// NoChangeError rejects an update whose supplied fields all match the
// current record, so vacuous history entries are never written.
type NoChangeError struct {
	VLCCode string
}

func (e *NoChangeError) Error() string {
	return fmt.Sprintf("update for vlc asset %q contains no changed fields", e.VLCCode)
}

// NoIssuanceError is returned when the acting sub-admin has no
// issued-assets entry at all.
type NoIssuanceError struct {
	SubAdminID string
}

func (e *NoIssuanceError) Error() string {
	return fmt.Sprintf("no assets issued to sub-admin %s", e.SubAdminID)
}

// NotIssuedError lists candidate codes absent from the sub-admin's
// issued pools.
type NotIssuedError struct {
	MissingDPS  []string `json:"dps"`
	MissingBond []string `json:"bond"`
}

func (e *NotIssuedError) Error() string {
	var parts []string
	if len(e.MissingDPS) > 0 {
		parts = append(parts, "dps: "+strings.Join(e.MissingDPS, ","))
	}
	if len(e.MissingBond) > 0 {
		parts = append(parts, "bond: "+strings.Join(e.MissingBond, ","))
	}
	return "codes not issued to this sub-admin (" + strings.Join(parts, "; ") + ")"
}

// CodeConflict reports codes already attached to another asset record.
type CodeConflict struct {
	VLCCode          string   `json:"vlcCode"`
	OverlappingCodes []string `json:"overlappingCodes"`
}

// CodeConflictError aggregates all records whose dps/bond sets overlap
// the candidate codes.
type CodeConflictError struct {
	Conflicts []CodeConflict `json:"conflicts"`
}

func (e *CodeConflictError) Error() string {
	var parts []string
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s:[%s]", c.VLCCode, strings.Join(c.OverlappingCodes, ",")))
	}
	return "serial codes already attached to other vlc assets: " + strings.Join(parts, " ")
}

// AlreadyUsedError lists codes the sub-admin's ledger already marks as
// spent on a different record (update path only).
type AlreadyUsedError struct {
	DPS  []string `json:"dps"`
	Bond []string `json:"bond"`
}

func (e *AlreadyUsedError) Error() string {
	var parts []string
	if len(e.DPS) > 0 {
		parts = append(parts, "dps: "+strings.Join(e.DPS, ","))
	}
	if len(e.Bond) > 0 {
		parts = append(parts, "bond: "+strings.Join(e.Bond, ","))
	}
	return "codes already consumed on another record (" + strings.Join(parts, "; ") + ")"
}

// FieldShortage describes one numeric field that exceeded its budget.
type FieldShortage struct {
	Field     string `json:"field"`
	Issued    int64  `json:"issued"`
	Used      int64  `json:"used"`
	Available int64  `json:"available"`
	Requested int64  `json:"requested"`
}

// InsufficientInventoryError reports every numeric field whose requested
// quantity exceeds the remaining budget.
type InsufficientInventoryError struct {
	Shortages []FieldShortage `json:"shortages"`
}

func (e *InsufficientInventoryError) Error() string {
	var parts []string
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s requested=%d available=%d", s.Field, s.Requested, s.Available))
	}
	return "insufficient issued inventory: " + strings.Join(parts, "; ")
}

// TransactionError wraps an infrastructure-level abort after the bounded
// retry is exhausted. Nothing was committed when it surfaces.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return "reconciliation transaction failed: " + e.Err.Error()
}

func (e *TransactionError) Unwrap() error { return e.Err }
