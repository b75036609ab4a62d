package client

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shiv060600/Tuttle-Tools/internal/models"
	"github.com/shiv060600/Tuttle-Tools/internal/services"
)

// Outcome of a mutate-then-log sequence.
type Outcome int

const (
	// OutcomeFailed means the mapping call failed and no log was attempted.
	OutcomeFailed Outcome = iota
	OutcomeSucceeded
	// OutcomeSucceededNotLogged means the mutation is in place but the log
	// append failed. The mutation is not rolled back.
	OutcomeSucceededNotLogged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeSucceededNotLogged:
		return "succeeded_not_logged"
	}
	return "unknown"
}

type Result struct {
	Outcome Outcome
	// Count is the affected row count of the mapping call.
	Count  int64
	Err    error
	LogErr error
}

// Orchestrator pairs each mapping mutation with its audit entry the way the
// web frontend does: one call for the change, a second for the log.
type Orchestrator struct {
	client *Client
	logger *slog.Logger
}

func NewOrchestrator(client *Client, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{client: client, logger: logger}
}

func (o *Orchestrator) Create(ctx context.Context, typ string, in services.MappingInput) Result {
	n, err := o.client.CreateMapping(ctx, typ, in)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	to := snapshot(typ, func(f services.Field) *string { return stored(in.Get(f)) })
	req := services.LogRequest{Action: string(models.ActionInsert)}
	setTo(&req, to)
	return o.log(ctx, typ, n, req)
}

// Update patches before.RowNum and logs the row as it was and as it is now.
func (o *Orchestrator) Update(ctx context.Context, typ string, before models.CustomerMapping, patch services.MappingInput) Result {
	n, err := o.client.UpdateMapping(ctx, typ, before.RowNum, patch)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	rowNum := before.RowNum
	from := snapshot(typ, func(f services.Field) *string { return current(before, f) })
	to := snapshot(typ, func(f services.Field) *string { return patched(current(before, f), patch.Get(f)) })
	req := services.LogRequest{Action: string(models.ActionEdit), RowNum: &rowNum}
	setFrom(&req, from)
	setTo(&req, to)
	return o.log(ctx, typ, n, req)
}

func (o *Orchestrator) Delete(ctx context.Context, typ string, before models.CustomerMapping) Result {
	n, err := o.client.DeleteMapping(ctx, typ, before.RowNum)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: err}
	}

	rowNum := before.RowNum
	from := snapshot(typ, func(f services.Field) *string { return current(before, f) })
	req := services.LogRequest{Action: string(models.ActionDelete), RowNum: &rowNum}
	setFrom(&req, from)
	return o.log(ctx, typ, n, req)
}

func (o *Orchestrator) log(ctx context.Context, typ string, n int64, req services.LogRequest) Result {
	if _, err := o.client.AppendLog(ctx, typ, req); err != nil {
		o.logger.Warn("Mapping changed but logging failed", "type", typ, "action", req.Action, "error", err)
		return Result{Outcome: OutcomeSucceededNotLogged, Count: n, LogErr: err}
	}
	return Result{Outcome: OutcomeSucceeded, Count: n}
}

// snapshot collects the values of the columns typ carries. Other columns stay
// nil so the log never names a field the type does not have.
func snapshot(typ string, value func(services.Field) *string) services.Snapshot {
	mt, _ := services.Layout(typ)
	var snap services.Snapshot
	for _, f := range mt.Fields {
		v := value(f)
		switch f {
		case services.FieldBillTo:
			snap.BillTo = v
		case services.FieldShipTo:
			snap.ShipTo = v
		case services.FieldHQ:
			snap.HQ = v
		case services.FieldSSAcct:
			snap.SSAcct = v
		}
	}
	return snap
}

func current(row models.CustomerMapping, f services.Field) *string {
	switch f {
	case services.FieldBillTo:
		return row.BillTo
	case services.FieldShipTo:
		return row.ShipTo
	case services.FieldHQ:
		hq := row.HQ
		return &hq
	case services.FieldSSAcct:
		ssacct := row.SSAcct
		return &ssacct
	}
	return nil
}

// stored is the value a create writes for v: trimmed, and "" when absent or null.
func stored(v services.Value) *string {
	s := ""
	if v.Set && !v.Null {
		s = strings.TrimSpace(v.S)
	}
	return &s
}

// patched is the stored value after applying v to old. A cleared field is
// stored as an empty string.
func patched(old *string, v services.Value) *string {
	if !v.Set {
		return old
	}
	return stored(v)
}

func setFrom(req *services.LogRequest, s services.Snapshot) {
	req.BillToFrom, req.ShipToFrom, req.HQFrom, req.SSAcctFrom = s.BillTo, s.ShipTo, s.HQ, s.SSAcct
}

func setTo(req *services.LogRequest, s services.Snapshot) {
	req.BillToTo, req.ShipToTo, req.HQTo, req.SSAcctTo = s.BillTo, s.ShipTo, s.HQ, s.SSAcct
}
