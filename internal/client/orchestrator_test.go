package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"

	"github.com/shiv060600/Tuttle-Tools/internal/apperr"
	"github.com/shiv060600/Tuttle-Tools/internal/models"
	"github.com/shiv060600/Tuttle-Tools/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrchestrator(t *testing.T, c *Client) *Orchestrator {
	return NewOrchestrator(c, slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func TestOrchestrator_Lifecycle(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	c := newTestClient(t, ts)
	o := newOrchestrator(t, c)

	res := o.Create(ctx, "original", services.MappingInput{
		BillTo: services.Str("SL100"), HQ: services.Str("HQ9"), SSAcct: services.Str("SA999"),
	})
	require.Equal(t, OutcomeSucceeded, res.Outcome, "%v %v", res.Err, res.LogErr)
	assert.Equal(t, int64(1), res.Count)

	rows, err := c.ListMappings(ctx, "original")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	before := rows[0]

	res = o.Update(ctx, "original", before, services.MappingInput{HQ: services.Str("HQ10")})
	require.Equal(t, OutcomeSucceeded, res.Outcome, "%v %v", res.Err, res.LogErr)

	rows, err = c.ListMappings(ctx, "original")
	require.NoError(t, err)
	res = o.Delete(ctx, "original", rows[0])
	require.Equal(t, OutcomeSucceeded, res.Outcome, "%v %v", res.Err, res.LogErr)

	entries, err := c.ListLogs(ctx, "original")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	byAction := map[models.Action]models.AuditLogEntry{}
	for _, e := range entries {
		byAction[e.Action] = e
	}

	ins := byAction[models.ActionInsert]
	assert.Equal(t, "SL100", *ins.BillToTo)
	assert.Nil(t, ins.BillToFrom)
	// shipto was left out and stored as ""
	require.NotNil(t, ins.ShipToTo)
	assert.Equal(t, "", *ins.ShipToTo)
	assert.Equal(t, "", *before.ShipTo)

	edit := byAction[models.ActionEdit]
	assert.Equal(t, before.RowNum, *edit.RowNum)
	assert.Equal(t, "HQ9", *edit.HQFrom)
	assert.Equal(t, "HQ10", *edit.HQTo)
	assert.Equal(t, "SL100", *edit.BillToTo)

	del := byAction[models.ActionDelete]
	assert.Equal(t, "HQ10", *del.HQFrom)
	assert.Nil(t, del.HQTo)

	// mapping failures never log
	res = o.Delete(ctx, "original", rows[0])
	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.True(t, errors.Is(res.Err, apperr.ErrNotFound))
	entries, err = c.ListLogs(ctx, "original")
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestOrchestrator_IPSNullShipTo(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	c := newTestClient(t, ts)
	require.NoError(t, c.Login(ctx, "admin", "s3cret"))
	o := newOrchestrator(t, c)

	res := o.Create(ctx, "ips", services.MappingInput{HQ: services.Str("HQ1"), SSAcct: services.Str("SA1")})
	require.Equal(t, OutcomeSucceeded, res.Outcome, "%v %v", res.Err, res.LogErr)

	rows, err := c.ListMappings(ctx, "ips")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	res = o.Update(ctx, "ips", rows[0], services.MappingInput{HQ: services.Str("HQ2"), ShipTo: services.Null()})
	require.Equal(t, OutcomeSucceeded, res.Outcome, "%v %v", res.Err, res.LogErr)

	entries, err := c.ListLogs(ctx, "ips")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Nil(t, e.ShipToFrom)
		assert.Nil(t, e.ShipToTo)
		assert.Nil(t, e.BillToFrom)
		assert.Nil(t, e.BillToTo)
		if e.Action == models.ActionEdit {
			assert.Equal(t, "HQ1", *e.HQFrom)
			assert.Equal(t, "HQ2", *e.HQTo)
		}
	}
}

func TestOrchestrator_PartialFailure(t *testing.T) {
	ctx := context.Background()
	ts := newTestServer(t)
	plain := newTestClient(t, ts)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	failing, err := New(ts.srv.URL, &http.Client{Jar: jar, Transport: failLogging{next: http.DefaultTransport}})
	require.NoError(t, err)
	o := newOrchestrator(t, failing)

	res := o.Create(ctx, "original", services.MappingInput{
		BillTo: services.Str("SL100"), HQ: services.Str("HQ9"), SSAcct: services.Str("SA999"),
	})
	assert.Equal(t, OutcomeSucceededNotLogged, res.Outcome)
	assert.NoError(t, res.Err)
	assert.True(t, errors.Is(res.LogErr, apperr.ErrInvalidInput))

	rows, err := plain.ListMappings(ctx, "original")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	res = o.Update(ctx, "original", rows[0], services.MappingInput{ShipTo: services.Str("SH2")})
	assert.Equal(t, OutcomeSucceededNotLogged, res.Outcome)
	rows, err = plain.ListMappings(ctx, "original")
	require.NoError(t, err)
	assert.Equal(t, "SH2", *rows[0].ShipTo)

	res = o.Delete(ctx, "original", rows[0])
	assert.Equal(t, OutcomeSucceededNotLogged, res.Outcome)
	rows, err = plain.ListMappings(ctx, "original")
	require.NoError(t, err)
	assert.Empty(t, rows)

	entries, err := plain.ListLogs(ctx, "original")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// the server side failing the append has the same outcome
	require.NoError(t, ts.db.Migrator().DropTable("mapping_log"))
	res = newOrchestrator(t, plain).Create(ctx, "original", services.MappingInput{
		BillTo: services.Str("SL200"), HQ: services.Str("HQ2"), SSAcct: services.Str("SA2"),
	})
	assert.Equal(t, OutcomeSucceededNotLogged, res.Outcome)
	assert.True(t, errors.Is(res.LogErr, apperr.ErrStoreUnavailable))
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "succeeded", OutcomeSucceeded.String())
	assert.Equal(t, "succeeded_not_logged", OutcomeSucceededNotLogged.String())
}
