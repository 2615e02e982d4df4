package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yjs2001/material-synthesis-seer/internal/history"
	"github.com/yjs2001/material-synthesis-seer/internal/model"
	"github.com/yjs2001/material-synthesis-seer/internal/notify"
	"github.com/yjs2001/material-synthesis-seer/internal/persist"
	"github.com/yjs2001/material-synthesis-seer/internal/validate"
)

func validParams() model.Params {
	return model.Params{
		Substrate:           model.SubstrateSapphire,
		MetalChalcogenRatio: 1.2,
		H2ArRatio:           0.08,
		Pressure:            model.PressureLow,
		MetalTemp:           820,
		ChalcogenTemp:       250,
		Position:            model.PositionTop,
		ReactionTime:        30,
		SaltAdditive:        model.SaltYes,
	}
}

func newTestHistory(t *testing.T) (*history.Store, persist.Slot) {
	t.Helper()
	slot := persist.NewFileSlot(filepath.Join(t.TempDir(), "history.json"), 0, 0)
	return history.Load(slot, zap.NewNop()), slot
}

func TestPredictSuccess(t *testing.T) {
	var gotPath string
	var gotBody model.Params
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"prediction":"excellent"}`))
	}))
	defer srv.Close()

	hist, slot := newTestHistory(t)
	spy := &notify.Spy{}
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, spy, PolicySimulate, zap.NewNop())

	rec, err := orch.Predict(context.Background(), model.MaterialMoS2, validParams())
	require.NoError(t, err)

	assert.Equal(t, "/mos2", gotPath)
	assert.Equal(t, validParams(), gotBody)

	assert.Equal(t, model.MaterialMoS2, rec.Material)
	assert.Equal(t, "excellent", rec.Outcome.Label)
	assert.True(t, rec.Outcome.Known)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, validParams(), rec.Params)

	// Exactly one record, prepended, durably written.
	require.Equal(t, 1, hist.Len())
	reloaded := history.Load(slot, zap.NewNop())
	require.Equal(t, 1, reloaded.Len())
	assert.Equal(t, rec.ID, reloaded.Records()[0].ID)

	require.Len(t, spy.Notices, 1)
	assert.Equal(t, notify.SeverityNormal, spy.Notices[0].Severity)
}

func TestPredictPrepends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction":"qualified"}`))
	}))
	defer srv.Close()

	hist, _ := newTestHistory(t)
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, &notify.Spy{}, PolicySimulate, zap.NewNop())

	first, err := orch.Predict(context.Background(), model.MaterialMoS2, validParams())
	require.NoError(t, err)
	second, err := orch.Predict(context.Background(), model.MaterialWS2, validParams())
	require.NoError(t, err)

	recs := hist.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, second.ID, recs[0].ID)
	assert.Equal(t, first.ID, recs[1].ID)
	// Identifiers are monotonic within the session.
	assert.Less(t, first.ID, second.ID)
}

func TestPredictMaterialCodeMapping(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"prediction":"no-yield"}`))
	}))
	defer srv.Close()

	hist, _ := newTestHistory(t)
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, &notify.Spy{}, PolicySimulate, zap.NewNop())

	// wse2 rides the ws2 model but the record keeps the selected material.
	rec, err := orch.Predict(context.Background(), model.MaterialWSe2, validParams())
	require.NoError(t, err)
	assert.Equal(t, "/ws2", gotPath)
	assert.Equal(t, model.MaterialWSe2, rec.Material)
}

func TestPredictPartialCodeOverride(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{"prediction":"excellent"}`))
	}))
	defer srv.Close()

	hist, _ := newTestHistory(t)
	// Override only one material; the rest must keep their default codes
	// and still reach the endpoint.
	override := map[model.Material]string{model.MaterialWSe2: "wse2"}
	orch := NewOrchestrator(NewClient(srv.URL, override), hist, &notify.Spy{}, PolicySimulate, zap.NewNop())

	rec, err := orch.Predict(context.Background(), model.MaterialMoS2, validParams())
	require.NoError(t, err)
	assert.Equal(t, "excellent", rec.Outcome.Label)

	_, err = orch.Predict(context.Background(), model.MaterialWSe2, validParams())
	require.NoError(t, err)

	require.Equal(t, []string{"/mos2", "/wse2"}, paths)
}

func TestPredictUnrecognizedLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction":"monolayer-partial"}`))
	}))
	defer srv.Close()

	hist, _ := newTestHistory(t)
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, &notify.Spy{}, PolicySimulate, zap.NewNop())

	rec, err := orch.Predict(context.Background(), model.MaterialMoTe2, validParams())
	require.NoError(t, err)
	assert.Equal(t, "monolayer-partial", rec.Outcome.Label)
	assert.False(t, rec.Outcome.Known)
}

func TestPredictSimulatesWhenUnreachable(t *testing.T) {
	// A server that is already closed is as unreachable as it gets.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	hist, slot := newTestHistory(t)
	spy := &notify.Spy{}
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, spy, PolicySimulate, zap.NewNop())

	rec, err := orch.Predict(context.Background(), model.MaterialWS2, validParams())
	require.NoError(t, err)
	assert.Contains(t, model.CanonicalOutcomes, rec.Outcome.Label)
	assert.True(t, rec.Outcome.Known)

	require.Equal(t, 1, hist.Len())
	reloaded := history.Load(slot, zap.NewNop())
	assert.Equal(t, 1, reloaded.Len())

	// Degraded outcomes are not surfaced as blocking errors.
	require.Len(t, spy.Notices, 1)
	assert.Equal(t, notify.SeverityNormal, spy.Notices[0].Severity)
}

func TestPredictSimulatesOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	hist, _ := newTestHistory(t)
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, &notify.Spy{}, PolicySimulate, zap.NewNop())

	rec, err := orch.Predict(context.Background(), model.MaterialMoS2, validParams())
	require.NoError(t, err)
	assert.Contains(t, model.CanonicalOutcomes, rec.Outcome.Label)
}

func TestPredictFailPolicy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	hist, _ := newTestHistory(t)
	spy := &notify.Spy{}
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, spy, PolicyFail, zap.NewNop())

	_, err := orch.Predict(context.Background(), model.MaterialMoS2, validParams())
	require.Error(t, err)
	assert.Equal(t, 0, hist.Len())
	require.Len(t, spy.Notices, 1)
	assert.Equal(t, notify.SeverityDestructive, spy.Notices[0].Severity)
}

func TestPredictRejectsInvalidParams(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	hist, _ := newTestHistory(t)
	spy := &notify.Spy{}
	orch := NewOrchestrator(NewClient(srv.URL, nil), hist, spy, PolicySimulate, zap.NewNop())

	p := validParams()
	p.Substrate = ""
	_, err := orch.Predict(context.Background(), model.MaterialMoS2, p)
	require.Error(t, err)

	var ferr *validate.FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "Substrate", ferr.Field)

	assert.False(t, called, "rejected submission must not reach the endpoint")
	assert.Equal(t, 0, hist.Len())
	require.Len(t, spy.Notices, 1)
	assert.Equal(t, notify.SeverityDestructive, spy.Notices[0].Severity)
}

func TestPredictUnknownMaterial(t *testing.T) {
	hist, _ := newTestHistory(t)
	orch := NewOrchestrator(NewClient("http://localhost:0", nil), hist, &notify.Spy{}, PolicySimulate, zap.NewNop())
	_, err := orch.Predict(context.Background(), model.Material("graphene"), validParams())
	require.Error(t, err)
	assert.Equal(t, 0, hist.Len())
}

type scorerFunc func(ctx context.Context, material model.Material, p model.Params) (string, error)

func (f scorerFunc) Score(ctx context.Context, material model.Material, p model.Params) (string, error) {
	return f(ctx, material, p)
}

func TestPredictBusyGuard(t *testing.T) {
	hist, _ := newTestHistory(t)
	orch := NewOrchestrator(nil, hist, &notify.Spy{}, PolicySimulate, zap.NewNop())

	var nestedErr error
	orch.scorer = scorerFunc(func(ctx context.Context, m model.Material, p model.Params) (string, error) {
		// A submission issued while this one is outstanding must be refused.
		_, nestedErr = orch.Predict(ctx, m, p)
		return "excellent", nil
	})

	_, err := orch.Predict(context.Background(), model.MaterialMoS2, validParams())
	require.NoError(t, err)
	assert.ErrorIs(t, nestedErr, ErrBusy)
	assert.Equal(t, 1, hist.Len())
}

func TestClientMissingPredictionField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Score(context.Background(), model.MaterialMoS2, validParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prediction")
}
