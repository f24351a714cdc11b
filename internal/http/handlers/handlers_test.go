package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/internal/config"
	"github.com/jmylchreest/wizlightd/internal/errors"
	"github.com/jmylchreest/wizlightd/internal/events"
	"github.com/jmylchreest/wizlightd/internal/utils"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// --- Fake bulb transport ---

type fakeTransport struct {
	mu    sync.Mutex
	sent  []string
	reply []byte
}

func (f *fakeTransport) Send(_ context.Context, _ string, payload []byte, wait bool, _ time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, string(payload))
	if !wait {
		return nil, nil
	}
	return f.reply, nil
}

func (f *fakeTransport) payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(t *testing.T, tr *fakeTransport, bulbs ...config.BulbConfig) *bulb.Controller {
	t.Helper()
	return newTestControllerAt(t, filepath.Join(t.TempDir(), "wizd.yaml"), tr, bulbs...)
}

func newTestControllerAt(t *testing.T, path string, tr *fakeTransport, bulbs ...config.BulbConfig) *bulb.Controller {
	t.Helper()
	cfg, err := config.Load("wizd.yaml", path)
	require.NoError(t, err)
	cfg.Bulbs = bulbs

	logger := testLogger()
	bus := events.NewBus()
	store := bulb.NewStore(logger, cfg, bus)
	client := wiz.NewClient(logger, wiz.WithTransport(tr))
	ctrl := bulb.NewController(logger, store, client, bus, 20*time.Millisecond)
	t.Cleanup(ctrl.Close)
	return ctrl
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, stderrors.As(err, &se), "expected a huma status error, got %v", err)
	return se.GetStatus()
}

var kitchen = config.BulbConfig{ID: "bulb-1", Name: "Kitchen", IP: "192.168.1.20"}

// === Health Handler Tests ===

func TestHealthCheck(t *testing.T) {
	out, err := HealthCheck(context.Background(), &HealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Body.Status)
}

func TestVersionCheck(t *testing.T) {
	info := VersionInfo{Version: "1.2.3", Commit: "abc", BuildDate: "today"}
	out, err := VersionCheck(info)(context.Background(), &VersionInput{})
	require.NoError(t, err)
	assert.Equal(t, info, out.Body)
}

// === Bulb Handler Tests ===

func TestBulbHandler_ListBulbs(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{}, kitchen)}

	out, err := h.ListBulbs(context.Background(), &ListBulbsInput{})
	require.NoError(t, err)
	require.Len(t, out.Body, 1)
	assert.Equal(t, "Kitchen", out.Body[0].Name)
	assert.Equal(t, "192.168.1.20", out.Body[0].IP)
}

func TestBulbHandler_ListBulbs_Empty(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{})}

	out, err := h.ListBulbs(context.Background(), &ListBulbsInput{})
	require.NoError(t, err)
	assert.NotNil(t, out.Body)
	assert.Empty(t, out.Body)
}

func TestBulbHandler_CreateBulb(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wizd.yaml")
	h := &BulbHandler{Controller: newTestControllerAt(t, path, &fakeTransport{})}

	in := &CreateBulbInput{}
	in.Body.Name = "Desk"
	in.Body.IP = "10.0.0.5"
	out, err := h.CreateBulb(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, out.Body.ID)
	assert.Equal(t, "Desk", out.Body.Name)

	reloaded, err := config.Load("wizd.yaml", path)
	require.NoError(t, err)
	require.Len(t, reloaded.Bulbs, 1)
	assert.Equal(t, out.Body.ID, reloaded.Bulbs[0].ID)
	assert.Equal(t, "10.0.0.5", reloaded.Bulbs[0].IP)
}

func TestBulbHandler_CreateBulb_InvalidIP(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{})}

	in := &CreateBulbInput{}
	in.Body.IP = "not-an-ip"
	_, err := h.CreateBulb(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestBulbHandler_GetBulb_NotFound(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{})}

	_, err := h.GetBulb(context.Background(), &GetBulbInput{ID: "missing"})
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}

func TestBulbHandler_UpdateBulb(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{}, kitchen)}

	name := "Pantry"
	show := true
	in := &UpdateBulbInput{ID: "bulb-1"}
	in.Body.Name = &name
	in.Body.ShowInWidget = &show
	out, err := h.UpdateBulb(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Pantry", out.Body.Name)
	assert.True(t, out.Body.ShowInWidget)
	assert.Equal(t, "192.168.1.20", out.Body.IP)
}

func TestBulbHandler_DeleteBulb(t *testing.T) {
	ctrl := newTestController(t, &fakeTransport{}, kitchen)
	h := &BulbHandler{Controller: ctrl}

	_, err := h.DeleteBulb(context.Background(), &DeleteBulbInput{ID: "bulb-1"})
	require.NoError(t, err)
	assert.Empty(t, ctrl.Store().List())

	_, err = h.DeleteBulb(context.Background(), &DeleteBulbInput{ID: "bulb-1"})
	assert.Equal(t, 404, statusOf(t, err))
}

func TestBulbHandler_GetBulbStatus(t *testing.T) {
	tr := &fakeTransport{reply: []byte(`{"method":"getPilot","result":{"state":true,"dimming":50,"temp":2700}}`)}
	h := &BulbHandler{Controller: newTestController(t, tr, kitchen)}

	out, err := h.GetBulbStatus(context.Background(), &GetBulbStatusInput{ID: "bulb-1"})
	require.NoError(t, err)
	assert.True(t, out.Body.Reachable)
	assert.True(t, out.Body.On)
	assert.Equal(t, 50, out.Body.Brightness)
	assert.Equal(t, 2700, out.Body.Temperature)
	assert.Equal(t, wiz.KelvinToRGB(2700, 50).Hex(), out.Body.Swatch)
	assert.Nil(t, out.Body.Pending)
}

func TestBulbHandler_GetBulbStatus_Unreachable(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{}, kitchen)}

	_, err := h.GetBulbStatus(context.Background(), &GetBulbStatusInput{ID: "bulb-1"})
	require.Error(t, err)
	assert.Equal(t, 503, statusOf(t, err))
}

func TestBulbHandler_SetBulbState(t *testing.T) {
	tr := &fakeTransport{}
	h := &BulbHandler{Controller: newTestController(t, tr, kitchen)}

	on := true
	brightness := 150.0
	kelvin := 1000.0
	in := &SetBulbStateInput{ID: "bulb-1"}
	in.Body.On = &on
	in.Body.Brightness = &brightness
	in.Body.Temperature = &kelvin

	out, err := h.SetBulbState(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Body.Status)
	assert.Equal(t, []string{
		`{"method":"setPilot","params":{"state":true}}`,
		`{"method":"setPilot","params":{"dimming":100,"state":true}}`,
		`{"method":"setPilot","params":{"temp":2200}}`,
	}, tr.payloads())
}

func TestBulbHandler_SetBulbState_Empty(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{}, kitchen)}

	_, err := h.SetBulbState(context.Background(), &SetBulbStateInput{ID: "bulb-1"})
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestBulbHandler_SetBulbState_NoIP(t *testing.T) {
	h := &BulbHandler{Controller: newTestController(t, &fakeTransport{}, config.BulbConfig{ID: "bulb-2", Name: "Unset"})}

	on := true
	in := &SetBulbStateInput{ID: "bulb-2"}
	in.Body.On = &on
	_, err := h.SetBulbState(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestBulbHandler_SetBulbColor_Debounced(t *testing.T) {
	tr := &fakeTransport{}
	ctrl := newTestController(t, tr, kitchen)
	h := &BulbHandler{Controller: ctrl}

	for _, r := range []int{10, 20, 300} {
		in := &SetBulbColorInput{ID: "bulb-1"}
		in.Body.R = r
		out, err := h.SetBulbColor(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, out.Body.Queued)
	}

	pending, ok := ctrl.PendingColor("bulb-1")
	require.True(t, ok)
	assert.Equal(t, wiz.RGB8{R: 255}, pending)

	require.Eventually(t, func() bool { return len(tr.payloads()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, `{"method":"setPilot","params":{"r":255,"g":0,"b":0,"dimming":100}}`, tr.payloads()[0])
}

func TestBulbHandler_CancelBulbColor(t *testing.T) {
	tr := &fakeTransport{}
	ctrl := newTestController(t, tr, kitchen)
	h := &BulbHandler{Controller: ctrl}

	in := &SetBulbColorInput{ID: "bulb-1"}
	in.Body.G = 128
	_, err := h.SetBulbColor(context.Background(), in)
	require.NoError(t, err)

	out, err := h.CancelBulbColor(context.Background(), &CancelBulbColorInput{ID: "bulb-1"})
	require.NoError(t, err)
	assert.True(t, out.Body.Cancelled)

	out, err = h.CancelBulbColor(context.Background(), &CancelBulbColorInput{ID: "bulb-1"})
	require.NoError(t, err)
	assert.False(t, out.Body.Cancelled)

	_, err = h.CancelBulbColor(context.Background(), &CancelBulbColorInput{ID: "missing"})
	assert.Equal(t, 404, statusOf(t, err))
}

// === Color Handler Tests ===

func TestKelvinPreview(t *testing.T) {
	out, err := KelvinPreview(context.Background(), &KelvinInput{Kelvin: 6600, Brightness: 100})
	require.NoError(t, err)
	assert.Equal(t, "#ffffff", out.Body.Hex)
	assert.Equal(t, wiz.RGB8{R: 255, G: 255, B: 255}, out.Body.RGB)
	assert.InDelta(t, 1.0, out.Body.HSB.B, 1e-9)

	out, err = KelvinPreview(context.Background(), &KelvinInput{Kelvin: 2700, Brightness: 0})
	require.NoError(t, err)
	assert.Equal(t, "#000000", out.Body.Hex)
}

// === Error mapping ===

func TestToHumaError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.NotFoundf("bulb x"), 404},
		{errors.InvalidInputf("bad"), 400},
		{errors.Unreachablef("gone"), 503},
		{stderrors.New("boom"), 500},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(t, toHumaError(tt.err)), tt.err.Error())
	}
}

// === Logging Handler Tests ===

func TestLoggingHandler_Level(t *testing.T) {
	t.Cleanup(func() { utils.SetLogLevel("info") })
	h := &LoggingHandler{Logger: testLogger()}

	in := &SetLevelInput{}
	in.Body.Level = "DEBUG"
	out, err := h.SetLevel(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "debug", out.Body.Level)

	got, err := h.GetLevel(context.Background(), &GetLevelInput{})
	require.NoError(t, err)
	assert.Equal(t, "debug", got.Body.Level)
}

func TestLoggingHandler_SetLevel_Invalid(t *testing.T) {
	h := &LoggingHandler{Logger: testLogger()}

	in := &SetLevelInput{}
	in.Body.Level = "verbose"
	_, err := h.SetLevel(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestLevelToString(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, "debug"},
		{slog.LevelDebug - 4, "debug"},
		{slog.LevelInfo, "info"},
		{slog.LevelWarn, "warn"},
		{slog.LevelError, "error"},
		{slog.LevelError + 4, "error"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelToString(tt.level))
	}
}

func TestBulbsFromInternal_Empty(t *testing.T) {
	out := BulbsFromInternal(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
