package routes

import (
	"context"

	"github.com/jmylchreest/wizlightd/internal/http/handlers"
)

// StubHandlers returns a Handlers instance with stub implementations.
// All handlers return nil responses; they are only used for OpenAPI generation
// where Huma extracts type information from function signatures.
func StubHandlers() *Handlers {
	return &Handlers{
		Version: func(_ context.Context, _ *handlers.VersionInput) (*handlers.VersionOutput, error) {
			return nil, nil
		},
		Bulb:      &stubBulbHandlers{},
		Discovery: &stubDiscoveryHandlers{},
		Widget:    &stubWidgetHandlers{},
		Logging:   &stubLoggingHandlers{},
	}
}

// --- Bulb stubs ---

type stubBulbHandlers struct{}

func (s *stubBulbHandlers) ListBulbs(_ context.Context, _ *handlers.ListBulbsInput) (*handlers.ListBulbsOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) CreateBulb(_ context.Context, _ *handlers.CreateBulbInput) (*handlers.CreateBulbOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) GetBulb(_ context.Context, _ *handlers.GetBulbInput) (*handlers.GetBulbOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) UpdateBulb(_ context.Context, _ *handlers.UpdateBulbInput) (*handlers.UpdateBulbOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) DeleteBulb(_ context.Context, _ *handlers.DeleteBulbInput) (*handlers.DeleteBulbOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) GetBulbStatus(_ context.Context, _ *handlers.GetBulbStatusInput) (*handlers.GetBulbStatusOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) SetBulbState(_ context.Context, _ *handlers.SetBulbStateInput) (*handlers.SetBulbStateOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) SetBulbColor(_ context.Context, _ *handlers.SetBulbColorInput) (*handlers.SetBulbColorOutput, error) {
	return nil, nil
}

func (s *stubBulbHandlers) CancelBulbColor(_ context.Context, _ *handlers.CancelBulbColorInput) (*handlers.CancelBulbColorOutput, error) {
	return nil, nil
}

// --- Discovery stubs ---

type stubDiscoveryHandlers struct{}

func (s *stubDiscoveryHandlers) Discover(_ context.Context, _ *handlers.DiscoverInput) (*handlers.DiscoverOutput, error) {
	return nil, nil
}

// --- Widget stubs ---

type stubWidgetHandlers struct{}

func (s *stubWidgetHandlers) GetWidget(_ context.Context, _ *handlers.WidgetInput) (*handlers.WidgetOutput, error) {
	return nil, nil
}

// --- Logging stubs ---

type stubLoggingHandlers struct{}

func (s *stubLoggingHandlers) GetLevel(_ context.Context, _ *handlers.GetLevelInput) (*handlers.GetLevelOutput, error) {
	return nil, nil
}

func (s *stubLoggingHandlers) SetLevel(_ context.Context, _ *handlers.SetLevelInput) (*handlers.SetLevelOutput, error) {
	return nil, nil
}
