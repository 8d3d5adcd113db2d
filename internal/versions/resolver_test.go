package versions

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubResolver struct {
	pins  map[string]string
	err   error
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, dep Dependency) (Pin, error) {
	s.calls++
	if s.err != nil {
		return Pin{}, s.err
	}
	v, ok := s.pins[dep.Name]
	if !ok {
		return Pin{}, errors.New("unexpected dependency " + dep.Name)
	}
	return Pin{Name: dep.Name, Version: v, Source: SourceRegistry}, nil
}

func TestStatic(t *testing.T) {
	pin, err := Static{}.Resolve(context.Background(), CasperEngineTestSupport)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if pin.Version != CasperEngineTestSupport.Fallback {
		t.Errorf("Version = %q, want %q", pin.Version, CasperEngineTestSupport.Fallback)
	}
	if pin.Source != SourceFallback {
		t.Errorf("Source = %q, want fallback", pin.Source)
	}

	_, err = Static{}.Resolve(context.Background(), Dependency{Name: "unbundled"})
	if !errors.Is(err, ErrNoCompatibleVersion) {
		t.Errorf("error = %v, want ErrNoCompatibleVersion", err)
	}
}

func TestWildcard(t *testing.T) {
	pin, err := Wildcard{}.Resolve(context.Background(), CasperTypes)
	if err != nil {
		t.Fatal(err)
	}
	if pin.Version != "*" || pin.Source != SourceOverride {
		t.Errorf("pin = %+v, want * from override", pin)
	}
}

func TestFallbackPrimarySucceeds(t *testing.T) {
	primary := &stubResolver{pins: map[string]string{"casper-types": "3.0.9"}}
	secondary := &stubResolver{}
	pin, err := Fallback{Primary: primary, Secondary: secondary}.Resolve(context.Background(), CasperTypes)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if pin.Version != "3.0.9" || pin.Warning != "" {
		t.Errorf("pin = %+v, want 3.0.9 without warning", pin)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary called %d times, want 0", secondary.calls)
	}
}

func TestFallbackDegrades(t *testing.T) {
	primary := &stubResolver{err: errors.New("dial tcp: connection refused")}
	pin, err := Fallback{Primary: primary, Secondary: Static{}}.Resolve(context.Background(), CasperContract)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if pin.Version != CasperContract.Fallback {
		t.Errorf("Version = %q, want bundled %q", pin.Version, CasperContract.Fallback)
	}
	if !strings.Contains(pin.Warning, "connection refused") {
		t.Errorf("Warning = %q, want primary error mentioned", pin.Warning)
	}
}

func TestFallbackBothFail(t *testing.T) {
	primary := &stubResolver{err: errors.New("offline")}
	_, err := Fallback{Primary: primary, Secondary: Static{}}.Resolve(context.Background(), Dependency{Name: "ghost"})
	if !errors.Is(err, ErrNoCompatibleVersion) {
		t.Fatalf("error = %v, want ErrNoCompatibleVersion", err)
	}
	if !strings.Contains(err.Error(), "offline") {
		t.Errorf("error %q should mention the primary failure", err)
	}
}

func TestFallbackCanceled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
		want error
	}{
		{"canceled", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}, context.Canceled},
		{"deadline", func() (context.Context, context.CancelFunc) {
			return context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		}, context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()
			primary := &stubResolver{err: tt.want}
			secondary := &stubResolver{pins: map[string]string{"casper-types": "3.0.0"}}

			_, err := Fallback{Primary: primary, Secondary: secondary}.Resolve(ctx, CasperTypes)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if secondary.calls != 0 {
				t.Errorf("secondary called %d times after cancellation", secondary.calls)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	primary := &stubResolver{err: errors.New("registry down")}
	pins, warnings, err := ResolveAll(context.Background(), Fallback{Primary: primary, Secondary: Static{}}, Required())
	if err != nil {
		t.Fatalf("ResolveAll() error: %v", err)
	}
	if len(pins) != len(Required()) {
		t.Fatalf("got %d pins, want %d", len(pins), len(Required()))
	}
	for i, dep := range Required() {
		if pins[i].Name != dep.Name || pins[i].Version != dep.Fallback {
			t.Errorf("pin[%d] = %+v, want %s %s", i, pins[i], dep.Name, dep.Fallback)
		}
	}
	if len(warnings) != len(Required()) {
		t.Errorf("got %d warnings, want one per dependency", len(warnings))
	}
	if primary.calls != len(Required()) {
		t.Errorf("primary called %d times, want once per dependency", primary.calls)
	}

	if p, ok := pins.Get("casper-types"); !ok || p.Version != "3.0.0" {
		t.Errorf("Get(casper-types) = %+v, %v", p, ok)
	}
	if _, ok := pins.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
}

func TestResolveAllFatal(t *testing.T) {
	deps := []Dependency{CasperTypes, {Name: "ghost"}}
	_, _, err := ResolveAll(context.Background(), Static{}, deps)
	if !errors.Is(err, ErrNoCompatibleVersion) {
		t.Fatalf("error = %v, want ErrNoCompatibleVersion", err)
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error %q should name the dependency", err)
	}
}

func TestResolveAllStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &stubResolver{pins: map[string]string{"casper-types": "3.0.0"}}
	if _, _, err := ResolveAll(ctx, r, []Dependency{CasperTypes}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if r.calls != 0 {
		t.Errorf("resolver called %d times, want 0", r.calls)
	}
}
