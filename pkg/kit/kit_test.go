package kit

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}
	ep := Chain(mw("a"), mw("b"), mw("c"))(func(context.Context, any) (any, error) {
		order = append(order, "endpoint")
		return nil, nil
	})
	if _, err := ep(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	want := []string{"a", "b", "c", "endpoint"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestMiddlewarePassThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	boom := errors.New("boom")
	ep := Chain(Logging(logger, "test"), Instrument("test"))(func(_ context.Context, req any) (any, error) {
		if req == nil {
			return nil, boom
		}
		return req, nil
	})

	ctx := WithSessionID(WithRequestID(context.Background(), "r1"), "s1")
	if resp, err := ep(ctx, "x"); err != nil || resp != "x" {
		t.Errorf("ep(x) = %v, %v", resp, err)
	}
	if _, err := ep(ctx, nil); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if GetTransport(ctx) != "http" {
		t.Error("default transport should be http")
	}
	ctx = WithTransport(ctx, "mcp")
	ctx = WithRequestID(ctx, "req")
	ctx = WithSessionID(ctx, "sess")
	if GetTransport(ctx) != "mcp" || GetRequestID(ctx) != "req" || GetSessionID(ctx) != "sess" {
		t.Errorf("values = %q %q %q", GetTransport(ctx), GetRequestID(ctx), GetSessionID(ctx))
	}
}
