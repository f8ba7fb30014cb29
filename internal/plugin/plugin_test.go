package plugin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

func TestBindAndDispatch(t *testing.T) {
	calls := map[string]any{
		"get_signature": func() Signature { return SigEvalB },
		"eval_B": FuncB(func(b Token) Token {
			return ValueToken(array.NewScalar(cell.NewInt(b.Value.At(0).Int() + 1)))
		}),
	}
	d := Dispatcher(func(name string) any { return calls[name] })
	tbl, err := Bind("inc", d)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !tbl.Signature.Has(SigEvalB) {
		t.Fatalf("signature missing SigEvalB")
	}
	res := tbl.EvalB(ValueToken(array.NewScalar(cell.NewInt(41))))
	if res.IsError() {
		t.Fatalf("eval_B: %v", res.Err)
	}
	if res.Value.At(0).Int() != 42 {
		t.Fatalf("eval_B result = %v, want 42", res.Value.At(0))
	}
}

func TestMissingEntryPointIsDomainError(t *testing.T) {
	d := Dispatcher(func(name string) any {
		if name == "get_signature" {
			return func() Signature { return 0 }
		}
		return nil
	})
	tbl, err := Bind("empty", d)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	res := tbl.EvalAB(Token{}, Token{})
	if !res.IsError() {
		t.Fatalf("expected error for unimplemented eval_AB")
	}
	if res.Err.Kind != aplerr.DOMAIN {
		t.Fatalf("kind = %v, want DOMAIN", res.Err.Kind)
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	d := Dispatcher(func(name string) any {
		if name == "get_signature" {
			return func() Signature { return 0 }
		}
		return nil
	})
	tbl, err := Bind("noop", d)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	r.Register(tbl)
	if _, ok := r.Get("noop"); !ok {
		t.Fatalf("registered table not found")
	}
	r.Unload("noop")
	if _, ok := r.Get("noop"); ok {
		t.Fatalf("table should be gone after Unload")
	}
}

func TestWireTokenRoundTrip(t *testing.T) {
	v := array.NewVector([]cell.Cell{cell.NewInt(1), cell.NewFloat(2.5)})
	back := decodeToken(encodeToken(ValueToken(v)))
	if back.IsError() {
		t.Fatalf("decode: %v", back.Err)
	}
	if back.Value.At(0).Int() != 1 {
		t.Fatalf("element 0 = %v, want 1", back.Value.At(0))
	}
	if back.Value.At(1).Float() != 2.5 {
		t.Fatalf("element 1 = %v, want 2.5", back.Value.At(1))
	}
}

func TestWireTokenCharRoundTrip(t *testing.T) {
	v := array.NewVector([]cell.Cell{cell.NewChar('H'), cell.NewChar('I')})
	back := decodeToken(encodeToken(ValueToken(v)))
	if back.Value.At(0).Rune() != 'H' || back.Value.At(1).Rune() != 'I' {
		t.Fatalf("got %v, want HI", back.Value.Ravel())
	}
}

func TestWireTokenErrorRoundTrip(t *testing.T) {
	back := decodeToken(encodeToken(ErrorToken(aplerr.New(aplerr.DOMAIN, "boom"))))
	if !back.IsError() || back.Err.Kind != aplerr.DOMAIN {
		t.Fatalf("expected DOMAIN error, got %v", back)
	}
}

func TestRemoteHostRoundTrip(t *testing.T) {
	host := NewRemoteHost()
	srv := httptest.NewServer(http.HandlerFunc(host.ServeHTTP))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, derr := websocket.DefaultDialer.Dial(wsURL, nil)
	if derr != nil {
		t.Fatalf("dial: %v", derr)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var req rpcRequest
		if err := conn.ReadJSON(&req); err != nil {
			return
		}
		conn.WriteJSON(rpcResponse{ID: req.ID, Result: wireToken{Nums: []float64{99}}})
	}()
	time.Sleep(50 * time.Millisecond)

	res, cerr := host.Call("⎕INP", ValueToken(array.NewScalar(cell.NewInt(1))))
	if cerr != nil {
		t.Fatalf("call: %v", cerr)
	}
	if res.Value.At(0).Int() != 99 {
		t.Fatalf("result = %v, want 99", res.Value.At(0))
	}
	<-done
}
