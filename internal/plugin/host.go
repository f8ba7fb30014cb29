package plugin

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// wireToken is Token's JSON form on the remote control channel. The
// channel only ever carries ⎕INP/⎕EA host-call payloads (spec.md §5's
// suspension points), not general nested arrays, so a flat numeric-or-char
// vector plus an error pair is enough.
type wireToken struct {
	Shape   []int       `json:"shape,omitempty"`
	Nums    []float64   `json:"nums,omitempty"`
	Chars   string      `json:"chars,omitempty"`
	IsChars bool        `json:"is_chars,omitempty"`
	ErrKind aplerr.Kind `json:"err_kind,omitempty"`
	ErrMsg  string      `json:"err_msg,omitempty"`
}

func encodeToken(t Token) wireToken {
	if t.IsError() {
		return wireToken{ErrKind: t.Err.Kind, ErrMsg: t.Err.Message}
	}
	v := t.Value
	w := wireToken{Shape: []int(v.Shape())}
	allChar := true
	for _, c := range v.Ravel() {
		if c.Tag() != cell.Char {
			allChar = false
			break
		}
	}
	if allChar {
		var sb strings.Builder
		for _, c := range v.Ravel() {
			sb.WriteRune(c.Rune())
		}
		w.Chars = sb.String()
		w.IsChars = true
		return w
	}
	for _, c := range v.Ravel() {
		if c.Tag() == cell.Int {
			w.Nums = append(w.Nums, float64(c.Int()))
		} else {
			w.Nums = append(w.Nums, c.Float())
		}
	}
	return w
}

func decodeToken(w wireToken) Token {
	if w.ErrKind != "" {
		return ErrorToken(aplerr.New(w.ErrKind, "%s", w.ErrMsg))
	}
	v, err := array.New(array.Shape(w.Shape))
	if err != nil {
		return ErrorToken(err)
	}
	if w.IsChars {
		for i, r := range []rune(w.Chars) {
			v.Set(i, cell.NewChar(r))
		}
		return ValueToken(v)
	}
	for i, n := range w.Nums {
		if n == float64(int64(n)) {
			v.Set(i, cell.NewInt(int64(n)))
		} else {
			v.Set(i, cell.NewFloat(n))
		}
	}
	return ValueToken(v)
}

type rpcRequest struct {
	ID    uint64      `json:"id"`
	Entry string      `json:"entry"`
	Args  []wireToken `json:"args"`
}

type rpcResponse struct {
	ID     uint64    `json:"id"`
	Result wireToken `json:"result"`
}

// RemoteHost exposes the ⎕INP/⎕EA host-call suspension points (spec.md §5)
// to an out-of-process plugin over a websocket control channel, a single
// long-lived connection in place of the teacher's WebSocketServer client
// pool — a plugin process is one peer, not a broadcast audience.
type RemoteHost struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	conn     *websocket.Conn
	pending  map[uint64]chan rpcResponse
	nextID   uint64
}

// NewRemoteHost returns a host with no connection attached yet.
func NewRemoteHost() *RemoteHost {
	return &RemoteHost{pending: map[uint64]chan rpcResponse{}}
}

// ServeHTTP upgrades the inbound request to a websocket and starts reading
// call responses from it. Mount this at the control-channel endpoint the
// plugin process dials.
func (h *RemoteHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	h.mu.Lock()
	h.conn = conn
	h.mu.Unlock()
	go h.readLoop(conn)
}

func (h *RemoteHost) readLoop(conn *websocket.Conn) {
	for {
		var resp rpcResponse
		if err := conn.ReadJSON(&resp); err != nil {
			h.mu.Lock()
			if h.conn == conn {
				h.conn = nil
			}
			h.mu.Unlock()
			return
		}
		h.mu.Lock()
		ch, ok := h.pending[resp.ID]
		if ok {
			delete(h.pending, resp.ID)
		}
		h.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

// Call sends entry(args...) to the connected remote plugin and blocks
// until its response arrives or 30 seconds pass, in which case it returns
// an INTERRUPT error. This blocking round trip is itself the
// suspension point spec.md §5 names: the calling frame is parked exactly
// as it would be at a local ⎕INP/⎕EA host call.
func (h *RemoteHost) Call(entry string, args ...Token) (Token, *aplerr.Error) {
	h.mu.Lock()
	conn := h.conn
	if conn == nil {
		h.mu.Unlock()
		return Token{}, aplerr.New(aplerr.DOMAIN, "no remote plugin connected")
	}
	id := h.nextID
	h.nextID++
	ch := make(chan rpcResponse, 1)
	h.pending[id] = ch
	h.mu.Unlock()

	wireArgs := make([]wireToken, len(args))
	for i, a := range args {
		wireArgs[i] = encodeToken(a)
	}

	h.mu.Lock()
	werr := conn.WriteJSON(rpcRequest{ID: id, Entry: entry, Args: wireArgs})
	h.mu.Unlock()
	if werr != nil {
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
		return Token{}, aplerr.Wrap(aplerr.DOMAIN, werr, "remote plugin call failed")
	}

	select {
	case resp := <-ch:
		return decodeToken(resp.Result), nil
	case <-time.After(30 * time.Second):
		h.mu.Lock()
		delete(h.pending, id)
		h.mu.Unlock()
		return Token{}, aplerr.New(aplerr.INTERRUPT, "remote plugin call timed out")
	}
}

// Connected reports whether a remote plugin is currently attached.
func (h *RemoteHost) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn != nil
}
