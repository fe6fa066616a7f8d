package websocket

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// records every frame it is sent
type fakeTransport struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{}
}

func (f *fakeTransport) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.closed
}

func (f *fakeTransport) Send(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrConnectionClosed
	}

	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeTransport) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// decodes every recorded frame
func (f *fakeTransport) messages(t *testing.T) []map[string]any {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0, len(f.frames))
	for _, frame := range f.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(frame, &m))
		out = append(out, m)
	}

	return out
}

// decodes recorded frames of one type
func (f *fakeTransport) ofType(t *testing.T, kind string) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, m := range f.messages(t) {
		if m["type"] == kind {
			out = append(out, m)
		}
	}

	return out
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

// users list carried by the most recent users-list frame
func lastUsersList(t *testing.T, f *fakeTransport) []string {
	t.Helper()

	lists := f.ofType(t, TypeUsersList)
	require.NotEmpty(t, lists, "expected a users-list frame")

	raw := lists[len(lists)-1]["usersList"].([]any)
	users := make([]string, 0, len(raw))
	for _, u := range raw {
		users = append(users, u.(string))
	}

	return users
}
