package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrame(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind string
		ok   bool
	}{
		{"content", `{"type":"content","content":{"delta":"a"}}`, TypeContent, true},
		{"content string payload", `{"type":"content","content":""}`, TypeContent, true},
		{"cursor", `{"type":"cursor","cursor":{"line":1}}`, TypeCursor, true},
		{"missing payload", `{"type":"cursor"}`, "", false},
		{"unknown type", `{"type":"users-list","content":1}`, "", false},
		{"empty type", `{"type":"","content":1}`, "", false},
		{"invalid json", `{"type":`, "", false},
		{"invalid utf-8", "{\"type\":\"content\",\"content\":\"\xff\xfe\"}", "", false},
		{"null", `null`, "", false},
		{"array", `[1]`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := parseFrame([]byte(tt.raw))

			if !tt.ok {
				assert.ErrorIs(t, err, ErrMalformedFrame)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.kind, f.kind)
		})
	}
}

func TestFrameStampFormatsUTC(t *testing.T) {
	f, err := parseFrame([]byte(`{"type":"content","content":"x"}`))
	require.NoError(t, err)

	local := time.Date(2024, 1, 2, 3, 4, 5, 6_000_000, time.FixedZone("X", 3600))
	f.stamp("f", "u", local)
	f.setVersion(5)

	encoded, err := f.encode()
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(encoded, &m))

	assert.Equal(t, "2024-01-02T02:04:05.006Z", m["time"])
	assert.EqualValues(t, 5, m["version"])
	assert.Equal(t, "x", m["content"])
}

func TestServerNotices(t *testing.T) {
	var leader YouAreLeaderMessage
	require.NoError(t, json.Unmarshal(newYouAreLeader("f"), &leader))
	assert.Equal(t, YouAreLeaderMessage{Type: TypeYouAreLeader, FileID: "f"}, leader)

	var list map[string]any
	require.NoError(t, json.Unmarshal(newUsersList("f", nil), &list))
	assert.Equal(t, TypeUsersList, list["type"])
	assert.Equal(t, []any{}, list["usersList"])
}
