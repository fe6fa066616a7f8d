package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// ISO-8601 UTC with millisecond precision, e.g. 2024-05-01T12:00:00.000Z
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// required payload field for each relayable message type
var payloadFields = map[string]string{
	TypeContent: "content",
	TypeCursor:  "cursor",
}

// inbound client frame, kept as raw fields so unknown client keys survive the relay
type frame struct {
	kind   string
	fields map[string]json.RawMessage
}

// decodes a client frame and checks it carries the payload its type requires
func parseFrame(raw []byte) (*frame, error) {
	// raw fields are relayed byte for byte; peers must never receive a non-UTF-8 text frame
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: invalid utf-8", ErrMalformedFrame)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}

	// a bare JSON null decodes into a nil map
	if fields == nil {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedFrame)
	}

	var kind string
	if err := json.Unmarshal(fields["type"], &kind); err != nil || kind == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformedFrame)
	}

	field, known := payloadFields[kind]
	if !known {
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedFrame, kind)
	}

	if payload, ok := fields[field]; !ok || isNull(payload) {
		return nil, fmt.Errorf("%w: %s frame missing %q", ErrMalformedFrame, kind, field)
	}

	return &frame{kind: kind, fields: fields}, nil
}

// sets the server-owned fields, overwriting anything the client sent under the same keys
func (f *frame) stamp(fileID, userID string, at time.Time) {
	f.set("time", at.UTC().Format(timeLayout))
	f.set("fileId", fileID)
	f.set("userId", userID)
	delete(f.fields, "version")
}

func (f *frame) setVersion(version uint64) {
	f.set("version", version)
}

func (f *frame) set(key string, value any) {
	encoded, _ := json.Marshal(value) //nolint:errcheck // only strings and integers are stamped
	f.fields[key] = encoded
}

func (f *frame) encode() ([]byte, error) {
	return json.Marshal(f.fields)
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// builds the you-are-leader notice for fileID
func newYouAreLeader(fileID string) []byte {
	encoded, _ := json.Marshal(YouAreLeaderMessage{ //nolint:errcheck // fixed shape always encodes
		Type:   TypeYouAreLeader,
		FileID: fileID,
	})

	return encoded
}

// builds the users-list notice for fileID
func newUsersList(fileID string, users []string) []byte {
	if users == nil {
		users = []string{}
	}

	encoded, _ := json.Marshal(UsersListMessage{ //nolint:errcheck // fixed shape always encodes
		Type:      TypeUsersList,
		FileID:    fileID,
		UsersList: users,
	})

	return encoded
}
