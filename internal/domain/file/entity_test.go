package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMuxStatusCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    MuxStatus
		to      MuxStatus
		allowed bool
	}{
		{"preparing to ready", StatusPreparing, StatusReady, true},
		{"preparing to errored", StatusPreparing, StatusErrored, true},
		{"preparing to preparing", StatusPreparing, StatusPreparing, true},
		{"ready to ready", StatusReady, StatusReady, true},
		{"ready to preparing", StatusReady, StatusPreparing, false},
		{"ready to errored", StatusReady, StatusErrored, false},
		{"errored to ready", StatusErrored, StatusReady, false},
		{"errored to preparing", StatusErrored, StatusPreparing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestMuxStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPreparing.IsTerminal())
	assert.True(t, StatusReady.IsTerminal())
	assert.True(t, StatusErrored.IsTerminal())
}

func TestTypeForName(t *testing.T) {
	tests := []struct {
		name     string
		wantType Type
		wantExt  string
	}{
		{"report.pdf", TypeDocument, "pdf"},
		{"NOTES.TXT", TypeDocument, "txt"},
		{"photo.jpeg", TypeImage, "jpeg"},
		{"clip.mp4", TypeVideo, "mp4"},
		{"clip.webm", TypeVideo, "webm"},
		{"track.mp3", TypeAudio, "mp3"},
		{"archive.zip", TypeOther, "zip"},
		{"noextension", TypeOther, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotExt := TypeForName(tt.name)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantExt, gotExt)
		})
	}
}

func TestMuxUpdateEmpty(t *testing.T) {
	assert.True(t, MuxUpdate{}.Empty())
	assert.False(t, MuxUpdate{Status: StatusReady}.Empty())
	assert.False(t, MuxUpdate{AssetID: "asset_1"}.Empty())
	assert.False(t, MuxUpdate{PlaybackID: "pb_1"}.Empty())
	assert.False(t, MuxUpdate{Thumbnail: "https://example.com/t.jpg"}.Empty())
}
