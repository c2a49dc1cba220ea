package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToInternalToWireRoundTripsText(t *testing.T) {
	original := WireContent{Kind: WireText, Text: "hello from the wire"}

	msg, err := ToInternal(original)
	require.NoError(t, err)
	require.Equal(t, RoleUser, msg.Role)
	require.Equal(t, original.Text, msg.Content)

	wire := ToWire(msg)
	require.Equal(t, original.Kind, wire.Kind)
	require.Equal(t, original.Text, wire.Text)
}

func TestToInternalToWireRoundTripsResourceLink(t *testing.T) {
	original := WireContent{Kind: WireResourceLink, ResourceName: "design doc", ResourceURI: "file:///docs/design.md"}

	msg, err := ToInternal(original)
	require.NoError(t, err)
	require.Equal(t, RoleUser, msg.Role)
	require.Contains(t, msg.Content, original.ResourceName)
	require.Contains(t, msg.Content, original.ResourceURI)

	wire := ToWire(msg)
	require.Equal(t, WireText, wire.Kind)
	require.Contains(t, wire.Text, original.ResourceName)
	require.Contains(t, wire.Text, original.ResourceURI)
}

func TestToInternalRejectsImage(t *testing.T) {
	_, err := ToInternal(WireContent{Kind: WireImage})
	require.Error(t, err)
	var unsupported *UnsupportedContentError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, WireImage, unsupported.Kind)
}

func TestToInternalRejectsAudio(t *testing.T) {
	_, err := ToInternal(WireContent{Kind: WireAudio})
	require.Error(t, err)
	var unsupported *UnsupportedContentError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, WireAudio, unsupported.Kind)
}

func TestToInternalRejectsEmbeddedResource(t *testing.T) {
	_, err := ToInternal(WireContent{Kind: WireResource})
	require.Error(t, err)
	var unsupported *UnsupportedContentError
	require.ErrorAs(t, err, &unsupported)
	require.Equal(t, WireResource, unsupported.Kind)
}

func TestToInternalRejectsUnknownKind(t *testing.T) {
	_, err := ToInternal(WireContent{Kind: WireContentKind("bogus")})
	require.Error(t, err)
}

func TestToStreamChunkWrapsTextContent(t *testing.T) {
	chunk := ToStreamChunk("sess-1", "partial output")
	require.Equal(t, "sess-1", chunk.WireSessionID)
	require.Equal(t, "agent_message_chunk", chunk.Notification)
	require.Contains(t, string(chunk.Content), "partial output")
}
