package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationPayloadRoundTrip(t *testing.T) {
	cases := []Payload{
		LikePayload{PostID: "p1", FromUserID: "u1"},
		CommentPayload{PostID: "p1", CommentID: "c1", FromUserID: "u1"},
		FollowPayload{FromUserID: "u1"},
		MessagePayload{FromUserID: "u1", MessageID: "m1"},
	}
	for _, p := range cases {
		t.Run(string(p.Type()), func(t *testing.T) {
			n, err := NewNotification("n1", "u2", p, time.Now())
			require.NoError(t, err)
			assert.Equal(t, p.Type(), n.Type)
			assert.False(t, n.Read)

			got, err := n.DecodePayload()
			require.NoError(t, err)
			assert.Equal(t, p, got)
			assert.Equal(t, "u1", got.Actor())
		})
	}
}

func TestNotificationPayloadWireKeys(t *testing.T) {
	n, err := NewNotification("n1", "u2", LikePayload{PostID: "p1", FromUserID: "u1"}, time.Now())
	require.NoError(t, err)
	assert.JSONEq(t, `{"postId":"p1","from":"u1"}`, n.Payload)
}

func TestNotificationDecodeUnknownType(t *testing.T) {
	n := &Notification{Type: "POKE", Payload: "{}"}
	_, err := n.DecodePayload()
	assert.Error(t, err)
}

func TestTagsValueScan(t *testing.T) {
	v, err := Tags{"go", "campus"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["go","campus"]`, v)

	var got Tags
	require.NoError(t, got.Scan([]byte(`["go","campus"]`)))
	assert.Equal(t, Tags{"go", "campus"}, got)

	require.NoError(t, got.Scan(nil))
	assert.Empty(t, got)
}

func TestCommentTarget(t *testing.T) {
	_, ok := TopLevel().Parent()
	assert.False(t, ok)

	id, ok := ReplyTo("c1").Parent()
	assert.True(t, ok)
	assert.Equal(t, "c1", id)
}
