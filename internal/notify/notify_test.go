package notify

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

type fakeConn struct {
	subject string
	data    []byte
	pubErr  error
	flushed bool
	closed  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.subject, f.data = subject, data
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error { f.flushed = true; return nil }
func (f *fakeConn) Close()                                 { f.closed = true }

func TestNew_WithoutURLIsNoop(t *testing.T) {
	n, err := New(config.NotifyConfig{Subject: "blogbuilder.builds"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, n)
	assert.NoError(t, n.BuildCompleted(t.Context(), BuildCompleted{}))
}

func TestNew_UnreachableServer(t *testing.T) {
	_, err := New(config.NotifyConfig{NATSURL: "nats://127.0.0.1:1", Subject: "x"})
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryNotify, ce.Category())
	assert.True(t, ce.CanRetry())
}

func TestNATSNotifier_BuildCompleted(t *testing.T) {
	fc := &fakeConn{}
	n := &NATSNotifier{conn: fc, subject: "blogbuilder.builds"}

	err := n.BuildCompleted(t.Context(), BuildCompleted{BuildID: "b1", Outcome: "success", Pages: 4, Added: []string{"/hello/"}})
	require.NoError(t, err)
	assert.Equal(t, "blogbuilder.builds", fc.subject)
	assert.True(t, fc.flushed)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(fc.data, &ev))
	assert.Equal(t, "b1", ev["build_id"])
	assert.Equal(t, "success", ev["outcome"])
	assert.EqualValues(t, 4, ev["pages"])
	assert.NotEmpty(t, ev["timestamp"])

	n.Close()
	assert.True(t, fc.closed)
}

func TestNATSNotifier_PublishError(t *testing.T) {
	n := &NATSNotifier{conn: &fakeConn{pubErr: stderrors.New("disconnected")}, subject: "s"}
	err := n.BuildCompleted(t.Context(), BuildCompleted{BuildID: "b1"})
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.SeverityWarning, ce.Severity())
}
