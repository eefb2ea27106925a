package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	subjects []string
	err      error
}

func (r *recorder) Publish(_ context.Context, subject string, _ interface{}) error {
	r.subjects = append(r.subjects, subject)
	return r.err
}

func TestMulti_PublishesToAll(t *testing.T) {
	a := &recorder{}
	b := &recorder{err: errors.New("nats down")}

	err := Multi{a, nil, b}.Publish(context.Background(), "activity.success", map[string]string{"message": "ok"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats down")
	assert.Equal(t, []string{"activity.success"}, a.subjects)
	assert.Equal(t, []string{"activity.success"}, b.subjects)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), "x", nil))
}
