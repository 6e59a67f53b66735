package rag

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyGenerator struct {
	errs  []error
	reply string
	calls int
}

func (f *flakyGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.reply, nil
}

func TestTimeoutGeneratorRetriesOnceOnTimeout(t *testing.T) {
	inner := &flakyGenerator{
		errs:  []error{context.DeadlineExceeded, nil},
		reply: "ok",
	}
	generator := NewTimeoutGenerator(inner, time.Second)

	reply, err := generator.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, 2, inner.calls)
}

func TestTimeoutGeneratorGivesUpAfterSecondTimeout(t *testing.T) {
	inner := &flakyGenerator{
		errs: []error{context.DeadlineExceeded, context.DeadlineExceeded},
	}
	generator := NewTimeoutGenerator(inner, time.Second)

	_, err := generator.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, inner.calls)
}

func TestTimeoutGeneratorTerminalErrorNotRetried(t *testing.T) {
	inner := &flakyGenerator{
		errs: []error{fmt.Errorf("quota exceeded")},
	}
	generator := NewTimeoutGenerator(inner, time.Second)

	_, err := generator.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestTimeoutGeneratorSuccessSingleCall(t *testing.T) {
	inner := &flakyGenerator{reply: "ok"}
	generator := NewTimeoutGenerator(inner, time.Second)

	reply, err := generator.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, 1, inner.calls)
}
