package ctxutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestDataRoundTrip(t *testing.T) {
	assert.Empty(t, UserID(context.Background()))

	ctx := WithRequestData(context.Background(), &RequestData{UserID: "user-1", Email: "a@b.c"})
	assert.Equal(t, "user-1", UserID(ctx))
	rd := GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, "a@b.c", rd.Email)
}

func TestTraceDataNilContext(t *testing.T) {
	assert.Nil(t, GetTraceData(nil))

	ctx := WithTraceData(nil, &TraceData{RequestID: "r1"})
	td := GetTraceData(ctx)
	require.NotNil(t, td)
	assert.Equal(t, "r1", td.RequestID)
}
