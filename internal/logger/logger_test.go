package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := l.WithContext(context.Background())
	ctx = WithLogger(ctx, map[string]interface{}{"report_id": "r-1"})

	InfoLog(ctx, "bureau %s written", "Б1")
	ErrorLog(ctx, "compose failed", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"report_id":"r-1"`)
	assert.Contains(t, out, "bureau Б1 written")
	assert.Contains(t, out, `"error":"boom"`)
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.InfoLevel)
	ctx := l.WithContext(context.Background())

	DebugLog(ctx, "skipped %d rows", 3)
	assert.Empty(t, buf.String())
}
