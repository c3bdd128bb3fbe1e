package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestQueryLoggerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	l := newQueryLogger(&zl, gormlogger.Warn)
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now(), query, errors.New("boom"))
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)
	assert.Contains(t, buf.String(), `"component":"gorm"`)

	buf.Reset()
	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), "Slow query")

	buf.Reset()
	l.Trace(ctx, time.Now(), query, nil)
	l.Info(ctx, "hidden %d", 1)
	assert.Empty(t, buf.String())

	buf.Reset()
	l.LogMode(gormlogger.Silent).Error(ctx, "quiet")
	assert.Empty(t, buf.String())
}
