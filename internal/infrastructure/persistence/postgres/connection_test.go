package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, GormLogLevel("debug"))
	assert.Equal(t, logger.Warn, GormLogLevel("info"))
	assert.Equal(t, logger.Error, GormLogLevel("error"))
	assert.Equal(t, logger.Silent, GormLogLevel(""))
}

func TestGormLogWriter_RoutesByContent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := &GormLogWriter{logger: zap.New(core)}

	w.Printf("%s SLOW SQL >= %s", "recipes.go:10", "200ms")
	w.Printf("record error: %v", "boom")
	w.Printf("[%d rows]", 3)

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	}
}
