package logger_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tallyboard/gateway/core/logger"
)

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	t.Run("json format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{Level: "info", Format: "json"})
		log.Info("hello", "key", "value")

		assert.True(t, strings.HasPrefix(buf.String(), "{"))
		assert.Contains(t, buf.String(), `"key":"value"`)
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{Level: "error"})
		log.Info("dropped")
		log.Error("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := logger.NewWithWriter(&buf, logger.Config{Level: "bogus"})
		log.Debug("dropped")
		log.Info("kept")

		assert.NotContains(t, buf.String(), "dropped")
		assert.Contains(t, buf.String(), "kept")
	})
}

func TestErrorAttr(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", logger.Error(nil).Key)
	assert.Equal(t, "error", logger.Error(errors.New("boom")).Key)
}
