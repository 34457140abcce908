package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "info", "json")

	logger.Info("hello", Method("tools/call"), Tool("create_event"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "tools/call", record[KeyMethod])
	assert.Equal(t, "create_event", record[KeyTool])
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "info", "text")

	logger.Info("hello", Status(StatusSuccess))

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "status=success")
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "warn", "json")

	logger.Info("filtered")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestSetup_UnknownValuesFallBack(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "chatty", "yaml")

	logger.Debug("filtered at default info level")
	assert.Empty(t, buf.String())

	logger.Info("json by default")
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
}

func TestAttrHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "debug", "json")

	logger.Info("attrs",
		Operation("list"),
		Code(-32602),
		Duration(1500*time.Millisecond),
		Err(errors.New("boom")),
	)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "list", record[KeyOperation])
	assert.Equal(t, float64(-32602), record[KeyCode])
	assert.Equal(t, "boom", record[KeyError])
}

func TestErr_NilProducesNoAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup(&buf, "info", "json")

	logger.Info("ok", Err(nil))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	_, present := record[KeyError]
	assert.False(t, present)
}

func TestErr_NilIsDiscardable(t *testing.T) {
	attr := Err(nil)
	assert.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Empty(t, attr.Key)
}
