package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calmcp/internal/rpc"
	"calmcp/internal/store"
	"calmcp/internal/tools"
)

func newTestRouter(t *testing.T) *rpc.Router {
	t.Helper()
	registry := tools.NewRegistry(false)
	dispatcher := tools.NewDispatcher(registry, store.NewMemoryStore(), nil, nil)
	return rpc.NewRouter(registry, dispatcher, nil, nil, nil, rpc.ServerInfo{Name: "calmcp", Version: "test"})
}

func TestServeStdio(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		``,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{broken`,
		`{"jsonrpc":"1.0","id":3,"method":"tools/list"}`,
	}, "\n") + "\n"

	var out bytes.Buffer
	err := ServeStdio(context.Background(), newTestRouter(t), strings.NewReader(in), &out, nil)
	require.NoError(t, err)

	var responses []map[string]any
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	// The blank line was skipped; every other line got exactly one response.
	require.Len(t, responses, 4)

	assert.Equal(t, float64(1), responses[0]["id"])
	assert.NotNil(t, responses[0]["result"])

	assert.Equal(t, float64(2), responses[1]["id"])

	errObj := responses[2]["error"].(map[string]any)
	assert.Equal(t, float64(rpc.CodeParseError), errObj["code"])

	errObj = responses[3]["error"].(map[string]any)
	assert.Equal(t, float64(rpc.CodeInvalidRequest), errObj["code"])
}

func TestServeStdio_OversizedLineDoesNotKillSession(t *testing.T) {
	huge := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"pad":"` +
		strings.Repeat("x", maxLineSize) + `"}}`
	in := huge + "\n" + `{"jsonrpc":"2.0","id":2,"method":"initialize"}` + "\n"

	var out bytes.Buffer
	err := ServeStdio(context.Background(), newTestRouter(t), strings.NewReader(in), &out, nil)
	require.NoError(t, err)

	var responses []map[string]any
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var resp map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 2)

	// The oversized message gets a parse error, the next one is served.
	errObj := responses[0]["error"].(map[string]any)
	assert.Equal(t, float64(rpc.CodeParseError), errObj["code"])

	assert.Equal(t, float64(2), responses[1]["id"])
	assert.NotNil(t, responses[1]["result"])
}

func TestServeStdio_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := ServeStdio(ctx, newTestRouter(t), strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`+"\n"), &out, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}
