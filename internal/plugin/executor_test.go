package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// scriptPlugin writes a shell script plugin into a temp dir.
func scriptPlugin(t *testing.T, name, script string) *Plugin {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()
	scriptPath := filepath.Join(tmpDir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte(script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    []string{"key"},
		},
		Path:       tmpDir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := scriptPlugin(t, "test-plugin", `#!/bin/sh
cat <<'EOF2'
{"success":true,"data":{"message":"hello world"}}
EOF2
`)

	request := &Request{
		Action: "key",
		Params: json.RawMessage(`{"key":"left"}`),
	}

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data struct {
		Message string `json:"message"`
	}
	if err := response.Decode(&data); err != nil {
		t.Fatalf("failed to decode response data: %v", err)
	}
	if data.Message != "hello world" {
		t.Errorf("expected message 'hello world', got %v", data.Message)
	}
}

func TestExecutor_Execute_ReadsStdin(t *testing.T) {
	plugin := scriptPlugin(t, "echo-plugin", `#!/bin/sh
INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	request, err := NewRequest("key", map[string]string{"key": "up"})
	if err != nil {
		t.Fatalf("NewRequest() failed: %v", err)
	}

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data struct {
		Received struct {
			Action string            `json:"action"`
			Params map[string]string `json:"params"`
		} `json:"received"`
	}
	if err := response.Decode(&data); err != nil {
		t.Fatalf("failed to decode response data: %v", err)
	}

	if data.Received.Action != "key" {
		t.Errorf("expected action 'key', got %v", data.Received.Action)
	}
	if data.Received.Params["key"] != "up" {
		t.Errorf("expected key 'up', got %v", data.Received.Params["key"])
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := scriptPlugin(t, "slow-plugin", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	executor := NewExecutor(100 * time.Millisecond)
	_, err := executor.Execute(context.Background(), plugin, &Request{Action: "key"})

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timeout") {
		t.Errorf("expected timeout-related error, got: %v", err)
	}
}

func TestExecutor_ContextCanceled(t *testing.T) {
	plugin := scriptPlugin(t, "slow-plugin", `#!/bin/sh
sleep 10
echo '{"success":true}'
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := NewExecutor(5 * time.Second)
	if _, err := executor.Execute(ctx, plugin, &Request{Action: "key"}); err == nil {
		t.Fatal("expected error for canceled context, got nil")
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plugin := scriptPlugin(t, "error-plugin", `#!/bin/sh
echo '{"success":false,"error":"something went wrong"}'
`)

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(context.Background(), plugin, &Request{Action: "key"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if response.Success {
		t.Errorf("expected success=false, got true")
	}
	if response.Error != "something went wrong" {
		t.Errorf("expected error 'something went wrong', got %q", response.Error)
	}
}

func TestExecutor_Call_ErrorResponse(t *testing.T) {
	plugin := scriptPlugin(t, "error-plugin", `#!/bin/sh
echo '{"success":false,"error":"no such window"}'
`)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Call(context.Background(), plugin, "activate", map[string]string{"id": "1"})
	if err == nil {
		t.Fatal("expected error for unsuccessful response, got nil")
	}
	if !strings.Contains(err.Error(), "no such window") {
		t.Errorf("error should carry plugin message, got: %v", err)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	plugin := scriptPlugin(t, "bad-plugin", `#!/bin/sh
echo 'not valid json'
`)

	executor := NewExecutor(5 * time.Second)
	if _, err := executor.Execute(context.Background(), plugin, &Request{Action: "key"}); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	plugin := scriptPlugin(t, "exit-plugin", `#!/bin/sh
echo "Error: something failed" >&2
exit 1
`)

	executor := NewExecutor(5 * time.Second)
	_, err := executor.Execute(context.Background(), plugin, &Request{Action: "key"})
	if err == nil {
		t.Fatal("expected error for non-zero exit, got nil")
	}
	if !strings.Contains(err.Error(), "something failed") {
		t.Errorf("expected stderr in error, got: %v", err)
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", got)
	}
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("expected default timeout for zero, got %s", got)
	}
}

func TestManifest_Supports(t *testing.T) {
	m := Manifest{Actions: []string{"find", "activate"}}
	if !m.Supports("activate") {
		t.Error("expected activate to be supported")
	}
	if m.Supports("key") {
		t.Error("did not expect key to be supported")
	}
}
