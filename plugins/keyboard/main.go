// Package main provides the keyboard plugin. It presses a single arrow key
// via AppleScript on macOS and xdotool on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeyParams names the arrow key to press.
type KeyParams struct {
	Key string `json:"key"` // left, right, up, down
}

// macKeyCodes maps arrow keys to System Events key codes.
var macKeyCodes = map[string]int{
	"left":  123,
	"right": 124,
	"down":  125,
	"up":    126,
}

// xdotoolKeys maps arrow keys to X keysym names.
var xdotoolKeys = map[string]string{
	"left":  "Left",
	"right": "Right",
	"up":    "Up",
	"down":  "Down",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "key":
		if err := handleKey(req.Params); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleKey presses the requested arrow key once.
func handleKey(params json.RawMessage) error {
	var p KeyParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return fmt.Errorf("failed to parse params: %w", err)
		}
	}

	key := strings.ToLower(p.Key)
	if key == "" {
		return fmt.Errorf("key is required")
	}

	switch runtime.GOOS {
	case "darwin":
		code, ok := macKeyCodes[key]
		if !ok {
			return fmt.Errorf("unsupported key: %s", p.Key)
		}
		return run("osascript", "-e", fmt.Sprintf(`tell application "System Events" to key code %d`, code))
	case "linux":
		name, ok := xdotoolKeys[key]
		if !ok {
			return fmt.Errorf("unsupported key: %s", p.Key)
		}
		return run("xdotool", "key", name)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// run executes a command and folds its output into the error.
func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
