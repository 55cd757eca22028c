// Package main provides the window-focus plugin. It lists top-level windows
// and brings one to the front, via System Events on macOS and xdotool on Linux.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
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

// Window is one top-level window. On macOS the id is "<process>:<index>".
type Window struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// platform lists and activates windows on one OS.
type platform interface {
	list() ([]Window, error)
	activate(w Window) error
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	p, err := currentPlatform()
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	switch req.Action {
	case "list":
		windows, err := p.list()
		if err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
		writeDataResponse(map[string]any{"windows": windows})
	case "activate":
		var w Window
		if err := json.Unmarshal(req.Params, &w); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse params: %v", err))
			return
		}
		if err := p.activate(w); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
		writeDataResponse(nil)
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
	}
}

func currentPlatform() (platform, error) {
	switch runtime.GOOS {
	case "darwin":
		return macOS{}, nil
	case "linux":
		return xdotool{}, nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// xdotool drives X11 windows through the xdotool CLI.
type xdotool struct{}

func (xdotool) list() ([]Window, error) {
	out, err := output("xdotool", "search", "--onlyvisible", "--name", ".")
	if err != nil {
		// xdotool exits 1 when nothing matches.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && strings.TrimSpace(out) == "" {
			return nil, nil
		}
		return nil, err
	}

	active, _ := output("xdotool", "getactivewindow")
	active = strings.TrimSpace(active)

	var windows []Window
	for _, id := range strings.Fields(out) {
		title, err := output("xdotool", "getwindowname", id)
		if err != nil {
			continue
		}
		windows = append(windows, Window{
			ID:     id,
			Title:  strings.TrimSpace(title),
			Active: id == active,
		})
	}
	return windows, nil
}

func (xdotool) activate(w Window) error {
	if _, err := strconv.ParseUint(w.ID, 10, 64); err != nil {
		return fmt.Errorf("invalid window id %q", w.ID)
	}
	_, err := output("xdotool", "windowactivate", "--sync", w.ID)
	return err
}

// macOS drives windows through System Events accessibility scripting.
type macOS struct{}

const macListScript = `set out to ""
tell application "System Events"
	repeat with p in (application processes whose background only is false)
		set pname to name of p
		set front to frontmost of p
		set i to 0
		repeat with w in windows of p
			set i to i + 1
			set out to out & pname & tab & i & tab & front & tab & (name of w) & linefeed
		end repeat
	end repeat
end tell
return out`

func (macOS) list() ([]Window, error) {
	out, err := output("osascript", "-e", macListScript)
	if err != nil {
		return nil, err
	}

	var windows []Window
	for _, line := range strings.Split(out, "\n") {
		fields := strings.SplitN(line, "\t", 4)
		if len(fields) != 4 {
			continue
		}
		windows = append(windows, Window{
			ID:    fields[0] + ":" + fields[1],
			Title: fields[3],
			// Only the first window of the frontmost process has focus.
			Active: fields[2] == "true" && fields[1] == "1",
		})
	}
	return windows, nil
}

func (macOS) activate(w Window) error {
	i := strings.LastIndex(w.ID, ":")
	if i <= 0 {
		return fmt.Errorf("invalid window id %q", w.ID)
	}
	process, index := w.ID[:i], w.ID[i+1:]
	if _, err := strconv.Atoi(index); err != nil {
		return fmt.Errorf("invalid window id %q", w.ID)
	}

	script := fmt.Sprintf(`tell application "System Events" to tell process %q
	set frontmost to true
	perform action "AXRaise" of window %s
end tell`, process, index)
	_, err := output("osascript", "-e", script)
	return err
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeDataResponse writes a success response carrying data to stdout.
func writeDataResponse(data any) {
	resp := Response{Success: true}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			writeErrorResponse(fmt.Sprintf("failed to encode data: %v", err))
			return
		}
		resp.Data = raw
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// output runs a command and returns its stdout.
func output(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}
