package tray

import (
	"testing"
	"time"
)

func TestTray_ToggleWithoutMenu(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if !tr.IsEnabled() {
		t.Error("two toggles should leave the tray enabled")
	}
	if len(got) != 2 || got[0] != false || got[1] != true {
		t.Errorf("toggle callbacks = %v, want [false true]", got)
	}
}

func TestTray_SettersBeforeReady(t *testing.T) {
	tr := New()
	tr.SetLastAction("LEFT")
	tr.SetLastAction("")
	tr.SetStatus("Calibrated")
}

func TestTray_RequestQuitClosesDone(t *testing.T) {
	tr := New()
	tr.requestQuit()
	tr.requestQuit()

	select {
	case <-tr.Done():
	case <-time.After(time.Second):
		t.Fatal("Done() not closed after quit request")
	}
}
