package console

import "testing"

func TestPanelSelector(t *testing.T) {
	tests := []struct {
		endpointID string
		want       string
	}{
		{"createUser", `div.opblock[id$="-createUser"]`},
		{"login", `div.opblock[id$="-login"]`},
	}

	for _, tt := range tests {
		if got := panelSelector(tt.endpointID); got != tt.want {
			t.Errorf("panelSelector(%q) = %q, want %q", tt.endpointID, got, tt.want)
		}
	}
}

func TestPanelChild(t *testing.T) {
	got := panelChild("createUser", executeSel)
	want := `div.opblock[id$="-createUser"] button.execute`
	if got != want {
		t.Errorf("panelChild = %q, want %q", got, want)
	}
}
