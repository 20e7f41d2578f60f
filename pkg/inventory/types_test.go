package inventory

import (
	"reflect"
	"testing"
)

func TestDisplayFieldManualWins(t *testing.T) {
	p := Part{
		GeneratedContent: map[string]string{"voltage": "5V", "package": "SOIC-8"},
		ManualContent:    map[string]string{"voltage": "3.3V", "package": ""},
	}

	if got := p.DisplayField("voltage"); got != "3.3V" {
		t.Fatalf("manual value should win, got %q", got)
	}
	if got := p.DisplayField("package"); got != "SOIC-8" {
		t.Fatalf("empty manual value should fall back to generated, got %q", got)
	}
	if got := p.DisplayField("missing"); got != "" {
		t.Fatalf("unknown field should be empty, got %q", got)
	}
}

func TestDisplayContentMergesLayers(t *testing.T) {
	p := Part{
		GeneratedContent: map[string]string{"voltage": "5V", "package": "SOIC-8"},
		ManualContent:    map[string]string{"voltage": "3.3V", "notes": "hand counted"},
	}

	want := map[string]string{
		"voltage": "3.3V",
		"package": "SOIC-8",
		"notes":   "hand counted",
	}
	if got := p.DisplayContent(); !reflect.DeepEqual(got, want) {
		t.Fatalf("merged content wrong.\nwant: %#v\ngot:  %#v", want, got)
	}
}

func TestNeedsManualSaveScenarios(t *testing.T) {
	generated := map[string]string{"voltage": "5V", "package": "SOIC-8"}

	tests := []struct {
		name   string
		manual map[string]string
		want   bool
	}{
		{
			name:   "identical content is a no-op",
			manual: map[string]string{"voltage": "5V", "package": "SOIC-8"},
			want:   false,
		},
		{
			name:   "changed field needs save",
			manual: map[string]string{"voltage": "3.3V", "package": "SOIC-8"},
			want:   true,
		},
		{
			name:   "added field needs save",
			manual: map[string]string{"voltage": "5V", "package": "SOIC-8", "notes": "x"},
			want:   true,
		},
		{
			name:   "removed field needs save",
			manual: map[string]string{"voltage": "5V"},
			want:   true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := Part{GeneratedContent: generated}
			if got := p.NeedsManualSave(tc.manual); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
