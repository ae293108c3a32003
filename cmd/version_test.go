package cmd

import (
	"runtime/debug"
	"testing"
)

func TestReadBuildDetails(t *testing.T) {
	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Main:      debug.Module{Path: "github.com/abhisek/masterypath", Version: "v0.4.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2025-05-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	tests := []struct {
		name     string
		ldflags  string
		info     *debug.BuildInfo
		want     string
		wantLine string
	}{
		{"ldflags wins", "v1.2.0", info, "v1.2.0", "v1.2.0+0123456789ab-dirty"},
		{"falls back to module version", "(devel)", info, "v0.4.1", "v0.4.1+0123456789ab-dirty"},
		{"no build info", "(devel)", nil, "(devel)", "(devel)"},
		{"devel module", "(devel)", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "(devel)", "(devel)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := readBuildDetails(tt.ldflags, tt.info)
			if d.Version != tt.want {
				t.Errorf("Version = %q, want %q", d.Version, tt.want)
			}
			if got := d.String(); got != tt.wantLine {
				t.Errorf("String() = %q, want %q", got, tt.wantLine)
			}
		})
	}

	if d := readBuildDetails("v1", info); d.GoVersion != "go1.25.6" || d.Time != "2025-05-01T10:00:00Z" {
		t.Errorf("details = %+v", d)
	}
}

func TestParseNodeList(t *testing.T) {
	ids, err := parseNodeList(" 3, 1 ,,12")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 1 || ids[2] != 12 {
		t.Errorf("ids = %v, want [3 1 12]", ids)
	}
	if ids, err := parseNodeList(""); err != nil || len(ids) != 0 {
		t.Errorf("empty = %v, %v", ids, err)
	}
	if _, err := parseNodeList("1,x"); err == nil {
		t.Error("expected error for a non-numeric id")
	}
}
