package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

type row struct {
	ID       string `json:"id"`
	Client   string `json:"client_name"`
	Late     bool   `json:"late"`
	DaysLeft *int   `json:"days_left,omitempty"`
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, []row{{ID: "1", Client: "LAS PAIVA SA", Late: true}}, "json", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `[{"id":"1","client_name":"LAS PAIVA SA","late":true}]` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEDN(t *testing.T) {
	t.Parallel()

	n := 3
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"rows": []row{{ID: "7", Client: "EPC", DaysLeft: &n}}, "empty": []string{}}, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := `{:empty [] :rows [{:client-name "EPC" :days-left 3 :id "7" :late false}]}` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("edn mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]int{"pending": 2, "presented": 1}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :pending 2\n  :presented 1\n}\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("edn mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteYAML_UsesJSONNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, row{ID: "1", Client: "Farmacia San Lucas"}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), "client_name: Farmacia San Lucas") {
		t.Fatalf("unexpected yaml:\n%s", buf.String())
	}
	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if back["id"] != "1" || back["late"] != false {
		t.Fatalf("unexpected decoded yaml %#v", back)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error")
	}
	if Valid("xml") || !Valid("") || !Valid("YAML") {
		t.Fatalf("Valid() mismatch")
	}
}
