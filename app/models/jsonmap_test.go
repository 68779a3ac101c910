package models

import "testing"

func TestJSONMapValueScan(t *testing.T) {
	in := JSONMap{"compression": "high", "encryption": "aes", "file_path": "BKP-A_x.sql.gz.enc"}
	v, err := in.Value()
	if err != nil {
		t.Fatal(err)
	}
	var out JSONMap
	if err := out.Scan(v); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || out["file_path"] != in["file_path"] {
		t.Errorf("round trip = %v", out)
	}
}

func TestJSONMapNil(t *testing.T) {
	var m JSONMap
	v, err := m.Value()
	if err != nil || v != "{}" {
		t.Errorf("Value() = %v, %v", v, err)
	}
	var out JSONMap
	if err := out.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if out == nil {
		t.Error("Scan(nil) left map nil")
	}
}

func TestJSONMapScanBytes(t *testing.T) {
	var out JSONMap
	if err := out.Scan([]byte(`{"a":"b"}`)); err != nil {
		t.Fatal(err)
	}
	if out["a"] != "b" {
		t.Errorf("out = %v", out)
	}
	if err := out.Scan(42); err == nil {
		t.Error("expected error for unsupported type")
	}
}
