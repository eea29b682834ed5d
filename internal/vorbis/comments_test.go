package vorbis

import (
	"bytes"
	"encoding/binary"
	"slices"
	"testing"
)

// buildBlock encodes a comment block by hand so Parse is tested against
// bytes that did not come from Bytes().
func buildBlock(vendor string, comments ...string) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint32(len(vendor)))
	buf.WriteString(vendor)
	binary.Write(buf, binary.LittleEndian, uint32(len(comments)))
	for _, c := range comments {
		binary.Write(buf, binary.LittleEndian, uint32(len(c)))
		buf.WriteString(c)
	}
	return buf.Bytes()
}

func TestParse(t *testing.T) {
	data := buildBlock("reference libFLAC 1.4.3", "TITLE=Song", "ARTIST=Band", "audiolink_id=abc")

	c, warnings, err := Parse(data, "test.flac")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if c.Vendor != "reference libFLAC 1.4.3" {
		t.Errorf("Vendor = %q", c.Vendor)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}

	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"TITLE", "Song", true},
		{"title", "Song", true},
		{"AUDIOLINK_ID", "abc", true},
		{"ALBUM", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := c.Get(tt.key)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParse_MalformedEntryWarns(t *testing.T) {
	data := buildBlock("v", "NOEQUALS", "TITLE=ok")

	c, warnings, err := Parse(data, "test.flac")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(warnings))
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestParse_Truncated(t *testing.T) {
	data := buildBlock("vendor", "TITLE=Song")
	if _, _, err := Parse(data[:len(data)-3], "test.flac"); err == nil {
		t.Error("Parse() of truncated block should fail")
	}
}

func TestSplitComment(t *testing.T) {
	tests := []struct {
		in        string
		key, val  string
		wantError bool
	}{
		{"TITLE=Song", "TITLE", "Song", false},
		{"COMMENT=a=b", "COMMENT", "a=b", false},
		{"EMPTY=", "EMPTY", "", false},
		{"NOEQUALS", "", "", true},
		{"=value", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			key, val, err := SplitComment(tt.in)
			if (err != nil) != tt.wantError {
				t.Fatalf("SplitComment(%q) error = %v, wantError %v", tt.in, err, tt.wantError)
			}
			if key != tt.key || val != tt.val {
				t.Errorf("SplitComment(%q) = %q, %q; want %q, %q", tt.in, key, val, tt.key, tt.val)
			}
		})
	}
}

func TestSetReplacesAllValues(t *testing.T) {
	c, _, err := Parse(buildBlock("v", "audiolink_id=one", "TITLE=x", "AUDIOLINK_ID=two"), "t")
	if err != nil {
		t.Fatal(err)
	}

	c.Set("AUDIOLINK_ID", "three")

	var ids []string
	for k, v := range c.All() {
		if k == "AUDIOLINK_ID" || k == "audiolink_id" {
			ids = append(ids, v)
		}
	}
	if !slices.Equal(ids, []string{"three"}) {
		t.Errorf("identifier values = %v, want [three]", ids)
	}
	if v, _ := c.Get("TITLE"); v != "x" {
		t.Errorf("TITLE = %q, want untouched", v)
	}
}

func TestDelete(t *testing.T) {
	c := New()
	c.Set("AUDIOLINK_ID", "x")

	if !c.Delete("audiolink_id") {
		t.Error("Delete() = false, want true")
	}
	if c.Delete("AUDIOLINK_ID") {
		t.Error("second Delete() = true, want false")
	}
	if _, ok := c.Get("AUDIOLINK_ID"); ok {
		t.Error("field still present after Delete()")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	c := New()
	c.Set("TITLE", "Song")
	c.Set("AUDIOLINK_ID", "0123")

	data := c.Bytes()
	want := buildBlock(DefaultVendor, "TITLE=Song", "AUDIOLINK_ID=0123")
	if !bytes.Equal(data, want) {
		t.Errorf("Bytes() = %x, want %x", data, want)
	}

	back, _, err := Parse(data, "t")
	if err != nil {
		t.Fatalf("Parse(Bytes()) error = %v", err)
	}
	if v, _ := back.Get("AUDIOLINK_ID"); v != "0123" {
		t.Errorf("AUDIOLINK_ID = %q after round trip", v)
	}
}

func TestBytesKeepsMalformedEntries(t *testing.T) {
	c, _, err := Parse(buildBlock("v", "TITLE=Song", "NOEQUALS", "=orphan", "ARTIST=Band"), "t")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	c.Set("AUDIOLINK_ID", "0123")
	if c.Delete("NOEQUALS") {
		t.Error("Delete() removed a malformed entry")
	}

	want := buildBlock("v", "TITLE=Song", "NOEQUALS", "=orphan", "ARTIST=Band", "AUDIOLINK_ID=0123")
	if got := c.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %q, want %q", got, want)
	}

	var keys []string
	for k := range c.All() {
		keys = append(keys, k)
	}
	if !slices.Equal(keys, []string{"TITLE", "ARTIST", "AUDIOLINK_ID"}) {
		t.Errorf("All() keys = %v", keys)
	}
}
