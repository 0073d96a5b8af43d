// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type sampleArtifact struct {
	ID       string    `cbor:"id"`
	Version  string    `cbor:"version"`
	Size     int64     `cbor:"size,omitempty"`
	Resolved time.Time `cbor:"resolved"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleArtifact{
		ID:       "org.example.core",
		Version:  "1.2.0.v20260101",
		Size:     4096,
		Resolved: time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC),
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded sampleArtifact
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.ID != original.ID || decoded.Version != original.Version || decoded.Size != original.Size {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
	if !decoded.Resolved.Equal(original.Resolved) {
		t.Errorf("Resolved = %v, want %v", decoded.Resolved, original.Resolved)
	}
}

func TestDeterministicMapOrder(t *testing.T) {
	first := map[string]int{"zeta": 1, "alpha": 2, "mid": 3}
	second := map[string]int{"mid": 3, "zeta": 1, "alpha": 2}

	for range 10 {
		a, err := Marshal(first)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Marshal(second)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("encodings differ: %x vs %x", a, b)
		}
	}
}

func TestUnknownFieldsIgnored(t *testing.T) {
	data, err := Marshal(map[string]any{"id": "a", "version": "1", "future": true})
	if err != nil {
		t.Fatal(err)
	}
	var decoded sampleArtifact
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal with unknown field: %v", err)
	}
	if decoded.ID != "a" {
		t.Errorf("ID = %q, want %q", decoded.ID, "a")
	}
}

func TestAnyMapsHaveStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatal(err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested type = %T, want map[string]any", outer["outer"])
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for index := range 3 {
		if err := encoder.Encode(sampleArtifact{ID: "a", Size: int64(index)}); err != nil {
			t.Fatalf("Encode %d: %v", index, err)
		}
	}

	decoder := NewDecoder(&buffer)
	for index := range 3 {
		var decoded sampleArtifact
		if err := decoder.Decode(&decoded); err != nil {
			t.Fatalf("Decode %d: %v", index, err)
		}
		if decoded.Size != int64(index) {
			t.Errorf("item %d: Size = %d", index, decoded.Size)
		}
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"id": "org.example.core"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"org.example.core"`) {
		t.Errorf("notation %q does not contain the id", notation)
	}
}
