package models

import (
	"errors"
	"testing"
	"time"
)

func TestSide(t *testing.T) {
	tests := []struct {
		side     Side
		expected string
	}{
		{SideLeft, "left"},
		{SideRight, "right"},
	}

	for _, tt := range tests {
		t.Run(string(tt.side), func(t *testing.T) {
			if string(tt.side) != tt.expected {
				t.Errorf("Side = %s, want %s", string(tt.side), tt.expected)
			}
		})
	}
}

// ============== ComparisonResult Tests ==============

func TestComparisonResultHasDifferences(t *testing.T) {
	tests := []struct {
		name   string
		result ComparisonResult
		want   bool
	}{
		{"Empty", ComparisonResult{}, false},
		{"CommonOnly", ComparisonResult{Common: []string{"a"}, CommonFiles: []string{"a"}}, false},
		{"LeftOnly", ComparisonResult{LeftOnly: []string{"a"}}, true},
		{"RightOnly", ComparisonResult{RightOnly: []string{"a"}}, true},
		{"Metadata", ComparisonResult{DifferingByMetadata: []string{"a"}}, true},
		{"Hash", ComparisonResult{DifferingByHash: []string{"a"}}, true},
		{"OversizedOnly", ComparisonResult{Oversized: []string{"a"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HasDifferences(); got != tt.want {
				t.Errorf("HasDifferences() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComparisonResultSort(t *testing.T) {
	result := &ComparisonResult{
		LeftOnly:        []string{"c", "a", "b"},
		DifferingByHash: []string{"z", "y"},
		Errors: []EntryError{
			{Name: "b", Side: SideLeft},
			{Name: "a", Side: SideRight},
		},
	}
	result.Sort()

	if result.LeftOnly[0] != "a" || result.LeftOnly[2] != "c" {
		t.Errorf("LeftOnly = %v, want sorted", result.LeftOnly)
	}
	if result.DifferingByHash[0] != "y" {
		t.Errorf("DifferingByHash = %v, want sorted", result.DifferingByHash)
	}
	if result.Errors[0].Name != "a" {
		t.Errorf("Errors[0].Name = %s, want a", result.Errors[0].Name)
	}
}

// ============== CompareOperation Tests ==============

func validOperation() *CompareOperation {
	return &CompareOperation{
		ID:          "op-1",
		LeftPath:    "/tmp/left",
		RightPath:   "/tmp/right",
		Algorithm:   HashSHA256,
		SizeCeiling: DefaultSizeCeiling,
		ChunkSize:   DefaultChunkSize,
		CreatedAt:   time.Now(),
	}
}

func TestCompareOperationValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(op *CompareOperation)
		wantErr string
	}{
		{"Valid", func(op *CompareOperation) {}, ""},
		{"MissingLeft", func(op *CompareOperation) { op.LeftPath = "" }, "LeftPath"},
		{"MissingRight", func(op *CompareOperation) { op.RightPath = "" }, "RightPath"},
		{"UnknownAlgorithm", func(op *CompareOperation) { op.Algorithm = "crc32" }, "Algorithm"},
		{"ZeroCeiling", func(op *CompareOperation) { op.SizeCeiling = 0 }, "SizeCeiling"},
		{"TinyChunk", func(op *CompareOperation) { op.ChunkSize = 16 }, "ChunkSize"},
		{"HugeChunk", func(op *CompareOperation) { op.ChunkSize = MaxChunkSize + 1 }, "ChunkSize"},
		{"MaxChunk", func(op *CompareOperation) { op.ChunkSize = MaxChunkSize }, ""},
		{"NegativeBandwidth", func(op *CompareOperation) { op.BandwidthLimit = -1 }, "BandwidthLimit"},
		{"MD5", func(op *CompareOperation) { op.Algorithm = HashMD5 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := validOperation()
			tt.mutate(op)
			err := op.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if vErr.Field != tt.wantErr {
				t.Errorf("Field = %s, want %s", vErr.Field, tt.wantErr)
			}
		})
	}
}

func TestDefaults(t *testing.T) {
	if DefaultSizeCeiling != 104857600 {
		t.Errorf("DefaultSizeCeiling = %d, want 104857600", DefaultSizeCeiling)
	}
	if DefaultChunkSize != 8192 {
		t.Errorf("DefaultChunkSize = %d, want 8192", DefaultChunkSize)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "Algorithm", Message: "unsupported"}
	if err.Error() != "Algorithm: unsupported" {
		t.Errorf("Error() = %s, want 'Algorithm: unsupported'", err.Error())
	}
}

// ============== Report Tests ==============

func TestCompareStatusExitCode(t *testing.T) {
	tests := []struct {
		status CompareStatus
		want   int
	}{
		{StatusIdentical, 0},
		{StatusDifferent, 1},
		{StatusFailed, 2},
		{StatusPartial, 3},
		{CompareStatus("bogus"), 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		result *ComparisonResult
		want   CompareStatus
	}{
		{"Nil", nil, StatusFailed},
		{"Identical", &ComparisonResult{Common: []string{"a"}}, StatusIdentical},
		{"Different", &ComparisonResult{DifferingByHash: []string{"a"}}, StatusDifferent},
		{"Partial", &ComparisonResult{
			DifferingByHash: []string{"a"},
			Errors:          []EntryError{{Name: "b", Side: SideLeft, Error: "denied"}},
		}, StatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.result); got != tt.want {
				t.Errorf("StatusFor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComparisonResultDifferences(t *testing.T) {
	r := &ComparisonResult{
		LeftOnly:            []string{"b"},
		RightOnly:           []string{"a"},
		DifferingByMetadata: []string{"c", "d"},
		DifferingByHash:     []string{"c"},
		Oversized:           []string{"e"},
		Errors:              []EntryError{{Name: "f", Side: SideRight, Error: "denied"}},
	}

	want := []Difference{
		{"a", ReasonOnlyInRight},
		{"b", ReasonOnlyInLeft},
		{"c", ReasonHashDiff},
		{"c", ReasonMetadataDiff},
		{"d", ReasonMetadataDiff},
		{"e", ReasonOversized},
		{"f", ReasonReadError},
	}

	got := r.Differences()
	if len(got) != len(want) {
		t.Fatalf("Differences() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Differences()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if empty := (&ComparisonResult{}).Differences(); empty == nil || len(empty) != 0 {
		t.Errorf("Differences() on empty result = %v, want empty slice", empty)
	}
}
