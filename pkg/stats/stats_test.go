package stats

import (
	"errors"
	"testing"

	"github.com/matzehuels/asmscope/pkg/asm"
	asmerr "github.com/matzehuels/asmscope/pkg/errors"
)

func TestN50(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		want    int
	}{
		{"one long node", []int{10, 1, 1, 1, 1}, 10},
		{"all equal", []int{2, 2, 2, 2, 2}, 2},
		{"unsorted input", []int{1, 3, 2, 4}, 3},
		{"exact half", []int{5, 3, 2}, 5},
		{"single", []int{7}, 7},
		{"zero lengths", []int{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := N50(tt.lengths)
			if err != nil {
				t.Fatalf("N50() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("N50(%v) = %d, want %d", tt.lengths, got, tt.want)
			}
		})
	}
}

func TestN50DoesNotReorderInput(t *testing.T) {
	in := []int{1, 3, 2}
	if _, err := N50(in); err != nil {
		t.Fatal(err)
	}
	if in[0] != 1 || in[1] != 3 || in[2] != 2 {
		t.Errorf("N50() modified its input: %v", in)
	}
}

func TestN50Empty(t *testing.T) {
	_, err := N50(nil)
	if !errors.Is(err, ErrNoLengths) {
		t.Errorf("N50(nil) error = %v, want %v", err, ErrNoLengths)
	}
	if !asmerr.Is(err, asmerr.ErrCodeEmptyInput) {
		t.Errorf("N50(nil) code = %v, want %v", asmerr.GetCode(err), asmerr.ErrCodeEmptyInput)
	}
}

func TestGCContent(t *testing.T) {
	tests := []struct {
		seq   string
		frac  float64
		count int
	}{
		{"GCATTCAC", 0.5, 4},
		{"gcattcac", 0.5, 4},
		{"ATAT", 0, 0},
		{"GGCC", 1, 4},
		{"", 0, 0},
	}

	for _, tt := range tests {
		frac, count := GCContent(tt.seq)
		if frac != tt.frac || count != tt.count {
			t.Errorf("GCContent(%q) = (%v, %d), want (%v, %d)", tt.seq, frac, count, tt.frac, tt.count)
		}
	}
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		seq     string
		want    string
		wantErr bool
	}{
		{"GCATATA", "TATATGC", false},
		{"A", "T", false},
		{"", "", false},
		{"ACGN", "", true},
		{"acgt", "", true},
		{"ACG U", "", true},
	}

	for _, tt := range tests {
		got, err := ReverseComplement(tt.seq)
		if (err != nil) != tt.wantErr {
			t.Errorf("ReverseComplement(%q) error = %v, wantErr %v", tt.seq, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidBase) {
			t.Errorf("ReverseComplement(%q) error = %v, want %v", tt.seq, err, ErrInvalidBase)
		}
		if got != tt.want {
			t.Errorf("ReverseComplement(%q) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestReverseComplementInvolution(t *testing.T) {
	seq := "GATTACACCGT"
	rc, err := ReverseComplement(seq)
	if err != nil {
		t.Fatal(err)
	}
	back, err := ReverseComplement(rc)
	if err != nil {
		t.Fatal(err)
	}
	if back != seq {
		t.Errorf("ReverseComplement(ReverseComplement(%q)) = %q", seq, back)
	}
}

func TestAssemblyGC(t *testing.T) {
	gc := 30
	tests := []struct {
		name   string
		count  *int
		total  int
		double bool
		want   float64
		ok     bool
	}{
		{"dual strand", &gc, 30, true, 0.5, true},
		{"single strand", &gc, 60, false, 0.5, true},
		{"no dna", nil, 30, true, 0, false},
		{"empty", &gc, 0, true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AssemblyGC(tt.count, tt.total, tt.double)
			if got != tt.want || ok != tt.ok {
				t.Errorf("AssemblyGC() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	a := &asm.Assembly{FileName: "x.gfa", FileType: "GFA", DoubleStranded: true}
	a.RecordNode(10, true)
	a.RecordNode(6, true)
	a.RecordEdge()
	a.RecordGC(16)
	a.ComponentCount = 2

	s, err := Summarize(a)
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}
	if s.N50 != 10 {
		t.Errorf("N50 = %d, want 10", s.N50)
	}
	if s.GC == nil || *s.GC != 0.5 {
		t.Errorf("GC = %v, want 0.5", s.GC)
	}
	if s.NodeCount != 2 || s.EdgeCount != 1 || s.TotalLength != 16 || s.ComponentCount != 2 {
		t.Errorf("Summarize() totals = %+v", s)
	}

	a.NoSequence()
	s, _ = Summarize(a)
	if s.GC != nil {
		t.Errorf("GC = %v, want nil without sequence", *s.GC)
	}

	if _, err := Summarize(&asm.Assembly{}); !asmerr.Is(err, asmerr.ErrCodeEmptyInput) {
		t.Errorf("Summarize(empty) error = %v, want empty input", err)
	}
}
