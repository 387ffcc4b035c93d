package model

import (
	"testing"
)

func TestFragmentTable_AddAndLookup(t *testing.T) {
	table := NewFragmentTable()
	table.Add("TC001", "STEP1", "segment1", `printf("hello\n");`)

	code, ok := table.Lookup("TC001", "STEP1", "segment1")
	if !ok {
		t.Fatal("Lookup() did not find added fragment")
	}

	if code != `printf("hello\n");` {
		t.Errorf("Lookup() code = %q", code)
	}
}

func TestFragmentTable_LookupIsCaseInsensitiveForIdentifiers(t *testing.T) {
	table := NewFragmentTable()
	table.Add("tc001", "step1", "segment1", "x = 1;")

	if _, ok := table.Lookup("TC001", "STEP1", "segment1"); !ok {
		t.Error("Lookup() with upper-case identifiers failed")
	}

	if _, ok := table.Lookup("Tc001", "Step1", "segment1"); !ok {
		t.Error("Lookup() with mixed-case identifiers failed")
	}
}

func TestFragmentTable_SegmentIsCaseSensitive(t *testing.T) {
	table := NewFragmentTable()
	table.Add("TC001", "STEP1", "Segment1", "x = 1;")

	if _, ok := table.Lookup("TC001", "STEP1", "segment1"); ok {
		t.Error("Lookup() matched a segment with different case")
	}

	if _, ok := table.Lookup("TC001", "STEP1", "Segment1"); !ok {
		t.Error("Lookup() missed the exact segment")
	}
}

func TestFragmentTable_PreservesInsertionOrder(t *testing.T) {
	table := NewFragmentTable()
	table.Add("TC002", "STEP1", "b", "2")
	table.Add("TC001", "STEP1", "a", "1")
	table.Add("TC002", "STEP2", "c", "3")

	cases := table.TestCases()
	if len(cases) != 2 || cases[0] != "TC002" || cases[1] != "TC001" {
		t.Errorf("TestCases() = %v, want [TC002 TC001]", cases)
	}

	steps := table.Steps("TC002")
	if len(steps) != 2 || steps[0] != "STEP1" || steps[1] != "STEP2" {
		t.Errorf("Steps(TC002) = %v, want [STEP1 STEP2]", steps)
	}
}

func TestFragmentTable_OverwriteKeepsSinglePosition(t *testing.T) {
	table := NewFragmentTable()
	table.Add("TC001", "STEP1", "segment1", "old")
	table.Add("TC001", "STEP1", "segment1", "new")

	if table.Len() != 1 {
		t.Errorf("Len() = %d after overwrite, want 1", table.Len())
	}

	code, _ := table.Lookup("TC001", "STEP1", "segment1")
	if code != "new" {
		t.Errorf("Lookup() = %q after overwrite, want %q", code, "new")
	}
}

func TestFragmentTable_NilSafety(t *testing.T) {
	var table *FragmentTable

	if _, ok := table.Lookup("TC001", "STEP1", "segment1"); ok {
		t.Error("Lookup() on nil table returned ok")
	}

	if !table.Empty() {
		t.Error("Empty() on nil table = false")
	}

	if table.Len() != 0 {
		t.Errorf("Len() on nil table = %d", table.Len())
	}

	if cases := table.TestCases(); cases != nil {
		t.Errorf("TestCases() on nil table = %v", cases)
	}
}

func TestFileOutcome_Updated(t *testing.T) {
	tests := []struct {
		name    string
		outcome FileOutcome
		want    bool
	}{
		{
			name:    "inserted stubs",
			outcome: FileOutcome{Inserted: 3},
			want:    true,
		},
		{
			name:    "no insertions",
			outcome: FileOutcome{Message: "no update needed"},
			want:    false,
		},
		{
			name:    "failed file",
			outcome: FileOutcome{Inserted: 2, Err: errTest},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.outcome.Updated(); got != tt.want {
				t.Errorf("Updated() = %v, want %v", got, tt.want)
			}
		})
	}
}

type testError string

func (e testError) Error() string { return string(e) }

var errTest = testError("boom")
