package util

import "testing"

func TestEnumSet(t *testing.T) {
	e := NewEnumSet(2)
	i, isNew := e.Add("SB")
	if i != 0 || !isNew {
		t.Errorf("Expected (0, true) for first value, got (%d, %v)", i, isNew)
	}
	i, isNew = e.Add("OA")
	if i != 1 || !isNew {
		t.Errorf("Expected (1, true) for second value, got (%d, %v)", i, isNew)
	}
	i, isNew = e.Add("SB")
	if i != 0 || isNew {
		t.Errorf("Expected (0, false) for repeated value, got (%d, %v)", i, isNew)
	}
	if e.Len() != 2 {
		t.Errorf("Expected 2 values, got %d", e.Len())
	}
	if e.ValueOf(1) != "OA" {
		t.Errorf("Expected OA at 1, got %v", e.ValueOf(1))
	}
	if _, exists := e.IndexOf("MO"); exists {
		t.Error("Found value that was never added")
	}
}

func TestFrozenEnumSet(t *testing.T) {
	e := NewEnumSet(1)
	e.Add("HD")
	e.Frozen = true
	if i, _ := e.Add("HD"); i != 0 {
		t.Error("Frozen set should still resolve existing values")
	}
	defer func() {
		if recover() == nil {
			t.Error("Expected panic when adding to frozen set")
		}
	}()
	e.Add("NK")
}

func TestRangeInt(t *testing.T) {
	r := RangeInt(1, 4)
	if len(r) != 3 || r[0] != 1 || r[2] != 3 {
		t.Errorf("Unexpected range %v", r)
	}
	if len(RangeInt(3, 3)) != 0 {
		t.Error("Expected empty range")
	}
}

func TestGetTopNStrInt(t *testing.T) {
	top := GetTopNStrInt(map[string]int{"a": 1, "b": 3, "c": 3}, 2)
	if len(top) != 2 || top[0].S != "b" || top[1].S != "c" {
		t.Errorf("Unexpected top list %v", top)
	}
}
