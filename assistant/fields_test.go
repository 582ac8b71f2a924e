package assistant

import "testing"

func TestCoerceString(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "string", in: "  hi  ", want: "hi"},
		{name: "integer", in: float64(42), want: "42"},
		{name: "float", in: float64(3.5), want: "3.5"},
		{name: "bool", in: true, want: "true"},
		{name: "nested-text", in: map[string]interface{}{"text": "inner"}, want: "inner"},
		{name: "nested-impression", in: map[string]interface{}{"impression": "warm"}, want: "warm"},
		{name: "nested-ordering", in: map[string]interface{}{"remark": "last", "text": "first"}, want: "first"},
		{name: "nested-miss", in: map[string]interface{}{"other": "x"}, want: ""},
		{name: "array-joined", in: []interface{}{"a", "b"}, want: "a\nb"},
		{name: "array-nested", in: []interface{}{map[string]interface{}{"value": "v"}, "w"}, want: "v\nw"},
		{name: "nil", in: nil, want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := coerceString(tc.in); got != tc.want {
				t.Errorf("coerceString(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStringField_CandidateOrder(t *testing.T) {
	m := map[string]interface{}{
		"contact_id": "c2",
		"remote_id":  "r3",
	}
	if got := stringField(m, "id", "contact_id", "remote_id"); got != "c2" {
		t.Errorf("expected first present candidate 'c2', got %q", got)
	}
}

func TestStringField_SkipsEmptyValues(t *testing.T) {
	m := map[string]interface{}{
		"id":         "",
		"contact_id": "c2",
	}
	if got := stringField(m, "id", "contact_id"); got != "c2" {
		t.Errorf("expected empty candidate skipped, got %q", got)
	}
}

func TestStringField_StringifiesNumericID(t *testing.T) {
	m := map[string]interface{}{"id": float64(1001)}
	if got := stringField(m, "id"); got != "1001" {
		t.Errorf("expected '1001', got %q", got)
	}
}
