package catalog

import (
	"reflect"
	"testing"
)

func TestParseCategoryPath(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Living Room|Sectional|Stationary", []string{"Living Room", "Sectional", "Stationary"}},
		{"  Living Room | Sectional ", []string{"Living Room", "Sectional"}},
		{"category:Living Room|category:Sectional", []string{"Living Room", "Sectional"}},
		{"category:Living Room|brand:Acme|category:Sofas", []string{"Living Room", "Sofas"}},
		{"Living Room||Sofas", []string{"Living Room", "Sofas"}},
		{"", nil},
		{"   ", nil},
		{"|", nil},
		{"brand:Acme", nil},
	}
	for _, tc := range cases {
		if got := ParseCategoryPath(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseCategoryPath(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
