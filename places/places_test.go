package places

import (
	"errors"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		form  Form
		want  SearchQuery
		field string
	}{
		{Form{"51.5", "-0.12", "500"}, SearchQuery{51.5, -0.12, 500}, ""},
		{Form{" 1 ", " 2 ", " 0 "}, SearchQuery{1, 2, 0}, ""},
		{Form{"", "2", "10"}, SearchQuery{}, "latitude"},
		{Form{"1", "east", "10"}, SearchQuery{}, "longitude"},
		{Form{"1", "2", "ten"}, SearchQuery{}, "radius"},
		{Form{"1", "2", "10.5"}, SearchQuery{1, 2, 10}, ""},
		{Form{"1", "2", "1000.9"}, SearchQuery{1, 2, 1000}, ""},
		{Form{"1", "2", "12m"}, SearchQuery{1, 2, 12}, ""},
		{Form{"1", "2", "+7"}, SearchQuery{1, 2, 7}, ""},
		{Form{"1", "2", ".5"}, SearchQuery{}, "radius"},
		{Form{"1.5x", "2", "10"}, SearchQuery{}, "latitude"},
		{Form{"NaN", "2", "10"}, SearchQuery{}, "latitude"},
		{Form{"1", "Inf", "10"}, SearchQuery{}, "longitude"},
		{Form{"1", "2", "-5"}, SearchQuery{}, "radius"},
	}
	for _, tt := range tests {
		got, err := ParseQuery(tt.form)
		if tt.field == "" {
			if err != nil {
				t.Errorf("ParseQuery(%+v): unexpected error %v", tt.form, err)
			}
			if got != tt.want {
				t.Errorf("ParseQuery(%+v) = %+v, want %+v", tt.form, got, tt.want)
			}
			continue
		}

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("ParseQuery(%+v): expected ValidationError, got %v", tt.form, err)
			continue
		}
		if vErr.Field != tt.field {
			t.Errorf("ParseQuery(%+v): field = %q, want %q", tt.form, vErr.Field, tt.field)
		}
		if err.Error() != validationMessage {
			t.Errorf("message = %q", err.Error())
		}
	}
}
