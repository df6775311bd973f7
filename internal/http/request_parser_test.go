package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"physiobudget/internal/budget"
)

func TestParseSessionAddress(t *testing.T) {
	tests := []struct {
		p, d    string
		want    sessionAddress
		wantErr bool
	}{
		{"0", "0", sessionAddress{0, 0}, false},
		{"4", "5", sessionAddress{4, 5}, false},
		{"x", "0", sessionAddress{}, true},
		{"0", "-1", sessionAddress{}, true},
		{"", "1", sessionAddress{}, true},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.SetPathValue("p", tc.p)
		r.SetPathValue("d", tc.d)
		got, err := parseSessionAddress(r)
		if tc.wantErr {
			if !errors.Is(err, budget.ErrNotFound) {
				t.Errorf("(%q,%q) expected ErrNotFound, got %v", tc.p, tc.d, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("(%q,%q) = %+v, %v", tc.p, tc.d, got, err)
		}
	}
}

func TestFormValueKeepsFreeText(t *testing.T) {
	form := url.Values{"value": {"  Sara\tAl-Ali "}, "field": {" patient "}}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if got := formValue(r, "value"); got != "  Sara\tAl-Ali " {
		t.Fatalf("formValue = %q", got)
	}
	if got := formName(r, "field"); got != "patient" {
		t.Fatalf("formName = %q", got)
	}
}
