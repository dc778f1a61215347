package domain_test

import (
	"testing"

	"github.com/cityplay/activity-booking-api/internal/domain"
)

func TestNormalizeHumanName(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"Ann", "Ann"},
		{"  Ann  ", "Ann"},
		{"Ann   Lee", "Ann Lee"},
		{" \tAnn \n Lee ", "Ann Lee"},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := domain.NormalizeHumanName(c.in); got != c.want {
			t.Errorf("NormalizeHumanName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@x.com", "ann.lee@example.org", "a-b@x-y.co"}
	for _, s := range valid {
		if !domain.ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "not-an-email", "@x.com", "a@", "a@x", "a b@x.com"}
	for _, s := range invalid {
		if domain.ValidEmail(s) {
			t.Errorf("ValidEmail(%q) = true, want false", s)
		}
	}
}

func TestValidID(t *testing.T) {
	t.Parallel()

	if !domain.ValidID("2a2e614d-2c1f-4f60-9c1f-0e6f3d2b0a11") {
		t.Error("well-formed uuid rejected")
	}
	for _, s := range []string{"", "zzz", "12345", "2a2e614d-2c1f"} {
		if domain.ValidID(s) {
			t.Errorf("ValidID(%q) = true, want false", s)
		}
	}
}
