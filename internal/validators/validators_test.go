package validators

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"ana@example.com",
		"ben.lim+promo@mail.co",
		"x_y@sub.domain.org",
	}
	for _, e := range valid {
		if !IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = false, want true", e)
		}
	}

	invalid := []string{
		"",
		"not-an-email",
		"@example.com",
		"ana@",
		"ana@.com",
		"ana example@mail.com",
	}
	for _, e := range invalid {
		if IsValidEmail(e) {
			t.Errorf("IsValidEmail(%q) = true, want false", e)
		}
	}
}

func TestIsStrongPassword(t *testing.T) {
	strong := []string{"abcdefg1", "Passw0rd!", "12345678a"}
	for _, p := range strong {
		if !IsStrongPassword(p) {
			t.Errorf("IsStrongPassword(%q) = false, want true", p)
		}
	}

	weak := []string{"", "short1", "onlyletters", "12345678"}
	for _, p := range weak {
		if IsStrongPassword(p) {
			t.Errorf("IsStrongPassword(%q) = true, want false", p)
		}
	}
}
