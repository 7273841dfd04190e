package checkout

import "github.com/movase/bookstore/internal/correios"

// ValidCPF runs the two-pass weighted mod-11 check-digit validation.
// A CPF with all 11 digits identical is always invalid, even when the
// checksum would coincidentally hold.
func ValidCPF(cpf string) bool {
	digits := correios.OnlyDigits(cpf)
	if len(digits) != 11 {
		return false
	}

	allEqual := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return false
	}

	// First check digit: weights 10..2 over the 9 body digits
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	check := 11 - sum%11
	if check >= 10 {
		check = 0
	}
	if check != int(digits[9]-'0') {
		return false
	}

	// Second check digit: weights 11..2 over the first 10 digits
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	check = 11 - sum%11
	if check >= 10 {
		check = 0
	}
	return check == int(digits[10]-'0')
}

// FormatCPF renders a CPF as 000.000.000-00
func FormatCPF(cpf string) string {
	digits := correios.OnlyDigits(cpf)
	if len(digits) != 11 {
		return cpf
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}
