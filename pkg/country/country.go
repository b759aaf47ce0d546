// Package country valida códigos de país ISO 3166-1 alfa-2 usando los datos CLDR de x/text.
package country

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate comprueba que code sea un alfa-2 de un país real (no grupos como EU ni uso privado como ZZ).
// Devuelve el código normalizado en mayúsculas.
func Validate(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if len(c) != 2 || c[0] < 'A' || c[0] > 'Z' || c[1] < 'A' || c[1] > 'Z' {
		return "", fmt.Errorf("country: %q no es un código alfa-2", code)
	}
	region, err := language.ParseRegion(c)
	if err != nil {
		return "", fmt.Errorf("country: %q desconocido: %w", code, err)
	}
	if !region.IsCountry() {
		return "", fmt.Errorf("country: %q no es un país", code)
	}
	return c, nil
}

// IsValid atajo booleano de Validate.
func IsValid(code string) bool {
	_, err := Validate(code)
	return err == nil
}
