// Package sequence contiene las reglas puras de numeración de documentos.
//
// Un número es prefijo + sufijo numérico con relleno a 4 dígitos ("V-0001").
// El siguiente número se calcula a partir del mayor sufijo existente en la serie;
// un sufijo no numérico cuenta como 0. La exclusión mutua entre creaciones
// concurrentes la aporta el bloqueo de la serie en la capa de persistencia.
package sequence

import (
	"fmt"
	"strconv"
)

// Width relleno mínimo del sufijo.
const Width = 4

// MaxDigits longitud máxima de sufijo que se interpreta; uno más largo cuenta como 0.
// La consulta de Postgres aplica el mismo límite.
const MaxDigits = 18

// Suffix extrae los dígitos finales del número. Devuelve 0 si no hay dígitos
// finales o son más de MaxDigits.
func Suffix(number string) int64 {
	i := len(number)
	for i > 0 && number[i-1] >= '0' && number[i-1] <= '9' {
		i--
	}
	if i == len(number) || len(number)-i > MaxDigits {
		return 0
	}
	n, err := strconv.ParseInt(number[i:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Format construye el número del documento.
func Format(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, Width, n)
}

// Next devuelve el número que sigue al mayor sufijo dado.
func Next(prefix string, maxSuffix int64) string {
	if maxSuffix < 0 {
		maxSuffix = 0
	}
	return Format(prefix, maxSuffix+1)
}

// MaxSuffix mayor sufijo numérico de una lista de números.
func MaxSuffix(numbers []string) int64 {
	var max int64
	for _, n := range numbers {
		if s := Suffix(n); s > max {
			max = s
		}
	}
	return max
}
