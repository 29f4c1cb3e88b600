package ranking

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKey arma la clave de agrupación de marca/producto:
// NFKC (ancho completo -> normal), case folding, trim y espacios internos colapsados.
// Solo sirve para agrupar y desempatar; lo que se muestra conserva el texto original.
func NormalizeKey(s string) string {
	s = norm.NFKC.String(s)
	// un Caser tiene estado, no se comparte entre goroutines
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}
