package reports

import "time"

// forEachMonth recorre los meses naturales que tocan el intervalo
// cerrado [from, to] y llama a fn una vez por mes con la sub-ventana
// [primer día 00:00:00, último día 23:59:59] y la etiqueta YYYY-MM.
//
// La misma rutina alimenta las cuatro series mensuales; concentra aquí
// la aritmética de fin de mes para no repetirla en cada estadística.
// Un intervalo contenido en un solo mes produce exactamente una
// iteración.
func forEachMonth(from, to time.Time, fn func(label string, monthFrom, monthTo time.Time) error) error {
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	last := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())

	for !cur.After(last) {
		monthFrom := cur
		monthTo := cur.AddDate(0, 1, 0).Add(-time.Second)
		if err := fn(cur.Format("2006-01"), monthFrom, monthTo); err != nil {
			return err
		}
		cur = cur.AddDate(0, 1, 0)
	}
	return nil
}

// ageYears calcula la edad en años cumplidos a la fecha de referencia.
func ageYears(dob, at time.Time) int {
	years := at.Year() - dob.Year()
	// Si todavía no llegó el cumpleaños de este año, restar uno.
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}
