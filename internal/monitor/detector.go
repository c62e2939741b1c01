package monitor

import "github.com/alejandrodnm/polywatch/internal/domain"

// Detection es el resultado de clasificar un fetch contra el watermark anterior.
type Detection struct {
	New       []domain.Activity // en el orden del feed, con Timestamp ya coercionado
	Next      int64             // nunca menor que el watermark anterior
	Malformed int               // registros descartados por timestamp ausente o inválido
}

// Detect es puro: mismo watermark y mismos registros producen el mismo resultado.
// Un registro es nuevo si su timestamp es estrictamente mayor que previous.
func Detect(previous int64, fetched []domain.Activity) Detection {
	d := Detection{Next: previous}
	for _, a := range fetched {
		ts, err := a.UnixTimestamp()
		if err != nil {
			d.Malformed++
			continue
		}
		if ts <= previous {
			continue
		}
		a.Timestamp = ts
		d.New = append(d.New, a)
		if ts > d.Next {
			d.Next = ts
		}
	}
	return d
}
