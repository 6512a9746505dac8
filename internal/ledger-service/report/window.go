package report

import (
	"fmt"
	"time"
)

const (
	SessionMorning = "morning"
	SessionEvening = "evening"

	PeriodFirstHalf  = "first_half"
	PeriodSecondHalf = "second_half"
)

// Window é a janela temporal de um relatório, avaliada em UTC.
// As janelas 2D são fechadas no início e abertas no fim; as 3D incluem o fim
// (o limite é o último milissegundo do dia).
type Window struct {
	Start      time.Time
	End        time.Time
	IncludeEnd bool
}

func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if t.Before(w.End) {
		return true
	}
	return w.IncludeEnd && t.Equal(w.End)
}

// SessionWindow resolve a janela 2D de um dia:
// morning = [00:01:00, 12:01:00), evening = [12:02:00, 16:30:00).
// O intervalo entre 12:01 e 12:02 não pertence a nenhuma sessão.
func SessionWindow(date time.Time, session string) (Window, error) {
	y, m, d := date.UTC().Date()
	switch session {
	case SessionMorning:
		return Window{
			Start: time.Date(y, m, d, 0, 1, 0, 0, time.UTC),
			End:   time.Date(y, m, d, 12, 1, 0, 0, time.UTC),
		}, nil
	case SessionEvening:
		return Window{
			Start: time.Date(y, m, d, 12, 2, 0, 0, time.UTC),
			End:   time.Date(y, m, d, 16, 30, 0, 0, time.UTC),
		}, nil
	}
	return Window{}, fmt.Errorf("invalid session %q", session)
}

// HalfMonthWindow resolve a janela 3D de uma quinzena; month0 é 0-indexado,
// como chega da API. first_half = dia 1 até 15 23:59:59.999;
// second_half = dia 16 até o último dia do mês 23:59:59.999.
func HalfMonthWindow(year, month0 int, period string) (Window, error) {
	if month0 < 0 || month0 > 11 {
		return Window{}, fmt.Errorf("invalid month %d", month0)
	}
	m := time.Month(month0 + 1)

	switch period {
	case PeriodFirstHalf:
		return Window{
			Start:      time.Date(year, m, 1, 0, 0, 0, 0, time.UTC),
			End:        time.Date(year, m, 15, 23, 59, 59, 999e6, time.UTC),
			IncludeEnd: true,
		}, nil
	case PeriodSecondHalf:
		// último dia = véspera do dia 1 do mês seguinte (cobre 28/29/30/31)
		lastDay := time.Date(year, m+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
		return Window{
			Start:      time.Date(year, m, 16, 0, 0, 0, 0, time.UTC),
			End:        time.Date(year, m, lastDay, 23, 59, 59, 999e6, time.UTC),
			IncludeEnd: true,
		}, nil
	}
	return Window{}, fmt.Errorf("invalid period %q", period)
}
