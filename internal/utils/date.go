package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToDateString formata usando os campos locais da data, nunca UTC,
// para o dia não deslizar por conversão de fuso.
func ToDateString(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek retorna o domingo 00:00 da semana da data (0=domingo)
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func daysInMonth(year int, month time.Month) int {
	// dia zero do mês seguinte é o último dia do mês
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths soma n meses mantendo o dia do mês; se o mês de destino for
// mais curto, trava no último dia dele (31/01 + 1 mês -> 28/02 ou 29/02).
func AddMonths(t time.Time, n int) time.Time {
	year := t.Year()
	month := int(t.Month()) + n
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}

	day := t.Day()
	if last := daysInMonth(year, time.Month(month)); day > last {
		day = last
	}

	return time.Date(year, time.Month(month), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ClockToMinutes converte HH:mm em minutos do dia, com validação estrita
func ClockToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("horário inválido: %q", clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("horário inválido: %q", clock)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("horário inválido: %q", clock)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("horário inválido: %q", clock)
	}

	return hour*60 + minute, nil
}

// MinutesToClock formata minutos do dia como HH:mm, dando a volta na
// meia-noite (1470 -> "00:30")
func MinutesToClock(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CalculateEndTime soma a duração ao horário de início. Retorna vazio se
// qualquer entrada estiver ausente; dá a volta na meia-noite sem nunca
// produzir hora inválida.
func CalculateEndTime(startTime string, durationMinutes *int) string {
	if startTime == "" || durationMinutes == nil {
		return ""
	}

	start, err := ClockToMinutes(startTime)
	if err != nil {
		return ""
	}

	return MinutesToClock(start + *durationMinutes)
}

// ParseDate aceita DD/MM/YYYY e YYYY-MM-DD. Combinações inválidas de
// dia/mês (31/02) são rejeitadas, nunca arredondadas.
func ParseDate(str string) (time.Time, error) {
	var year, month, day int

	switch {
	case strings.Contains(str, "/"):
		parts := strings.Split(str, "/")
		if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
		var err error
		if day, err = strconv.Atoi(parts[0]); err != nil {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
		if month, err = strconv.Atoi(parts[1]); err != nil {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
		if year, err = strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
	case strings.Contains(str, "-"):
		parts := strings.Split(str, "-")
		if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
		var err error
		if year, err = strconv.Atoi(parts[0]); err != nil {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
		if month, err = strconv.Atoi(parts[1]); err != nil {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
		if day, err = strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, fmt.Errorf("data inválida: %q", str)
		}
	default:
		return time.Time{}, fmt.Errorf("data inválida: %q", str)
	}

	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("data inválida: %q", str)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// AtClock posiciona um horário HH:mm no dia informado
func AtClock(day time.Time, clock string) (time.Time, error) {
	minutes, err := ClockToMinutes(clock)
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(day).Add(time.Duration(minutes) * time.Minute), nil
}
