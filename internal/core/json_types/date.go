package json_types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// Data de calendário da clínica, sem hora. Aceita DD/MM/YYYY e YYYY-MM-DD
// na entrada; sai sempre como YYYY-MM-DD.
type Date struct {
	Date time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("data inválida: %s", string(data))
	}
	str := string(data[1 : len(data)-1])

	parsed, err := utils.ParseDate(str)
	if err != nil {
		return err
	}

	*d = Date{Date: parsed}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Date.Format("2006-01-02"))
}
