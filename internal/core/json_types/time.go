package json_types

import (
	"encoding/json"
	"fmt"

	"github.com/agendaclin/agenda-slots-engine/internal/utils"
)

// Horário HH:mm do dia da clínica
type ClockTime struct {
	Clock string
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("horário inválido: %s", string(data))
	}
	str := string(data[1 : len(data)-1])

	if _, err := utils.ClockToMinutes(str); err != nil {
		return err
	}

	*t = ClockTime{Clock: str}
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Clock)
}
