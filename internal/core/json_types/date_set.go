package json_types

import (
	"encoding/json"
	"sort"
)

// Conjunto de datas ISO (YYYY-MM-DD). Internamente é um set para checagem
// O(1); na borda serializa como lista ordenada.
type DateSet map[string]struct{}

func NewDateSet(dates ...string) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

func (s DateSet) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

func (s DateSet) Add(date string) {
	s[date] = struct{}{}
}

func (s DateSet) Remove(date string) {
	delete(s, date)
}

func (s DateSet) Sorted() []string {
	dates := make([]string, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (s DateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *DateSet) UnmarshalJSON(data []byte) error {
	var dates []string
	if err := json.Unmarshal(data, &dates); err != nil {
		return err
	}
	*s = NewDateSet(dates...)
	return nil
}
