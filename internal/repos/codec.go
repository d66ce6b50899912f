package repos

import (
	"encoding/json"
	"fmt"

	"poolhall/internal/domain"
)

// StateKey is the key the aggregate is stored under in key-value backends.
const StateKey = "pool-hall-pos:state"

func encodeState(st domain.AggregateState) ([]byte, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return b, nil
}

func decodeState(b []byte) (domain.AggregateState, error) {
	var st domain.AggregateState
	if err := json.Unmarshal(b, &st); err != nil {
		return domain.AggregateState{}, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}
