package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindowSignalMark(t *testing.T) {
	tests := []struct {
		name string
		w    WindowSignal
		want string
	}{
		{"not evaluated", WindowSignal{Signal: Signal{Direction: Favorable}}, "·"},
		{"favorable", WindowSignal{Evaluated: true, Signal: Signal{Weight: 1, Direction: Favorable}}, "▼"},
		{"neutral", WindowSignal{Evaluated: true, Signal: Signal{Direction: Neutral}}, "="},
		{"unfavorable", WindowSignal{Evaluated: true, Signal: Signal{Weight: -1, Direction: Unfavorable}}, "▲"},
		{"unknown direction", WindowSignal{Evaluated: true}, "·"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.w.Mark())
		})
	}
}
