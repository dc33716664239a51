package migrate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseSQLiteTime(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{
			name: "rfc3339 from the app layer",
			in:   "2024-03-15T09:30:00Z",
			want: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "sqlite CURRENT_TIMESTAMP",
			in:   "2024-03-15 09:30:00",
			want: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "garbage falls back to zero",
			in:   "not-a-time",
			want: time.Time{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, parseSQLiteTime(tc.in).Equal(tc.want))
		})
	}
}
