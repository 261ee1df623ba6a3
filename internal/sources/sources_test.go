package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"

	"github.com/finscope/finscope/internal/common"
)

func testLogger() arbor.ILogger {
	return common.GetLogger()
}

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain tags", raw: "<p>Revenue grew 10%</p>", want: "Revenue grew 10%"},
		{name: "nested markup and whitespace", raw: "<div>\n  <b>Item 1.</b>\n\tBusiness  overview\n</div>", want: "Item 1. Business overview"},
		{name: "script and style dropped", raw: "<style>p{color:red}</style><script>alert(1)</script><p>kept</p>", want: "kept"},
		{name: "no markup", raw: "  already   plain  text ", want: "already plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkup(tt.raw))
		})
	}
}

func TestWindowContains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	window := Window{From: from, To: to}

	assert.True(t, window.Contains(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, window.Contains(from))
	assert.True(t, window.Contains(to))
	assert.False(t, window.Contains(from.AddDate(0, 0, -1)))
	assert.False(t, window.Contains(to.AddDate(0, 0, 1)))

	// Zero bounds leave that side open.
	assert.True(t, Window{From: from}.Contains(to.AddDate(10, 0, 0)))
	assert.True(t, Window{}.Contains(time.Time{}))
}
