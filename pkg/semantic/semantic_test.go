package semantic

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractDaysNear(t *testing.T) {
	n, ok := ExtractDaysNear("Landlord shall return deposit within 45 days", []string{"deposit", "return"})
	assert.True(t, ok)
	assert.Equal(t, 45, n)

	_, ok = ExtractDaysNear("no numbers here at all", []string{"deposit"})
	assert.False(t, ok)
}

func TestContainsSemanticCluster(t *testing.T) {
	groups := [][]string{
		{"waive", "waiver", "relinquish"},
		{"notice", "notification"},
		{"termination", "eviction", "end"},
	}
	assert.True(t, ContainsSemanticCluster("Tenant hereby waives any right to notice of termination", groups))
	assert.False(t, ContainsSemanticCluster("Tenant receives a 30 day notice", groups))
}

func TestSnippet(t *testing.T) {
	text := "0123456789" + strRepeat("x", 100) + "target" + strRepeat("y", 100)
	pos := len(text) / 2
	s := Snippet(text, pos)
	assert.Contains(t, s, "...")
}

func strRepeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}

func TestBusinessCalendar_ThreeDayNoticeExcludesWeekends(t *testing.T) {
	// Friday Jan 5 2024 + 3 business days -> Wednesday Jan 10 2024
	notice := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	deadline := AddBusinessDays(notice, 3)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), deadline)
}

func TestBusinessCalendar_ExcludesHolidays(t *testing.T) {
	notice := time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC) // Friday
	deadline := AddBusinessDays(notice, 3)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), deadline)
}

func TestBusinessCalendar_IsHoliday(t *testing.T) {
	assert.True(t, IsHoliday(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsHoliday(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestCoords_Roundtrip(t *testing.T) {
	mb := MediaBox{0, 0, 612, 792}
	x, y := DOMToPDF(300, 396, 600, 792, mb)
	assert.InDelta(t, 306.0, x, 0.1)
	assert.InDelta(t, 396.0, y, 0.1)

	domX, domY := PDFToDOM(100, 200, 918, 1188, mb)
	backX, backY := DOMToPDF(domX, domY, 918, 1188, mb)
	assert.True(t, math.Abs(backX-100) < 1e-4)
	assert.True(t, math.Abs(backY-200) < 1e-4)
}

func TestParsePageRanges(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 5, 8, 9, 10}, ParsePageRanges("1-3, 5, 8-10", 10))
	assert.Equal(t, []int{1, 2}, ParsePageRanges("0, 1, 2", 10))
	assert.Equal(t, []int{1, 2}, ParsePageRanges("1, 1, 2, 2", 10))
	assert.Empty(t, ParsePageRanges("abc", 10))
	assert.Empty(t, ParsePageRanges("", 10))

	result := ParsePageRanges("1-20", 10)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, result)
}
