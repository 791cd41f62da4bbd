package statement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkipsBadRowsAndKeepsGoodOnes(t *testing.T) {
	csv := strings.Join([]string{
		"date,amount,reference,label",
		"2025-08-01,100,DEP-000123,VIR SEPA M DIOP",
		"2025-08-02,abc,DEP-000124,VIR SEPA MME FALL",
		"not-a-date,50,DEP-000125,VIR SEPA",
		`2025-08-03,"1.234,00",dep-000126,VIR SEPA GROUPE`,
	}, "\n")

	lines, bad, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, int64(100), lines[0].Amount)
	assert.Equal(t, "DEP-000123", lines[0].Reference)
	assert.Equal(t, int64(1234), lines[1].Amount)
	assert.Equal(t, "DEP-000126", lines[1].Reference, "reference is upcased")

	require.Len(t, bad, 2)
	assert.Equal(t, 3, bad[0].Line)
	assert.Equal(t, "amount", bad[0].Field)
	assert.Equal(t, 4, bad[1].Line)
	assert.Equal(t, "date", bad[1].Field)
}

func TestParseShortRowIsReportedNotFatal(t *testing.T) {
	csv := "2025-08-01,100\n2025-08-02,200,DEP-000200,VIR SEPA\n"
	lines, bad, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Len(t, bad, 1)
	assert.Equal(t, "row", bad[0].Field)
}

func TestParseFrenchDateLayout(t *testing.T) {
	lines, bad, err := Parse(strings.NewReader("01/08/2025,75,DEP-000300,VIR SEPA\n"))
	require.NoError(t, err)
	require.Empty(t, bad)
	require.Len(t, lines, 1)
	assert.Equal(t, 2025, lines[0].Date.Year())
	assert.Equal(t, int64(75), lines[0].Amount)
}
