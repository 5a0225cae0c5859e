package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFoldSandwichCSV(t *testing.T) {
	input := strings.Join([]string{
		"Sandwich Label,Ingredient Label",
		"BLT,bacon",
		"BLT,lettuce",
		"Club,turkey",
		"BLT,tomato",
		"BLT,bacon", // duplicate pair
		"Club,lettuce",
	}, "\n")

	set, err := FoldSandwichCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, []string{"BLT", "Club"}, set.Labels)
	require.Equal(t, []string{"bacon", "lettuce", "tomato"}, set.Ingredients["BLT"])
	require.Equal(t, []string{"turkey", "lettuce"}, set.Ingredients["Club"])
}

func TestFoldSandwichCSVSkipsBlankFields(t *testing.T) {
	input := "Sandwich Label,Ingredient Label\nBLT,\n,cheese\nBLT,bacon\n"
	set, err := FoldSandwichCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"BLT"}, set.Labels)
	require.Equal(t, []string{"bacon"}, set.Ingredients["BLT"])
}

func TestFoldSandwichCSVEmpty(t *testing.T) {
	_, err := FoldSandwichCSV(strings.NewReader(""))
	require.Error(t, err)
}

func TestFoldSandwichCSVBadShape(t *testing.T) {
	_, err := FoldSandwichCSV(strings.NewReader("a,b,c\n1,2,3\n"))
	require.Error(t, err)
}
