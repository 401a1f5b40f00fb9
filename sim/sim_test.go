package sim

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lineal/kinsim/catalog"
)

// testCatalogs loads catalogs from a synthetic data directory. The
// lifeExpectancy value applies to every year, which lets tests pin
// whether lines survive to parenting age.
func testCatalogs(t *testing.T, lifeExpectancy float64) *catalog.Catalogs {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	write(catalog.FirstNamesFile, `decade,gender,name,frequency
1950s,male,James,5
1950s,male,Robert,3
1950s,male,John,2
1950s,female,Mary,5
1950s,female,Linda,3
1950s,female,Susan,2
1990s,male,Michael,5
1990s,male,David,3
1990s,female,Jessica,5
1990s,female,Ashley,3
`)

	write(catalog.LastNamesFile, `Rank,LastName,Decade
1,Smith,1950s
2,Johnson,1950s
3,Williams,1950s
1,Garcia,1990s
2,Martinez,1990s
`)

	probs := make([]string, 30)
	for i := range probs {
		probs[i] = "0.01"
	}
	probs[0], probs[1], probs[2] = "0.4", "0.2", "0.1"
	write(catalog.RankProbsFile, strings.Join(probs, ",")+"\n")

	write(catalog.RatesFile, `decade,birth_rate,marriage_rate
1950s,3.0,0.9
1990s,1.8,0.6
2050s,1.5,0.5
`)

	var le strings.Builder
	le.WriteString("Year,Period life expectancy at birth\n")
	for year := 1950; year <= 2120; year += 10 {
		fmt.Fprintf(&le, "%d,%.1f\n", year, lifeExpectancy)
	}
	write(catalog.LifeExpectancyFile, le.String())

	cats, err := catalog.LoadDir(dir)
	require.NoError(t, err)
	return cats
}
