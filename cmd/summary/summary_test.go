package summary

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fjacquet/spendscope/internal/config"
	"fjacquet/spendscope/internal/container"
	"fjacquet/spendscope/internal/logging"
	"fjacquet/spendscope/internal/store"
)

const sample = `date,description,amount
2024-01-01,RENT PAYMENT,-1500.00
2024-02-01,RENT PAYMENT,-1500.00
2024-03-01,RENT PAYMENT,-1500.00
2024-01-15,NETFLIX.COM,-15.99
2024-02-15,NETFLIX.COM,-15.99
2024-03-15,NETFLIX.COM,-15.99
2024-01-31,PAYROLL ACME CORP,4000.00
2024-02-10,SAFEWAY #1234,-84.20
`

func run(t *testing.T, opts Options) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tx.csv")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0600))
	c, err := container.NewContainerWithStore(config.Default(), store.NewMemoryKV(), logging.NewMockLogger())
	require.NoError(t, err)

	opts.Inputs = []string{path}
	var buf bytes.Buffer
	require.NoError(t, Run(c, &buf, opts))
	return buf.String()
}

func TestRun_Text(t *testing.T) {
	out := run(t, Options{})
	assert.Contains(t, out, "Period: 2024-01-01 to 2024-03-15")
	assert.Contains(t, out, "Transactions: 8")
	assert.Contains(t, out, "Housing")
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Income")
	assert.Contains(t, out, "1515.99/month")
}

func TestRun_YAMLWithExclusion(t *testing.T) {
	out := run(t, Options{Format: "yaml", Excluded: []string{"RENT PAYMENT"}})

	var decoded struct {
		Summary struct {
			Count        int    `yaml:"count"`
			TotalMonthly string `yaml:"totalMonthly"`
		} `yaml:"summary"`
		Categories []struct {
			Category string `yaml:"category"`
		} `yaml:"categories"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1, decoded.Summary.Count)
	assert.Equal(t, "15.99", decoded.Summary.TotalMonthly)
	require.NotEmpty(t, decoded.Categories)
	assert.Equal(t, "Housing", decoded.Categories[0].Category)
}
