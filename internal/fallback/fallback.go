// Package fallback holds the fixed dataset served when the remote
// spreadsheet cannot be read.
package fallback

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ogahribetzz/transparansi/internal/ledger"
	"github.com/ogahribetzz/transparansi/internal/model"
)

//go:embed dataset.yaml
var defaultDataset []byte

// Dataset is one canonical collection per entity kind.
type Dataset struct {
	Transactions []model.Transaction `yaml:"transactions"`
	Programs     []model.Program     `yaml:"programs"`
	Locations    []model.MapLocation `yaml:"locations"`
	Config       model.AppConfig     `yaml:"config"`
}

// Provider hands out copies of a Dataset so callers cannot alter it.
type Provider struct {
	data Dataset
}

// NewProvider wraps a dataset.
func NewProvider(data Dataset) *Provider {
	return &Provider{data: data}
}

// Default returns a Provider over the embedded offline dataset.
func Default() *Provider {
	data, err := Parse(defaultDataset)
	if err != nil {
		panic("embedded fallback dataset: " + err.Error())
	}
	return NewProvider(data)
}

// Load reads a YAML dataset file, or a ledger export written by
// "transparansi export" when path ends in .csv. Entity kinds missing from
// the file keep the embedded defaults.
func Load(path string) (*Provider, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fallback dataset: %w", err)
	}

	var data Dataset
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		data.Transactions, err = ledger.ReadTransactions(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing fallback ledger: %w", err)
		}
	} else {
		data, err = Parse(raw)
		if err != nil {
			return nil, err
		}
	}

	def := Default().data
	if len(data.Transactions) == 0 {
		data.Transactions = def.Transactions
	}
	if len(data.Programs) == 0 {
		data.Programs = def.Programs
	}
	if len(data.Locations) == 0 {
		data.Locations = def.Locations
	}
	if data.Config == (model.AppConfig{}) {
		data.Config = def.Config
	}
	return NewProvider(data), nil
}

// Parse decodes a YAML dataset.
func Parse(raw []byte) (Dataset, error) {
	var data Dataset
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Dataset{}, fmt.Errorf("parsing fallback dataset: %w", err)
	}
	return data, nil
}

// Transactions returns the fallback transactions.
func (p *Provider) Transactions() []model.Transaction {
	return nonNil(slices.Clone(p.data.Transactions))
}

// Programs returns the fallback programs.
func (p *Provider) Programs() []model.Program {
	return nonNil(slices.Clone(p.data.Programs))
}

// Locations returns the fallback map locations.
func (p *Provider) Locations() []model.MapLocation {
	return nonNil(slices.Clone(p.data.Locations))
}

// Config returns the default presentation config.
func (p *Provider) Config() model.AppConfig {
	return p.data.Config
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
