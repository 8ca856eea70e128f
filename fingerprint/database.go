package fingerprint

import (
	"os"
	"sort"

	E "github.com/sagernet/sing/common/exceptions"
	"github.com/sagernet/sing/common/json"
)

// Match is a known fingerprint label. Similar is set when only the fuzzy
// part of the hash matched.
type Match struct {
	Hash    string `json:"hash"`
	Label   string `json:"label"`
	Similar bool   `json:"similar,omitempty"`
}

// Database labels known fingerprints.
type Database struct {
	entries map[string]string
	fuzzy   map[string][]string
}

func NewDatabase(entries map[string]string) (*Database, error) {
	database := &Database{
		entries: make(map[string]string),
		fuzzy:   make(map[string][]string),
	}
	err := database.Merge(entries)
	if err != nil {
		return nil, err
	}
	return database, nil
}

// LoadDatabase reads a JSON object mapping hashes to labels.
func LoadDatabase(path string) (*Database, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, E.Cause(err, "read fingerprint database at ", path)
	}
	entries, err := json.UnmarshalExtended[map[string]string](content)
	if err != nil {
		return nil, E.Cause(err, "decode fingerprint database at ", path)
	}
	return NewDatabase(entries)
}

func (d *Database) Merge(entries map[string]string) error {
	for hash, label := range entries {
		if !Valid(hash) {
			return E.New("invalid fingerprint: ", hash)
		}
		if hash == Zero {
			continue
		}
		if _, loaded := d.entries[hash]; !loaded {
			prefix := Fuzzy(hash)
			d.fuzzy[prefix] = append(d.fuzzy[prefix], hash)
			sort.Strings(d.fuzzy[prefix])
		}
		d.entries[hash] = label
	}
	return nil
}

func (d *Database) Len() int {
	return len(d.entries)
}

// Identify looks hash up exactly, then by its fuzzy part.
func (d *Database) Identify(hash string) (Match, bool) {
	if d == nil || hash == Zero {
		return Match{}, false
	}
	if label, loaded := d.entries[hash]; loaded {
		return Match{Hash: hash, Label: label}, true
	}
	candidates := d.fuzzy[Fuzzy(hash)]
	if len(candidates) == 0 {
		return Match{}, false
	}
	return Match{Hash: candidates[0], Label: d.entries[candidates[0]], Similar: true}, true
}
