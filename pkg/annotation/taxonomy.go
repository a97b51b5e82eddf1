package annotation

import (
	"sort"

	"github.com/pkg/errors"
)

//DefaultLabels maps the canonical label names to their ids
var DefaultLabels = map[string]int{
	"person":     1,
	"dog":        2,
	"car":        3,
	"truck":      4,
	"motorcycle": 5,
	"bicycle":    6,
}

//DefaultSynonyms maps labels found in third party documents to canonical labels.
//A synonym is applied only when the label itself is not part of the taxonomy.
var DefaultSynonyms = map[string]string{
	"cat":       "dog",
	"bus":       "truck",
	"motorbike": "motorcycle",
}

//Taxonomy is the read-only mapping between label names and ids shared by encoding and decoding
type Taxonomy struct {
	ids      map[string]int
	names    map[int]string
	synonyms map[string]string
}

//NewTaxonomy validates and builds a taxonomy. Ids must be positive and unique, synonyms must point to known labels.
func NewTaxonomy(labels map[string]int, synonyms map[string]string) (*Taxonomy, error) {
	if len(labels) == 0 {
		return nil, errors.New("NewTaxonomy: no labels")
	}

	t := &Taxonomy{
		ids:      make(map[string]int, len(labels)),
		names:    make(map[int]string, len(labels)),
		synonyms: make(map[string]string, len(synonyms)),
	}

	for name, id := range labels {
		if name == "" {
			return nil, errors.New("NewTaxonomy: empty label name")
		}
		if id <= 0 {
			return nil, errors.Errorf("NewTaxonomy: label '%s' has non positive id %d", name, id)
		}
		if other, ok := t.names[id]; ok {
			return nil, errors.Errorf("NewTaxonomy: labels '%s' and '%s' share id %d", other, name, id)
		}
		t.ids[name] = id
		t.names[id] = name
	}

	for from, to := range synonyms {
		if _, ok := t.ids[to]; !ok {
			return nil, errors.Errorf("NewTaxonomy: synonym '%s' points to unknown label '%s'", from, to)
		}
		t.synonyms[from] = to
	}

	return t, nil
}

//DefaultTaxonomy returns the taxonomy of the synthetic pedestrian sequences
func DefaultTaxonomy() *Taxonomy {
	t, err := NewTaxonomy(DefaultLabels, DefaultSynonyms)
	if err != nil {
		panic(err)
	}
	return t
}

//Normalize maps a synonym to its canonical label. Labels in the taxonomy are returned unchanged.
func (t *Taxonomy) Normalize(label string) string {
	if _, ok := t.ids[label]; ok {
		return label
	}
	if to, ok := t.synonyms[label]; ok {
		return to
	}
	return label
}

//Resolve normalizes label and returns its canonical name and id
func (t *Taxonomy) Resolve(label string) (string, int, error) {
	name := t.Normalize(label)
	id, ok := t.ids[name]
	if !ok {
		return "", 0, &UnresolvableLabelError{Label: label}
	}
	return name, id, nil
}

//ID returns the id of a canonical label
func (t *Taxonomy) ID(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

//Name returns the canonical label with given id
func (t *Taxonomy) Name(id int) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

//Labels returns the canonical labels ordered by id
func (t *Taxonomy) Labels() []Label {
	labels := make([]Label, 0, len(t.ids))
	for name, id := range t.ids {
		labels = append(labels, Label{Name: name, ID: id})
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].ID < labels[j].ID })
	return labels
}

//DefaultSynonymsFor returns the default synonyms whose canonical label is part of labels
func DefaultSynonymsFor(labels map[string]int) map[string]string {
	synonyms := make(map[string]string)
	for from, to := range DefaultSynonyms {
		if _, ok := labels[to]; ok {
			synonyms[from] = to
		}
	}
	return synonyms
}
