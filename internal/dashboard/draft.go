// Package dashboard drives the admin dashboard's form lifecycle: a draft
// state machine over the entity repositories, a two-step delete protocol,
// per-kind cached list views, and the appointment status presentation
// mapping.
package dashboard

import (
	"sort"

	"github.com/careboard/careboard/pkg/apperr"
)

// Draft is an immutable snapshot of an in-progress form. Set returns a new
// Draft; the receiver is never mutated. The key set is fixed when the draft
// is created, so a typo can never grow the form.
type Draft struct {
	fields map[string]string
}

func newDraft(init map[string]string) Draft {
	fields := make(map[string]string, len(init))
	for k, v := range init {
		fields[k] = v
	}
	return Draft{fields: fields}
}

// Set replaces exactly one field, returning the updated draft. Keys outside
// the draft's fixed set are rejected.
func (d Draft) Set(key, value string) (Draft, error) {
	if _, ok := d.fields[key]; !ok {
		return Draft{}, apperr.Validationf("unknown form field %q", key)
	}
	next := make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		next[k] = v
	}
	next[key] = value
	return Draft{fields: next}, nil
}

func (d Draft) Get(key string) string {
	return d.fields[key]
}

// Fields returns a copy of the draft's contents.
func (d Draft) Fields() map[string]string {
	out := make(map[string]string, len(d.fields))
	for k, v := range d.fields {
		out[k] = v
	}
	return out
}

// Keys returns the draft's field names in sorted order.
func (d Draft) Keys() []string {
	keys := make([]string, 0, len(d.fields))
	for k := range d.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
