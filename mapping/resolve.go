package mapping

import (
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/opacbridge/helpers"
	"github.com/lehigh-university-libraries/opacbridge/record"
)

// ResolveDocumentType returns the document type label for rec.
// When cfg.DocTypeField is set and rec has such a field with a non-blank
// value, its values joined with a space win over cfg.DefaultDocType.
func ResolveDocumentType(rec *record.Record, cfg *Config) string {
	if cfg == nil {
		return ""
	}
	if cfg.DocTypeField != "" {
		if value, ok := lookupValue(rec, cfg.DocTypeField); ok {
			return value
		}
	}
	return cfg.DefaultDocType
}

// ResolveMetadata returns the metadata pairs for rec in configured order.
// Entries whose source field is missing or blank are skipped, as are
// entries whose target kinds rejects. A nil kinds accepts every target.
func ResolveMetadata(rec *record.Record, cfg *Config, kinds FieldKindResolver) []Pair {
	if cfg == nil {
		return nil
	}

	var pairs []Pair
	for _, entry := range cfg.Metadata {
		value, ok := lookupValue(rec, entry.Source)
		if !ok {
			continue
		}

		if kinds != nil {
			if _, err := kinds.ResolveFieldKind(entry.Target); err != nil {
				slog.Warn("skipping metadata mapping", "target", entry.Target, "field", entry.Source, "error", err)
				continue
			}
		}

		pairs = append(pairs, Pair{Target: entry.Target, Value: value})
	}

	return pairs
}

// ResolvePersons returns the persons for rec in configured order. The joined
// field value is split into first and last name.
func ResolvePersons(rec *record.Record, cfg *Config, kinds FieldKindResolver) []PersonPair {
	if cfg == nil {
		return nil
	}

	var persons []PersonPair
	for _, entry := range cfg.Persons {
		value, ok := lookupValue(rec, entry.Source)
		if !ok {
			continue
		}

		if kinds != nil {
			kind, err := kinds.ResolveFieldKind(entry.Role)
			if err != nil {
				slog.Warn("skipping person mapping", "role", entry.Role, "field", entry.Source, "error", err)
				continue
			}
			if kind != KindPerson {
				slog.Warn("skipping person mapping", "role", entry.Role, "field", entry.Source, "kind", kind)
				continue
			}
		}

		name, ok := helpers.ParseName(value)
		if !ok {
			continue
		}
		persons = append(persons, PersonPair{
			Role:      entry.Role,
			FirstName: name.First,
			LastName:  name.Last,
		})
	}

	return persons
}

// Resolve maps rec completely.
func Resolve(rec *record.Record, cfg *Config, kinds FieldKindResolver) Resolved {
	return Resolved{
		DocType:  ResolveDocumentType(rec, cfg),
		Metadata: ResolveMetadata(rec, cfg, kinds),
		Persons:  ResolvePersons(rec, cfg, kinds),
	}
}

// FindExactMatch returns the first candidate that carries term verbatim in
// any value of any of its fields. Backends search fuzzily, so a candidate
// that only contains term as a substring does not qualify.
func FindExactMatch(candidates []*record.Record, searchField, term string) (*record.Record, bool) {
	for _, c := range candidates {
		if c.HasValue(term) {
			return c, true
		}
	}
	slog.Debug("no exact match", "field", searchField, "term", term, "candidates", len(candidates))
	return nil, false
}

// lookupValue returns the joined value of the first field named source.
// Blank values report false.
func lookupValue(rec *record.Record, source string) (string, bool) {
	f, ok := rec.Lookup(source)
	if !ok {
		return "", false
	}
	value := f.Joined()
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}
