package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mauv0809/paddio-admin/internal/config"
	"github.com/mauv0809/paddio-admin/internal/export"
	"github.com/mauv0809/paddio-admin/internal/listing"
	"github.com/mauv0809/paddio-admin/internal/paddio"
)

// ErrUnknownResource is returned by Lookup for a name no entity answers to.
var ErrUnknownResource = errors.New("unknown resource")

// Op is a mutation an entity supports.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpUpdate
	OpDelete
	OpToggle
)

// Resource is the type-erased face of an Entity, used where the record type
// is only known at runtime (routes, CLI arguments).
type Resource interface {
	Name() string
	Title() string
	FilterKeys() []string
	SortFields() []string
	DefaultSort() string
	Supports(op Op) bool
	Load(ctx context.Context, api paddio.API) (Dataset, error)
}

// Dataset is a loaded collection of one resource.
type Dataset interface {
	Len() int
	Query(q listing.Query) Page
	Export(q listing.Query, opts export.Options, sink export.Sink) (export.File, error)
}

// Page is one window of a queried dataset. Items holds the typed records;
// Rows holds the same records flattened for tables.
type Page struct {
	Items      any               `json:"items"`
	Rows       []export.Row      `json:"-"`
	Total      int               `json:"total"`
	PageIndex  int               `json:"page"`
	PageSize   int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
	Sort       listing.SortState `json:"sort"`
}

// Entity binds a record type to its filters, sort keys and export mapping.
type Entity[T any] struct {
	name       string
	title      string
	ops        Op
	Predicates listing.Predicates[T]
	Sorter     listing.Sorter[T]
	Export     func(T) export.Row
	fetch      func(ctx context.Context, api paddio.API) ([]T, error)
}

func (e *Entity[T]) Name() string  { return e.name }
func (e *Entity[T]) Title() string { return e.title }

func (e *Entity[T]) FilterKeys() []string { return e.Predicates.Keys() }
func (e *Entity[T]) SortFields() []string { return e.Sorter.FieldNames() }
func (e *Entity[T]) DefaultSort() string  { return e.Sorter.Default }
func (e *Entity[T]) Supports(op Op) bool  { return e.ops&op != 0 }

// Load fetches the whole collection.
func (e *Entity[T]) Load(ctx context.Context, api paddio.API) (Dataset, error) {
	records, err := e.Fetch(ctx, api)
	if err != nil {
		return nil, err
	}
	return e.From(records), nil
}

// Fetch returns the typed records of the collection.
func (e *Entity[T]) Fetch(ctx context.Context, api paddio.API) ([]T, error) {
	if e.fetch != nil {
		return e.fetch(ctx, api)
	}
	return paddio.Collection[T](ctx, api, e.name)
}

// From wraps records that were fetched elsewhere.
func (e *Entity[T]) From(records []T) Dataset {
	return &dataset[T]{entity: e, records: records}
}

type dataset[T any] struct {
	entity  *Entity[T]
	records []T
}

func (d *dataset[T]) Len() int { return len(d.records) }

func (d *dataset[T]) Query(q listing.Query) Page {
	res := listing.Run(d.records, q, d.entity.Predicates, d.entity.Sorter)
	rows := make([]export.Row, len(res.Items))
	for i, item := range res.Items {
		rows[i] = d.entity.Export(item)
	}
	return Page{
		Items:      res.Items,
		Rows:       rows,
		Total:      res.Total,
		PageIndex:  res.PageIndex,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
		Sort:       res.Sort,
	}
}

// Export serializes every record matching q, in q's order, ignoring the page.
func (d *dataset[T]) Export(q listing.Query, opts export.Options, sink export.Sink) (export.File, error) {
	ordered := listing.Ordered(d.records, q, d.entity.Predicates, d.entity.Sorter)
	return export.Records(ordered, d.entity.Export, opts, sink)
}

// ExportOptions builds export options from a resource's configuration.
func ExportOptions(r Resource, cfg config.Resource, format export.Format, now time.Time) export.Options {
	base := cfg.Filename
	if base == "" {
		base = r.Name()
	}
	return export.Options{
		Format:       format,
		FilenameBase: base,
		Delimiter:    cfg.DelimiterRune(),
		Now:          now,
		Sheet:        r.Title(),
	}
}

var registry = map[string]Resource{}

var aliases = map[string]string{
	"administradores": "admins",
	"usuarios":        "users",
	"clubes":          "clubs",
	"canchas":         "courts",
	"partidos":        "matches",
	"reservas":        "reservations",
	"turnos":          "reservations",
	"pregame-turns":   "reservations",
	"notificaciones":  "notifications",
}

func register[T any](e *Entity[T]) *Entity[T] {
	registry[e.name] = e
	return e
}

// Names lists the registered resources in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup resolves a resource by name or Spanish alias, case-insensitively.
func Lookup(name string) (Resource, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if r, ok := registry[key]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
}

// Suggest ranks resource names close to a misspelt one: abbreviations first,
// then names within two edits.
func Suggest(name string) []string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil
	}
	candidates := Names()
	for alias := range aliases {
		candidates = append(candidates, alias)
	}

	seen := map[string]bool{}
	var out []string
	add := func(target string) {
		if canonical, ok := aliases[target]; ok {
			target = canonical
		}
		if !seen[target] {
			seen[target] = true
			out = append(out, target)
		}
	}

	ranks := fuzzy.RankFindFold(key, candidates)
	sort.Sort(ranks)
	for _, r := range ranks {
		add(r.Target)
	}

	type near struct {
		target   string
		distance int
	}
	var nearby []near
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(key, c); d <= 2 {
			nearby = append(nearby, near{c, d})
		}
	}
	slices.SortStableFunc(nearby, func(a, b near) int {
		if a.distance != b.distance {
			return a.distance - b.distance
		}
		return strings.Compare(a.target, b.target)
	})
	for _, n := range nearby {
		add(n.target)
	}
	return out
}
