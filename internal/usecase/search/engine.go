package search

import (
	"sort"
	"strings"

	"github.com/scgursel/kakule-katalog/internal/domain/product"
	"github.com/scgursel/kakule-katalog/internal/domain/search/filter"
	"github.com/scgursel/kakule-katalog/internal/domain/search/result"
	"github.com/scgursel/kakule-katalog/internal/domain/search/synonym"
	"github.com/scgursel/kakule-katalog/internal/domain/search/text"
)

// Per-token field weights. A token adds the weight of every field it
// matches, once per field.
const (
	weightTagExact         = 15
	weightTagPartial       = 10
	weightProductCode      = 12
	weightName             = 8
	weightWidth            = 9
	weightColor            = 7
	weightMaterial         = 6
	weightShortDescription = 4
	weightDescription      = 3

	bonusSynonym   = 5
	bonusWidthUnit = 8
)

// widthUnit is the suffix a numeric token must be followed by in tags or
// width specs to earn bonusWidthUnit ("20" -> "20mm").
const widthUnit = "mm"

// DefaultSuggestionLimit caps SuggestTags output.
const DefaultSuggestionLimit = 5

// Engine ranks and filters products against free-text queries. It holds
// configuration only; every method is a pure function of its arguments and
// safe for concurrent use.
type Engine struct {
	synonyms        *synonym.Table
	suggestionLimit int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSynonyms sets the term expansion table. nil means no expansion.
func WithSynonyms(t *synonym.Table) EngineOption {
	return func(e *Engine) { e.synonyms = t }
}

// WithSuggestionLimit overrides DefaultSuggestionLimit.
func WithSuggestionLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.suggestionLimit = n
		}
	}
}

// NewEngine creates an engine with an empty synonym table.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{suggestionLimit: DefaultSuggestionLimit}
	for _, o := range opts {
		o(e)
	}
	return e
}

// queryToken is a query term in both comparison forms.
type queryToken struct {
	raw      string
	norm     string
	numeric  bool
	synonyms []synonym.Entry
}

// foldedField is a product field in both comparison forms.
type foldedField struct {
	low  string
	norm string
}

func fold(s string) foldedField {
	if s == "" {
		return foldedField{}
	}
	return foldedField{low: strings.ToLower(s), norm: text.Normalize(s)}
}

func (f foldedField) contains(t *queryToken) bool {
	if f.low == "" {
		return false
	}
	if strings.Contains(f.low, t.raw) {
		return true
	}
	return t.norm != "" && strings.Contains(f.norm, t.norm)
}

func (f foldedField) equals(t *queryToken) bool {
	if f.low == "" {
		return false
	}
	return strings.TrimSpace(f.low) == t.raw || (t.norm != "" && f.norm == t.norm)
}

// foldedProduct caches the folded searchable fields of one product.
type foldedProduct struct {
	tags             []foldedField
	productCode      foldedField
	name             foldedField
	width            foldedField
	color            foldedField
	material         foldedField
	shortDescription foldedField
	description      foldedField
}

func foldProduct(p *product.Product) foldedProduct {
	fp := foldedProduct{
		productCode:      fold(p.ProductCode),
		name:             fold(p.Name),
		width:            fold(p.Specs.Width),
		color:            fold(p.Specs.Color),
		material:         fold(p.Specs.Material),
		shortDescription: fold(p.ShortDescription),
		description:      fold(p.Description),
	}
	if len(p.Tags) > 0 {
		fp.tags = make([]foldedField, 0, len(p.Tags))
		for _, tag := range p.Tags {
			if tag != "" {
				fp.tags = append(fp.tags, fold(tag))
			}
		}
	}
	return fp
}

func (e *Engine) prepareQuery(query string) []queryToken {
	raw := text.Tokenize(query)
	if len(raw) == 0 {
		return nil
	}
	tokens := make([]queryToken, len(raw))
	for i, r := range raw {
		tokens[i] = queryToken{
			raw:      r,
			norm:     text.Normalize(r),
			numeric:  isNumeric(r),
			synonyms: e.synonyms.Related(r),
		}
	}
	return tokens
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Search scores every product against query, drops zero scores, orders the
// rest by descending score (ties keep input order) and applies filters.
// A blank query skips scoring: matching products come back in input order
// with score 0. The input slice is never modified.
func (e *Engine) Search(products []product.Product, query string, filters filter.Set) []result.Result {
	tokens := e.prepareQuery(query)
	if len(tokens) == 0 {
		out := make([]result.Result, 0, len(products))
		for i := range products {
			if filters.Matches(&products[i]) {
				out = append(out, result.New(products[i], 0))
			}
		}
		return out
	}

	scored := make([]result.Result, 0, len(products))
	for i := range products {
		if s := e.score(&products[i], tokens); s > 0 {
			scored = append(scored, result.New(products[i], s))
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score() > scored[j].Score()
	})

	return applyFilters(scored, filters)
}

// Score returns the relevance of p for query. Blank queries score 0.
func (e *Engine) Score(p *product.Product, query string) int {
	tokens := e.prepareQuery(query)
	if len(tokens) == 0 || p == nil {
		return 0
	}
	return e.score(p, tokens)
}

func (e *Engine) score(p *product.Product, tokens []queryToken) int {
	fp := foldProduct(p)
	total := 0
	for i := range tokens {
		total += e.scoreToken(&fp, &tokens[i])
	}
	return total
}

func (e *Engine) scoreToken(fp *foldedProduct, t *queryToken) int {
	s := 0

	exact, partial := false, false
	for _, tag := range fp.tags {
		if tag.equals(t) {
			exact = true
			break
		}
		if !partial && tag.contains(t) {
			partial = true
		}
	}
	switch {
	case exact:
		s += weightTagExact
	case partial:
		s += weightTagPartial
	}

	if fp.productCode.contains(t) {
		s += weightProductCode
	}
	if fp.name.contains(t) {
		s += weightName
	}
	if fp.width.contains(t) {
		s += weightWidth
	}
	if fp.color.contains(t) {
		s += weightColor
	}
	if fp.material.contains(t) {
		s += weightMaterial
	}
	if fp.shortDescription.contains(t) {
		s += weightShortDescription
	}
	if fp.description.contains(t) {
		s += weightDescription
	}

	if e.synonymHit(fp, t) {
		s += bonusSynonym
	}
	if t.numeric && widthUnitHit(fp, t.raw+widthUnit) {
		s += bonusWidthUnit
	}
	return s
}

func (e *Engine) synonymHit(fp *foldedProduct, t *queryToken) bool {
	for i := range t.synonyms {
		for _, tag := range fp.tags {
			if t.synonyms[i].MatchesFolded(tag.low, tag.norm) {
				return true
			}
		}
	}
	return false
}

func widthUnitHit(fp *foldedProduct, needle string) bool {
	for _, tag := range fp.tags {
		if strings.Contains(tag.low, needle) {
			return true
		}
	}
	return strings.Contains(fp.width.low, needle)
}

// ApplyFilters returns the products that satisfy filters, in input order.
func (e *Engine) ApplyFilters(products []product.Product, filters filter.Set) []product.Product {
	out := make([]product.Product, 0, len(products))
	for i := range products {
		if filters.Matches(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

func applyFilters(results []result.Result, filters filter.Set) []result.Result {
	if filters.IsEmpty() {
		return results
	}
	out := results[:0]
	for i := range results {
		p := results[i].Product()
		if filters.Matches(&p) {
			out = append(out, results[i])
		}
	}
	return out
}

// SuggestTags returns up to the suggestion limit of distinct tags that
// contain partial, in first-seen order. A blank partial query suggests
// nothing.
func (e *Engine) SuggestTags(products []product.Product, partial string) []string {
	t := queryToken{raw: text.Lower(partial), norm: text.Normalize(partial)}
	if t.raw == "" {
		return []string{}
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, e.suggestionLimit)
	for i := range products {
		for _, tag := range products[i].Tags {
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}

			if fold(tag).contains(&t) {
				out = append(out, tag)
				if len(out) == e.suggestionLimit {
					return out
				}
			}
		}
	}
	return out
}

// PopularTags returns the limit most frequent tags. Ties keep first-seen
// order. limit <= 0 yields an empty list.
func (e *Engine) PopularTags(products []product.Product, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	counts := make(map[string]int)
	var order []string
	for i := range products {
		for _, tag := range products[i].Tags {
			if tag == "" {
				continue
			}
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}
