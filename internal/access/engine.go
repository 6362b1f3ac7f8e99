package access

import (
	"golang.org/x/text/language"
)

// Engine bundles the role resolver, the module matrix and one masker per supported locale. It holds no
// per-request state.
type Engine struct {
	resolver *Resolver
	matrix   *Matrix
	maskers  map[language.Tag]*Masker
	locale   language.Tag
}

// NewEngine wires the components. locale is the default masking locale.
func NewEngine(resolver *Resolver, matrix *Matrix, locale language.Tag) *Engine {
	if resolver == nil {
		resolver = DefaultResolver()
	}
	if matrix == nil {
		matrix = DefaultMatrix()
	}

	maskers := make(map[language.Tag]*Masker, len(SupportedLocales))
	for _, tag := range SupportedLocales {
		maskers[tag] = NewMasker(tag)
	}
	if _, ok := maskers[locale]; !ok {
		locale = DefaultLocale
	}

	return &Engine{
		resolver: resolver,
		matrix:   matrix,
		maskers:  maskers,
		locale:   locale,
	}
}

// NewDefaultEngine uses the built-in group mapping, matrix and locale.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultResolver(), DefaultMatrix(), DefaultLocale)
}

func (e *Engine) Matrix() *Matrix {
	return e.matrix
}

func (e *Engine) ResolveRole(id *Identity) Role {
	return e.resolver.Resolve(id)
}

// Authorize resolves the caller's role and checks it against the module gate.
func (e *Engine) Authorize(id *Identity, module Module, required Level) Decision {
	return e.matrix.Check(e.resolver.Resolve(id), module, required)
}

// ScopeFor returns the record visibility scope of the caller.
func (e *Engine) ScopeFor(id *Identity) Scope {
	return ScopeFor(id, e.resolver.Resolve(id))
}

// Masker returns the masker for locale, or the default one when locale is not supported.
func (e *Engine) Masker(locale language.Tag) *Masker {
	if m, ok := e.maskers[locale]; ok {
		return m
	}
	return e.maskers[e.locale]
}

// Mask masks view for the caller in the default locale.
func (e *Engine) Mask(view RevenueView, id *Identity) RevenueView {
	return e.maskers[e.locale].Mask(view, e.resolver.Resolve(id))
}

// MaskFor masks view for the caller using the masker of locale.
func (e *Engine) MaskFor(view RevenueView, id *Identity, locale language.Tag) RevenueView {
	return e.Masker(locale).Mask(view, e.resolver.Resolve(id))
}

// MaskAll masks every view for the caller in locale.
func (e *Engine) MaskAll(views []RevenueView, id *Identity, locale language.Tag) []RevenueView {
	return e.Masker(locale).MaskAll(views, e.resolver.Resolve(id))
}

// Visible filters records down to what the caller may see.
func Visible[T Owned](e *Engine, records []T, id *Identity) []T {
	return FilterVisible(records, id, e.resolver.Resolve(id))
}
