// Package matcher decides whether a recipe can be cooked from a pantry
// snapshot by asking the model for a structured verdict and checking it.
package matcher

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

// DefaultStaples are never reported as missing.
var DefaultStaples = []string{"water", "tap water", "cold water", "warm water", "hot water", "boiling water"}

// Matcher runs one model call per Check. It holds no per-check state.
type Matcher struct {
	model      domain.Model
	log        *logger.Logger
	staples    map[string]bool
	stapleList []string
	cross      CrossCheckMode
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithStaples replaces the staples allow-list.
func WithStaples(names []string) Option {
	return func(m *Matcher) { m.setStaples(names) }
}

// WithCrossCheck enables the deterministic comparison against the pantry.
func WithCrossCheck(mode CrossCheckMode) Option {
	return func(m *Matcher) { m.cross = mode }
}

// New creates a matcher backed by model.
func New(model domain.Model, log *logger.Logger, opts ...Option) *Matcher {
	m := &Matcher{model: model, log: log, cross: CrossCheckOff}
	m.setStaples(DefaultStaples)
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Matcher) setStaples(names []string) {
	m.staples = make(map[string]bool, len(names))
	m.stapleList = m.stapleList[:0]
	for _, n := range names {
		key := normalize(n)
		if key == "" || m.staples[key] {
			continue
		}
		m.staples[key] = true
		m.stapleList = append(m.stapleList, key)
	}
}

// ── Public API ───────────────────────────────────────────────────

// Check returns the verdict for recipe against pantry. Output that breaks
// the verdict invariants is a contract violation, never trusted.
func (m *Matcher) Check(ctx context.Context, recipe *domain.Recipe, pantry []domain.PantryEntry) (*domain.Verdict, error) {
	if recipe == nil {
		return nil, domain.Errorf(domain.KindValidation, "matcher.check", "no recipe")
	}
	if len(recipe.Ingredients) == 0 {
		return &domain.Verdict{CanCook: true, MissingOrInsufficient: []domain.MissingItem{}}, nil
	}

	prompt := buildPrompt(recipe, pantry, m.stapleList)
	m.log.Debug("matcher: checking %q against %d pantry entries", recipe.Name, len(pantry))

	raw, err := m.model.GenerateJSON(ctx, prompt, verdictSchema())
	if err != nil {
		if domain.KindOf(err) == domain.KindUnknown {
			err = domain.WrapError(domain.KindModel, "matcher.generate", err)
		}
		return nil, err
	}

	v, err := decodeVerdict(raw)
	if err != nil {
		m.log.Error("matcher: bad verdict: %v\nraw: %s", err, raw)
		return nil, err
	}
	if err := validate(v); err != nil {
		m.log.Error("matcher: %v", err)
		return nil, err
	}

	m.dropStaples(v)

	if m.cross != CrossCheckOff {
		if issues := crossCheck(recipe, pantry, v, m.staples); len(issues) > 0 {
			for _, d := range issues {
				m.log.Warn("matcher: cross-check disagrees on %q: %s", d.Ingredient, d.Detail)
			}
			if m.cross == CrossCheckStrict {
				return nil, domain.Errorf(domain.KindContract, "matcher.crosscheck",
					"verdict disagrees with pantry on %d ingredient(s), first: %s (%s)",
					len(issues), issues[0].Ingredient, issues[0].Detail)
			}
		}
	}

	m.log.Debug("matcher: %q canCook=%t short=%d", recipe.Name, v.CanCook, len(v.MissingOrInsufficient))
	return v, nil
}

// ── Decoding & validation ────────────────────────────────────────

// wireVerdict keeps canCook optional so its absence can be reported.
type wireVerdict struct {
	CanCook               *bool                `json:"canCook"`
	MissingOrInsufficient []domain.MissingItem `json:"missingOrInsufficient"`
}

func decodeVerdict(raw string) (*domain.Verdict, error) {
	raw = stripCodeFence(raw)
	if raw == "" {
		return nil, domain.Errorf(domain.KindModel, "matcher.decode", "empty response")
	}

	var w wireVerdict
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, &domain.Error{Kind: domain.KindContract, Op: "matcher.decode", Msg: "verdict is not valid JSON", Err: err}
	}
	if w.CanCook == nil {
		return nil, domain.Errorf(domain.KindContract, "matcher.decode", "verdict has no canCook")
	}

	v := &domain.Verdict{CanCook: *w.CanCook, MissingOrInsufficient: w.MissingOrInsufficient}
	if v.MissingOrInsufficient == nil {
		v.MissingOrInsufficient = []domain.MissingItem{}
	}
	for i := range v.MissingOrInsufficient {
		it := &v.MissingOrInsufficient[i]
		it.Name = strings.TrimSpace(it.Name)
		if it.Shortfall != nil && strings.TrimSpace(*it.Shortfall) == "" {
			it.Shortfall = nil
		}
	}
	return v, nil
}

func validate(v *domain.Verdict) error {
	n := len(v.MissingOrInsufficient)
	if v.CanCook && n > 0 {
		return violation("canCook is true but %d item(s) are listed", n)
	}
	if !v.CanCook && n == 0 {
		return violation("canCook is false but nothing is listed")
	}
	for i, it := range v.MissingOrInsufficient {
		if it.Name == "" {
			return violation("item %d has no name", i)
		}
		switch it.Reason {
		case domain.ReasonMissing:
			if it.Shortfall != nil {
				return violation("%q is missing but has a shortfall", it.Name)
			}
		case domain.ReasonInsufficient:
			if it.Shortfall == nil {
				return violation("%q is insufficient but has no shortfall", it.Name)
			}
		default:
			return violation("%q has unknown reason %q", it.Name, it.Reason)
		}
	}
	return nil
}

func violation(format string, args ...any) error {
	return domain.Errorf(domain.KindContract, "matcher.validate", format, args...)
}

// dropStaples removes staples reported missing. If nothing is left the
// recipe is cookable.
func (m *Matcher) dropStaples(v *domain.Verdict) {
	kept := v.MissingOrInsufficient[:0]
	for _, it := range v.MissingOrInsufficient {
		if it.Reason == domain.ReasonMissing && m.staples[normalize(it.Name)] {
			m.log.Debug("matcher: ignoring staple %q", it.Name)
			continue
		}
		kept = append(kept, it)
	}
	v.MissingOrInsufficient = kept
	if len(kept) == 0 {
		v.CanCook = true
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
