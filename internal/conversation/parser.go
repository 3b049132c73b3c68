// Package conversation maps REPL input to intents and prints notifications.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/pantrypal/internal/domain"
	"github.com/hammamikhairi/pantrypal/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches short REPL commands by keyword. Anything it does
// not recognise is handed on as free text for the list agent.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	// payload is the capture group carried on the intent, 0 for none.
	payload int
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), intent: domain.IntentQuit},
		{regex: regexp.MustCompile(`(?i)^(list|ls|show( list)?|my list)$`), intent: domain.IntentShowList},
		{regex: regexp.MustCompile(`(?i)^(recipes|browse|menu)$`), intent: domain.IntentListRecipes},
		{regex: regexp.MustCompile(`(?i)^(?:check|cook|can i (?:cook|make))\s+(.+?)\??$`), intent: domain.IntentCheckRecipe, payload: 1},
		{regex: regexp.MustCompile(`(?i)^(add( them| it| all)?|yes|y|confirm)$`), intent: domain.IntentConfirmAdd},
		{regex: regexp.MustCompile(`(?i)^(cancel|never ?mind|no|n)$`), intent: domain.IntentCancel},
		{regex: regexp.MustCompile(`(?i)^(clear|clear (done|completed))$`), intent: domain.IntentClearComplete},
		{regex: regexp.MustCompile(`(?i)^(?:done|toggle|x)\s+#?(\d{1,3})$`), intent: domain.IntentToggleItem, payload: 1},
		{regex: regexp.MustCompile(`(?i)^(new|reset|start over)$`), intent: domain.IntentNewSession},
	}
	return p
}

// Parse converts user input into an intent. Empty input is
// IntentUnknown; unmatched input is IntentCommand carrying the text.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		if rule.payload > 0 {
			intent.Payload = strings.TrimSpace(m[rule.payload])
		}
		return intent, nil
	}

	return &domain.Intent{Type: domain.IntentCommand, Payload: trimmed}, nil
}
