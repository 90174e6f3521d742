package template

import "github.com/custodia-labs/docket-cli/internal/core/domain"

// ParseParameterSection parses text as the body of a parameters section.
// Every token becomes one parameter name, in order, duplicates preserved.
// It cannot fail: any text, including empty text, is a valid body.
func ParseParameterSection(text string) domain.ParameterSection {
	return domain.NewParameterSection(Tokens(text))
}

func parseParameters(body []string) (domain.Section, error) {
	return domain.NewParameterSection(body), nil
}
