package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"vote_automation/domain/entities"

	"github.com/tebeka/selenium"
)

// playwrightSelector - translates a candidate into a playwright selector
func playwrightSelector(c entities.SelectorCandidate) string {
	switch c.By {
	case entities.ByID:
		return "id=" + c.Value
	case entities.ByName:
		return "css=" + cssAttr("name", c.Value)
	case entities.ByXPath:
		return "xpath=" + c.Value
	case entities.ByText:
		return "xpath=" + textXPath(c.Value)
	default:
		return "css=" + c.Value
	}
}

// seleniumBy - translates a candidate into a WebDriver strategy and value
func seleniumBy(c entities.SelectorCandidate) (string, string) {
	switch c.By {
	case entities.ByID:
		return selenium.ByID, c.Value
	case entities.ByName:
		return selenium.ByName, c.Value
	case entities.ByXPath:
		return selenium.ByXPATH, c.Value
	case entities.ByText:
		return selenium.ByXPATH, textXPath(c.Value)
	default:
		return selenium.ByCSSSelector, c.Value
	}
}

// cdpTarget is a chromedp query: a CSS selector or, when xpath is set, an XPath
type cdpTarget struct {
	sel   string
	xpath bool
}

// chromedpTarget - translates a candidate into a chromedp query
func chromedpTarget(c entities.SelectorCandidate) cdpTarget {
	switch c.By {
	case entities.ByID:
		return cdpTarget{sel: cssAttr("id", c.Value)}
	case entities.ByName:
		return cdpTarget{sel: cssAttr("name", c.Value)}
	case entities.ByXPath:
		return cdpTarget{sel: c.Value, xpath: true}
	case entities.ByText:
		return cdpTarget{sel: textXPath(c.Value), xpath: true}
	default:
		return cdpTarget{sel: c.Value}
	}
}

// jsLookup - returns a JavaScript expression evaluating to the first
// matching element or null
func (t cdpTarget) jsLookup() string {
	quoted, _ := json.Marshal(t.sel)
	if t.xpath {
		return fmt.Sprintf("document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue", quoted)
	}
	return fmt.Sprintf("document.querySelector(%s)", quoted)
}

// cssAttr - builds an exact attribute selector, e.g. [name="username"]
func cssAttr(attr, value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value)
	return fmt.Sprintf(`[%s="%s"]`, attr, escaped)
}

const (
	upperASCII = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerASCII = "abcdefghijklmnopqrstuvwxyz"
)

// textXPath - matches any element whose text contains s, ignoring ASCII case
func textXPath(s string) string {
	lowered := strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
	return fmt.Sprintf("//*[contains(translate(text(), '%s', '%s'), %s)]", upperASCII, lowerASCII, xpathLiteral(lowered))
}

// xpathLiteral - quotes s for XPath 1.0, which has no escape sequences
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
