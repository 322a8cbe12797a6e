package seleniumwrapper

import (
	"strings"
)

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a string holding both quote characters is spelled with
// concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	args := make([]string, 0, 2*len(parts)-1)
	for i, p := range parts {
		if i > 0 {
			args = append(args, `'"'`)
		}
		if p != "" {
			args = append(args, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(args, ", ") + ")"
}

// The builders below take the root of the expression: "" searches the whole
// document, "." searches below the context element.

func hrefXPath(root, url string) string {
	return root + "//a[contains(@href, " + xpathLiteral(url) + ")]"
}

func imgXPath(root, alt, ext string) string {
	var conds []string
	if alt != "" {
		conds = append(conds, "contains(@alt, "+xpathLiteral(alt)+")")
	}
	if ext != "" {
		conds = append(conds, "contains(@src, "+xpathLiteral(ext)+")")
	}
	if len(conds) == 0 {
		return root + "//img"
	}
	return root + "//img[" + strings.Join(conds, " and ") + "]"
}

func textXPath(root, tag, text string, partial bool) string {
	if tag == "" {
		tag = "*"
	}
	if partial {
		return root + "//" + tag + "[contains(text(), " + xpathLiteral(text) + ")]"
	}
	return root + "//" + tag + "[text()=" + xpathLiteral(text) + "]"
}

func buttonXPath(root, value string, partial bool) string {
	lit := xpathLiteral(value)
	input := root + "//input[@type='submit' or @type='button' or @type='reset']"
	button := root + "//button"
	if partial {
		return input + "[contains(@value, " + lit + ")] | " + button + "[contains(normalize-space(.), " + lit + ")]"
	}
	return input + "[@value=" + lit + "] | " + button + "[normalize-space(.)=" + lit + "]"
}
